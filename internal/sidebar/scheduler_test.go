package sidebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue(t *testing.T) {
	q := NewQueue()
	var order []int

	q.Defer(func() { order = append(order, 1) })
	q.Defer(func() {
		order = append(order, 2)
		q.Defer(func() { order = append(order, 3) })
	})
	assert.Equal(t, 2, q.Len())
	assert.Empty(t, order)

	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Drain())
}

func TestImmediate(t *testing.T) {
	ran := false
	Immediate.Defer(func() { ran = true })
	assert.True(t, ran)
}

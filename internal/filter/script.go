package filter

import (
	"fmt"
	"sync"
	"time"

	"github.com/artpar/mockdeck/internal/core"
	"github.com/dop251/goja"
)

// DefaultScriptTimeout bounds a single script evaluation.
const DefaultScriptTimeout = 50 * time.Millisecond

// Script is a compiled JavaScript filter expression such as
// `mock.status >= 500 && mock.captured`. The mock under test is bound to the
// global `mock` using its JSON field names.
type Script struct {
	mu      sync.Mutex
	source  string
	program *goja.Program
	runtime *goja.Runtime
	timeout time.Duration
}

// Compile parses a filter expression.
func Compile(source string) (*Script, error) {
	program, err := goja.Compile("filter", "("+source+")", true)
	if err != nil {
		return nil, fmt.Errorf("syntax error: %w", err)
	}

	runtime := goja.New()
	runtime.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	return &Script{
		source:  source,
		program: program,
		runtime: runtime,
		timeout: DefaultScriptTimeout,
	}, nil
}

// Source returns the expression text.
func (s *Script) Source() string {
	return s.source
}

// SetTimeout changes the per-evaluation time limit.
func (s *Script) SetTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = d
}

// Eval runs the expression against m and returns its truthiness.
func (s *Script) Eval(m *core.Mock) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runtime.ClearInterrupt()
	if err := s.runtime.Set("mock", m.View()); err != nil {
		return false, fmt.Errorf("bind mock: %w", err)
	}

	timer := time.AfterFunc(s.timeout, func() {
		s.runtime.Interrupt("filter timed out")
	})
	defer timer.Stop()

	value, err := s.runtime.RunProgram(s.program)
	if err != nil {
		if interrupted, ok := err.(*goja.InterruptedError); ok {
			return false, fmt.Errorf("execution interrupted: %v", interrupted.Value())
		}
		return false, fmt.Errorf("runtime error: %w", err)
	}

	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return false, nil
	}
	return value.ToBoolean(), nil
}

// Predicate adapts the script to a Predicate. Evaluation errors hide the mock.
func (s *Script) Predicate() Predicate {
	return func(m *core.Mock) bool {
		ok, err := s.Eval(m)
		return err == nil && ok
	}
}

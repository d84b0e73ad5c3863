package sidebar

import (
	"github.com/artpar/mockdeck/internal/core"
)

type fixture struct {
	groups []*core.Group
	mocks  []*core.Mock
	g1, g2 *core.Group
	m      map[string]*core.Mock
}

// newFixture builds G1{m1, m2}, G2{m3} and ungrouped m4.
func newFixture() *fixture {
	f := &fixture{m: make(map[string]*core.Mock)}
	f.g1 = core.NewGroupWithID("g1", "Auth")
	f.g2 = core.NewGroupWithID("g2", "Billing")
	f.groups = []*core.Group{f.g1, f.g2}

	add := func(id, name, url, group string) {
		m := core.NewMockWithID(id, name, url)
		m.SetGroupID(group)
		f.m[id] = m
		f.mocks = append(f.mocks, m)
	}
	add("m1", "Login", "/auth/login", "g1")
	add("m2", "Logout", "/auth/logout", "g1")
	add("m3", "Invoices", "/billing/invoices", "g2")
	add("m4", "Health", "/health", "")

	f.g1.SetMocks([]*core.Mock{f.m["m1"], f.m["m2"]})
	f.g2.SetMocks([]*core.Mock{f.m["m3"]})
	return f
}

func (f *fixture) list() LinearList {
	return LinearizeAll(f.groups, f.mocks, Filter{})
}

func (f *fixture) lookup(id string) (*core.Mock, bool) {
	m, ok := f.m[id]
	return m, ok
}

func keys(items []core.Item) []string {
	result := make([]string, 0, len(items))
	for _, it := range items {
		result = append(result, it.Key())
	}
	return result
}

func mockKey(id string) string  { return "mock:" + id }
func groupKey(id string) string { return "group:" + id }

// Package filter provides the predicates that narrow the mock sidebar:
// free-text queries, named presets and user scripts.
package filter

import (
	"strings"

	"github.com/artpar/mockdeck/internal/core"
)

// Predicate reports whether a mock should be shown.
type Predicate func(m *core.Mock) bool

// ContainsFold reports whether text contains query, ignoring case.
// An empty query matches everything.
func ContainsFold(text, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(query))
}

// MatchesQuery reports whether the mock's name or URL contains query.
func MatchesQuery(m *core.Mock, query string) bool {
	if query == "" {
		return true
	}
	return ContainsFold(m.URL(), query) || ContainsFold(m.Name(), query)
}

// And combines predicates; nil entries are skipped. The result is nil when
// no predicate remains, meaning "no filtering".
func And(predicates ...Predicate) Predicate {
	var active []Predicate
	for _, p := range predicates {
		if p != nil {
			active = append(active, p)
		}
	}

	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}

	return func(m *core.Mock) bool {
		for _, p := range active {
			if !p(m) {
				return false
			}
		}
		return true
	}
}

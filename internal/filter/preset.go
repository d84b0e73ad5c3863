package filter

import (
	"errors"
	"fmt"
	"sort"

	"github.com/artpar/mockdeck/internal/core"
)

// ErrUnknownPreset is returned by Preset for names not in the catalog.
var ErrUnknownPreset = errors.New("unknown filter preset")

const (
	PresetAll      = "all"
	PresetCaptured = "captured"
	PresetActive   = "active"
	PresetInactive = "inactive"
	PresetErrors   = "errors"
)

var presets = map[string]Predicate{
	PresetAll:      nil,
	PresetCaptured: func(m *core.Mock) bool { return m.Captured() },
	PresetActive:   func(m *core.Mock) bool { return m.Active() },
	PresetInactive: func(m *core.Mock) bool { return !m.Active() },
	PresetErrors:   func(m *core.Mock) bool { return m.Status() >= 400 },
}

// Preset returns the named predicate. "all" (and "") return a nil predicate.
func Preset(name string) (Predicate, error) {
	if name == "" {
		return nil, nil
	}
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// PresetCycle lists preset names in the order the sidebar cycles through them.
func PresetCycle() []string {
	return []string{PresetAll, PresetCaptured, PresetActive, PresetInactive, PresetErrors}
}

// PresetNames returns every preset name, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NextPreset returns the preset following current in PresetCycle.
func NextPreset(current string) string {
	cycle := PresetCycle()
	for i, name := range cycle {
		if name == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

package keys

import "strings"

// SequenceStatus represents the state of a key sequence.
type SequenceStatus int

const (
	SequenceNone SequenceStatus = iota
	SequencePending
	SequenceComplete
	SequenceInvalid
)

// Sequences recognises multi-key sequences like "gg".
type Sequences struct {
	sequences map[string]Action
	buffer    string
}

// NewSequences creates a handler with the default sidebar sequences.
func NewSequences() *Sequences {
	s := &Sequences{sequences: make(map[string]Action)}
	s.Register("gg", ActionTop)
	return s
}

// Register adds a sequence.
func (s *Sequences) Register(sequence string, action Action) {
	s.sequences[sequence] = action
}

// Handle appends key to the buffer and reports the outcome. The action is
// only meaningful for SequenceComplete.
func (s *Sequences) Handle(key string) (SequenceStatus, Action) {
	s.buffer += key

	if action, ok := s.sequences[s.buffer]; ok {
		for seq := range s.sequences {
			if len(seq) > len(s.buffer) && strings.HasPrefix(seq, s.buffer) {
				return SequencePending, ActionNone
			}
		}
		s.buffer = ""
		return SequenceComplete, action
	}

	for seq := range s.sequences {
		if strings.HasPrefix(seq, s.buffer) {
			return SequencePending, ActionNone
		}
	}

	s.buffer = ""
	return SequenceInvalid, ActionNone
}

// Pending reports whether a sequence is partially typed.
func (s *Sequences) Pending() bool {
	return s.buffer != ""
}

// Reset clears the sequence buffer.
func (s *Sequences) Reset() {
	s.buffer = ""
}

// Buffer returns the current sequence buffer.
func (s *Sequences) Buffer() string {
	return s.buffer
}

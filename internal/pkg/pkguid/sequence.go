package pkguid

import "sync/atomic"

// SequenceStart is the first value handed out by a fresh or reset Sequence.
const SequenceStart int64 = 1

// Sequence is a process-local, strictly increasing counter.
//
// Values are never handed out twice between resets, even if the records that
// used them have been deleted.
type Sequence struct {
	next atomic.Int64
}

// NewSequence returns a Sequence whose first value is SequenceStart.
func NewSequence() *Sequence {
	s := &Sequence{}
	s.next.Store(SequenceStart)
	return s
}

// Generate returns the next value of the sequence.
func (s *Sequence) Generate() int64 {
	return s.next.Add(1) - 1
}

// Peek returns the value the next Generate call will return.
func (s *Sequence) Peek() int64 {
	return s.next.Load()
}

// Reset restarts the sequence at SequenceStart.
func (s *Sequence) Reset() {
	s.next.Store(SequenceStart)
}

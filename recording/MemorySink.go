package recording

import (
	"sync"
)

// MemorySink captures records in memory and exposes deterministic
// snapshots. It carries a mutex only so a recording can be inspected
// while still in flight; writes themselves arrive from a single
// goroutine.
type MemorySink struct {
	mu      sync.RWMutex
	records []*Record
	closed  bool
}

var _ Sink = (*MemorySink)(nil)

func NewMemorySink() *MemorySink {
	return &MemorySink{records: make([]*Record, 0)}
}

func (s *MemorySink) Write(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, cloneRecord(rec))
	return nil
}

func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Closed returns whether Close has been called.
func (s *MemorySink) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Records returns a snapshot of everything written so far.
func (s *MemorySink) Records() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}

// OfKind returns the snapshot filtered to one record kind.
func (s *MemorySink) OfKind(kind Kind) []*Record {
	var out []*Record
	for _, rec := range s.Records() {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}

// cloneRecord copies the mutable parts of a record so later writer-side
// changes cannot alter what the sink captured.
func cloneRecord(in *Record) *Record {
	out := *in
	if in.Times != nil {
		out.Times = make(map[string]int64, len(in.Times))
		for timeline, sequence := range in.Times {
			out.Times[timeline] = sequence
		}
	}
	if in.Image != nil {
		img := *in.Image
		out.Image = &img
	}
	if in.Blueprint != nil {
		bp := *in.Blueprint
		bp.Tabs = make([]Tab, len(in.Blueprint.Tabs))
		copy(bp.Tabs, in.Blueprint.Tabs)
		out.Blueprint = &bp
	}
	return &out
}

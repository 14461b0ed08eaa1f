package recording

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Stream routes structured log entries to a fixed set of sinks. Every
// sink independently receives the same records. The sink set is given
// at construction and never changes; a stream with no sinks accepts
// all operations and discards them.
//
// A Stream is single-threaded: all methods are call-and-return on the
// caller's goroutine.
type Stream struct {
	app   string
	id    uuid.UUID
	sinks []Sink
	times map[string]int64
}

// NewStream opens a stream over the given sinks and writes the header
// record identifying the recording to each of them.
func NewStream(app string, sinks ...Sink) (*Stream, error) {
	s := &Stream{
		app:   app,
		id:    uuid.New(),
		sinks: sinks,
		times: make(map[string]int64),
	}

	header := &Record{Kind: KindHeader, App: app, Recording: s.id.String()}
	if err := s.write(header); err != nil {
		return nil, fmt.Errorf("newStream: could not write header: %v", err)
	}

	return s, nil
}

// ID returns the unique identifier of this recording.
func (s *Stream) ID() uuid.UUID {
	return s.id
}

// SetTime sets the current position on a named timeline. Every entry
// logged afterwards is stamped with this position until it changes.
func (s *Stream) SetTime(timeline string, sequence int64) {
	s.times[timeline] = sequence
}

// Log writes one entry at the given entity path to every sink.
func (s *Stream) Log(path string, entry Entry) error {
	rec := &Record{Path: path, Times: s.currentTimes()}
	if err := entry.fill(rec); err != nil {
		return fmt.Errorf("log: %v", err)
	}

	if err := s.write(rec); err != nil {
		return fmt.Errorf("log: could not write %v at %q: %v", rec.Kind,
			path, err)
	}
	return nil
}

// SendBlueprint sends a full viewer layout to every sink, replacing
// any layout sent before.
func (s *Stream) SendBlueprint(bp *Blueprint) error {
	rec := &Record{Kind: KindBlueprint, Blueprint: bp}
	if err := s.write(rec); err != nil {
		return fmt.Errorf("sendBlueprint: could not write layout: %v", err)
	}
	return nil
}

// Disconnect closes every sink. Each sink's Close is attempted even
// when an earlier one fails; the returned error joins all failures.
func (s *Stream) Disconnect() error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// write fans a record out to all sinks, attempting every sink even
// when an earlier write fails.
func (s *Stream) write(rec *Record) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Write(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// currentTimes snapshots the timeline positions so later SetTime calls
// do not retroactively change already-logged records.
func (s *Stream) currentTimes() map[string]int64 {
	if len(s.times) == 0 {
		return nil
	}
	times := make(map[string]int64, len(s.times))
	for timeline, sequence := range s.times {
		times[timeline] = sequence
	}
	return times
}

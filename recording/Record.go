// Package recording implements a structured, timeline-indexed
// recording of environment interaction. A Stream fans wire records out
// to a set of Sinks, which carry them to a file, a live viewer, or
// memory. Entries are namespaced under entity paths and stamped with
// the current position on one or more named timelines, so a viewer can
// scrub through a recording frame by frame.
package recording

// Kind discriminates the wire records a Stream emits.
type Kind uint8

const (
	// KindHeader opens a recording and carries the application and
	// recording identifiers. It is always the first record a sink
	// receives.
	KindHeader Kind = iota + 1

	// KindText is a text log entry at an entity path.
	KindText

	// KindImage is a compressed image at an entity path.
	KindImage

	// KindBlueprint carries a full viewer layout. Each blueprint
	// record replaces any previously sent layout.
	KindBlueprint
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindBlueprint:
		return "blueprint"
	default:
		return "unknown"
	}
}

// Record is the unit written to every sink of a Stream.
type Record struct {
	Kind Kind `cbor:"kind" json:"kind"`

	// App and Recording identify the stream. Header records only.
	App       string `cbor:"app,omitempty" json:"app,omitempty"`
	Recording string `cbor:"recording,omitempty" json:"recording,omitempty"`

	// Path is the entity path the entry is logged under, for example
	// "episode00001/reward". Empty for header and blueprint records.
	Path string `cbor:"path,omitempty" json:"path,omitempty"`

	// Times holds the position on every named timeline at the moment
	// the entry was logged.
	Times map[string]int64 `cbor:"times,omitempty" json:"times,omitempty"`

	Text      string     `cbor:"text,omitempty" json:"text,omitempty"`
	Image     *ImageData `cbor:"image,omitempty" json:"image,omitempty"`
	Blueprint *Blueprint `cbor:"blueprint,omitempty" json:"blueprint,omitempty"`
}

// ImageData is an encoded image payload.
type ImageData struct {
	MediaType string `cbor:"mediaType" json:"mediaType"`
	Width     int    `cbor:"width" json:"width"`
	Height    int    `cbor:"height" json:"height"`
	Data      []byte `cbor:"data" json:"data"`
}

// Sink is an independent output destination for the records of a
// Stream. Implementations are not safe for concurrent use; a Stream
// writes to its sinks from a single goroutine.
type Sink interface {
	// Write delivers one record to the destination.
	Write(rec *Record) error

	// Close flushes and disconnects the destination. A sink is not
	// usable after Close.
	Close() error
}

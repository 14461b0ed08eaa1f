package recording

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultViewerAddr is where a spawned viewer process listens for
	// incoming record streams.
	DefaultViewerAddr = "127.0.0.1:9876"

	// A freshly spawned viewer needs a moment before it accepts
	// connections, so dialing retries up to this long.
	dialTimeout  = 2 * time.Second
	dialInterval = 50 * time.Millisecond

	writeWait = 10 * time.Second
)

// ViewerSink streams records to a live viewer over a websocket
// connection. Frame compression happens before records reach the sink;
// the sink only carries the encoded bytes.
type ViewerSink struct {
	conn *websocket.Conn
}

var _ Sink = (*ViewerSink)(nil)

// NewViewerSink connects to the viewer listening at addr
// (host:port), retrying briefly to give a just-started viewer time to
// come up.
func NewViewerSink(addr string) (*ViewerSink, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/stream"}

	var conn *websocket.Conn
	var err error
	deadline := time.Now().Add(dialTimeout)
	for {
		conn, _, err = websocket.DefaultDialer.Dial(u.String(), nil)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("newViewerSink: could not connect to "+
				"viewer at %v: %v", addr, err)
		}
		time.Sleep(dialInterval)
	}

	return &ViewerSink{conn: conn}, nil
}

// Write sends one record to the viewer as a binary CBOR message.
func (s *ViewerSink) Write(rec *Record) error {
	data, err := marshalRecord(rec)
	if err != nil {
		return fmt.Errorf("write: %v", err)
	}

	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return fmt.Errorf("write: could not send record to viewer: %v", err)
	}
	return nil
}

// Close sends a close message and disconnects from the viewer.
func (s *ViewerSink) Close() error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("close: could not close viewer connection: %v", err)
	}
	return nil
}

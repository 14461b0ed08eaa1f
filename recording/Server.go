package recording

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Recordings are served on loopback without auth.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server is the embedded viewer: it accepts record streams from
// producers on /stream, re-broadcasts them as JSON to browser
// consumers on /ws, and serves a minimal page on / that displays the
// latest frame and text entries. It stands in for an external viewer
// process when a recording should be inspectable from the producing
// process itself.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	mu        sync.Mutex
	consumers map[*websocket.Conn]bool
	closed    bool
}

// NewServer listens on addr (host:port, port 0 picks a free one) and
// starts serving. The server runs until Close.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("newServer: could not listen on %v: %v", addr,
			err)
	}

	s := &Server{
		listener:  listener,
		consumers: make(map[*websocket.Conn]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.pageHandler)
	mux.HandleFunc("/stream", s.streamHandler)
	mux.HandleFunc("/ws", s.consumerHandler)
	s.httpServer = &http.Server{Handler: mux}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil &&
			err != http.ErrServerClosed {
			slog.Error("viewer server stopped", "err", err)
		}
	}()

	slog.Info("viewer serving", "addr", s.Addr())
	return s, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Close stops the server and drops all connections.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	for conn := range s.consumers {
		conn.Close()
	}
	s.consumers = make(map[*websocket.Conn]bool)
	s.mu.Unlock()

	if err := s.httpServer.Close(); err != nil {
		return fmt.Errorf("close: could not stop viewer server: %v", err)
	}
	return nil
}

// streamHandler receives binary CBOR records from a producer and fans
// them out to every connected consumer as JSON.
func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("stream upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		rec, err := unmarshalRecord(data)
		if err != nil {
			slog.Warn("dropping undecodable record", "err", err)
			continue
		}

		payload, err := json.Marshal(rec)
		if err != nil {
			slog.Warn("dropping unencodable record", "err", err)
			continue
		}
		s.broadcast(payload)
	}
}

// consumerHandler registers a browser connection for broadcasts.
func (s *Server) consumerHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("consumer upgrade failed", "err", err)
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.consumers[conn] = true
	s.mu.Unlock()

	// Reads are discarded; the read loop only notices disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.consumers, conn)
	s.mu.Unlock()
	conn.Close()
}

func (s *Server) broadcast(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.consumers {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(s.consumers, conn)
		}
	}
}

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(viewerPage))
}

const viewerPage = `<!DOCTYPE html>
<html>
<head><title>Recording Viewer</title></head>
<body>
<h1 id="title">waiting for recording…</h1>
<img id="frame" alt=""/>
<pre id="log"></pre>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (msg) => {
  const rec = JSON.parse(msg.data);
  if (rec.kind === 1) {
    document.getElementById("title").textContent = rec.app + " " + rec.recording;
  } else if (rec.kind === 2) {
    const log = document.getElementById("log");
    log.textContent = rec.path + ": " + rec.text + "\n" + log.textContent;
  } else if (rec.kind === 3 && rec.image) {
    const img = document.getElementById("frame");
    img.src = "data:" + rec.image.mediaType + ";base64," + rec.image.data;
  }
};
</script>
</body>
</html>
`

// Package web provides the HTTP status and control surface for the oven
// controller daemon: an HTML status page, a JSON snapshot, and start/stop
// endpoints that enqueue commands for the run loop.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/sweeney/oven-controller/internal/status"
)

// Command is a control request accepted over HTTP. The handlers only
// enqueue; the run loop is the sole goroutine that touches the controller,
// so commands take effect on its next pass.
type Command int

const (
	CommandStart Command = iota
	CommandStop
)

// String returns the wire name of the command.
func (c Command) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Server serves the status page and the command API over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	commands   chan<- Command
}

// New creates a Server that reads state from tracker and enqueues control
// requests on commands.
func New(addr string, tracker *status.Tracker, commands chan<- Command) *Server {
	s := &Server{tracker: tracker, commands: commands}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/api/start", s.handleCommand(CommandStart))
	mux.HandleFunc("/api/stop", s.handleCommand(CommandStop))

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

// handleCommand returns a POST handler that enqueues cmd. Enqueueing never
// blocks: if the run loop has fallen behind, the request is rejected rather
// than letting HTTP clients stall the daemon.
func (s *Server) handleCommand(cmd Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		select {
		case s.commands <- cmd:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprintf(w, "{\"accepted\":%q}\n", cmd.String())
		default:
			http.Error(w, "command queue full", http.StatusServiceUnavailable)
		}
	}
}

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"coastersim/internal/sim"
	"coastersim/internal/track"
)

type Server struct {
	eng *sim.Engine
	mux *http.ServeMux
	log zerolog.Logger
}

func NewServer(eng *sim.Engine, log zerolog.Logger) *Server {
	s := &Server{eng: eng, mux: http.NewServeMux(), log: log}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.health)
	s.mux.HandleFunc("/state", s.state)

	s.mux.HandleFunc("/command/track", s.trackCmd)
	s.mux.HandleFunc("/command/start", s.startCmd)
	s.mux.HandleFunc("/command/stop", s.stopCmd)
	s.mux.HandleFunc("/command/speed", s.speedCmd)

	s.mux.HandleFunc("/stream", s.streamSSE)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	st, err := s.eng.GetState(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}
	writeJSON(w, st)
}

func (s *Server) trackCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Points    []track.Point `json:"points"`
		Looped    bool          `json:"looped,omitempty"`
		ChainLift bool          `json:"chainLift,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if len(body.Points) < 2 {
		http.Error(w, "at least 2 points required", http.StatusBadRequest)
		return
	}

	s.eng.Submit(sim.LoadTrackCommand{
		At:        time.Now(),
		Points:    body.Points,
		Looped:    body.Looped,
		ChainLift: body.ChainLift,
	})

	writeJSON(w, map[string]any{"status": "accepted", "type": "track", "count": len(body.Points)})
}

func (s *Server) startCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	s.eng.Submit(sim.StartCommand{At: time.Now()})
	writeJSON(w, map[string]any{"status": "accepted", "type": "start"})
}

func (s *Server) stopCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	s.eng.Submit(sim.StopCommand{At: time.Now()})
	writeJSON(w, map[string]any{"status": "accepted", "type": "stop"})
}

func (s *Server) speedCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Scale float64 `json:"scale"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if body.Scale <= 0 {
		http.Error(w, "scale must be positive", http.StatusBadRequest)
		return
	}

	s.eng.Submit(sim.SpeedCommand{At: time.Now(), Scale: body.Scale})
	writeJSON(w, map[string]any{"status": "accepted", "type": "speed", "scale": body.Scale})
}

func (s *Server) streamSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	ch, unsub := s.eng.Subscribe(ctx)
	defer unsub()

	s.log.Debug().Str("remote", r.RemoteAddr).Msg("stream subscriber connected")

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-ch:
			if !ok {
				return
			}
			b, _ := json.Marshal(st)
			fmt.Fprintf(w, "event: frame\n")
			fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/rotrain/rotrain/internal/engine"
)

// Server is the local development server for interactive train design:
// it exposes the engine's three operations over HTTP so a browser-based
// client can drive optimize/simulate/defaults without linking Go.
type Server struct {
	engine      *engine.Engine
	projectPath string
	port        int
}

// New creates a server for the given project directory.
func New(eng *engine.Engine, projectPath string, port int) *Server {
	return &Server{
		engine:      eng,
		projectPath: projectPath,
		port:        port,
	}
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/optimize", s.handleOptimize)
	mux.HandleFunc("POST /api/simulate", s.handleSimulate)
	mux.HandleFunc("GET /api/defaults", s.handleDefaults)
	mux.HandleFunc("GET /", s.handleIndex)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("rotrain server starting on http://localhost%s", addr)
	log.Printf("Project: %s", s.projectPath)

	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>rotrain</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>rotrain</h1>
<p>POST a train project to /api/optimize or /api/simulate, or GET /api/defaults.</p>
</div>
</body></html>`)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	kind, ok := engine.KindOf(err)
	if !ok {
		status = http.StatusInternalServerError
	}
	s.writeJSON(w, status, map[string]string{
		"kind":  string(kind),
		"error": err.Error(),
	})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req engine.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("decoding request: %v", err)})
		return
	}

	resp, err := s.engine.Optimize(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req engine.SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("decoding request: %v", err)})
		return
	}

	resp, err := s.engine.Simulate(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	req := engine.DefaultsRequest{MembraneModel: r.URL.Query().Get("membrane_model")}
	resp, err := s.engine.Defaults(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

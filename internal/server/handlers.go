package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unyt-org/datex-go/internal/cli/output"
	"github.com/unyt-org/datex-go/internal/state"
	"github.com/unyt-org/datex-go/pkg/compiler"
)

// SourceRequest is the body of the compile endpoints.
type SourceRequest struct {
	Source string `json:"source"`
}

// CheckResponse is the result of POST /api/check.
type CheckResponse struct {
	OK          bool                `json:"ok"`
	Diagnostics []output.Diagnostic `json:"diagnostics"`
}

// RunResponse is the result of GET /api/runs/{id}.
type RunResponse struct {
	Run         output.RunInfo         `json:"run"`
	Diagnostics []state.FileDiagnostic `json:"diagnostics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) decodeSource(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req SourceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSourceBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return "", false
	}
	return req.Source, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	src, ok := s.decodeSource(w, r)
	if !ok {
		return
	}
	_, err := compiler.Compile(src, s.opts)
	diags := output.NewDiagnostics(src, compiler.Diagnostics(err))
	s.writeJSON(w, http.StatusOK, CheckResponse{OK: len(diags) == 0, Diagnostics: diags})
}

func (s *Server) handleInfer(w http.ResponseWriter, r *http.Request) {
	src, ok := s.decodeSource(w, r)
	if !ok {
		return
	}
	rich, err := compiler.Compile(src, s.opts)
	s.writeJSON(w, http.StatusOK, output.NewInferOutput(src, rich, err))
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, "check history is disabled")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]output.RunInfo, len(runs))
	for i, run := range runs {
		out[i] = output.NewRunInfo(run)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, "check history is disabled")
		return
	}
	id := chi.URLParam(r, "id")
	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, state.ErrRunNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	diags, err := s.store.RunDiagnostics(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if diags == nil {
		diags = []state.FileDiagnostic{}
	}
	s.writeJSON(w, http.StatusOK, RunResponse{Run: output.NewRunInfo(run), Diagnostics: diags})
}

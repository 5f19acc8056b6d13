// Package httpapi exposes the planning pipeline and the fact store over a
// small JSON HTTP surface.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/pautahq/pauta/internal/domain/fact"
	"github.com/pautahq/pauta/internal/planner"
	"github.com/pautahq/pauta/internal/progress"
	"github.com/pautahq/pauta/internal/repository"
)

const (
	defaultSearchLimit   = 20
	defaultProposalLimit = 10
	maxListLimit         = 100
)

// Server routes HTTP requests to the planner and repositories.
type Server struct {
	planner     *planner.Planner
	registry    *progress.Registry
	facts       repository.FactRepository
	workstreams repository.WorkstreamRepository
	proposals   repository.ProposalRepository
	logger      *slog.Logger
}

// NewServer creates the HTTP API server.
func NewServer(
	p *planner.Planner,
	registry *progress.Registry,
	facts repository.FactRepository,
	workstreams repository.WorkstreamRepository,
	proposals repository.ProposalRepository,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		planner:     p,
		registry:    registry,
		facts:       facts,
		workstreams: workstreams,
		proposals:   proposals,
		logger:      logger,
	}
}

// Handler returns the routed handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/agenda/propose", s.handlePropose)
	mux.HandleFunc("GET /api/agenda/progress/{session_id}", s.handleProgress)
	mux.HandleFunc("GET /api/agenda/proposals", s.handleListProposals)
	mux.HandleFunc("GET /api/facts/search", s.handleSearchFacts)
	mux.HandleFunc("POST /api/facts/{fact_id}/status", s.handleUpdateFactStatus)
	mux.HandleFunc("GET /api/workstreams", s.handleListWorkstreams)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type proposeRequest struct {
	OrgID           string `json:"org_id"`
	Query           string `json:"query"`
	MeetingID       string `json:"meeting_id,omitempty"`
	Subject         string `json:"subject,omitempty"`
	Language        string `json:"language,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// handlePropose launches an async planning run and returns its session id.
// Clients poll the progress endpoint for the result.
func (s *Server) handlePropose(w http.ResponseWriter, r *http.Request) {
	var req proposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.OrgID) == "" {
		writeError(w, http.StatusBadRequest, "org_id is required")
		return
	}
	if strings.TrimSpace(req.Query) == "" && strings.TrimSpace(req.Subject) == "" {
		writeError(w, http.StatusBadRequest, "query or subject is required")
		return
	}

	sessionID := s.planner.Start(r.Context(), planner.Request{
		OrgID:           req.OrgID,
		RawQuery:        req.Query,
		MeetingID:       req.MeetingID,
		Subject:         req.Subject,
		Language:        req.Language,
		DurationMinutes: req.DurationMinutes,
	})

	writeJSON(w, http.StatusAccepted, map[string]string{"session_id": sessionID})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	snap, ok := s.registry.Get(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("org_id")
	if orgID == "" {
		writeError(w, http.StatusBadRequest, "org_id is required")
		return
	}
	limit := queryLimit(r, defaultProposalLimit)

	proposals, err := s.proposals.ListByOrg(r.Context(), orgID, limit)
	if err != nil {
		s.logger.Error("listing proposals failed", "org_id", orgID, "error", err)
		writeError(w, http.StatusInternalServerError, "listing proposals failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"proposals": proposals})
}

func (s *Server) handleSearchFacts(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("org_id")
	query := r.URL.Query().Get("q")
	if orgID == "" || query == "" {
		writeError(w, http.StatusBadRequest, "org_id and q are required")
		return
	}
	var types []string
	if raw := r.URL.Query().Get("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}
	limit := queryLimit(r, defaultSearchLimit)

	facts, err := s.facts.Search(r.Context(), orgID, query, types, limit)
	if err != nil {
		s.logger.Error("fact search failed", "org_id", orgID, "error", err)
		writeError(w, http.StatusInternalServerError, "fact search failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"facts": facts})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateFactStatus(w http.ResponseWriter, r *http.Request) {
	factID := r.PathValue("fact_id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !fact.AllowedStatuses[req.Status] {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := s.facts.UpdateStatus(r.Context(), factID, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "fact not found")
			return
		}
		s.logger.Error("fact status update failed", "fact_id", factID, "error", err)
		writeError(w, http.StatusInternalServerError, "fact status update failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"fact_id": factID, "status": req.Status})
}

func (s *Server) handleListWorkstreams(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("org_id")
	if orgID == "" {
		writeError(w, http.StatusBadRequest, "org_id is required")
		return
	}
	var statuses []string
	if raw := r.URL.Query().Get("statuses"); raw != "" {
		for _, st := range strings.Split(raw, ",") {
			if st = strings.TrimSpace(st); st != "" {
				statuses = append(statuses, st)
			}
		}
	}

	workstreams, err := s.workstreams.ListByOrg(r.Context(), orgID, statuses)
	if err != nil {
		s.logger.Error("listing workstreams failed", "org_id", orgID, "error", err)
		writeError(w, http.StatusInternalServerError, "listing workstreams failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workstreams": workstreams})
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

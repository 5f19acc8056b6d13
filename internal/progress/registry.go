// Package progress tracks planning sessions for polling clients. The
// registry is the single source of truth for session state; all access goes
// through one mutex and reads return defensive copies.
package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pautahq/pauta/internal/domain/agenda"
)

// TotalSteps is the number of pipeline stages a session passes through.
// Refinement re-runs stages already counted, so the step count never exceeds
// this value.
const TotalSteps = 9

// Session statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// DefaultTTL bounds how long an orphaned session survives after its last
// update before the janitor removes it.
const DefaultTTL = 30 * time.Minute

// stepMessages are the localized progress messages shown while a stage runs.
var stepMessages = map[string]map[string]string{
	"pt-BR": {
		"parse":     "Entendendo o pedido...",
		"context":   "Analisando reuniões recentes...",
		"intent":    "Identificando o objetivo da reunião...",
		"retrieve":  "Buscando fatos relevantes...",
		"ws_status": "Consolidando o status dos workstreams...",
		"macro":     "Resumindo o contexto geral...",
		"build":     "Montando a pauta...",
		"review":    "Revisando a qualidade da pauta...",
		"finalize":  "Finalizando a proposta...",
	},
	"en-US": {
		"parse":     "Understanding the request...",
		"context":   "Analyzing recent meetings...",
		"intent":    "Identifying the meeting's purpose...",
		"retrieve":  "Retrieving relevant facts...",
		"ws_status": "Consolidating workstream status...",
		"macro":     "Summarizing the overall context...",
		"build":     "Building the agenda...",
		"review":    "Reviewing agenda quality...",
		"finalize":  "Finalizing the proposal...",
	},
}

// StepMessage returns the localized progress message for a step, falling
// back to en-US and then to the raw step name.
func StepMessage(step, language string) string {
	if msgs, ok := stepMessages[language]; ok {
		if msg, ok := msgs[step]; ok {
			return msg
		}
	}
	if msg, ok := stepMessages["en-US"][step]; ok {
		return msg
	}
	return step
}

// Snapshot is a point-in-time copy of a session's state, safe to hand to
// callers without holding the registry lock.
type Snapshot struct {
	SessionID       string           `json:"session_id"`
	Status          string           `json:"status"`
	CurrentStep     string           `json:"current_step"`
	Message         string           `json:"message"`
	CompletedSteps  []string         `json:"completed_steps"`
	TotalSteps      int              `json:"total_steps"`
	PercentComplete int              `json:"percent_complete"`
	Errors          []string         `json:"errors,omitempty"`
	Result          *agenda.Proposal `json:"result,omitempty"`
	StartedAt       time.Time        `json:"started_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type session struct {
	snapshot Snapshot
	language string
	// completedSet keeps step completion idempotent under refinement loops.
	completedSet map[string]bool
}

// Registry holds the in-flight planning sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewRegistry creates a registry with the given orphan TTL. ttl <= 0 uses
// DefaultTTL.
func NewRegistry(ttl time.Duration, logger *slog.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: map[string]*session{},
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers a new session in the running state.
func (r *Registry) Start(sessionID, language string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sessions[sessionID] = &session{
		snapshot: Snapshot{
			SessionID:  sessionID,
			Status:     StatusRunning,
			TotalSteps: TotalSteps,
			StartedAt:  now,
			UpdatedAt:  now,
		},
		language:     language,
		completedSet: map[string]bool{},
	}
}

// StepStarted marks a step as currently running with its localized message.
func (r *Registry) StepStarted(sessionID, step string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	s.snapshot.CurrentStep = step
	s.snapshot.Message = StepMessage(step, s.language)
	s.snapshot.UpdatedAt = r.now()
}

// StepCompleted records a finished step. Repeat completions of the same step
// (the refinement loop re-runs stages) do not advance the count. When every
// step has completed at least once the session flips to completed.
func (r *Registry) StepCompleted(sessionID, step string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	if !s.completedSet[step] {
		s.completedSet[step] = true
		s.snapshot.CompletedSteps = append(s.snapshot.CompletedSteps, step)
	}
	done := len(s.snapshot.CompletedSteps)
	s.snapshot.PercentComplete = done * 100 / TotalSteps
	if done >= TotalSteps {
		s.snapshot.Status = StatusCompleted
	}
	s.snapshot.UpdatedAt = r.now()
}

// RecordError appends a non-fatal error to the session. The session keeps
// running; stages degrade rather than abort.
func (r *Registry) RecordError(sessionID, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	s.snapshot.Errors = append(s.snapshot.Errors, message)
	s.snapshot.UpdatedAt = r.now()
}

// SetResult attaches the final proposal and forces the session to completed
// regardless of step bookkeeping.
func (r *Registry) SetResult(sessionID string, result *agenda.Proposal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	s.snapshot.Result = result
	s.snapshot.Status = StatusCompleted
	s.snapshot.PercentComplete = 100
	s.snapshot.UpdatedAt = r.now()
}

// Fail marks the session as failed. Only used when the pipeline cannot
// produce any agenda at all.
func (r *Registry) Fail(sessionID, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	s.snapshot.Status = StatusFailed
	s.snapshot.Message = message
	s.snapshot.Errors = append(s.snapshot.Errors, message)
	s.snapshot.UpdatedAt = r.now()
}

// Get returns a copy of the session state. The copy shares nothing mutable
// with the registry.
func (r *Registry) Get(sessionID string) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return Snapshot{}, false
	}
	out := s.snapshot
	out.CompletedSteps = append([]string(nil), s.snapshot.CompletedSteps...)
	out.Errors = append([]string(nil), s.snapshot.Errors...)
	return out, true
}

// Remove deletes a session once its result has been handed over.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Sweep removes sessions whose last update is older than the TTL and
// returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, s := range r.sessions {
		if s.snapshot.UpdatedAt.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired sessions periodically until ctx is done.
func (r *Registry) StartJanitor(ctx context.Context) {
	interval := r.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					r.logger.Debug("swept expired planning sessions", "count", n)
				}
			}
		}
	}()
}

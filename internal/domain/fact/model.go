package fact

import (
	"encoding/json"
	"strings"
	"time"
)

// Fact types consumed by the planner. Upstream ingestion may write others;
// unknown types are carried through untouched.
const (
	TypeDecision       = "decision"
	TypeDecisionNeeded = "decision_needed"
	TypeRisk           = "risk"
	TypeBlocker        = "blocker"
	TypeActionItem     = "action_item"
	TypeMilestone      = "milestone"
	TypeQuestion       = "question"
	TypeTopic          = "topic"
	TypeObjective      = "objective"
	TypeInsight        = "insight"
	TypeMetric         = "metric"
	TypeMeetingMeta    = "meeting_metadata"
)

// Fact statuses. Facts are promoted by an external validation flow; the
// planner reads all non-rejected statuses.
const (
	StatusDraft     = "draft"
	StatusProposed  = "proposed"
	StatusValidated = "validated"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

// AllowedStatuses lists every status accepted by UpdateStatus.
var AllowedStatuses = map[string]bool{
	StatusDraft:     true,
	StatusProposed:  true,
	StatusValidated: true,
	StatusPublished: true,
	StatusRejected:  true,
}

// Fact is an org-scoped unit of evidence gathered from meetings.
type Fact struct {
	ID             string          `json:"fact_id"`
	OrgID          string          `json:"org_id"`
	Type           string          `json:"fact_type"`
	Status         string          `json:"status"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Confidence     float64         `json:"confidence"`
	DueAt          *time.Time      `json:"due_at,omitempty"`
	WorkstreamID   string          `json:"workstream_id,omitempty"`
	MeetingID      string          `json:"meeting_id,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// payloadTextKeys in preference order when extracting a short display text.
var payloadTextKeys = []string{"subject", "title", "name", "headline", "summary", "text"}

// Text returns a short human-readable text for the fact, taken from the
// first non-empty well-known payload key. Empty when the payload has none.
func (f *Fact) Text() string {
	fields := f.PayloadMap()
	for _, key := range payloadTextKeys {
		if v, ok := fields[key].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				if r := []rune(s); len(r) > 160 {
					return string(r[:159]) + "…"
				}
				return s
			}
		}
	}
	return ""
}

// Owner returns the payload owner field, if present.
func (f *Fact) Owner() string {
	if v, ok := f.PayloadMap()["owner"].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// PayloadMap decodes the payload into a map. Malformed payloads decode to an
// empty map rather than failing; the planner treats payloads as best-effort.
func (f *Fact) PayloadMap() map[string]any {
	if len(f.Payload) == 0 {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(f.Payload, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// Overdue reports whether the fact has a due date in the past relative to now.
func (f *Fact) Overdue(now time.Time) bool {
	return f.DueAt != nil && f.DueAt.Before(now)
}

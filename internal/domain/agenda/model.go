package agenda

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Bullet is a single actionable line in an agenda item. Refs link back to the
// supporting fact ids.
type Bullet struct {
	Text  string   `json:"text"`
	Why   string   `json:"why,omitempty"`
	Owner string   `json:"owner,omitempty"`
	Due   string   `json:"due,omitempty"`
	Refs  []string `json:"refs,omitempty"`
}

// Item groups bullets under a heading inside a section.
type Item struct {
	Heading string   `json:"heading"`
	Bullets []Bullet `json:"bullets"`
}

// Section is a time-boxed part of the agenda.
type Section struct {
	Title   string `json:"title"`
	Minutes int    `json:"minutes"`
	Items   []Item `json:"items"`
}

// Agenda is the planner's final artifact: a titled, time-boxed set of
// sections. Minutes always equals the sum of section minutes after
// reconciliation.
type Agenda struct {
	Title    string       `json:"title"`
	Minutes  int          `json:"minutes"`
	Sections []Section    `json:"sections"`
	Metadata *RunMetadata `json:"metadata,omitempty"`
}

// RunMetadata captures how the agenda was produced, attached at finalization.
type RunMetadata struct {
	Intent              string             `json:"intent"`
	IntentConfidence    float64            `json:"intent_confidence"`
	QualityScore        float64            `json:"quality_score"`
	RefinementCount     int                `json:"refinement_count"`
	MacroSummary        string             `json:"macro_summary,omitempty"`
	Workstreams         []string           `json:"workstreams,omitempty"`
	RetrievalStats      map[string]int     `json:"retrieval_stats,omitempty"`
	StageTimings        map[string]float64 `json:"stage_timings,omitempty"`
	SupportingFactIDs   []string           `json:"supporting_fact_ids,omitempty"`
	Errors              []string           `json:"errors,omitempty"`
	GeneratedAt         time.Time          `json:"generated_at"`
}

// Proposal is the persisted artifact: an agenda plus the request context that
// produced it, keyed for idempotent storage.
type Proposal struct {
	ID             string    `json:"proposal_id"`
	OrgID          string    `json:"org_id"`
	MeetingID      string    `json:"meeting_id,omitempty"`
	Subject        string    `json:"subject,omitempty"`
	Agenda         Agenda    `json:"agenda"`
	IdempotencyKey string    `json:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IdempotencyKey derives a stable hash of the proposal identity so repeated
// identical planning requests update rather than duplicate a stored row.
func IdempotencyKey(orgID, meetingID, subject string, a Agenda) string {
	h := sha256.New()
	// NUL-delimited so field boundaries cannot shift between inputs.
	h.Write([]byte(orgID))
	h.Write([]byte{0})
	h.Write([]byte(meetingID))
	h.Write([]byte{0})
	h.Write([]byte(subject))
	h.Write([]byte{0})
	// Run metadata carries timings and timestamps; hashing it would make
	// every run look distinct. Only the agenda content identifies it.
	a.Metadata = nil
	body, _ := json.Marshal(a)
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// FactCount returns the number of distinct fact refs across all bullets.
func (a Agenda) FactCount() int {
	seen := map[string]bool{}
	for _, sec := range a.Sections {
		for _, item := range sec.Items {
			for _, b := range item.Bullets {
				for _, ref := range b.Refs {
					seen[ref] = true
				}
			}
		}
	}
	return len(seen)
}

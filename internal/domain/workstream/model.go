package workstream

import "time"

// Workstream statuses follow a traffic-light convention.
const (
	StatusGreen  = "green"
	StatusYellow = "yellow"
	StatusRed    = "red"
)

// Workstream is a named unit of ongoing work used to scope retrieval and
// intent detection. The planner never creates workstreams; they are managed
// by upstream tooling.
type Workstream struct {
	ID          string    `json:"workstream_id"`
	OrgID       string    `json:"org_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    int       `json:"priority"`
	Owner       string    `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

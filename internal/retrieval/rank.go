package retrieval

import (
	"sort"
	"time"

	"github.com/pautahq/pauta/internal/domain/fact"
)

// typeImpact weights reflect how much a fact type tends to matter in a
// meeting. Unknown types get a low default rather than zero so they are not
// buried entirely.
var typeImpact = map[string]float64{
	fact.TypeDecision:       1.0,
	fact.TypeDecisionNeeded: 1.0,
	fact.TypeBlocker:        1.0,
	fact.TypeRisk:           0.9,
	fact.TypeActionItem:     0.8,
	fact.TypeMilestone:      0.7,
	fact.TypeQuestion:       0.6,
	fact.TypeObjective:      0.6,
	fact.TypeInsight:        0.5,
	fact.TypeMetric:         0.5,
	fact.TypeTopic:          0.4,
}

const defaultTypeImpact = 0.3

// coverageSaturation is the cluster size at which the coverage signal maxes
// out.
const coverageSaturation = 6

type cluster struct {
	key     string
	members []fact.Fact
	score   float64
}

// RankDeterministic orders facts without any external service. Facts are
// clustered by normalized text, each cluster is scored on urgency, type
// impact, recency, confidence and coverage, and clusters are flattened in
// score order. The result is fully deterministic for a given input and
// reference time.
func RankDeterministic(facts []fact.Fact, now time.Time) []fact.Fact {
	if len(facts) == 0 {
		return nil
	}

	byKey := map[string]*cluster{}
	var order []*cluster
	for _, f := range facts {
		key := NormalizeText(f.Text())
		if key == "" {
			// Facts with no usable text stand alone.
			key = "id:" + f.ID
		}
		c, ok := byKey[key]
		if !ok {
			c = &cluster{key: key}
			byKey[key] = c
			order = append(order, c)
		}
		c.members = append(c.members, f)
	}

	for _, c := range order {
		c.score = scoreCluster(c.members, now)
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.score != b.score {
			return a.score > b.score
		}
		aDue, bDue := earliestDue(a.members), earliestDue(b.members)
		if !equalTimePtr(aDue, bDue) {
			if aDue == nil {
				return false
			}
			if bDue == nil {
				return true
			}
			return aDue.Before(*bDue)
		}
		aNew, bNew := newestCreated(a.members), newestCreated(b.members)
		if !aNew.Equal(bNew) {
			return aNew.After(bNew)
		}
		return a.key < b.key
	})

	var out []fact.Fact
	for _, c := range order {
		members := append([]fact.Fact(nil), c.members...)
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].CreatedAt.After(members[j].CreatedAt)
		})
		out = append(out, members...)
	}
	return out
}

// scoreCluster computes the weighted relevance score:
// 0.35*urgency + 0.25*typeImpact + 0.20*recency + 0.10*confidence + 0.10*coverage.
func scoreCluster(members []fact.Fact, now time.Time) float64 {
	urgency := 0.0
	impactSum := 0.0
	confSum := 0.0
	for _, f := range members {
		if u := urgencyScore(f.DueAt, now); u > urgency {
			urgency = u
		}
		impact, ok := typeImpact[f.Type]
		if !ok {
			impact = defaultTypeImpact
		}
		impactSum += impact
		confSum += f.Confidence
	}
	n := float64(len(members))
	recency := recencyScore(newestCreated(members), now)
	coverage := n / coverageSaturation
	if coverage > 1 {
		coverage = 1
	}
	return 0.35*urgency + 0.25*(impactSum/n) + 0.20*recency + 0.10*(confSum/n) + 0.10*coverage
}

// urgencyScore steps down with days remaining until the due date. Overdue
// and due-today facts score highest; facts without a due date score lowest.
func urgencyScore(due *time.Time, now time.Time) float64 {
	if due == nil {
		return 0.1
	}
	days := due.Sub(now).Hours() / 24
	switch {
	case days <= 0:
		return 1.0
	case days <= 3:
		return 0.9
	case days <= 7:
		return 0.7
	case days <= 14:
		return 0.5
	default:
		return 0.3
	}
}

// recencyScore decays with the age of the newest cluster member, halving
// roughly every week.
func recencyScore(created time.Time, now time.Time) float64 {
	ageDays := now.Sub(created).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return 1 / (1 + ageDays/7)
}

func earliestDue(members []fact.Fact) *time.Time {
	var earliest *time.Time
	for _, f := range members {
		if f.DueAt == nil {
			continue
		}
		if earliest == nil || f.DueAt.Before(*earliest) {
			earliest = f.DueAt
		}
	}
	return earliest
}

func newestCreated(members []fact.Fact) time.Time {
	var newest time.Time
	for _, f := range members {
		if f.CreatedAt.After(newest) {
			newest = f.CreatedAt
		}
	}
	return newest
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

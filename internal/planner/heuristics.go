package planner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pautahq/pauta/internal/domain/agenda"
	"github.com/pautahq/pauta/internal/domain/fact"
	"github.com/pautahq/pauta/internal/domain/plan"
	"github.com/pautahq/pauta/internal/reasoning"
)

// portugueseMarkers are common Portuguese tokens used for language detection.
// Accented characters alone already give Portuguese away in most queries.
var portugueseMarkers = []string{
	"reunião", "reuniao", "pauta", "próxima", "proxima", "semana", "sobre",
	"para", "com", "uma", "monte", "crie", "gere", "equipe", "discutir",
	"segunda", "terça", "quarta", "quinta", "sexta", "minutos", "hora",
}

var englishMarkers = []string{
	"meeting", "agenda", "next", "week", "about", "with", "the", "for",
	"prepare", "create", "generate", "team", "discuss", "monday", "tuesday",
	"wednesday", "thursday", "friday", "minutes", "hour",
}

// DetectLanguage guesses pt-BR or en-US from marker-word counts. Ties and
// empty input default to pt-BR.
func DetectLanguage(text string) string {
	lower := " " + strings.ToLower(text) + " "
	pt, en := 0, 0
	for _, m := range portugueseMarkers {
		if strings.Contains(lower, " "+m+" ") {
			pt++
		}
	}
	for _, m := range englishMarkers {
		if strings.Contains(lower, " "+m+" ") {
			en++
		}
	}
	for _, r := range lower {
		switch r {
		case 'ã', 'õ', 'ç', 'á', 'é', 'í', 'ó', 'ú', 'â', 'ê', 'ô', 'à':
			pt += 2
		}
	}
	if en > pt {
		return "en-US"
	}
	return "pt-BR"
}

var (
	minutesRe  = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:min|mins|minutos?|minutes?)\b`)
	hoursRe    = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:h|horas?|hours?)\b`)
	halfHourRe = regexp.MustCompile(`(?i)\b(?:meia\s+hora|half\s+(?:an\s+)?hour)\b`)
	oneHourRe  = regexp.MustCompile(`(?i)\b(?:uma\s+hora|an\s+hour|one\s+hour)\b`)
)

// extractDuration pulls a meeting duration in minutes out of free text.
// Returns 0 when none is mentioned.
func extractDuration(text string) int {
	if m := minutesRe.FindStringSubmatch(text); m != nil {
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		return clampDuration(n)
	}
	if m := hoursRe.FindStringSubmatch(text); m != nil {
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		return clampDuration(n * 60)
	}
	if halfHourRe.MatchString(text) {
		return 30
	}
	if oneHourRe.MatchString(text) {
		return 60
	}
	return 0
}

func clampDuration(minutes int) int {
	if minutes < 5 {
		return 5
	}
	if minutes > 480 {
		return 480
	}
	return minutes
}

// subjectMarkers introduce the topic in a planning request, longest first so
// "a respeito de" wins over "de".
var subjectMarkers = []string{
	"a respeito de ", "para discutirmos ", "para discutir ", "para falar de ",
	"para falar sobre ", "sobre ", "to discuss ", "regarding ", "about ",
}

// trailingNoiseRe strips duration phrases and dangling connectives left at
// the end of an extracted subject.
var trailingNoiseRe = regexp.MustCompile(`(?i)[\s,;:.]*(?:(?:de|com|of|with|for|lasting)\s+)?(?:\d{1,3}\s*(?:min|mins|minutos?|minutes?|h|horas?|hours?)|meia\s+hora|half\s+(?:an\s+)?hour|uma\s+hora|an\s+hour|one\s+hour)[\s,;:.]*$`)

// extractSubject finds the topic after a marker phrase. Returns "" when the
// query never names one.
func extractSubject(text string) string {
	lower := strings.ToLower(text)
	for _, marker := range subjectMarkers {
		idx := strings.Index(lower, marker)
		if idx < 0 {
			continue
		}
		candidate := text[idx+len(marker):]
		candidate = trailingNoiseRe.ReplaceAllString(candidate, "")
		candidate = strings.Trim(candidate, " \t\n.,;:!?")
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// ParseHeuristic is the deterministic reading of a planning request, used
// when the reasoning service cannot parse it.
func ParseHeuristic(rawQuery string) reasoning.ParseResult {
	return reasoning.ParseResult{
		Subject:         extractSubject(rawQuery),
		Language:        DetectLanguage(rawQuery),
		DurationMinutes: extractDuration(rawQuery),
	}
}

// heuristicContextSummary is the templated stand-in for the context analysis.
func heuristicContextSummary(state *plan.State) string {
	n := len(state.RecentMeetings)
	if state.Language == "en-US" {
		if n == 0 {
			return "No recent meeting history available."
		}
		return fmt.Sprintf("%d recent meeting(s) on record, %d open item(s) carried over.", n, len(state.OpenItems))
	}
	if n == 0 {
		return "Sem histórico recente de reuniões."
	}
	return fmt.Sprintf("%d reunião(ões) recente(s) registrada(s), %d item(ns) em aberto.", n, len(state.OpenItems))
}

// heuristicStatusSummary lists the selected workstreams with their health.
func heuristicStatusSummary(state *plan.State) string {
	var b strings.Builder
	for _, ws := range state.SelectedWorkstreams {
		fmt.Fprintf(&b, "- %s (%s)\n", ws.Title, ws.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

// heuristicMacroSummary is the one-line meeting framing used when the
// reasoning service is down.
func heuristicMacroSummary(state *plan.State) string {
	subject := state.Subject
	if state.Language == "en-US" {
		if subject == "" {
			return "Meeting to align the team on current work."
		}
		return fmt.Sprintf("Meeting to discuss %s.", subject)
	}
	if subject == "" {
		return "Reunião para alinhamento geral da equipe."
	}
	return fmt.Sprintf("Reunião para discutir %s.", subject)
}

func defaultTitle(subject, language string) string {
	if language == "en-US" {
		if subject == "" {
			return "Meeting Agenda"
		}
		return "Agenda: " + subject
	}
	if subject == "" {
		return "Pauta da Reunião"
	}
	return "Pauta: " + subject
}

// sectionFactTypes maps template section types to the fact types that feed
// them.
var sectionFactTypes = map[string][]string{
	"decisions":   {fact.TypeDecisionNeeded, fact.TypeDecision},
	"problems":    {fact.TypeBlocker, fact.TypeRisk},
	"blockers":    {fact.TypeBlocker, fact.TypeRisk},
	"solutions":   {fact.TypeInsight},
	"impacts":     {fact.TypeRisk, fact.TypeInsight},
	"status":      {fact.TypeMetric, fact.TypeMilestone},
	"metrics":     {fact.TypeMetric},
	"milestones":  {fact.TypeMilestone},
	"questions":   {fact.TypeQuestion, fact.TypeTopic},
	"objectives":  {fact.TypeObjective},
	"roadmap":     {fact.TypeMilestone, fact.TypeObjective},
	"scope":       {fact.TypeObjective, fact.TypeTopic},
	"next_period": {fact.TypeActionItem, fact.TypeMilestone},
	"next_steps":  {fact.TypeActionItem},
	"actions":     {fact.TypeActionItem},
}

const maxBulletsPerSection = 5

// buildHeuristicAgenda drafts an agenda without the reasoning service:
// template sections get filled with ranked facts by type, the opening gets
// the macro summary, and open items land in the closing section.
func buildHeuristicAgenda(state *plan.State, tpl agenda.Template) agenda.Agenda {
	a := agenda.Agenda{
		Title:   defaultTitle(state.Subject, state.Language),
		Minutes: state.DurationMinutes,
	}

	used := map[string]bool{}
	for _, ts := range tpl.Sections {
		sec := agenda.Section{
			Title:   ts.Title,
			Minutes: int(float64(state.DurationMinutes) * ts.TimePct),
		}

		switch ts.Type {
		case "opening":
			sec.Items = append(sec.Items, agenda.Item{
				Heading: ts.Title,
				Bullets: []agenda.Bullet{{Text: state.MacroSummary}},
			})
		case "context":
			bullets := []agenda.Bullet{{Text: state.MeetingSummary}}
			if state.WorkstreamStatusSummary != "" {
				bullets = append(bullets, agenda.Bullet{Text: state.WorkstreamStatusSummary})
			}
			sec.Items = append(sec.Items, agenda.Item{Heading: ts.Title, Bullets: bullets})
		default:
			bullets := factBullets(state.RankedFacts, sectionFactTypes[ts.Type], used)
			if ts.Type == "next_steps" || ts.Type == "actions" {
				bullets = append(bullets, openItemBullets(state.OpenItems)...)
			}
			if len(bullets) > maxBulletsPerSection {
				bullets = bullets[:maxBulletsPerSection]
			}
			if len(bullets) > 0 {
				sec.Items = append(sec.Items, agenda.Item{Heading: ts.Title, Bullets: bullets})
			}
		}
		a.Sections = append(a.Sections, sec)
	}

	spreadLeftoverFacts(&a, tpl, state.RankedFacts, used)
	return a
}

// factBullets consumes unused ranked facts of the wanted types, in rank
// order.
func factBullets(ranked []fact.Fact, wantTypes []string, used map[string]bool) []agenda.Bullet {
	if len(wantTypes) == 0 {
		return nil
	}
	want := map[string]bool{}
	for _, t := range wantTypes {
		want[t] = true
	}
	var bullets []agenda.Bullet
	for i := range ranked {
		f := &ranked[i]
		if used[f.ID] || !want[f.Type] {
			continue
		}
		text := f.Text()
		if text == "" {
			continue
		}
		used[f.ID] = true
		b := agenda.Bullet{Text: text, Owner: f.Owner(), Refs: []string{f.ID}}
		if f.DueAt != nil {
			b.Due = f.DueAt.Format("2006-01-02")
		}
		bullets = append(bullets, b)
		if len(bullets) >= maxBulletsPerSection {
			break
		}
	}
	return bullets
}

func openItemBullets(items []plan.OpenItem) []agenda.Bullet {
	var bullets []agenda.Bullet
	for _, item := range items {
		bullets = append(bullets, agenda.Bullet{Text: item.Text, Why: item.FromMeeting})
		if len(bullets) >= maxBulletsPerSection {
			break
		}
	}
	return bullets
}

// spreadLeftoverFacts places top-ranked facts that matched no section into
// the largest non-boilerplate section, so high-signal facts are never lost.
func spreadLeftoverFacts(a *agenda.Agenda, tpl agenda.Template, ranked []fact.Fact, used map[string]bool) {
	target := -1
	best := 0.0
	for i, ts := range tpl.Sections {
		if ts.Type == "opening" || ts.Type == "context" || ts.Type == "next_steps" || ts.Type == "actions" {
			continue
		}
		if ts.TimePct > best {
			best = ts.TimePct
			target = i
		}
	}
	if target < 0 || target >= len(a.Sections) {
		return
	}

	var bullets []agenda.Bullet
	for i := range ranked {
		f := &ranked[i]
		if used[f.ID] {
			continue
		}
		text := f.Text()
		if text == "" {
			continue
		}
		used[f.ID] = true
		bullets = append(bullets, agenda.Bullet{Text: text, Owner: f.Owner(), Refs: []string{f.ID}})
		if len(bullets) >= maxBulletsPerSection {
			break
		}
	}
	if len(bullets) == 0 {
		return
	}

	sec := &a.Sections[target]
	if len(sec.Items) == 0 {
		sec.Items = append(sec.Items, agenda.Item{Heading: sec.Title})
	}
	item := &sec.Items[len(sec.Items)-1]
	room := maxBulletsPerSection - len(item.Bullets)
	if room <= 0 {
		return
	}
	if len(bullets) > room {
		bullets = bullets[:room]
	}
	item.Bullets = append(item.Bullets, bullets...)
}

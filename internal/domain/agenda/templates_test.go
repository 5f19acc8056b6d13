package agenda

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemplateForLocalizes(t *testing.T) {
	pt := TemplateFor("decision_making", "pt-BR")
	require.Equal(t, "decision_making", pt.Intent)
	require.Equal(t, "Decisões Necessárias", pt.Sections[2].Title)

	en := TemplateFor("decision_making", "en-US")
	require.Equal(t, "Decisions Needed", en.Sections[2].Title)
	require.Len(t, en.Sections, len(pt.Sections))
}

func TestTemplateForUnknownIntentFallsBackToAlignment(t *testing.T) {
	tpl := TemplateFor("brainstorm", "en-US")
	require.Equal(t, "alignment", tpl.Intent)
	require.Equal(t, "alignment", tpl.Focus)
}

func TestTemplateTimeSharesSumToOne(t *testing.T) {
	intents := []string{
		"decision_making",
		"problem_solving",
		"planning",
		"status_update",
		"kickoff",
		"alignment",
	}
	for _, intent := range intents {
		for _, lang := range []string{"pt-BR", "en-US"} {
			tpl := TemplateFor(intent, lang)
			sum := 0.0
			for _, s := range tpl.Sections {
				sum += s.TimePct
			}
			require.InDelta(t, 1.0, sum, 0.001, "intent %s lang %s", intent, lang)
		}
	}
}

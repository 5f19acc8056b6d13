package agenda

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sectionMinutes(a Agenda) []int {
	out := make([]int, len(a.Sections))
	for i, s := range a.Sections {
		out[i] = s.Minutes
	}
	return out
}

func TestReconcileMinutesScalesProportionally(t *testing.T) {
	a := Agenda{Sections: []Section{
		{Title: "A", Minutes: 5},
		{Title: "B", Minutes: 25},
	}}
	ReconcileMinutes(&a, 60)

	require.Equal(t, 60, a.Minutes)
	require.Equal(t, []int{10, 50}, sectionMinutes(a))
}

func TestReconcileMinutesDistributesRounding(t *testing.T) {
	a := Agenda{Sections: []Section{
		{Title: "A", Minutes: 10},
		{Title: "B", Minutes: 10},
		{Title: "C", Minutes: 10},
	}}
	ReconcileMinutes(&a, 32)

	require.Equal(t, []int{11, 11, 10}, sectionMinutes(a))
}

func TestReconcileMinutesFloorsAtOne(t *testing.T) {
	a := Agenda{Sections: []Section{
		{Title: "A", Minutes: 1},
		{Title: "B", Minutes: 59},
	}}
	ReconcileMinutes(&a, 10)

	require.Equal(t, []int{1, 9}, sectionMinutes(a))
}

func TestReconcileMinutesSplitsDegenerateDraftEvenly(t *testing.T) {
	a := Agenda{Sections: []Section{
		{Title: "A"},
		{Title: "B"},
	}}
	ReconcileMinutes(&a, 30)

	require.Equal(t, []int{15, 15}, sectionMinutes(a))
}

func TestReconcileMinutesTinyTotalFavorsHeaviest(t *testing.T) {
	a := Agenda{Sections: []Section{
		{Title: "A", Minutes: 10},
		{Title: "B", Minutes: 30},
		{Title: "C", Minutes: 20},
	}}
	ReconcileMinutes(&a, 2)

	require.Equal(t, 2, a.Minutes)
	require.Equal(t, []int{0, 1, 1}, sectionMinutes(a))
}

func TestReconcileMinutesTinyTotalStillSums(t *testing.T) {
	a := Agenda{Sections: []Section{
		{Title: "A", Minutes: 1},
		{Title: "B", Minutes: 1},
		{Title: "C", Minutes: 1},
	}}
	ReconcileMinutes(&a, 2)

	sum := 0
	for _, m := range sectionMinutes(a) {
		sum += m
	}
	require.Equal(t, 2, sum)
}

func TestReconcileMinutesNoSections(t *testing.T) {
	a := Agenda{}
	ReconcileMinutes(&a, 45)
	require.Equal(t, 45, a.Minutes)
	require.Empty(t, a.Sections)
}

func TestFromTemplateSumsExactly(t *testing.T) {
	tpl := TemplateFor("decision_making", "en-US")
	a := FromTemplate(tpl, "Budget review", 60)

	require.Equal(t, "Budget review", a.Title)
	require.Equal(t, 60, a.Minutes)
	require.Len(t, a.Sections, len(tpl.Sections))

	sum := 0
	for _, s := range a.Sections {
		sum += s.Minutes
		require.GreaterOrEqual(t, s.Minutes, 1)
	}
	require.Equal(t, 60, sum)
}

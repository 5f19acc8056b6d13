package agenda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleAgenda() Agenda {
	return Agenda{
		Title:   "Pauta: Migração",
		Minutes: 30,
		Sections: []Section{
			{Title: "Abertura", Minutes: 5, Items: []Item{
				{Heading: "Contexto", Bullets: []Bullet{
					{Text: "Por que estamos aqui", Refs: []string{"f-1"}},
				}},
			}},
			{Title: "Decisões", Minutes: 25, Items: []Item{
				{Heading: "Pendentes", Bullets: []Bullet{
					{Text: "Aprovar orçamento", Refs: []string{"f-2", "f-3"}},
					{Text: "Escolher fornecedor", Refs: []string{"f-2"}},
				}},
			}},
		},
	}
}

func TestIdempotencyKeyIsStable(t *testing.T) {
	a := sampleAgenda()
	first := IdempotencyKey("org1", "m1", "Migração", a)
	second := IdempotencyKey("org1", "m1", "Migração", a)
	require.Equal(t, first, second)
	require.Len(t, first, 64)
}

func TestIdempotencyKeyIgnoresRunMetadata(t *testing.T) {
	a := sampleAgenda()
	bare := IdempotencyKey("org1", "m1", "Migração", a)

	a.Metadata = &RunMetadata{
		Intent:       "decision_making",
		QualityScore: 0.9,
		GeneratedAt:  time.Now().UTC(),
	}
	stamped := IdempotencyKey("org1", "m1", "Migração", a)
	require.Equal(t, bare, stamped)
}

func TestIdempotencyKeyChangesWithIdentity(t *testing.T) {
	a := sampleAgenda()
	base := IdempotencyKey("org1", "m1", "Migração", a)

	require.NotEqual(t, base, IdempotencyKey("org2", "m1", "Migração", a))
	require.NotEqual(t, base, IdempotencyKey("org1", "m2", "Migração", a))
	require.NotEqual(t, base, IdempotencyKey("org1", "m1", "Contratação", a))

	b := sampleAgenda()
	b.Sections[0].Items[0].Bullets[0].Text = "Outro texto"
	require.NotEqual(t, base, IdempotencyKey("org1", "m1", "Migração", b))
}

func TestIdempotencyKeyKeepsFieldBoundaries(t *testing.T) {
	a := sampleAgenda()

	// Shifting characters across field boundaries must not collide.
	require.NotEqual(t,
		IdempotencyKey("org1", "m1", "Migração", a),
		IdempotencyKey("org1m", "1", "Migração", a))
	require.NotEqual(t,
		IdempotencyKey("org1", "m1", "Migração", a),
		IdempotencyKey("org1", "m1Migração", "", a))
}

func TestFactCountDeduplicatesRefs(t *testing.T) {
	a := sampleAgenda()
	require.Equal(t, 3, a.FactCount(), "f-2 appears twice but counts once")

	require.Equal(t, 0, Agenda{}.FactCount())
}

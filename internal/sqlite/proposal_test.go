package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pautahq/pauta/internal/domain/agenda"
)

func sampleProposal(id, orgID, subject string, created time.Time) *agenda.Proposal {
	a := agenda.Agenda{
		Title:   "Pauta: " + subject,
		Minutes: 30,
		Sections: []agenda.Section{
			{Title: "Abertura", Minutes: 5},
			{Title: "Discussão", Minutes: 25},
		},
	}
	return &agenda.Proposal{
		ID:             id,
		OrgID:          orgID,
		MeetingID:      "m-1",
		Subject:        subject,
		Agenda:         a,
		IdempotencyKey: agenda.IdempotencyKey(orgID, "m-1", subject, a),
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func TestProposalRepository_UpsertInsertsAndLists(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProposalRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	p := sampleProposal("p1", "org1", "Migração", now)
	require.NoError(t, repo.Upsert(ctx, p))
	require.Equal(t, "p1", p.ID)

	list, err := repo.ListByOrg(ctx, "org1", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "p1", list[0].ID)
	require.Equal(t, "Migração", list[0].Subject)
	require.Equal(t, 30, list[0].Agenda.Minutes)
	require.Len(t, list[0].Agenda.Sections, 2)
}

func TestProposalRepository_UpsertIsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProposalRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	first := sampleProposal("p1", "org1", "Migração", now)
	require.NoError(t, repo.Upsert(ctx, first))

	// Same content and key, new candidate id: the stored row wins.
	second := sampleProposal("p2", "org1", "Migração", now.Add(time.Hour))
	require.NoError(t, repo.Upsert(ctx, second))
	require.Equal(t, "p1", second.ID, "stored identity is canonical")
	require.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())

	list, err := repo.ListByOrg(ctx, "org1", 10)
	require.NoError(t, err)
	require.Len(t, list, 1, "no duplicate rows for the same idempotency key")
}

func TestProposalRepository_UpsertDefaultsTimestamps(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProposalRepository(db)
	ctx := context.Background()

	p := sampleProposal("p1", "org1", "Migração", time.Time{})
	require.NoError(t, repo.Upsert(ctx, p))
	require.False(t, p.CreatedAt.IsZero())
	require.False(t, p.UpdatedAt.IsZero())

	list, err := repo.ListByOrg(ctx, "org1", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.False(t, list[0].CreatedAt.IsZero())
	require.False(t, list[0].UpdatedAt.IsZero())
}

func TestProposalRepository_ListNewestFirstAndScoped(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProposalRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Upsert(ctx, sampleProposal("p1", "org1", "Assunto A", now.Add(-2*time.Hour))))
	require.NoError(t, repo.Upsert(ctx, sampleProposal("p2", "org1", "Assunto B", now)))
	require.NoError(t, repo.Upsert(ctx, sampleProposal("p3", "org2", "Outro org", now)))

	list, err := repo.ListByOrg(ctx, "org1", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "p2", list[0].ID, "newest updated first")

	list, err = repo.ListByOrg(ctx, "org1", 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

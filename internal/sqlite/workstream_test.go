package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pautahq/pauta/internal/domain/workstream"
)

func TestWorkstreamRepository_CreateAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewWorkstreamRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Create(ctx, &workstream.Workstream{
		ID: "ws1", OrgID: "org1", Title: "Plataforma", Status: workstream.StatusGreen, Priority: 1, CreatedAt: now,
	}))
	require.NoError(t, repo.Create(ctx, &workstream.Workstream{
		ID: "ws2", OrgID: "org1", Title: "Lançamento", Status: workstream.StatusRed, Priority: 3, Owner: "ana", CreatedAt: now,
	}))
	require.NoError(t, repo.Create(ctx, &workstream.Workstream{
		ID: "ws3", OrgID: "org2", Title: "Outro org", Status: workstream.StatusGreen, Priority: 5, CreatedAt: now,
	}))

	list, err := repo.ListByOrg(ctx, "org1", nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "ws2", list[0].ID, "highest priority first")
	require.Equal(t, "ana", list[0].Owner)
}

func TestWorkstreamRepository_ListFiltersByStatus(t *testing.T) {
	db := NewTestDB(t)
	repo := NewWorkstreamRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &workstream.Workstream{
		ID: "ws1", OrgID: "org1", Title: "Verde", Status: workstream.StatusGreen, Priority: 1, CreatedAt: now,
	}))
	require.NoError(t, repo.Create(ctx, &workstream.Workstream{
		ID: "ws2", OrgID: "org1", Title: "Vermelho", Status: workstream.StatusRed, Priority: 1, CreatedAt: now,
	}))

	list, err := repo.ListByOrg(ctx, "org1", []string{workstream.StatusRed})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "ws2", list[0].ID)
}

func TestWorkstreamRepository_CreateRejectsUnknownStatus(t *testing.T) {
	db := NewTestDB(t)
	repo := NewWorkstreamRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, &workstream.Workstream{
		ID: "ws1", OrgID: "org1", Title: "Inválido", Status: "blue", Priority: 1, CreatedAt: time.Now().UTC(),
	})
	require.Error(t, err)
}

func TestWorkstreamRepository_LinkFactIsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	wsRepo := NewWorkstreamRepository(db)
	factRepo := NewFactRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, wsRepo.Create(ctx, &workstream.Workstream{
		ID: "ws1", OrgID: "org1", Title: "Plataforma", Status: workstream.StatusGreen, Priority: 1, CreatedAt: now,
	}))
	require.NoError(t, factRepo.Create(ctx, newFact("f1", "org1", "topic", "Assunto", now)))

	require.NoError(t, wsRepo.LinkFact(ctx, "ws1", "f1"))
	require.NoError(t, wsRepo.LinkFact(ctx, "ws1", "f1"))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM workstream_facts`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestWorkstreamRepository_LinkFactRequiresExistingRows(t *testing.T) {
	db := NewTestDB(t)
	repo := NewWorkstreamRepository(db)
	ctx := context.Background()

	err := repo.LinkFact(ctx, "missing-ws", "missing-fact")
	require.Error(t, err, "foreign keys must reject dangling links")
}

// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pautahq/pauta/internal/domain/agenda"
	"github.com/pautahq/pauta/internal/domain/fact"
	"github.com/pautahq/pauta/internal/domain/workstream"
)

// FactRepository is a mock for repository.FactRepository.
type FactRepository struct {
	mock.Mock
}

func (m *FactRepository) Create(ctx context.Context, f *fact.Fact) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *FactRepository) Search(ctx context.Context, orgID, query string, types []string, limit int) ([]fact.Fact, error) {
	args := m.Called(ctx, orgID, query, types, limit)
	if facts, ok := args.Get(0).([]fact.Fact); ok {
		return facts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FactRepository) Recent(ctx context.Context, orgID string, types []string, limit int) ([]fact.Fact, error) {
	args := m.Called(ctx, orgID, types, limit)
	if facts, ok := args.Get(0).([]fact.Fact); ok {
		return facts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FactRepository) GetByIDs(ctx context.Context, ids []string) ([]fact.Fact, error) {
	args := m.Called(ctx, ids)
	if facts, ok := args.Get(0).([]fact.Fact); ok {
		return facts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FactRepository) ListByWorkstream(ctx context.Context, orgID, workstreamID string, limit int) ([]fact.Fact, error) {
	args := m.Called(ctx, orgID, workstreamID, limit)
	if facts, ok := args.Get(0).([]fact.Fact); ok {
		return facts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FactRepository) ListUrgent(ctx context.Context, orgID string, now time.Time, limit int) ([]fact.Fact, error) {
	args := m.Called(ctx, orgID, now, limit)
	if facts, ok := args.Get(0).([]fact.Fact); ok {
		return facts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FactRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// WorkstreamRepository is a mock for repository.WorkstreamRepository.
type WorkstreamRepository struct {
	mock.Mock
}

func (m *WorkstreamRepository) Create(ctx context.Context, ws *workstream.Workstream) error {
	args := m.Called(ctx, ws)
	return args.Error(0)
}

func (m *WorkstreamRepository) ListByOrg(ctx context.Context, orgID string, statuses []string) ([]workstream.Workstream, error) {
	args := m.Called(ctx, orgID, statuses)
	if list, ok := args.Get(0).([]workstream.Workstream); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkstreamRepository) LinkFact(ctx context.Context, workstreamID, factID string) error {
	args := m.Called(ctx, workstreamID, factID)
	return args.Error(0)
}

// ProposalRepository is a mock for repository.ProposalRepository.
type ProposalRepository struct {
	mock.Mock
}

func (m *ProposalRepository) Upsert(ctx context.Context, p *agenda.Proposal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProposalRepository) ListByOrg(ctx context.Context, orgID string, limit int) ([]agenda.Proposal, error) {
	args := m.Called(ctx, orgID, limit)
	if list, ok := args.Get(0).([]agenda.Proposal); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

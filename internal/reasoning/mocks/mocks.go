// Package mocks provides a testify mock for the reasoning client.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pautahq/pauta/internal/domain/agenda"
	"github.com/pautahq/pauta/internal/reasoning"
)

// Client is a mock for reasoning.Client.
type Client struct {
	mock.Mock
}

func (m *Client) Parse(ctx context.Context, rawQuery, orgID string) (*reasoning.ParseResult, error) {
	args := m.Called(ctx, rawQuery, orgID)
	if res, ok := args.Get(0).(*reasoning.ParseResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) AnalyzeContext(ctx context.Context, req reasoning.ContextRequest) (*reasoning.ContextAnalysis, error) {
	args := m.Called(ctx, req)
	if res, ok := args.Get(0).(*reasoning.ContextAnalysis); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) DetectIntent(ctx context.Context, req reasoning.IntentRequest) (*reasoning.IntentResult, error) {
	args := m.Called(ctx, req)
	if res, ok := args.Get(0).(*reasoning.IntentResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) RankFacts(ctx context.Context, req reasoning.RankRequest) (*reasoning.RankResult, error) {
	args := m.Called(ctx, req)
	if res, ok := args.Get(0).(*reasoning.RankResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) SynthesizeWorkstreamStatus(ctx context.Context, req reasoning.StatusRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *Client) Summarize(ctx context.Context, req reasoning.SummaryRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *Client) BuildAgenda(ctx context.Context, req reasoning.BuildRequest) (*agenda.Agenda, error) {
	args := m.Called(ctx, req)
	if res, ok := args.Get(0).(*agenda.Agenda); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ReviewQuality(ctx context.Context, req reasoning.ReviewRequest) (*reasoning.Review, error) {
	args := m.Called(ctx, req)
	if res, ok := args.Get(0).(*reasoning.Review); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

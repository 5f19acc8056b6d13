package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pautahq/pauta/internal/progress"
)

const serverInstructions = `Pauta plans meeting agendas from an organization's fact base.

Start with propose_agenda and poll get_planning_progress with the returned
session_id until status is "completed"; the result field then holds the stored
proposal. Use search_facts and list_workstreams to inspect the evidence the
planner draws from, update_fact_status to curate it, and
list_agenda_proposals to review past agendas.`

// Config contains MCP server configuration.
type Config struct {
	Handler *Handler
	Logger  *slog.Logger
}

// NewServer creates and configures the MCP server with all planning tools.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "pauta",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	h := cfg.Handler

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "propose_agenda",
		Description: "Start planning a meeting agenda from a natural-language request; returns a session id to poll",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ProposeAgendaParams) (*sdkmcp.CallToolResult, *ProposeAgendaResult, error) {
		out, err := h.ProposeAgenda(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_planning_progress",
		Description: "Get the progress and, once completed, the result of a planning session",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params PlanningProgressParams) (*sdkmcp.CallToolResult, *progress.Snapshot, error) {
		out, err := h.PlanningProgress(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_facts",
		Description: "Search the organization's facts by text, optionally filtered by fact type",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params SearchFactsParams) (*sdkmcp.CallToolResult, *SearchFactsResult, error) {
		out, err := h.SearchFacts(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_workstreams",
		Description: "List the organization's workstreams with their health status",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ListWorkstreamsParams) (*sdkmcp.CallToolResult, *ListWorkstreamsResult, error) {
		out, err := h.ListWorkstreams(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_fact_status",
		Description: "Move a fact through its validation lifecycle (draft, proposed, validated, published, rejected)",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params UpdateFactStatusParams) (*sdkmcp.CallToolResult, *UpdateFactStatusResult, error) {
		out, err := h.UpdateFactStatus(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_agenda_proposals",
		Description: "List stored agenda proposals for an organization, newest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ListProposalsParams) (*sdkmcp.CallToolResult, *ListProposalsResult, error) {
		out, err := h.ListProposals(ctx, params)
		return nil, out, err
	})

	return server
}

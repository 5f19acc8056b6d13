package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pautahq/pauta/internal/config"
	"github.com/pautahq/pauta/internal/planner"
	"github.com/pautahq/pauta/internal/progress"
	"github.com/pautahq/pauta/internal/reasoning"
	"github.com/pautahq/pauta/internal/repository"
	"github.com/pautahq/pauta/internal/research"
	"github.com/pautahq/pauta/internal/retrieval"
	"github.com/pautahq/pauta/internal/sqlite"
)

// app wires configuration, storage and services for a command invocation.
type app struct {
	cfg         config.Config
	logger      *slog.Logger
	db          *sqlite.DB
	facts       repository.FactRepository
	workstreams repository.WorkstreamRepository
	proposals   repository.ProposalRepository
	registry    *progress.Registry
	planner     *planner.Planner
}

// newApp loads config, opens the database and builds the service graph.
// In stdio transport mode logs go to stderr to keep stdout clean for JSON-RPC.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	factRepo := sqlite.NewFactRepository(db)
	workstreamRepo := sqlite.NewWorkstreamRepository(db)
	proposalRepo := sqlite.NewProposalRepository(db)

	var reasoner reasoning.Client
	if cfg.Reasoning.Endpoint != "" {
		reasoner = reasoning.NewHTTPClient(reasoning.Options{
			Endpoint: cfg.Reasoning.Endpoint,
			APIKey:   cfg.Reasoning.APIKey,
			Model:    cfg.Reasoning.Model,
			Timeout:  cfg.Reasoning.Timeout,
			Logger:   logger,
		})
	} else {
		logger.Warn("no reasoning endpoint configured, planning runs on deterministic fallbacks")
	}

	var searcher research.Searcher
	if cfg.Research.Endpoint != "" {
		searcher = research.NewHTTPSearcher(research.Options{
			Endpoint: cfg.Research.Endpoint,
			APIKey:   cfg.Research.APIKey,
			Timeout:  cfg.Research.Timeout,
			Logger:   logger,
		})
	}

	registry := progress.NewRegistry(cfg.Progress.TTL, logger)
	engine := retrieval.NewEngine(factRepo, searcher, logger)
	plannerSvc := planner.New(reasoner, engine, factRepo, workstreamRepo, proposalRepo, registry, logger)

	return &app{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		facts:       factRepo,
		workstreams: workstreamRepo,
		proposals:   proposalRepo,
		registry:    registry,
		planner:     plannerSvc,
	}, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ensureDBDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

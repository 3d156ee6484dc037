package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Schera-ole/monitor/internal/agent"
	"github.com/Schera-ole/monitor/internal/audit"
	"github.com/Schera-ole/monitor/internal/channel"
	"github.com/Schera-ole/monitor/internal/collector"
	"github.com/Schera-ole/monitor/internal/config"
	"github.com/Schera-ole/monitor/internal/exposition"
	"github.com/Schera-ole/monitor/internal/handler"
	"github.com/Schera-ole/monitor/internal/launcher"
	"github.com/Schera-ole/monitor/internal/migration"
	"github.com/Schera-ole/monitor/internal/monitor"
	"github.com/Schera-ole/monitor/internal/repository"
	"github.com/Schera-ole/monitor/internal/service"
	"github.com/Schera-ole/monitor/internal/status"
)

// newStorage picks Postgres when a DSN is configured and memory otherwise.
func newStorage(ctx context.Context, cfg *config.AgentConfig, logger *zap.SugaredLogger) (repository.Repository, error) {
	if cfg.DatabaseDSN == "" {
		logger.Info("Using in-memory sample storage")
		return repository.NewMemStorage(), nil
	}
	if err := migration.RunMigrations(ctx, cfg.DatabaseDSN, logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	storage, err := repository.NewDBStorage(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	logger.Info("Using database sample storage")
	return storage, nil
}

// buildAgent wires every component of the agent around metricService.
func buildAgent(
	cfg *config.AgentConfig,
	metricService *service.MetricsService,
	auditLogger audit.AuditLogger,
	stdout io.Writer,
	logger *zap.SugaredLogger,
) (*agent.Agent, error) {
	coll := collector.New(metricService, logger)
	reg, err := coll.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to build metric registry: %w", err)
	}

	promRegistry, err := collector.NewPrometheusRegistry(collector.NewExporter(metricService, logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build prometheus registry: %w", err)
	}

	reporter := status.NewReporter(cfg.StatusPath, logger)
	router := handler.Router(metricService, reg, reporter, promRegistry, logger)

	return &agent.Agent{
		Registry:   reg,
		Reader:     channel.NewReader(cfg, logger),
		Status:     reporter,
		Loop:       monitor.NewLoop(cfg.Interval(), logger),
		Exposition: exposition.NewServer(cfg.Address, router, logger),
		Audit:      auditLogger,
		Stdout:     stdout,
		Logger:     logger,
	}, nil
}

// run owns every resource the agent holds, so its deferred cleanup,
// including stopping launched servers, completes before main exits.
func run(
	ctx context.Context,
	cfg *config.AgentConfig,
	servers *launcher.Launcher,
	programs []launcher.Program,
	stdout io.Writer,
	logger *zap.SugaredLogger,
) error {
	if len(programs) > 0 {
		servers.StartAll(programs...)
		defer func() {
			if stopped := servers.Stop(); stopped > 0 {
				logger.Infow("Stopped launched servers", "count", stopped)
			}
		}()
	}

	storage, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	metricService := service.NewMetricsService(storage)
	defer metricService.Close()

	auditPipeline := audit.NewPipeline(cfg.AuditFile, cfg.AuditURL, logger)
	defer auditPipeline.Close()

	monitorAgent, err := buildAgent(cfg, metricService, auditPipeline, stdout, logger)
	if err != nil {
		return err
	}

	logger.Infow("Starting agent", "fifo", cfg.FIFOPath, "status", cfg.StatusPath, "address", cfg.Address)
	return monitorAgent.Run(ctx)
}

func main() {
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	agentConfig, err := config.NewAgentConfig(os.Args[1:])
	if err != nil {
		logger.Fatalw("Failed to parse configuration", "error", err)
	}

	var programs []launcher.Program
	if agentConfig.LaunchServers {
		programs, err = launcher.DefaultPrograms()
		if err != nil {
			logger.Errorf("%v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, agentConfig, launcher.New(logger), programs, os.Stdout, logger)
	stop()
	if err != nil {
		logger.Fatalw("Agent failed", "error", err)
	}
	logger.Info("Agent stopped")
}

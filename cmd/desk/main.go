package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/clock"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/fixtures"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/search"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seed, err := fixtures.Load()
	if err != nil {
		logger.Fatal("failed to load fixtures", zap.Error(err))
	}

	clk := clock.System()
	metrics := observability.NewMetrics()
	dispatcher := events.NewMemoryDispatcher()

	ticketRepo := repository.NewTicketRepository(clk, seed.Tickets)
	customerRepo := repository.NewCustomerRepository(seed.Customers)
	agentRepo := repository.NewAgentRepository(seed.Agents)
	noteRepo := repository.NewNoteRepository(clk, seed.Notes)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CustomerRepo: customerRepo,
		AgentRepo:    agentRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
		Metrics:      metrics,
		Clock:        clk,
		Latency:      cfg.Latency,
		Suggestion:   cfg.Suggestion,
	})
	customerService := service.NewCustomerService(customerRepo, logger, metrics, clk, cfg.Latency)
	agentService := service.NewAgentService(agentRepo, logger, metrics, clk, cfg.Latency)
	noteService := service.NewNoteService(noteRepo, dispatcher, logger, metrics, clk, cfg.Latency)

	notifications := worker.NewNotificationWorker(dispatcher, logger)
	notifications.RegisterHandlers()

	logger.Info("store seeded",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.Int("tickets", len(seed.Tickets)),
		zap.Int("customers", len(seed.Customers)),
		zap.Int("agents", len(seed.Agents)),
		zap.Int("notes", len(seed.Notes)))

	// Exercise the read paths once so a bare run shows the pipeline
	// working end to end.
	visible, err := ticketService.Filter(ctx, search.NewFilters(), "")
	if err != nil {
		logger.Fatal("initial ticket listing failed", zap.Error(err))
	}
	logger.Info("tickets visible", zap.Int("count", len(visible)))

	customers, err := customerService.GetAll(ctx)
	if err != nil {
		logger.Fatal("customer listing failed", zap.Error(err))
	}
	agents, err := agentService.GetAll(ctx)
	if err != nil {
		logger.Fatal("agent listing failed", zap.Error(err))
	}
	logger.Info("directory loaded", zap.Int("customers", len(customers)), zap.Int("agents", len(agents)))

	if len(visible) > 0 {
		notes, err := noteService.GetByTicketID(ctx, visible[0].ID)
		if err != nil {
			logger.Fatal("note listing failed", zap.Error(err))
		}
		logger.Info("notes on newest ticket",
			zap.String("ticket_id", visible[0].ID),
			zap.Int("count", len(notes)))
	}

	waitForShutdown(logger)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

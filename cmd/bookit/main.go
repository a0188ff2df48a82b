package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/application"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/availability"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/config"
	httptransport "github.com/melanietreitinger/mod-bookit-sub001/internal/http"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/logging"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence/sqlite"
)

func main() {
	if err := run(); err != nil {
		slog.Error("bookit exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat, "bookit")
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := sqlite.Open(sqlite.DefaultConfig(cfg.SQLiteDSN), logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           newHandler(storage, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("bookit API listening",
		"addr", server.Addr,
		"timezone", cfg.Location.String(),
		"start_step_width", cfg.StartStepWidth,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	logger.Info("bookit API stopped")
	return nil
}

// newHandler wires services and handlers over storage.
func newHandler(storage *sqlite.Storage, cfg config.Config, logger *slog.Logger) http.Handler {
	engine := availability.NewEngine(
		newAvailabilitySources(storage, storage, storage, storage),
		availability.Config{
			ExtraTimeBefore: cfg.ExtraTimeBefore,
			ExtraTimeAfter:  cfg.ExtraTimeAfter,
			StartStepWidth:  cfg.StartStepWidth,
			Location:        cfg.Location,
		},
	)

	roomService := application.NewRoomService(newRoomRepositoryAdapter(storage), logger)
	weekPlanService := application.NewWeekPlanService(newWeekPlanRepositoryAdapter(storage), logger)
	assignmentService := application.NewAssignmentService(newAssignmentRepositoryAdapter(storage), logger)
	blockerService := application.NewBlockerService(newBlockerRepositoryAdapter(storage), logger)
	availabilityService := application.NewAvailabilityService(engine, logger)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Rooms:        httptransport.NewRoomHandler(roomService, logger),
		WeekPlans:    httptransport.NewWeekPlanHandler(weekPlanService, logger),
		Assignments:  httptransport.NewAssignmentHandler(assignmentService, logger),
		Blockers:     httptransport.NewBlockerHandler(blockerService, logger),
		Availability: httptransport.NewAvailabilityHandler(availabilityService, logger),
		Health:       httptransport.NewHealthHandler(storage, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
		},
	})
}

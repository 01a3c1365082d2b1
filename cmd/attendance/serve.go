package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/attendance-portal/internal/application"
	"github.com/example/attendance-portal/internal/config"
	httptransport "github.com/example/attendance-portal/internal/http"
	"github.com/example/attendance-portal/internal/identity"
	"github.com/example/attendance-portal/internal/persistence"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the attendance HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore(cmd.Context(), store, logger)

			return serve(cmd.Context(), cfg, store, logger)
		},
	}
}

// services bundles the application layer wired over one store.
type services struct {
	attendance *application.AttendanceService
	today      *application.TodayService
	admin      *application.AdminQueryService
	history    *application.HistoryService
}

func newServices(cfg config.Config, store persistence.Store, now func() time.Time, logger *slog.Logger) services {
	sessions := newSessionRepositoryAdapter(store)
	directory := newEmployeeDirectoryAdapter(store)
	return services{
		attendance: application.NewAttendanceServiceWithLogger(sessions, uuid.NewString, now, cfg.Location, logger),
		today:      application.NewTodayServiceWithLogger(sessions, now, cfg.Location, logger),
		admin:      application.NewAdminQueryServiceWithLogger(sessions, directory, logger),
		history:    application.NewHistoryServiceWithLogger(sessions, directory, logger),
	}
}

// newHandler assembles the full HTTP stack.
func newHandler(cfg config.Config, store persistence.Store, now func() time.Time, logger *slog.Logger) (http.Handler, error) {
	verifier, err := identity.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return nil, err
	}
	svc := newServices(cfg, store, now, logger)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Attendance: httptransport.NewAttendanceHandler(svc.attendance, svc.today, svc.history, logger),
		Admin:      httptransport.NewAdminHandler(svc.admin, svc.history, logger),
		Health:     httptransport.NewHealthHandler(store, logger),
		Verifier:   verifier,
		Logger:     logger,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
			httptransport.RequestTimeout(cfg.RequestTimeout),
		},
	}), nil
}

func serve(ctx context.Context, cfg config.Config, store persistence.Store, logger *slog.Logger) error {
	handler, err := newHandler(cfg, store, time.Now, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	logger.Info("attendance API listening", "addr", server.Addr, "timezone", cfg.Location.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server encountered error: %w", err)
	}
	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	logger.Info("attendance API stopped")
	return nil
}

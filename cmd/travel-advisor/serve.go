package main

import (
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/travel-advisor/internal/application/user"
	"github.com/travel-advisor/internal/server"
	transporthttp "github.com/travel-advisor/internal/transport/http"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP services",
	Long: `Start the spot discovery, travel planning and user account services.

Each service listens on its own port. Use --only to run a subset, for example
--only spots,plans. The user service also runs the daily cleanup of
unconfirmed registrations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		only, _ := cmd.Flags().GetStringSlice("only")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		services, err := a.services()
		if err != nil {
			return err
		}
		reg := server.NewRegistry(a.cfg.StartupRetries, a.cfg.StartupRetryDelay, a.log, services...)
		if err := reg.Only(only); err != nil {
			return err
		}

		if slices.Contains(reg.Names(), transporthttp.ServiceUsers) {
			cleanup := user.NewCleanupTask(a.tempUserRepo(), a.cfg.CleanupInterval, a.cfg.TempUserTTL, a.metrics, a.log)
			cleanup.Start(ctx)
			defer cleanup.Stop()
		}

		a.log.Info("starting services", zap.Strings("services", reg.Names()))
		if err := reg.Run(ctx); err != nil {
			return err
		}
		a.log.Info("all services stopped")
		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete unconfirmed registrations once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		task := user.NewCleanupTask(a.tempUserRepo(), a.cfg.CleanupInterval, a.cfg.TempUserTTL, a.metrics, a.log)
		_, err = task.RunOnce(ctx)
		return err
	},
}

package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"signal-desk/internal/scheduler"
	"signal-desk/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		Long: `Starts the HTTP dashboard. The board refreshes on a fixed interval in the
background; the page and the JSON API always serve the latest snapshot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if port == 0 {
				port = app.Config.Server.Port
			}
			interval := app.Config.Server.ParseRefreshInterval()

			snapshot := scheduler.NewSnapshot()
			sched := scheduler.New(app.Runner, snapshot, interval, app.Logger)
			srv := server.New(
				snapshot,
				app.Runner,
				app.Notifier,
				app.Journal,
				app.Config.Display.PushCount,
				interval,
				port,
				app.Logger,
			)

			go sched.Run(ctx)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				app.Logger.Info().Msg("Shutting down")
				return nil
			case err := <-errCh:
				return err
			}
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (default from config)")
	return cmd
}

package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chalktalk/chalktalk/pkg/cli"
	"github.com/chalktalk/chalktalk/pkg/httpapi"
	"github.com/chalktalk/chalktalk/pkg/hub"
	"github.com/chalktalk/chalktalk/pkg/kv"
	"github.com/chalktalk/chalktalk/pkg/qa"
)

var serveFlags struct {
	addr     string
	dataDir  string
	inMemory bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the question/answer server",
	Long: `Start the HTTP server: question submission, answer history, and a
live event stream over SSE and websocket. Records persist in a local
database unless --memory is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, bc, err := resolveBackend(cmd.Context())
		if err != nil {
			return err
		}

		var store kv.Store
		if serveFlags.inMemory {
			store = kv.NewMemory()
		} else {
			dir := serveFlags.dataDir
			if dir == "" {
				paths, err := cli.NewPaths()
				if err != nil {
					return err
				}
				if err := paths.EnsureDataDir(); err != nil {
					return err
				}
				dir = paths.DataDir()
			}
			store, err = kv.NewBadger(kv.BadgerOptions{Dir: dir})
			if err != nil {
				return err
			}
		}
		defer store.Close()

		qaStore := qa.NewStore(store)
		h := hub.New()
		coordinator := qa.NewCoordinator(qaStore, h, gen)
		api := httpapi.NewServer(qaStore, h, coordinator, bc.Model)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		go h.Run(ctx)

		srv := &http.Server{
			Addr:    serveFlags.addr,
			Handler: api.Handler(),
		}
		errCh := make(chan error, 1)
		go func() {
			slog.Info("serving", "addr", serveFlags.addr, "backend", bc.Backend, "model", bc.Model)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		coordinator.Wait()
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveFlags.dataDir, "data-dir", "", "database directory (default ~/.chalktalk/data)")
	serveCmd.Flags().BoolVar(&serveFlags.inMemory, "memory", false, "keep records in memory only")
	rootCmd.AddCommand(serveCmd)
}

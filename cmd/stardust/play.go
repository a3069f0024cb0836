package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"stardust/internal/hub"
	"stardust/internal/log"
)

const statusInterval = 5 * time.Second

func newPlayCmd(f *flags) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Resume the saved run and simulate it until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sess, err := openSession(ctx, f)
			if err != nil {
				return err
			}
			defer sess.Close()

			if listen == "" {
				listen = sess.cfg.Server.Listen
			}
			if listen != "" {
				h := hub.New(sess.svc)
				sess.svc.Subscribe(h)
				srv := &http.Server{Addr: listen, Handler: routes(h), ReadHeaderTimeout: 5 * time.Second}
				go func() {
					log.Info("hub listening", "addr", listen)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("hub server stopped", "error", err)
						stop()
					}
				}()
				defer func() {
					h.Close()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()
			}

			if isatty.IsTerminal(os.Stdout.Fd()) {
				go reportStatus(ctx, cmd.OutOrStdout(), sess)
			}
			return sess.svc.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "serve the websocket hub on this address (overrides server.listen)")
	return cmd
}

func routes(h *hub.Hub) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// reportStatus prints a one-line summary on an interval.
func reportStatus(ctx context.Context, w io.Writer, sess *session) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprintln(w, statusLine(sess.svc.GetState()))
		}
	}
}

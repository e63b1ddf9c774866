package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"organizer/internal/mutate"
	"organizer/internal/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newWebCmd(app *App) *cobra.Command {
	var addr, authMode string
	var pageSize int
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the web UI",
		Long: strings.TrimSpace(`
Serve the server-rendered web UI from a local HTTP server.

In dev auth mode you pick a user on the login page and get a signed session cookie.
In none mode every request acts as the current user.
`),
		Example: strings.TrimSpace(`
organizer web --addr 127.0.0.1:3333
organizer --user ada web --auth none
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = envOr("ORGANIZER_WEB_ADDR", app.cfg.Web.Addr)
			}
			if !cmd.Flags().Changed("auth") {
				authMode = envOr("ORGANIZER_WEB_AUTH", app.cfg.Web.AuthMode)
			}
			if !cmd.Flags().Changed("page-size") {
				pageSize = app.cfg.Web.PageSize
			}
			if strings.TrimSpace(addr) == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			var userID string
			if authMode == web.AuthNone {
				db, _, err := loadDB(app)
				if err != nil {
					return writeErr(cmd, err)
				}
				if userID, err = currentUserID(app, db); err != nil {
					return writeResult[any](cmd, app, nil, err)
				}
			}

			log := app.log.Named("web")
			srv, err := web.NewServer(web.ServerConfig{
				Addr:     addr,
				Dir:      app.Dir,
				AuthMode: authMode,
				UserID:   userID,
				PageSize: pageSize,
				Sound:    app.cfg.Timer.Sound,
				Logger:   log,
			})
			if err != nil {
				return writeResult[any](cmd, app, nil, mutate.ValidationError{Messages: []string{err.Error()}})
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return writeErr(cmd, err)
			}
			url := "http://" + ln.Addr().String() + "/"
			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      ln.Addr().String(),
					"url":       url,
					"dir":       app.Dir,
					"authMode":  authMode,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "organizer web running at %s\n", url)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, log, ln, srv.Handler())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (default: config web.addr)")
	cmd.Flags().StringVar(&authMode, "auth", "", "Auth mode: dev (login page) or none (act as --user)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Root tasks per page")
	return cmd
}

// serve runs the HTTP server until ctx ends, then shuts it down gracefully.
func serve(ctx context.Context, log *zap.Logger, ln net.Listener, h http.Handler) error {
	// Event streams watch their request context, so it has to end with ctx for Shutdown to finish.
	hs := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return hs.Shutdown(sctx)
	})
	return g.Wait()
}

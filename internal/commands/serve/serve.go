package serve

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thomas-vilte/issuemate/internal/commands/completion_helper"
	"github.com/thomas-vilte/issuemate/internal/config"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// HandlerProvider builds the HTTP handler. The returned func releases what
// the handler holds and runs after the server stops.
type HandlerProvider func(ctx context.Context, cfg *config.Config, t *i18n.Translations) (http.Handler, func() error, error)

type ServeCommandFactory struct {
	handlerProvider HandlerProvider
}

func NewServeCommandFactory(handlerProvider HandlerProvider) *ServeCommandFactory {
	return &ServeCommandFactory{handlerProvider: handlerProvider}
}

func (f *ServeCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: t.GetMessage("serve_command_description", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: t.GetMessage("flag_addr", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.serveAction(t, cfg),
	}
}

func (f *ServeCommandFactory) serveAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := cfg.Validate(); err != nil {
			ui.HandleAppError(cmd.Root().ErrWriter, err, t)
			return err
		}

		addr := cfg.Server.Addr
		if cmd.IsSet("addr") {
			addr = cmd.String("addr")
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		handler, release, err := f.handlerProvider(ctx, cfg, t)
		if err != nil {
			ui.HandleAppError(cmd.Root().ErrWriter, err, t)
			return err
		}
		defer func() {
			if release == nil {
				return
			}
			if err := release(); err != nil {
				logger.Warn(ctx, "failed to release server resources", "error", err)
			}
		}()

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}

		ui.PrintInfo(cmd.Root().Writer, t.GetMessage("server_starting", 0, map[string]interface{}{
			"Addr": ln.Addr().String(),
		}))

		err = Run(ctx, ln, handler, cfg.Server.ShutdownTimeout)
		ui.PrintInfo(cmd.Root().Writer, t.GetMessage("server_stopping", 0, nil))
		return err
	}
}

// Run serves handler on ln until ctx is done, then shuts down gracefully
// within shutdownTimeout.
func Run(ctx context.Context, ln net.Listener, handler http.Handler, shutdownTimeout time.Duration) error {
	log := logger.FromContext(ctx)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("http server shutting down")

		if shutdownTimeout <= 0 {
			shutdownTimeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http server shutdown failed", "error", err)
			return err
		}
		log.Info("http server stopped")
		return nil
	})

	return g.Wait()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/weiawesome/room-lobby/internal/handler"
	"github.com/weiawesome/room-lobby/internal/identity"
	pkglog "github.com/weiawesome/room-lobby/pkg/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lobby page and JSON API over HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := pkglog.L()

	var tokens *identity.Manager
	if a.cfg.Identity.JWTSecret != "" {
		tokens, err = identity.NewManager(a.cfg.Identity.JWTSecret, time.Duration(a.cfg.Identity.TokenTTL)*time.Minute, a.cfg.Identity.Issuer)
		if err != nil {
			return err
		}
	}

	if a.cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	httpHandler := handler.NewHandler(a.lobby, identity.NewResolver(a.cfg.Identity.User, tokens), a.viewOpts,
		handler.WithMaxSessions(a.cfg.Server.MaxSessions))
	httpHandler.RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", addr).
			Str(pkglog.FieldBackend, a.cfg.Storage.Backend).
			Str(pkglog.FieldStoreKey, a.cfg.Storage.Key).
			Bool("jwt", tokens != nil).
			Msg("lobby starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutdown signal received")

		timeout := time.Duration(a.cfg.Server.ShutdownTimeout) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("HTTP server forced to shutdown")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("lobby stopped")
	return nil
}

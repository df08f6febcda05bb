package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/weiawesome/room-lobby/internal/config"
	"github.com/weiawesome/room-lobby/internal/kv"
	"github.com/weiawesome/room-lobby/internal/service"
	"github.com/weiawesome/room-lobby/internal/store"
	"github.com/weiawesome/room-lobby/internal/view"
	pkglog "github.com/weiawesome/room-lobby/pkg/log"
)

// app is everything a command needs once storage is open.
type app struct {
	cfg      *config.Config
	backend  kv.Store
	lobby    service.LobbyService
	viewOpts view.Options
	closeLog func() error
}

// loadConfig reads config and applies the persistent flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if actingUser != "" {
		cfg.Identity.User = actingUser
	}
	return cfg, nil
}

// bootstrap loads config, initialises logging to logOut (unless log.file is
// set), opens the storage backend and loads the rooms.
func bootstrap(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	closeLog, err := pkglog.InitWriter(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	logger := pkglog.L()

	backend, err := kv.Open(ctx, cfg.KV())
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	logger.Debug().Str(pkglog.FieldBackend, cfg.Storage.Backend).Msg("storage opened")

	rooms := store.New(backend,
		store.WithKey(cfg.Storage.Key),
		store.WithIDGenerator(store.NewIDGenerator(cfg.Room.IDStrategy)),
		store.WithDiscardCorrupt(cfg.Storage.DiscardCorrupt),
	)
	if err := rooms.Load(ctx); err != nil {
		backend.Close()
		closeLog()
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.View.Timezone)
	if err != nil {
		logger.Warn().Err(err).Str("timezone", cfg.View.Timezone).Msg("unknown timezone, using local time")
		loc = time.Local
	}

	return &app{
		cfg:     cfg,
		backend: backend,
		lobby:   service.NewLobbyService(rooms),
		viewOpts: view.Options{
			Viewer:     cfg.Identity.User,
			TimeFormat: cfg.View.TimeFormat,
			Location:   loc,
		},
		closeLog: closeLog,
	}, nil
}

func (a *app) Close() {
	if err := a.backend.Close(); err != nil {
		l := pkglog.L()
		l.Warn().Err(err).Msg("error closing storage")
	}
	a.closeLog()
}

// session returns a screen for the configured identity.
func (a *app) session() *service.Session {
	return service.NewSession(a.lobby, a.viewOpts)
}

// Package daemon wires the store and the web service together.
package daemon

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/clinic-crm/clinic-crm/internal/config"
	"github.com/clinic-crm/clinic-crm/internal/db"
	"github.com/clinic-crm/clinic-crm/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	store      *db.Store
	webService *web.Service
}

// Start serves HTTP on the configured port until a shutdown signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	if closeErr := d.store.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close database")
	}

	return err
}

// New opens the store, migrates and seeds it and builds the web service.
// A store that cannot be reached is an error, the service does not start
// without one.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	store, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	d, err := build(cfg, store)
	if err != nil {
		_ = store.Close()

		return nil, err
	}

	return d, nil
}

func build(cfg *config.Config, store *db.Store) (*Daemon, error) {
	if err := store.Migrate(); err != nil {
		return nil, err
	}

	if err := seed(context.Background(), store); err != nil {
		return nil, err
	}

	webService, err := web.New(cfg, store)
	if err != nil {
		return nil, err
	}

	return &Daemon{cfg: cfg, store: store, webService: webService}, nil
}

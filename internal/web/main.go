// Package web builds the fiber application: the API, the health check, the
// metrics endpoint and the frontend bundle, mounted from one route table.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/clinic-crm/clinic-crm/internal/config"
	"github.com/clinic-crm/clinic-crm/internal/db"
	fiberlog "github.com/clinic-crm/clinic-crm/internal/logger/adapter/fiber"
	"github.com/clinic-crm/clinic-crm/internal/uniuri"
	"github.com/clinic-crm/clinic-crm/internal/web/dispatch"
	"github.com/clinic-crm/clinic-crm/internal/web/handler"
	"github.com/clinic-crm/clinic-crm/internal/web/handler/certificate"
	"github.com/clinic-crm/clinic-crm/internal/web/handler/health"
	"github.com/clinic-crm/clinic-crm/internal/web/handler/notimpl"
	"github.com/clinic-crm/clinic-crm/internal/web/handler/settings"
)

const (
	// MetricsPath exposes the prometheus registry.
	MetricsPath = "/metrics"
	// PhotosPath serves uploaded files.
	PhotosPath = "/Photos"

	requestIDKey = "requestid"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	store        *db.Store
	table        *dispatch.Table
	mode         dispatch.Mode
}

// New creates the web service. Routes are mounted for the production mode
// when cfg.Production() reports true, for the development mode otherwise.
func New(cfg *config.Config, store *db.Store) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if store == nil {
		return nil, db.ErrDBNil
	}

	files, err := bundle(cfg.Webserver.StaticDir)
	if err != nil {
		return nil, err
	}

	readBufferSize := cfg.Webserver.ReadBufferSize
	if readBufferSize == 0 {
		readBufferSize = 8192
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize:        readBufferSize,
			AppName:               cfg.Title,
			CaseSensitive:         true,
			Prefork:               false,
			Immutable:             true,
			DisableStartupMessage: !cfg.DevMode,
			ErrorHandler:          errorHandler,
		},
	)

	service := &Service{
		App:          app,
		cfg:          cfg,
		store:        store,
		mode:         dispatch.Dev,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	if cfg.Production() {
		service.mode = dispatch.Prod
	}

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(requestid.New(requestid.Config{
		Generator:  func() string { return uniuri.NewLen(uniuri.UUIDLen) },
		ContextKey: requestIDKey,
	}))

	app.Use(fiberlog.New(fiberlog.Config{
		Config:         cfg.Log,
		CheckAliveURIs: []string{health.Path, health.APITestPath},
		RequestIDKey:   requestIDKey,
	}))

	healthHandler := health.New(cfg, store, service.alive.Load)

	var initErr error

	service.table = dispatch.New(
		dispatch.Rule{Name: "health", Kind: dispatch.Exact, Path: health.Path, Handlers: []fiber.Handler{healthHandler.Get}},
		dispatch.Rule{Name: "api-test", Kind: dispatch.Exact, Path: health.APITestPath, Handlers: []fiber.Handler{healthHandler.Get}},
		dispatch.Rule{
			Name:     "metrics",
			Kind:     dispatch.Exact,
			Path:     MetricsPath,
			Handlers: []fiber.Handler{adaptor.HTTPHandler(promhttp.Handler())},
		},
		dispatch.Rule{Name: "api", Kind: dispatch.Prefix, Path: cfg.Webserver.APIPrefix, Routes: func(router fiber.Router) {
			initErr = initAPI(router, cfg, store)
		}},
		dispatch.Rule{Name: "photos", Kind: dispatch.Prefix, Path: PhotosPath, Routes: photoRoutes(cfg.Webserver.PhotosDir, cfg.Webserver.BrowseStatic)},
		dispatch.Rule{Name: "spa", Kind: dispatch.CatchAll, Mode: dispatch.Prod, Handlers: spaHandlers(files, cfg.Webserver.BrowseStatic)},
		dispatch.Rule{Name: "not-found", Kind: dispatch.CatchAll, Mode: dispatch.Dev, Handlers: []fiber.Handler{handler.NotFound}},
	)

	service.table.Mount(app, service.mode)

	if initErr != nil {
		return nil, initErr
	}

	log.Info().
		Str("mode", service.mode.String()).
		Str("api_prefix", cfg.Webserver.APIPrefix).
		Bool("external_bundle", cfg.Webserver.StaticDir != "").
		Msg("routes mounted")

	return service, nil
}

// initAPI registers the API handlers, unknown API paths answer the JSON not found.
func initAPI(router fiber.Router, cfg *config.Config, store *db.Store) error {
	services := []handler.Service{
		&certificate.Service{},
		&settings.Service{},
		&notimpl.Service{},
	}

	for _, s := range services {
		if err := s.Init(router, cfg, store); err != nil {
			return err
		}
	}

	router.All("/*", handler.NotFound)

	return nil
}

// Mode reports the routing mode of the service.
func (s *Service) Mode() dispatch.Mode {
	return s.mode
}

// Alive reports false once a shutdown was requested.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// Start listens on addr and blocks until the server stops.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error, 1)

	go func() {
		log.Info().Str("addr", addr).Str("mode", s.mode.String()).Msg("http server listening")

		err := s.App.Listen(addr)
		if err != nil && errors.Is(err, http.ErrServerClosed) {
			err = nil
		}

		doneFiber <- err
	}()

	return <-doneFiber // wait for fiber to stop
}

// WaitShutdown waits for SIGINT or SIGTERM and stops the server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown drains and stops the server. The health check answers 503 for
// ShutDownTime seconds first, so the load balancer removes the instance.
func (s *Service) Shutdown() {
	s.alive.Store(false)

	if !s.fastShutDown && s.cfg.Webserver.ShutDownTime > 0 {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

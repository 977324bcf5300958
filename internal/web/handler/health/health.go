// Package health implements the readiness check polled by the hosting platform.
package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/clinic-crm/clinic-crm/internal/config"
)

const (
	// Path is the readiness path polled by the load balancer.
	Path = "/health"
	// APITestPath answers the same payload under the API prefix.
	APITestPath = "/api/test"

	pingTimeout = 2 * time.Second
)

// Values of Response.Status.
const (
	StatusOK           = "OK"
	StatusError        = "ERROR"
	StatusShuttingDown = "SHUTTING_DOWN"
)

// Pinger is the part of the store the check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response is the health payload.
type Response struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	Database    string `json:"database"`
}

// Service is the health handler.
type Service struct {
	cfg   *config.Config
	store Pinger
	alive func() bool
	now   func() time.Time
}

// New returns the health handler. alive reports false while the service
// drains before shutdown.
func New(cfg *config.Config, store Pinger, alive func() bool) *Service {
	if alive == nil {
		alive = func() bool { return true }
	}

	return &Service{cfg: cfg, store: store, alive: alive, now: time.Now}
}

// Get answers 200 when the service accepts traffic and the store answers a
// ping, 503 otherwise.
func (s *Service) Get(c *fiber.Ctx) error {
	resp := Response{
		Status:      StatusOK,
		Message:     "Clinic CRM API is running",
		Timestamp:   s.now().UTC().Format(time.RFC3339),
		Port:        s.cfg.Webserver.Port,
		Environment: s.cfg.Environment,
		Database:    "connected",
	}

	if !s.alive() {
		resp.Status = StatusShuttingDown
		resp.Message = "service is shutting down"

		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}

	if s.store == nil {
		resp.Status = StatusError
		resp.Message = "database is not configured"
		resp.Database = "disconnected"

		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("health check: database ping failed")

		resp.Status = StatusError
		resp.Message = "database is not reachable"
		resp.Database = "disconnected"

		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}

	return c.JSON(resp)
}

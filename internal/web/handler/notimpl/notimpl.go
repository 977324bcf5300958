// Package notimpl answers for resources the API models but does not serve yet.
package notimpl

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinic-crm/clinic-crm/internal/config"
	"github.com/clinic-crm/clinic-crm/internal/db"
	"github.com/clinic-crm/clinic-crm/internal/web/handler"
)

// Resources lists the modeled resources without handlers.
var Resources = []string{"patients", "medicine", "staff", "doctors"} //nolint:gochecknoglobals

// Service is the not implemented handler service.
type Service struct {
	handler.Service
}

// Init registers every method below each resource in Resources.
func (s *Service) Init(router fiber.Router, _ *config.Config, _ *db.Store) error {
	for _, resource := range Resources {
		router.All("/"+resource, s.reply(resource))
		router.All("/"+resource+"/*", s.reply(resource))
	}

	return nil
}

func (s *Service) reply(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return handler.Fail(c, fiber.StatusNotImplemented, resource+" endpoint is not implemented")
	}
}

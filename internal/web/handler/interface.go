package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinic-crm/clinic-crm/internal/config"
	"github.com/clinic-crm/clinic-crm/internal/db"
)

// Service is the interface for an API handler service. Init registers the
// handler routes on router, which is already scoped to the API prefix.
type Service interface {
	Init(router fiber.Router, cfg *config.Config, store *db.Store) error
}

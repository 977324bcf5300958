// Package certificate implements the certificate REST handlers.
package certificate

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/clinic-crm/clinic-crm/internal/config"
	"github.com/clinic-crm/clinic-crm/internal/db"
	controller "github.com/clinic-crm/clinic-crm/internal/db/controller/certificate"
	"github.com/clinic-crm/clinic-crm/internal/db/models"
	"github.com/clinic-crm/clinic-crm/internal/web/handler"
)

const (
	// Path is the certificates resource below the API prefix.
	Path = "/certificates"
	// StatsPath is the overview below Path.
	StatsPath = "/stats/overview"

	idPath = "/:" + handler.IDParam
)

var errInvalidID = errors.New("invalid certificate id")

// Service is the certificate handler service.
type Service struct {
	handler.Service
	cfg        *config.Config
	store      *db.Store
	controller *controller.Controller
	validator  *validator.Validate
}

// Init initializes the certificate handler and registers its routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, store *db.Store) error {
	if router == nil || cfg == nil || store == nil {
		return errors.New(handler.ErrNilRCSFatalLogMsg)
	}

	ctrl, err := controller.New(store)
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.store = store
	s.controller = ctrl
	s.validator = handler.NewValidator()

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RouterRootPath, s.List)
		r.Post(handler.RouterRootPath, s.Create)
		// registered before the id routes so "stats" is not taken for an id
		r.Get(StatsPath, s.Stats)
		r.Get(idPath, s.Get)
		r.Put(idPath, s.Update)
		r.Patch(idPath, s.Patch)
		r.Delete(idPath, s.Delete)
	})

	return nil
}

// List returns all certificates.
func (s *Service) List(c *fiber.Ctx) error {
	certificates, err := s.controller.List(c.UserContext())
	if err != nil {
		return s.fail(c, err, "Failed to fetch certificates")
	}

	return handler.OK(c, fiber.StatusOK, certificates)
}

// Stats returns the certificate overview.
func (s *Service) Stats(c *fiber.Ctx) error {
	stats, err := s.controller.Stats(c.UserContext())
	if err != nil {
		return s.fail(c, err, "Failed to fetch certificate statistics")
	}

	return handler.OK(c, fiber.StatusOK, stats)
}

// Get returns one certificate.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	certificate, err := s.controller.Get(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err, "Failed to fetch certificate")
	}

	return handler.OK(c, fiber.StatusOK, certificate)
}

// Create stores a new certificate and answers 201 with the stored record.
func (s *Service) Create(c *fiber.Ctx) error {
	var in models.Certificate
	if err := s.parse(c, &in); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	certificate, err := s.controller.Create(c.UserContext(), in)
	if err != nil {
		return s.fail(c, err, "Failed to create certificate")
	}

	log.Info().
		Uint64("id", certificate.ID).
		Str("certificate_number", certificate.CertificateNumber).
		Msg("certificate created")

	return handler.OK(c, fiber.StatusCreated, certificate)
}

// Update replaces a certificate with the request body.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	var in models.Certificate
	if err = s.parse(c, &in); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	certificate, err := s.controller.Update(c.UserContext(), id, in)
	if err != nil {
		return s.fail(c, err, "Failed to update certificate")
	}

	return handler.OK(c, fiber.StatusOK, certificate)
}

// Patch changes the fields present in the request body.
func (s *Service) Patch(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	var in controller.Patch
	if err = s.parse(c, &in); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	certificate, err := s.controller.Patch(c.UserContext(), id, in)
	if err != nil {
		return s.fail(c, err, "Failed to update certificate")
	}

	return handler.OK(c, fiber.StatusOK, certificate)
}

// Delete removes a certificate.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err = s.controller.Delete(c.UserContext(), id); err != nil {
		return s.fail(c, err, "Failed to delete certificate")
	}

	log.Info().Uint64("id", id).Msg("certificate deleted")

	return c.JSON(handler.Response{Success: true, Message: "Certificate deleted successfully"})
}

// parse decodes and validates the JSON body into v.
func (s *Service) parse(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return errors.New("invalid request body")
	}

	if err := s.validator.Struct(v); err != nil {
		return errors.New(handler.ValidationMessage(err))
	}

	return nil
}

func parseID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(handler.IDParam), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}

	return id, nil
}

// fail maps controller errors to status codes.
func (s *Service) fail(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, controller.ErrCertificateNotFound):
		return handler.Fail(c, fiber.StatusNotFound, "Certificate not found")
	case errors.Is(err, controller.ErrCertificateNumberEmpty),
		errors.Is(err, controller.ErrCertificateNumberImmutable):
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, controller.ErrCertificateNumberExists):
		return handler.Fail(c, fiber.StatusConflict, err.Error())
	default:
		return handler.StoreFailure(c, s.store, err, message)
	}
}

// Package settings implements the settings REST handlers read by the
// frontend for branding.
package settings

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/clinic-crm/clinic-crm/internal/config"
	"github.com/clinic-crm/clinic-crm/internal/db"
	"github.com/clinic-crm/clinic-crm/internal/db/controller/setting"
	"github.com/clinic-crm/clinic-crm/internal/db/models"
	"github.com/clinic-crm/clinic-crm/internal/web/handler"
)

const (
	// Path is the settings resource below the API prefix.
	Path = "/settings"

	keyParam = "key"
	keyPath  = "/:" + keyParam
)

// Service is the settings handler service.
type Service struct {
	handler.Service
	cfg        *config.Config
	store      *db.Store
	controller *setting.Controller
	validator  *validator.Validate
}

// Init initializes the settings handler and registers its routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, store *db.Store) error {
	if router == nil || cfg == nil || store == nil {
		return errors.New(handler.ErrNilRCSFatalLogMsg)
	}

	ctrl, err := setting.New(store)
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.store = store
	s.controller = ctrl
	s.validator = handler.NewValidator()

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RouterRootPath, s.List)
		r.Get(keyPath, s.Get)
		r.Put(keyPath, s.Put)
		r.Delete(keyPath, s.Delete)
	})

	return nil
}

// List returns all settings ordered by key.
func (s *Service) List(c *fiber.Ctx) error {
	settings, err := s.controller.GetAll(c.UserContext())
	if err != nil {
		return s.fail(c, err, "Failed to fetch settings")
	}

	return handler.OK(c, fiber.StatusOK, settings)
}

// Get returns one setting.
func (s *Service) Get(c *fiber.Ctx) error {
	item, err := s.controller.Get(c.UserContext(), c.Params(keyParam))
	if err != nil {
		return s.fail(c, err, "Failed to fetch setting")
	}

	return handler.OK(c, fiber.StatusOK, item)
}

// Put creates or replaces the setting named in the path.
func (s *Service) Put(c *fiber.Ctx) error {
	var in models.AppSetting
	if err := c.BodyParser(&in); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	in.SettingKey = c.Params(keyParam)

	if err := s.validator.Struct(in); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, handler.ValidationMessage(err))
	}

	item, err := s.controller.Set(c.UserContext(), in)
	if err != nil {
		return s.fail(c, err, "Failed to save setting")
	}

	log.Info().Str("setting_key", item.SettingKey).Str("setting_type", item.SettingType).Msg("setting saved")

	return handler.OK(c, fiber.StatusOK, item)
}

// Delete removes the setting named in the path.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := s.controller.Delete(c.UserContext(), c.Params(keyParam)); err != nil {
		return s.fail(c, err, "Failed to delete setting")
	}

	return c.JSON(handler.Response{Success: true, Message: "Setting deleted successfully"})
}

func (s *Service) fail(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, setting.ErrSettingNotFound):
		return handler.Fail(c, fiber.StatusNotFound, "Setting not found")
	case errors.Is(err, setting.ErrSettingKeyEmpty):
		return handler.Fail(c, fiber.StatusBadRequest, err.Error())
	default:
		return handler.StoreFailure(c, s.store, err, message)
	}
}

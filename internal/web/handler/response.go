package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/clinic-crm/clinic-crm/internal/db"
)

// Response is the envelope of every API answer.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// NotFoundResponse is returned for requests no route serves.
type NotFoundResponse struct {
	Error  string `json:"error"`
	Path   string `json:"path"`
	Method string `json:"method"`
}

// OK sends data with the given status.
func OK(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Response{Success: true, Data: data})
}

// Fail sends an error message with the given status.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Message: message})
}

// NotFound answers an unroutable request, echoing path and method.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(NotFoundResponse{
		Error:  "Route not found",
		Path:   c.Path(),
		Method: c.Method(),
	})
}

// StoreFailure logs a failed store operation and answers 503 when the store
// could not be reached in time, 500 otherwise.
func StoreFailure(c *fiber.Ctx, store *db.Store, err error, message string) error {
	status := fiber.StatusInternalServerError
	if db.Unavailable(err) {
		status = fiber.StatusServiceUnavailable
	}

	event := log.Error().Err(err).Int("status", status).Str("path", c.Path())
	if store != nil {
		event = event.Fields(store.Describe())
	}

	event.Msg(message)

	return Fail(c, status, message)
}

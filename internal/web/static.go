package web

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"github.com/clinic-crm/clinic-crm/internal/web/dispatch"
	"github.com/clinic-crm/clinic-crm/internal/web/handler"
)

const indexFile = "index.html"

// spaHandlers serve assets of the frontend build and answer every other GET
// with index.html, so client side routes survive a reload.
func spaHandlers(bundle fs.FS, browse bool) []fiber.Handler {
	return []fiber.Handler{
		skipDirs(filesystem.New(filesystem.Config{
			Root:   http.FS(bundle),
			Browse: browse,
			MaxAge: 3600,
		})),
		spaFallback(bundle),
	}
}

// skipDirs passes a directory without index to the next handler instead of
// answering 403.
func skipDirs(h fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := h(c); !errors.Is(err, fiber.ErrForbidden) {
			return err
		}

		return c.Next()
	}
}

// outsideRoute reports whether the request only shares a string prefix with
// the mounted route, as /Photosgallery does with /Photos.
func outsideRoute(c *fiber.Ctx) bool {
	return !dispatch.Under(c.Path(), c.Route().Path)
}

func spaFallback(bundle fs.FS) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
			return handler.NotFound(c)
		}

		index, err := fs.ReadFile(bundle, indexFile)
		if err != nil {
			return handler.NotFound(c)
		}

		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Type("html")

		return c.Status(fiber.StatusOK).Send(index)
	}
}

// photoRoutes serve uploaded files, unknown files answer the JSON not found.
// An empty dir serves nothing.
func photoRoutes(dir string, browse bool) func(router fiber.Router) {
	return func(router fiber.Router) {
		if dir == "" {
			router.All("/*", handler.NotFound)
			return
		}

		router.Use(skipDirs(filesystem.New(filesystem.Config{
			Root:   http.Dir(dir),
			Browse: browse,
			Next:   outsideRoute,
		})))
		router.All("/*", handler.NotFound)
	}
}

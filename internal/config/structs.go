package config

import (
	"github.com/clinic-crm/clinic-crm/internal/logger"
)

// Deployment environments, set through NODE_ENV or APP_ENV.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Config overall data structure.
type Config struct {
	DevMode     bool   // forces development routing even in production
	Environment string // development, test or production
	DB          DB
	Log         logger.Log
	Title       string
	Webserver   Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool   // enable static directory listing (for development purposes only)
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // seconds to report unhealthy before the server stops
	URL            string // public base url
	APIPrefix      string // path prefix of the REST API
	StaticDir      string // built frontend bundle on disk, empty uses the embedded one
	PhotosDir      string // uploaded photos served under /Photos, empty disables it
	ReadBufferSize int
}

// Production reports whether the production routing (static bundle and SPA
// fallback) is active.
func (c *Config) Production() bool {
	return c.Environment == EnvProduction && !c.DevMode
}

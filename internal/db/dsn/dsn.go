// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/clinic-crm/clinic-crm/internal/config"
)

// Create builds the Data Source Name for the configured engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return postgres(cfg)
	case config.EngineSQLite:
		return cfg.DB.Name
	default:
		return mysql(cfg)
	}
}

// mysql builds a go-sql-driver DSN. parseTime is always on and updates report
// matched rather than changed rows. The dial, read and write timeouts follow
// DB.ConnectTimeout and DB.QueryTimeout.
func mysql(cfg *config.Config) string {
	params := []string{
		"parseTime=true",
		"clientFoundRows=true",
		fmt.Sprintf("timeout=%ds", cfg.DB.ConnectTimeout),
		fmt.Sprintf("readTimeout=%ds", cfg.DB.QueryTimeout),
		fmt.Sprintf("writeTimeout=%ds", cfg.DB.QueryTimeout),
	}

	if cfg.DB.Extras != "" {
		params = append(params, cfg.DB.Extras)
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
		strings.Join(params, "&"),
	)
}

func postgres(cfg *config.Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.DB.User, cfg.DB.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.DB.Host, cfg.DB.Port),
		Path:   "/" + cfg.DB.Name,
	}

	q, _ := url.ParseQuery(cfg.DB.Extras)
	q.Set("connect_timeout", fmt.Sprint(cfg.DB.ConnectTimeout))

	if !q.Has("sslmode") {
		q.Set("sslmode", "disable")
	}

	u.RawQuery = q.Encode()

	return u.String()
}

// Describe returns the connection parameters for logs, without the password.
func Describe(cfg *config.Config) map[string]any {
	return map[string]any{
		"engine": cfg.DB.GormEngine,
		"host":   cfg.DB.Host,
		"port":   cfg.DB.Port,
		"user":   cfg.DB.User,
		"name":   cfg.DB.Name,
	}
}

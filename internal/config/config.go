// Package config reads the service configuration from etc/main.toml,
// a JSON override and the process environment.
package config

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/clinic-crm/clinic-crm/internal/logger"
)

const (
	// JSONOverrideEnv holds a JSON document merged over the file configuration.
	JSONOverrideEnv = "CLINIC_CRM_CONFIG_JSON"

	maskedSecret = "******"
)

// envBindings maps viper keys to the environment variables that set them.
// The first variable found wins.
var envBindings = map[string][]string{ //nolint:gochecknoglobals
	"port":        {"PORT"},
	"environment": {"NODE_ENV", "APP_ENV"},
	"static_dir":  {"STATIC_DIR"},
	"log_level":   {"LOG_LEVEL"},
	"db.host":     {"DB_HOST"},
	"db.port":     {"DB_PORT"},
	"db.user":     {"DB_USER"},
	"db.password": {"DB_PASSWORD"},
	"db.name":     {"DB_NAME"},
	"db.engine":   {"DB_ENGINE"},
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Environment: EnvDevelopment,
		Title:       "Clinic CRM",
		DB: DB{
			Host:       "localhost",
			Port:       3306,
			User:       "root",
			Name:       "clinic_crm",
			GormEngine: EngineMySQL,
			Extras:     "charset=utf8mb4&loc=Local",
		},
		Log: defaultLog(),
		Webserver: Webserver{
			Port:      5000,
			URL:       "http://localhost:5000",
			APIPrefix: "/api",
			PhotosDir: "./Photos",
		},
	}
}

func defaultLog() (l logger.Log) {
	l.LogLevel = "info"
	l.AppName = "clinic-crm"
	l.ServiceName = "clinic-crm-api"
	l.EnableAccessLogToConsole = true
	l.DisableCheckAlive = true
	l.SlowQueryMillis = 500
	l.Console.Enabled = true

	return l
}

// ReadConfig builds the configuration from defaults, <path>/main.toml when it
// exists, the JSON override and the environment, in that order.
func ReadConfig(path string) (Config, error) {
	var (
		c   = Default()
		err error
	)

	if path == "" {
		path = "./etc/"
	}

	file := filepath.Join(path, "main.toml")

	if _, err = os.Stat(file); err == nil {
		if _, err = toml.DecodeFile(file, &c); err != nil {
			return Config{}, errors.Wrap(err, "failed to read main config file")
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "failed to stat main config file")
	}

	if jsonConfig := os.Getenv(JSONOverrideEnv); jsonConfig != "" {
		if c, err = decodeAndMergeConfig(c, jsonConfig); err != nil {
			return c, err
		}
	}

	if err = applyEnv(&c); err != nil {
		return c, err
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+JSONOverrideEnv)
	}

	return c, nil
}

// applyEnv overrides c with the variables listed in envBindings.
func applyEnv(c *Config) error {
	v := viper.New()

	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return errors.Wrapf(err, "failed to bind environment for %s", key)
		}
	}

	if v.IsSet("port") {
		c.Webserver.Port = v.GetInt("port")
	}

	if v.IsSet("environment") {
		c.Environment = v.GetString("environment")
	}

	if v.IsSet("static_dir") {
		c.Webserver.StaticDir = v.GetString("static_dir")
	}

	if v.IsSet("log_level") {
		c.Log.LogLevel = v.GetString("log_level")
	}

	if v.IsSet("db.host") {
		c.DB.Host = v.GetString("db.host")
	}

	if v.IsSet("db.port") {
		c.DB.Port = v.GetInt("db.port")
	}

	if v.IsSet("db.user") {
		c.DB.User = v.GetString("db.user")
	}

	if v.IsSet("db.password") {
		c.DB.Password = v.GetString("db.password")
	}

	if v.IsSet("db.name") {
		c.DB.Name = v.GetString("db.name")
	}

	if v.IsSet("db.engine") {
		c.DB.GormEngine = v.GetString("db.engine")
	}

	return nil
}

// DumpConfig renders the configuration as TOML with secrets masked.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(masked(c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON renders the configuration as indented JSON with secrets masked.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(masked(c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

func masked(c *Config) Config {
	out := *c
	if out.DB.Password != "" {
		out.DB.Password = maskedSecret
	}

	return out
}

// validate checks the settings the service cannot start without and fills
// defaults for optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.Environment {
	case "":
		c.Environment = EnvDevelopment
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return errors.Wrapf(ErrUnknownEnvironment, "%s: %q", invalidErrMessage, c.Environment)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineMySQL
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrapf(ErrUnknownGormEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	if c.DB.Name == "" {
		return errors.Wrap(ErrEmptyDBName, invalidErrMessage)
	}

	if c.Webserver.APIPrefix == "" {
		c.Webserver.APIPrefix = "/api"
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.DB.MaxOpenConns == 0 {
		c.DB.MaxOpenConns = 10
	}

	if c.DB.MaxIdleConns == 0 {
		c.DB.MaxIdleConns = 5
	}

	if c.DB.ConnectTimeout == 0 {
		c.DB.ConnectTimeout = 10
	}

	if c.DB.QueryTimeout == 0 {
		c.DB.QueryTimeout = 10
	}

	if c.Log.LogEnv == "" {
		c.Log.LogEnv = c.Environment
	}

	return nil
}

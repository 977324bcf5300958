package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnknownEnvironment error if the environment is not development, test or production.
	ErrUnknownEnvironment = errors.New("config environment must be development, test or production")

	// ErrUnknownGormEngine error if db.gormEngine names an unsupported driver.
	ErrUnknownGormEngine = errors.New("config db.gormEngine must be mysql, postgres or sqlite")

	// ErrEmptyDBName error if db.name is empty.
	ErrEmptyDBName = errors.New("config db.name can not be empty")
)

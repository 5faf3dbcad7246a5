// Package config loads env-tagged configuration structs for the gated
// server and its backing stores. A .env file in the working directory is
// loaded once, if present, before the environment is read; real environment
// variables always win over the file.
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilTarget is returned when Load is given a nil pointer.
	ErrNilTarget = errors.New("config: nil target")

	// ErrParse wraps env parsing failures, including missing required
	// variables.
	ErrParse = errors.New("config: failed to parse environment")
)

var dotenvOnce sync.Once

// Load fills v from the environment according to its env tags. Missing
// optional variables keep their envDefault values; a missing required
// variable is an error.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilTarget
	}
	dotenvOnce.Do(func() {
		// Absence of a .env file is the normal production case.
		_ = godotenv.Load()
	})
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParse, err)
	}
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

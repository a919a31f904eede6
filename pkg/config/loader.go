package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu        sync.Mutex
	loaded    = make(map[reflect.Type]any)
	dotenvRun sync.Once
)

// Load parses the environment into v. The default .env file is read once per
// process if present. Successfully parsed types are cached, so subsequent
// calls return the first result even if the environment changed.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	dotenvRun.Do(func() {
		// A missing .env is not an error.
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := loaded[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	loaded[key] = parsed
	*v = parsed
	return nil
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadEnvFiles reads the given .env files into the process environment
// without overriding variables that are already set.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Reset drops every cached configuration. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	loaded = make(map[reflect.Type]any)
}

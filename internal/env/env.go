// Package env contains helpers for loading and merging environment variables from multiple sources.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Vars represents a simple string-to-string map of variables.
type Vars map[string]string

// FromOS builds a Vars map from the current process environment.
func FromOS() Vars {
	out := make(Vars)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[key] = value
	}
	return out
}

// Merge merges several Vars maps into one, later maps overriding earlier keys.
func Merge(sets ...Vars) Vars {
	out := make(Vars)
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}

// Lookup has the same contract as os.LookupEnv.
func (v Vars) Lookup(key string) (string, bool) {
	value, ok := v[key]
	return value, ok
}

// Get returns the trimmed value of key, or fallback when it is unset or blank.
func (v Vars) Get(key, fallback string) string {
	if value := strings.TrimSpace(v[key]); value != "" {
		return value
	}
	return fallback
}

// Without returns a copy of v with the given keys removed.
func (v Vars) Without(keys ...string) Vars {
	out := Merge(v)
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// LoadEnvFile loads a single .env-style file into Vars.
func LoadEnvFile(path string) (Vars, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	envMap, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse env file %q: %w", path, err)
	}
	return Vars(envMap), nil
}

// LoadOptionalEnvFile is LoadEnvFile that treats a missing file as empty.
func LoadOptionalEnvFile(path string) (Vars, error) {
	if path == "" {
		return Vars{}, nil
	}
	vars, err := LoadEnvFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Vars{}, nil
	}
	return vars, err
}

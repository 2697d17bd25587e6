package secret

import (
	"context"
	"os"
)

// LookupFunc matches the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvSource reads a secret from an environment variable.
type EnvSource struct {
	Key string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv LookupFunc
}

// NewEnvSource returns a source reading key from the process environment.
func NewEnvSource(key string) *EnvSource {
	return &EnvSource{Key: key, LookupEnv: os.LookupEnv}
}

// Name implements Source.
func (s *EnvSource) Name() string {
	return "env:" + s.Key
}

// Lookup implements Source. Unset and empty variables both yield "".
func (s *EnvSource) Lookup(context.Context) (string, error) {
	lookup := s.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	value, _ := lookup(s.Key)
	return value, nil
}

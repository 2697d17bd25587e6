// Package secret resolves secret values from an ordered list of sources.
package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable is returned by a source that cannot be consulted in the
// current environment (for example, a prompt without a terminal).
var ErrUnavailable = errors.New("secret source unavailable")

// Source is a single strategy for obtaining a secret value.
// An empty value with a nil error means the source has nothing to offer.
type Source interface {
	Name() string
	Lookup(ctx context.Context) (string, error)
}

// MissingSecretError is returned when no source yields a non-empty value.
type MissingSecretError struct {
	// Sources are the names of the sources that were consulted, in order.
	Sources []string
	// Err joins the errors reported by the sources, if any.
	Err error
}

func (e *MissingSecretError) Error() string {
	msg := fmt.Sprintf("secret not provided by any source (%s)", strings.Join(e.Sources, ", "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MissingSecretError) Unwrap() error {
	return e.Err
}

// Resolve consults sources in order and returns the first non-empty value.
// Later sources are not consulted once a value is found.
func Resolve(ctx context.Context, sources ...Source) (string, error) {
	tried := make([]string, 0, len(sources))
	var errs []error
	for _, src := range sources {
		tried = append(tried, src.Name())
		value, err := src.Lookup(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		if value != "" {
			return value, nil
		}
	}
	return "", &MissingSecretError{Sources: tried, Err: errors.Join(errs...)}
}

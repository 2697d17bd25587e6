package secret

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	name  string
	value string
	err   error
	calls int
}

func (s *countingSource) Name() string { return s.name }

func (s *countingSource) Lookup(context.Context) (string, error) {
	s.calls++
	return s.value, s.err
}

type fakeTerminal struct {
	interactive bool
	input       string
	err         error
	reads       int
}

func (f *fakeTerminal) IsTerminal() bool { return f.interactive }

func (f *fakeTerminal) ReadPassword() ([]byte, error) {
	f.reads++
	return []byte(f.input), f.err
}

func mapLookup(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestResolvePrefersEnvironment(t *testing.T) {
	env := &EnvSource{Key: "DB_PASSWORD", LookupEnv: mapLookup(map[string]string{"DB_PASSWORD": "x"})}
	prompt := &countingSource{name: "prompt", value: "from-prompt"}

	got, err := Resolve(context.Background(), env, prompt)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.Equal(t, 0, prompt.calls)
}

func TestResolveFallsBackToPromptOnce(t *testing.T) {
	for name, vars := range map[string]map[string]string{
		"unset": {},
		"empty": {"DB_PASSWORD": ""},
	} {
		t.Run(name, func(t *testing.T) {
			env := &EnvSource{Key: "DB_PASSWORD", LookupEnv: mapLookup(vars)}
			prompt := &countingSource{name: "prompt", value: "typed"}

			got, err := Resolve(context.Background(), env, prompt)
			require.NoError(t, err)
			assert.Equal(t, "typed", got)
			assert.Equal(t, 1, prompt.calls)
		})
	}
}

func TestResolveMissing(t *testing.T) {
	env := &EnvSource{Key: "DB_PASSWORD", LookupEnv: mapLookup(nil)}
	prompt := &PromptSource{Prompt: "pw: ", Terminal: &fakeTerminal{}}

	_, err := Resolve(context.Background(), env, prompt)
	require.Error(t, err)

	var missing *MissingSecretError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"env:DB_PASSWORD", "prompt"}, missing.Sources)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestResolveNoSources(t *testing.T) {
	_, err := Resolve(context.Background())
	var missing *MissingSecretError
	require.True(t, errors.As(err, &missing))
	assert.Empty(t, missing.Sources)
}

func TestEnvSourceDefaultsToProcessEnvironment(t *testing.T) {
	t.Setenv("DEPLOYCTL_TEST_SECRET", "from-os")

	got, err := NewEnvSource("DEPLOYCTL_TEST_SECRET").Lookup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-os", got)
}

func TestPromptSourceReadsMaskedInput(t *testing.T) {
	var out bytes.Buffer
	terminal := &fakeTerminal{interactive: true, input: "typed-secret"}
	src := &PromptSource{Prompt: "Enter DB password (will not be shown): ", Terminal: terminal, Out: &out}

	got, err := src.Lookup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "typed-secret", got)
	assert.Equal(t, 1, terminal.reads)
	assert.Equal(t, "Enter DB password (will not be shown): \n", out.String())
	assert.NotContains(t, out.String(), "typed-secret")
}

func TestPromptSourceNonInteractive(t *testing.T) {
	terminal := &fakeTerminal{interactive: false}
	src := &PromptSource{Prompt: "pw: ", Terminal: terminal, Out: &bytes.Buffer{}}

	_, err := src.Lookup(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 0, terminal.reads)
}

func TestPromptSourceReadError(t *testing.T) {
	terminal := &fakeTerminal{interactive: true, err: errors.New("eof")}
	src := &PromptSource{Prompt: "pw: ", Terminal: terminal, Out: &bytes.Buffer{}}

	_, err := src.Lookup(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read password")
}

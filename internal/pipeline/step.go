// Package pipeline runs ordered sequences of external tool invocations.
package pipeline

import (
	"strings"
)

// redactedValue replaces secret values in displayed command lines.
const redactedValue = "******"

// Step describes one external process invocation within a pipeline.
// Steps are values: build them once and do not mutate them afterwards.
type Step struct {
	// Name is a short identifier used in logs and errors (e.g. "terraform validate").
	Name string
	// Program is the executable name or path.
	Program string
	// Args are passed to Program verbatim.
	Args []string
	// Dir is the working directory of the process. Empty means the current directory.
	Dir string
	// BestEffort marks a step whose failure does not abort the pipeline.
	BestEffort bool
	// Redact lists values masked whenever the command line is displayed or logged.
	Redact []string
}

// Argv returns the full argument vector including the program name.
func (s Step) Argv() []string {
	argv := make([]string, 0, len(s.Args)+1)
	argv = append(argv, s.Program)
	return append(argv, s.Args...)
}

// String renders the command line with redacted values masked.
func (s Step) String() string {
	parts := make([]string, 0, len(s.Args)+1)
	for _, arg := range s.Argv() {
		parts = append(parts, quoteArg(s.redact(arg)))
	}
	return strings.Join(parts, " ")
}

func (s Step) redact(arg string) string {
	for _, value := range s.Redact {
		if value == "" {
			continue
		}
		arg = strings.ReplaceAll(arg, value, redactedValue)
	}
	return arg
}

// quoteArg single-quotes arguments that a POSIX shell would split or expand.
// The redaction mask itself never forces quoting.
func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(strings.ReplaceAll(arg, redactedValue, ""), " \t\n'\"$`\\|&;<>()*?[]{}~#!") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// Package config provides configuration models and helpers for load runs.
//
// This file adds a lightweight linter/validator for Load values. It performs
// static checks over a decoded Load and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Load.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "stations.path"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidateLoad performs static validation / linting of a Load.
//
// It does not mutate the config. Instead it returns a slice of Issue values;
// callers decide whether to treat warnings as fatal.
func ValidateLoad(l Load) []Issue {
	var issues []Issue

	if strings.TrimSpace(l.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}

	if strings.TrimSpace(l.Stations.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "stations.path",
			Message:  "station extract requires a non-empty path",
		})
	}
	if strings.TrimSpace(l.Journeys.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "journeys.path",
			Message:  "journey extract requires a non-empty path",
		})
	}

	issues = append(issues, validateParser(l.Parser)...)
	issues = append(issues, validateStorage(l.Storage)...)

	return issues
}

// validateParser validates parser options. Unknown keys are warnings so that
// older binaries tolerate newer run files.
func validateParser(p Parser) []Issue {
	var issues []Issue

	known := map[string]struct{}{
		"has_header": {},
		"comma":      {},
		"trim_space": {},
		"header_map": {},
	}
	for k := range p.Options {
		if _, ok := known[k]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "parser.options." + k,
				Message:  "unknown parser option; it will be ignored",
			})
		}
	}

	if c := p.Options.String("comma", ","); len([]rune(c)) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.options.comma",
			Message:  fmt.Sprintf("delimiter must be a single character, got %q", c),
		})
	}

	return issues
}

// validateStorage validates the storage selection.
func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
		return issues
	}

	// Known storage kinds. Unknown kinds are warnings (the factory decides
	// at run time whether a backend is registered).
	known := map[string]struct{}{
		"postgres": {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	return issues
}

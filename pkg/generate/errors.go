package generate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingParameter marks a required value that was left unset.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrInvalidParameter marks a value outside its accepted range.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnknownModel marks a model name absent from a fixed lookup table.
	ErrUnknownModel = errors.New("unknown model")
)

// ConfigError describes a configuration problem detected before any file is
// written.
type ConfigError struct {
	Component string
	Field     string
	Reason    string
	Err       error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	if e.Component != "" {
		b.WriteString(e.Component)
		b.WriteString(": ")
	}
	b.WriteString(e.Field)
	b.WriteString(": ")
	if e.Reason != "" {
		b.WriteString(e.Reason)
	} else if e.Err != nil {
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Missing builds a ConfigError wrapping ErrMissingParameter.
func Missing(component, field, reason string) error {
	if reason == "" {
		reason = "is required"
	}
	return &ConfigError{Component: component, Field: field, Reason: reason, Err: ErrMissingParameter}
}

// Invalid builds a ConfigError wrapping ErrInvalidParameter.
func Invalid(component, field, reason string) error {
	return &ConfigError{Component: component, Field: field, Reason: reason, Err: ErrInvalidParameter}
}

// UnknownModelError names a model missing from a lookup table.
type UnknownModelError struct {
	Component string
	Table     string
	Model     string
	Known     []string
}

func (e *UnknownModelError) Error() string {
	msg := fmt.Sprintf("%s: unknown model %q", e.Component, e.Model)
	if e.Table != "" {
		msg += " in " + e.Table + " table"
	}
	if len(e.Known) > 0 {
		msg += " (known: " + strings.Join(e.Known, ", ") + ")"
	}
	return msg
}

// Is lets errors.Is match ErrUnknownModel.
func (e *UnknownModelError) Is(target error) bool {
	return target == ErrUnknownModel
}

// PartialError reports a pass aborted after some files were already written.
// Those files are left on disk.
type PartialError struct {
	Component string
	Written   []string
	Total     int
	Path      string
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%s: pass aborted after writing %d of %d file(s) at %s: %v",
		e.Component, len(e.Written), e.Total, e.Path, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// UniqueNames rejects empty or repeated entries; generated file names are
// only unique when the names they are built from are.
func UniqueNames(component, field string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			return Invalid(component, field, "contains an empty name")
		}
		if _, dup := seen[name]; dup {
			return Invalid(component, field, "lists "+name+" more than once")
		}
		seen[name] = struct{}{}
	}
	return nil
}

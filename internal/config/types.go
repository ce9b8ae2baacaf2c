// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/umlgraph/pkg/transform"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultSeparator joins qualified name segments.
	DefaultSeparator = "."
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidSeparator is returned when a qualified name separator is empty
	// or whitespace-only.
	ErrInvalidSeparator = errors.New("invalid separator")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Codec configures document decoding
		Codec CodecConfig `json:"codec" mapstructure:"codec"`
		// Transform configures the dependency sort
		Transform TransformConfig `json:"transform" mapstructure:"transform"`
		// Naming configures qualified names
		Naming NamingConfig `json:"naming" mapstructure:"naming"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// CodecConfig configures how documents are decoded.
	CodecConfig struct {
		// ApplySorting sorts packaged and ordered elements after decoding
		ApplySorting bool `json:"apply_sorting" mapstructure:"apply_sorting"`
		// IncludesPrimitives seeds the primitive types into every graph up
		// front instead of resolving them on first use
		IncludesPrimitives bool `json:"includes_primitives" mapstructure:"includes_primitives"`
	}

	// TransformConfig configures the dependency sort.
	TransformConfig struct {
		// DependencyKinds names the relationships that create dependencies
		DependencyKinds []string `json:"dependency_kinds" mapstructure:"dependency_kinds"`
		// CyclePolicy is "keep-order" or "fail"
		CyclePolicy string `json:"cycle_policy" mapstructure:"cycle_policy"`
	}

	// NamingConfig configures qualified names.
	NamingConfig struct {
		// Separator joins the segments of qualified names
		Separator string `json:"separator" mapstructure:"separator"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and detailed errors
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Codec: CodecConfig{
			ApplySorting:       false,
			IncludesPrimitives: false,
		},
		Transform: TransformConfig{
			DependencyKinds: []string{transform.DependencyAll.String()},
			CyclePolicy:     string(transform.CycleKeepOrder),
		},
		Naming: NamingConfig{
			Separator: DefaultSeparator,
		},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Kinds parses the configured dependency kinds.
func (c TransformConfig) Kinds() (transform.DependencyKind, error) {
	return transform.ParseDependencyKinds(c.DependencyKinds...)
}

// Policy parses the configured cycle policy.
func (c TransformConfig) Policy() (transform.CyclePolicy, error) {
	return transform.ParseCyclePolicy(c.CyclePolicy)
}

// IsValid returns whether the TransformConfig names known kinds and a known
// cycle policy.
func (c TransformConfig) IsValid() (bool, []error) {
	var errs []error
	if _, err := c.Kinds(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Policy(); err != nil {
		errs = append(errs, err)
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the separator is usable.
func (c NamingConfig) IsValid() (bool, []error) {
	if strings.TrimSpace(c.Separator) == "" {
		return false, []error{fmt.Errorf("%w %q", ErrInvalidSeparator, c.Separator)}
	}
	return true, nil
}

// IsValid returns whether the Config has valid fields.
// CodecConfig has only bool fields and needs no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Transform.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Naming.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

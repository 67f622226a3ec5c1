// Package config holds the options of the curve edit operations. Options are
// read from YAML; fields missing from a document keep their defaults.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/tangent"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// LastKeyPolicy decides how the tangent direction of a curve's last key is
// found, which has no next key to compare with.
type LastKeyPolicy string

const (
	// LastKeyPrevious compares the last key with its predecessor.
	LastKeyPrevious LastKeyPolicy = "previous"
	// LastKeySkip leaves the last key of a curve untouched.
	LastKeySkip LastKeyPolicy = "skip"
)

// Options configures the edit operations.
type Options struct {
	// Tolerance up to which start and end value of a cyclic curve match.
	Tolerance float64 `yaml:"tolerance"`
	// SnapMultiple is the frame grid keys are snapped to after reversal.
	SnapMultiple float64 `yaml:"snapMultiple"`
	// LastKey is the direction policy for re-angling a curve's last key.
	LastKey LastKeyPolicy `yaml:"lastKey"`
	// DefaultTangent is the tangent type of keys created by a scene loader.
	DefaultTangent tangent.Type `yaml:"defaultTangent"`
	// TraceLevel is one of Debug, Info, Error.
	TraceLevel string `yaml:"traceLevel"`
}

// Default returns the default options.
func Default() Options {
	return Options{
		Tolerance:      graphed.Tolerance,
		SnapMultiple:   1,
		LastKey:        LastKeyPrevious,
		DefaultTangent: tangent.Auto,
		TraceLevel:     "Info",
	}
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	if o.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive, is %g", graphed.ErrInvalidArgument, o.Tolerance)
	}
	if o.SnapMultiple <= 0 {
		return fmt.Errorf("%w: snap multiple must be positive, is %g", graphed.ErrInvalidArgument, o.SnapMultiple)
	}
	if o.LastKey != LastKeyPrevious && o.LastKey != LastKeySkip {
		return fmt.Errorf("%w: unknown last key policy %q", graphed.ErrInvalidArgument, o.LastKey)
	}
	if !tangent.IsValid(tangent.Out, o.DefaultTangent) {
		return fmt.Errorf("%w: default tangent %q", graphed.ErrInvalidTangentType, o.DefaultTangent)
	}
	if _, err := o.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the trace level named by TraceLevel.
func (o Options) Level() (tracing.TraceLevel, error) {
	switch o.TraceLevel {
	case "Debug", "debug":
		return tracing.LevelDebug, nil
	case "Info", "info", "":
		return tracing.LevelInfo, nil
	case "Error", "error":
		return tracing.LevelError, nil
	}
	return tracing.LevelInfo, fmt.Errorf("%w: unknown trace level %q", graphed.ErrInvalidArgument, o.TraceLevel)
}

// Load reads options from YAML. The result is validated.
func Load(r io.Reader) (Options, error) {
	o := Default()
	if err := yaml.NewDecoder(r).Decode(&o); err != nil && err != io.EOF {
		return o, fmt.Errorf("reading options: %w", err)
	}
	return o, o.Validate()
}

// LoadFile reads options from a YAML file.
func LoadFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Default(), err
	}
	defer f.Close()
	return Load(f)
}

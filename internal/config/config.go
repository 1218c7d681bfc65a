// Package config defines the notifier's per-invocation configuration and
// how it is loaded and handed to the background worker.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultInterval is how long to wait between registry lookups.
const DefaultInterval = 24 * time.Hour

// DefaultDistTag is the release channel checked when none is given.
const DefaultDistTag = "latest"

// Config describes one tool that wants update notices. The JSON form is the
// payload passed to the background worker, so field names are stable.
type Config struct {
	PackageName    string `json:"packageName" mapstructure:"packageName" yaml:"packageName"`
	PackageVersion string `json:"packageVersion" mapstructure:"packageVersion" yaml:"packageVersion"`

	// UpdateCheckInterval is in milliseconds. Zero checks on every run once
	// the first run has seeded the store; negative never schedules a check.
	UpdateCheckInterval int64 `json:"updateCheckInterval" mapstructure:"updateCheckInterval" yaml:"updateCheckInterval"`

	DistTag                 string `json:"distTag" mapstructure:"distTag" yaml:"distTag"`
	ShouldNotifyInNpmScript bool   `json:"shouldNotifyInNpmScript" mapstructure:"shouldNotifyInNpmScript" yaml:"shouldNotifyInNpmScript"`
	RegistryURL             string `json:"registryUrl,omitempty" mapstructure:"registryUrl" yaml:"registryUrl,omitempty"`

	// ConfigDir pins the state store location so the worker writes where the
	// parent reads.
	ConfigDir string `json:"configDir,omitempty" mapstructure:"configDir" yaml:"configDir,omitempty"`
}

// New returns a Config for the given package with default interval and tag.
func New(name, version string) Config {
	return Config{
		PackageName:         name,
		PackageVersion:      version,
		UpdateCheckInterval: DefaultInterval.Milliseconds(),
		DistTag:             DefaultDistTag,
	}
}

// Interval returns UpdateCheckInterval as a Duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.UpdateCheckInterval) * time.Millisecond
}

// SchedulingDisabled reports whether background checks are never scheduled.
func (c Config) SchedulingDisabled() bool {
	return c.UpdateCheckInterval < 0
}

// Tag returns DistTag or DefaultDistTag.
func (c Config) Tag() string {
	if c.DistTag == "" {
		return DefaultDistTag
	}
	return c.DistTag
}

// ErrMissingField is matched by every ValidationError.
var ErrMissingField = errors.New("required field missing")

// ValidationError names the missing field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *ValidationError) Is(target error) bool { return target == ErrMissingField }

// Validate checks that the package identity is present.
func (c Config) Validate() error {
	if c.PackageName == "" {
		return &ValidationError{Field: "packageName"}
	}
	if c.PackageVersion == "" {
		return &ValidationError{Field: "packageVersion"}
	}
	return nil
}

// Encode serialises c for the worker's command line.
func (c Config) Encode() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

// Decode parses a payload produced by Encode and validates it.
func Decode(payload string) (Config, error) {
	var c Config
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	c.DistTag = c.Tag()
	return c, nil
}

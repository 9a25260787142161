// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

package slides

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// settingsEnvVar names the environment variable holding the settings
// file path when no explicit path is given.
const settingsEnvVar = "GSLIDES_CONFIG"

// Settings holds the endpoint and retry configuration for a client
// tree. Loaded from a single YAML file named explicitly or via the
// GSLIDES_CONFIG environment variable — no fallbacks or automatic
// discovery, so configuration stays deterministic and auditable.
type Settings struct {
	// Endpoints configures the base URLs of the three sub-services.
	Endpoints EndpointSettings `yaml:"endpoints"`

	// Backoff configures the default retry schedule for root clients.
	// Children inherit these values unless overridden at creation.
	Backoff BackoffConfig `yaml:"backoff"`
}

// EndpointSettings holds the sub-service base URLs. All must be HTTPS.
type EndpointSettings struct {
	Presentations string `yaml:"presentations"`
	Spreadsheets  string `yaml:"spreadsheets"`
	Storage       string `yaml:"storage"`
}

// DefaultSettings returns settings pointing at the public Google
// endpoints with the default backoff schedule.
func DefaultSettings() Settings {
	return Settings{
		Endpoints: EndpointSettings{
			Presentations: "https://slides.googleapis.com/v1",
			Spreadsheets:  "https://sheets.googleapis.com/v4",
			Storage:       "https://www.googleapis.com/upload/drive/v3",
		},
		Backoff: BackoffConfig{
			InitialWait: time.Second,
			Multiplier:  2,
			MaxAttempts: 5,
			Jitter:      0.2,
		},
	}
}

// LoadSettings reads settings from the YAML file at path, or from the
// file named by GSLIDES_CONFIG when path is empty. Fields absent from
// the file keep their DefaultSettings values.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		path = os.Getenv(settingsEnvVar)
	}
	if path == "" {
		return Settings{}, fmt.Errorf("slides: no settings file (pass a path or set %s)", settingsEnvVar)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("slides: reading settings file: %w", err)
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return Settings{}, fmt.Errorf("slides: parsing settings file %s: %w", path, err)
	}

	if err := settings.validate(); err != nil {
		return Settings{}, fmt.Errorf("slides: settings file %s: %w", path, err)
	}
	return settings, nil
}

// UnmarshalYAML decodes the backoff section, accepting Go duration
// strings ("500ms", "2s") for initial_wait. Absent keys leave the
// receiver's current values in place so the loaded file merges over
// DefaultSettings.
func (c *BackoffConfig) UnmarshalYAML(value *yaml.Node) error {
	var wire struct {
		InitialWait string   `yaml:"initial_wait"`
		Multiplier  *float64 `yaml:"multiplier"`
		MaxAttempts *int     `yaml:"max_attempts"`
		Jitter      *float64 `yaml:"jitter"`
	}
	if err := value.Decode(&wire); err != nil {
		return err
	}
	if wire.InitialWait != "" {
		parsed, err := time.ParseDuration(wire.InitialWait)
		if err != nil {
			return fmt.Errorf("initial_wait: %w", err)
		}
		c.InitialWait = parsed
	}
	if wire.Multiplier != nil {
		c.Multiplier = *wire.Multiplier
	}
	if wire.MaxAttempts != nil {
		c.MaxAttempts = *wire.MaxAttempts
	}
	if wire.Jitter != nil {
		c.Jitter = *wire.Jitter
	}
	return nil
}

func (s Settings) validate() error {
	for _, endpoint := range []struct {
		kind ServiceKind
		url  string
	}{
		{Presentations, s.Endpoints.Presentations},
		{Spreadsheets, s.Endpoints.Spreadsheets},
		{Storage, s.Endpoints.Storage},
	} {
		if endpoint.url == "" {
			return fmt.Errorf("%s endpoint is empty", endpoint.kind)
		}
		if !strings.HasPrefix(endpoint.url, "https://") {
			return fmt.Errorf("%s endpoint must use HTTPS (got %q)", endpoint.kind, endpoint.url)
		}
	}
	if s.Backoff.MaxAttempts < 1 {
		return fmt.Errorf("backoff max_attempts must be at least 1 (got %d)", s.Backoff.MaxAttempts)
	}
	if s.Backoff.Multiplier < 1 {
		return fmt.Errorf("backoff multiplier must be at least 1 (got %g)", s.Backoff.Multiplier)
	}
	if s.Backoff.Jitter < 0 || s.Backoff.Jitter > 1 {
		return fmt.Errorf("backoff jitter must be in [0, 1] (got %g)", s.Backoff.Jitter)
	}
	return nil
}

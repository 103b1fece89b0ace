// Package config provides validation utilities for configuration values.
package config

import (
	"fmt"
	"strings"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	// Validate location source
	switch config.Location.Mode {
	case LocationModeGeoclue, LocationModeStatic, LocationModeNone:
		// Valid
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("location.mode must be one of: geoclue, static, none (got: %s)", config.Location.Mode))
	}

	if config.Location.Mode == LocationModeStatic {
		if config.Location.Latitude < -90 || config.Location.Latitude > 90 {
			validationErrors = append(validationErrors, "location.latitude must be between -90 and 90")
		}
		if config.Location.Longitude < -180 || config.Location.Longitude > 180 {
			validationErrors = append(validationErrors, "location.longitude must be between -180 and 180")
		}
	}

	// Validate styles
	for i, style := range config.Styles {
		if style.Name == "" {
			validationErrors = append(validationErrors, fmt.Sprintf("styles[%d].name cannot be empty", i))
		}
		switch style.Type {
		case "day", "night":
			// Valid
		default:
			validationErrors = append(validationErrors, fmt.Sprintf("styles[%d].type must be day or night (got: %s)", i, style.Type))
		}
	}

	// Validate logging level
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
		// Valid
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error (got: %s)", config.Logging.Level))
	}

	switch config.Logging.Format {
	case "console", "json":
		// Valid
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.format must be console or json (got: %s)", config.Logging.Format))
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(validationErrors, "\n- "))
	}

	return nil
}

// Package config provides default configuration values for duskd.
package config

// DefaultConfig returns the default configuration values for duskd.
// The default style pair switches GNOME between its stock light and
// dark appearance; users are expected to replace these with their own.
func DefaultConfig() *Config {
	return &Config{
		Location: LocationConfig{
			Mode: LocationModeGeoclue,
		},
		AutoAdjust: true,
		Styles: []StyleConfig{
			{
				Name:        "day",
				Type:        "day",
				ColorScheme: "prefer-light",
				GTKTheme:    "Adwaita",
			},
			{
				Name:        "night",
				Type:        "night",
				ColorScheme: "prefer-dark",
				GTKTheme:    "Adwaita-dark",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Database: DatabaseConfig{
			Path: "", // resolved to the XDG state directory on load
		},
	}
}

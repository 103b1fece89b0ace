// Package config provides configuration management for duskd with Viper integration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/bnema/duskd/internal/domain/entity"
)

// File permission constants
const (
	dirPerm  = 0755 // Standard directory permissions (rwxr-xr-x)
	filePerm = 0644 // Standard file permissions (rw-r--r--)
)

// Config represents the complete configuration for duskd.
type Config struct {
	Location       LocationConfig `mapstructure:"location" yaml:"location" json:"location"`
	AutoAdjust     bool           `mapstructure:"auto_adjust" yaml:"auto_adjust" json:"auto_adjust"`
	Styles         []StyleConfig  `mapstructure:"styles" yaml:"styles" json:"styles"`
	RefreshCommand string         `mapstructure:"refresh_command" yaml:"refresh_command" json:"refresh_command,omitempty"`
	Logging        LoggingConfig  `mapstructure:"logging" yaml:"logging" json:"logging"`
	Database       DatabaseConfig `mapstructure:"database" yaml:"database" json:"database"`
}

// LocationMode selects how the user's coordinates are obtained.
type LocationMode string

const (
	// LocationModeGeoclue queries the GeoClue2 portal over D-Bus.
	LocationModeGeoclue LocationMode = "geoclue"
	// LocationModeStatic uses the configured latitude/longitude.
	LocationModeStatic LocationMode = "static"
	// LocationModeNone disables location lookup entirely.
	LocationModeNone LocationMode = "none"
)

// LocationConfig holds the location source configuration.
type LocationConfig struct {
	Mode      LocationMode `mapstructure:"mode" yaml:"mode" json:"mode"`
	Latitude  float64      `mapstructure:"latitude" yaml:"latitude" json:"latitude"`
	Longitude float64      `mapstructure:"longitude" yaml:"longitude" json:"longitude"`
}

// StyleConfig describes one appearance style. Order in the styles list
// matters: the first style of a matching type is the one selected.
type StyleConfig struct {
	Name        string   `mapstructure:"name" yaml:"name" json:"name"`
	Type        string   `mapstructure:"type" yaml:"type" json:"type"`
	ColorScheme string   `mapstructure:"color_scheme" yaml:"color_scheme" json:"color_scheme,omitempty"`
	GTKTheme    string   `mapstructure:"gtk_theme" yaml:"gtk_theme" json:"gtk_theme,omitempty"`
	IconTheme   string   `mapstructure:"icon_theme" yaml:"icon_theme" json:"icon_theme,omitempty"`
	CursorTheme string   `mapstructure:"cursor_theme" yaml:"cursor_theme" json:"cursor_theme,omitempty"`
	Wallpaper   string   `mapstructure:"wallpaper" yaml:"wallpaper" json:"wallpaper,omitempty"`
	Commands    []string `mapstructure:"commands" yaml:"commands" json:"commands,omitempty"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// DatabaseConfig holds the transition journal configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path" json:"path"`
}

// StyleSet converts the configured styles into the domain style set,
// preserving order. Unknown types were rejected by validation already.
func (c *Config) StyleSet() entity.StyleSet {
	styles := make([]entity.Style, 0, len(c.Styles))
	for _, sc := range c.Styles {
		styles = append(styles, entity.Style{
			Name:        sc.Name,
			Type:        entity.StyleType(strings.ToLower(sc.Type)),
			ColorScheme: sc.ColorScheme,
			GTKTheme:    sc.GTKTheme,
			IconTheme:   sc.IconTheme,
			CursorTheme: sc.CursorTheme,
			Wallpaper:   sc.Wallpaper,
			Commands:    sc.Commands,
		})
	}
	return entity.NewStyleSet(styles...)
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	// Configure Viper - supports yaml, json, toml automatically
	v.SetConfigName("config") // Will find config.yaml, config.json, config.toml, etc.

	// Add config paths
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	// Set up environment variable support
	v.SetEnvPrefix("DUSKD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific environment variables
	bindings := map[string]string{
		"location.mode":      "LOCATION_MODE",
		"location.latitude":  "LOCATION_LATITUDE",
		"location.longitude": "LOCATION_LONGITUDE",
		"auto_adjust":        "AUTO_ADJUST",
		"refresh_command":    "REFRESH_COMMAND",
		"logging.level":      "LOGGING_LEVEL",
		"logging.format":     "LOGGING_FORMAT",
		"database.path":      "DATABASE_PATH",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, "DUSKD_"+env); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env, err)
		}
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Ensure directories exist
	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	// Set defaults
	m.setDefaults()

	// Read config file if it exists
	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create default one
			if err := m.createDefaultConfig(); err != nil {
				return fmt.Errorf("failed to create default config: %w", err)
			}
			// The styles list only exists in the file, so read it back.
			if err := m.viper.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read created config file: %w", err)
			}
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(config)

	if err := validateConfig(config); err != nil {
		return err
	}

	m.config = config
	return nil
}

// normalize fills derived values and canonicalizes enums in place.
func normalize(config *Config) {
	switch LocationMode(strings.ToLower(string(config.Location.Mode))) {
	case LocationModeStatic:
		config.Location.Mode = LocationModeStatic
	case LocationModeNone:
		config.Location.Mode = LocationModeNone
	default:
		config.Location.Mode = LocationModeGeoclue
	}

	for i := range config.Styles {
		config.Styles[i].Type = strings.ToLower(config.Styles[i].Type)
	}

	if config.Database.Path == "" {
		if dbPath, err := GetDatabaseFile(); err == nil {
			config.Database.Path = dbPath
		}
	}
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modification
	configCopy := *m.config
	return &configCopy
}

// Watch starts watching the config file for changes and reloads automatically.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil // Already watching
	}

	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		// Reload config
		if err := m.reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload config: %v\n", err)
			return
		}

		// Notify callbacks
		m.mu.RLock()
		config := m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.RUnlock()

		for _, callback := range callbacks {
			callback(config)
		}
	})

	m.watching = true
	return nil
}

// OnConfigChange registers a callback function to be called when config changes.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// reload reloads the configuration (internal method).
func (m *Manager) reload() error {
	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return err
	}

	normalize(config)

	if err := validateConfig(config); err != nil {
		return err
	}

	m.mu.Lock()
	m.config = config
	m.mu.Unlock()
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Location defaults
	m.viper.SetDefault("location.mode", string(defaults.Location.Mode))
	m.viper.SetDefault("location.latitude", defaults.Location.Latitude)
	m.viper.SetDefault("location.longitude", defaults.Location.Longitude)

	// Scheduling defaults
	m.viper.SetDefault("auto_adjust", defaults.AutoAdjust)
	m.viper.SetDefault("refresh_command", defaults.RefreshCommand)

	// Logging defaults
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)

	// Database defaults
	m.viper.SetDefault("database.path", defaults.Database.Path)
}

// createDefaultConfig creates a default configuration file.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFilePath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	defaultConfig := DefaultConfig()

	configData, err := json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(configFile, configData, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created default configuration file: %s\n", configFile)
	return nil
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// Global configuration manager instance
var globalManager *Manager
var globalManagerOnce sync.Once

// Init initializes the global configuration manager.
func Init() error {
	var err error
	globalManagerOnce.Do(func() {
		globalManager, err = NewManager()
		if err != nil {
			return
		}
		err = globalManager.Load()
	})
	return err
}

// Get returns the global configuration.
func Get() *Config {
	if globalManager == nil {
		// Return defaults if not initialized
		return DefaultConfig()
	}
	return globalManager.Get()
}

// Watch starts watching the global configuration for changes.
func Watch() error {
	if globalManager == nil {
		return fmt.Errorf("configuration not initialized")
	}
	return globalManager.Watch()
}

// OnConfigChange registers a callback for global configuration changes.
func OnConfigChange(callback func(*Config)) {
	if globalManager == nil {
		return
	}
	globalManager.OnConfigChange(callback)
}

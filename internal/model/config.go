package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// BackendConfig holds the connection settings for the remote backend.
type BackendConfig struct {
	// URL is the root URL of the backend (REST tables under /rest/v1,
	// functions under /functions/v1).
	URL string `mapstructure:"url" yaml:"url"`

	// PollIntervalSec is how often the integration status is re-checked
	// while a project is selected.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// OAuthConfig holds the settings for the platform authorization flow.
type OAuthConfig struct {
	// ClientID is the Google OAuth client identifier.
	ClientID string `mapstructure:"client_id" yaml:"client_id"`

	// ProductionHosts are the hostnames that select the production
	// redirect URI; anything else falls back to localhost.
	ProductionHosts []string `mapstructure:"production_hosts" yaml:"production_hosts"`

	// LocalRedirectURI is the callback used outside production.
	LocalRedirectURI string `mapstructure:"local_redirect_uri" yaml:"local_redirect_uri"`
}

// DisplayConfig holds rendering preferences for the terminal front.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`
	OAuth   OAuthConfig   `mapstructure:"oauth" yaml:"oauth"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/advocate/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "advocate", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Backend: BackendConfig{
			PollIntervalSec: 30,
		},
		OAuth: OAuthConfig{
			ProductionHosts:  []string{"liftlio.com", "salesadvocates.com"},
			LocalRedirectURI: "http://localhost:3000/oauth-callback.html",
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("backend.poll_interval_sec", 30)
	v.SetDefault("oauth.production_hosts", []string{"liftlio.com", "salesadvocates.com"})
	v.SetDefault("oauth.local_redirect_uri", "http://localhost:3000/oauth-callback.html")
	v.SetDefault("display.theme", "default")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("backend", cfg.Backend)
	v.Set("oauth", cfg.OAuth)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// config.go: settings struct for the Pressgang frontend plus load/save logic.
package conf

import (
	"crypto/rand"
	"embed"
	"encoding/base64"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ewahlberg/pressgang/internal/errors"
)

//go:embed config.yaml
var configFiles embed.FS

// Log rotation types.
type RotationType string

const (
	RotationDaily  RotationType = "daily"
	RotationWeekly RotationType = "weekly"
	RotationSize   RotationType = "size"
)

// LogConfig holds settings for a rotated log file.
type LogConfig struct {
	Enabled     bool         // true to enable this log
	Path        string       // path to log file
	Rotation    RotationType // rotation type
	MaxSize     int64        // max size in bytes for RotationSize
	RotationDay string       // day of the week for RotationWeekly
}

// BackendSettings describes the CMS backend this frontend fetches from.
// The backend owns all content; this service only consumes its REST API.
type BackendSettings struct {
	BaseURL  string // base URL of the backend REST API
	APIKey   string // service API key sent as X-Api-Key, optional
	Timeout  int    // request timeout in seconds
	CacheTTL int    // read cache TTL in seconds
	Debug    bool   // true to enable backend client debug logging
}

// SiteSettings controls public site presentation.
type SiteSettings struct {
	Title        string // site title shown in the header and feed
	Tagline      string // short description for the home page and feed
	BaseURL      string // canonical base URL of this frontend
	Theme        string // default theme: light, dark or auto
	PostsPerPage int    // posts per page on list views
	Locale       string // BCP 47 language tag for templates
}

// BasicAuth holds password authentication settings for the admin interface.
type BasicAuth struct {
	Enabled  bool   // true to enable password authentication
	Password string // password for admin interface
}

// SocialProvider holds settings for an OAuth2 identity provider
type SocialProvider struct {
	Enabled      bool   // true to enable social provider
	ClientID     string // client id for OAuth2
	ClientSecret string // client secret for OAuth2
	RedirectURI  string // redirect uri for OAuth2
	UserId       string // valid user id for OAuth2
}

type AllowSubnetBypass struct {
	Enabled bool   // true to enable subnet bypass
	Subnet  string // skip authentication for requests from this subnet
}

// Security handles all security-related settings for the frontend,
// including session wiring, TLS, and access control. Credential policy
// itself lives in the backend; only the token pass-through lives here.
type Security struct {
	Debug bool // true to enable debug mode

	// Host is the primary hostname used for TLS certificates
	// and OAuth redirect URLs.
	Host string

	// AutoTLS enables automatic TLS certificate management using
	// Let's Encrypt. Requires Host to be set and port 80/443 access.
	AutoTLS bool

	RedirectToHTTPS   bool              // true to redirect to HTTPS
	SessionSecret     string            // secret for session cookie
	SessionDuration   time.Duration     // duration for browser sessions
	BasicAuth         BasicAuth         // password authentication settings
	GoogleAuth        SocialProvider    // Google OAuth2 settings
	GithubAuth        SocialProvider    // Github OAuth2 settings
	AllowSubnetBypass AllowSubnetBypass // subnet bypass settings
}

// WebServerSettings holds the HTTP listener configuration.
type WebServerSettings struct {
	Enabled bool      // true to enable web server
	Port    string    // port for web server
	Debug   bool      // true to enable web server debug mode
	Log     LogConfig // web server log settings
}

// Settings contains all configuration options for the Pressgang frontend.
type Settings struct {
	Debug bool // true to enable debug mode

	// Runtime values, not stored in config file
	Version   string `yaml:"-"` // Version from build
	BuildDate string `yaml:"-"` // Build date from build

	Main struct {
		Name string    // name of this frontend instance
		Log  LogConfig // main log settings
	}

	WebServer WebServerSettings // web server settings
	Backend   BackendSettings   // backend REST API settings
	Site      SiteSettings      // public site presentation settings
	Security  Security          // security settings
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	// Initialize viper and read config
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal the config into settings
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// Validate settings
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the default config path
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")
	defaultConfig := getDefaultConfig()

	// If the session secret is not set, generate a random one
	if viper.GetString("security.sessionsecret") == "" {
		viper.Set("security.sessionsecret", GenerateRandomSecret())
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	return string(data)
}

// Setting returns the current settings instance, loading them if needed.
func Setting() *Settings {
	settingsMutex.RLock()
	if settingsInstance != nil {
		defer settingsMutex.RUnlock()
		return settingsInstance
	}
	settingsMutex.RUnlock()

	if _, err := Load(); err != nil {
		log.Fatalf("Error loading settings: %v", err)
	}

	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SaveSettings writes the current settings to the config file on disk.
func SaveSettings(settings *Settings) error {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		configPaths, err := GetDefaultConfigPaths()
		if err != nil {
			return errors.New(err).
				Category(errors.CategoryConfiguration).
				Context("operation", "resolve-config-path").
				Build()
		}
		configPath = filepath.Join(configPaths[0], "config.yaml")
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "marshal-settings").
			Build()
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("operation", "write-settings").
			Build()
	}

	settingsInstance = settings
	return nil
}

// GenerateRandomSecret generates a URL-safe base64 encoded random string
// suitable for session secrets.
func GenerateRandomSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		// Log the error and return a safe fallback
		log.Printf("Failed to generate random secret: %v", err)
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}

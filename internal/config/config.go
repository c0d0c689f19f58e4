package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/Netflix/go-env"
)

// Config is the athlete client configuration.
//
// It is built once at start-up and handed to the components that need it. Nothing modifies it after NewConfig returns.
type Config struct {
	Environment string `env:"ENVIRONMENT,default=dev"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`

	APIBaseURL string `env:"API_BASE_URL,default=https://traintracksc.vercel.app/api"`
	AppName    string `env:"APP_NAME,default=TrainTrack Athlete"`
	AppVersion string `env:"APP_VERSION,default=1.0.0"`

	Features Features
	Session  Session

	Debug       bool `env:"DEBUG,default=true"`         // set to false in production
	LogAPICalls bool `env:"LOG_API_CALLS,default=true"` // set to false in production

	SessionFile    string        `env:"SESSION_FILE"` // defaults to <user config dir>/traintrack/session.json
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT,default=10s"`
	OnlineProbeTTL time.Duration `env:"ONLINE_PROBE_TTL,default=30s"`
}

// Features holds the fixed set of feature flags
type Features struct {
	OfflineMode               bool `env:"FEATURE_OFFLINE_MODE,default=true"`
	PushNotifications         bool `env:"FEATURE_PUSH_NOTIFICATIONS,default=false"`
	BiometricAuth             bool `env:"FEATURE_BIOMETRIC_AUTH,default=false"`
	EmailVerificationRequired bool `env:"FEATURE_EMAIL_VERIFICATION_REQUIRED,default=false"` // set to true in production
}

// Session holds the session timing constants
type Session struct {
	RememberMeDays      int `env:"SESSION_REMEMBER_ME_DAYS,default=30"`
	DefaultTimeoutHours int `env:"SESSION_DEFAULT_TIMEOUT_HOURS,default=24"`
}

// canonical feature flag names
const (
	FeatureOfflineMode               = "offline-mode"
	FeaturePushNotifications         = "push-notifications"
	FeatureBiometricAuth             = "biometric-auth"
	FeatureEmailVerificationRequired = "email-verification-required"
)

// FeatureNames lists the flag names in display order
var FeatureNames = []string{
	FeatureOfflineMode,
	FeaturePushNotifications,
	FeatureBiometricAuth,
	FeatureEmailVerificationRequired,
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"staging": true,
	"prod":    true,
}

const sessionFileName = "session.json"

// Enabled reports the value of the named flag. ok is false for names outside the fixed flag set.
func (f Features) Enabled(name string) (enabled bool, ok bool) {
	switch name {
	case FeatureOfflineMode:
		return f.OfflineMode, true
	case FeaturePushNotifications:
		return f.PushNotifications, true
	case FeatureBiometricAuth:
		return f.BiometricAuth, true
	case FeatureEmailVerificationRequired:
		return f.EmailVerificationRequired, true
	default:
		return false, false
	}
}

// Map returns the flags keyed by their canonical names
func (f Features) Map() map[string]bool {
	m := make(map[string]bool, len(FeatureNames))
	for _, name := range FeatureNames {
		m[name], _ = f.Enabled(name)
	}
	return m
}

// RememberMe is the lifetime of a session created with "remember me" selected
func (s Session) RememberMe() time.Duration {
	return time.Duration(s.RememberMeDays) * 24 * time.Hour
}

// DefaultTimeout is the lifetime of an ordinary session
func (s Session) DefaultTimeout() time.Duration {
	return time.Duration(s.DefaultTimeoutHours) * time.Hour
}

// Default returns the built-in configuration without consulting the environment.
func Default() Config {
	return Config{
		Environment: "dev",
		LogLevel:    "info",
		APIBaseURL:  "https://traintracksc.vercel.app/api",
		AppName:     "TrainTrack Athlete",
		AppVersion:  "1.0.0",
		Features: Features{
			OfflineMode: true,
		},
		Session: Session{
			RememberMeDays:      30,
			DefaultTimeoutHours: 24,
		},
		Debug:          true,
		LogAPICalls:    true,
		HTTPTimeout:    10 * time.Second,
		OnlineProbeTTL: 30 * time.Second,
	}
}

// NewConfig loads the configuration from environment variables, applying defaults and validating the result.
func NewConfig() (*Config, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("SESSION_FILE is not set and the user config directory is unavailable: %w", err)
		}
		cfg.SessionFile = filepath.Join(dir, "traintrack", sessionFileName)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration invariants
func Validate(cfg *Config) error {
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, staging, prod", cfg.Environment)
	}

	if cfg.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL cannot be empty")
	}

	u, err := url.ParseRequestURI(cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid URL: %s", cfg.APIBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL does not include a valid scheme (http or https): %s", cfg.APIBaseURL)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("API_BASE_URL does not include a host: %s", cfg.APIBaseURL)
	}

	if cfg.Environment == "prod" {
		if u.Scheme != "https" {
			return fmt.Errorf("API_BASE_URL must use https in production: %s", cfg.APIBaseURL)
		}
		if cfg.Debug {
			return fmt.Errorf("DEBUG must be false in production")
		}
	}

	if cfg.Session.RememberMeDays < 1 {
		return fmt.Errorf("SESSION_REMEMBER_ME_DAYS must be at least 1, got %d", cfg.Session.RememberMeDays)
	}
	if cfg.Session.DefaultTimeoutHours < 1 {
		return fmt.Errorf("SESSION_DEFAULT_TIMEOUT_HOURS must be at least 1, got %d", cfg.Session.DefaultTimeoutHours)
	}

	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %v", cfg.HTTPTimeout)
	}
	if cfg.OnlineProbeTTL <= 0 {
		return fmt.Errorf("online probe ttl must be positive, got %v", cfg.OnlineProbeTTL)
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAccessTTL    = "15m"
	defaultRefreshTTL   = "720h" // 30 days
	defaultVerifyTTL    = "30m"
	defaultResetTTL     = "30m"
	defaultLoginSMSTTL  = "15m"
	defaultCookieSecure = "false"
	defaultBaseURL      = "http://localhost:3000"
)

// Config is built once at process start and injected into every component.
// Nothing reads the environment after Load returns.
type Config struct {
	AppEnv      string
	DatabaseURL string

	JWTSecret   string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	VerifyTTL   time.Duration
	ResetTTL    time.Duration
	LoginSMSTTL time.Duration

	CookieSecure bool
	AppBaseURL   string

	ResendAPIKey     string
	EmailFrom        string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.JWTSecret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	cfg.AppBaseURL = strings.TrimSpace(getEnv("APP_BASE_URL", ""))

	cfg.ResendAPIKey = strings.TrimSpace(os.Getenv("RESEND_API_KEY"))
	cfg.EmailFrom = strings.TrimSpace(os.Getenv("EMAIL_FROM"))
	cfg.TwilioAccountSID = strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID"))
	cfg.TwilioAuthToken = strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN"))
	cfg.TwilioFromNumber = strings.TrimSpace(os.Getenv("TWILIO_FROM_NUMBER"))

	var err error
	if cfg.AccessTTL, err = parseDurationEnv("ACCESS_TOKEN_TTL", defaultAccessTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTTL, err = parseDurationEnv("REFRESH_TOKEN_TTL", defaultRefreshTTL); err != nil {
		return nil, err
	}
	if cfg.VerifyTTL, err = parseDurationEnv("VERIFY_SECRET_TTL", defaultVerifyTTL); err != nil {
		return nil, err
	}
	if cfg.ResetTTL, err = parseDurationEnv("RESET_SECRET_TTL", defaultResetTTL); err != nil {
		return nil, err
	}
	if cfg.LoginSMSTTL, err = parseDurationEnv("LOGIN_SMS_TTL", defaultLoginSMSTTL); err != nil {
		return nil, err
	}

	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure) || cfg.IsProd()

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProd() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

// BaseURL resolves the public URL used in reset/verification links:
// explicit APP_BASE_URL wins, then the forwarded proto/host pair from the
// fronting proxy, then the local dev default.
func (c *Config) BaseURL(forwardedProto, forwardedHost string) string {
	if c.AppBaseURL != "" {
		return c.AppBaseURL
	}
	if forwardedHost != "" {
		proto := forwardedProto
		if proto == "" {
			proto = "http"
		}
		return proto + "://" + forwardedHost
	}
	return defaultBaseURL
}

func validate(cfg *Config) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AccessTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be > 0")
	}
	if cfg.RefreshTTL <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_TTL must be > 0")
	}
	if cfg.VerifyTTL <= 0 {
		return fmt.Errorf("VERIFY_SECRET_TTL must be > 0")
	}
	if cfg.ResetTTL <= 0 {
		return fmt.Errorf("RESET_SECRET_TTL must be > 0")
	}

	if cfg.IsProd() {
		if cfg.ResendAPIKey == "" || cfg.EmailFrom == "" {
			return fmt.Errorf("in prod RESEND_API_KEY and EMAIL_FROM must be set")
		}
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
			return fmt.Errorf("in prod TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER must be set")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod COOKIE_SECURE must be true")
		}
	}

	return nil
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

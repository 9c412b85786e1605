package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration required by the API process.
// All values come from env (optionally seeded from a .env file).
// No business logic should depend on raw environment variables.
type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	Auth  AuthConfig
	Mail  MailConfig
}

type AppConfig struct {
	Env  string
	Port int

	// BaseURL is the externally reachable origin, used to build links
	// embedded in outbound emails (verification, accept-teacher).
	BaseURL string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

type RedisConfig struct {
	Host string
	Port int
}

type AuthConfig struct {
	// SigningKeyPEM is the ES256 private key (PEM). VerifyKeyPEM is the
	// matching public key. Only the verify key is ever handed to request
	// processing; the private key stays with the signer.
	SigningKeyPEM string
	VerifyKeyPEM  string

	// SessionTTL applies to sessions with a verified email.
	// UnverifiedTTL applies to fresh signups and unverified sessions.
	SessionTTL    time.Duration
	UnverifiedTTL time.Duration

	// CookieSecure should only be disabled for local HTTP development.
	CookieSecure bool
}

type MailConfig struct {
	// Driver is "sendgrid" or "console".
	Driver      string
	SendGridKey string
	FromName    string
	FromEmail   string
}

func Load() (Config, error) {
	// .env is a local convenience; absence is not an error.
	_ = godotenv.Load()

	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}
	c.App.BaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("APP_BASE_URL")), "/")

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	{
		n, err := mustInt("DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
	}
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	{
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Auth.SigningKeyPEM = os.Getenv("AUTH_SIGNING_KEY")
	c.Auth.VerifyKeyPEM = os.Getenv("AUTH_VERIFY_KEY")
	c.Auth.SessionTTL = optDuration("AUTH_SESSION_TTL")
	c.Auth.UnverifiedTTL = optDuration("AUTH_UNVERIFIED_TTL")
	c.Auth.CookieSecure = strings.TrimSpace(os.Getenv("AUTH_COOKIE_INSECURE")) != "1"

	c.Mail.Driver = strings.TrimSpace(os.Getenv("MAIL_DRIVER"))
	c.Mail.SendGridKey = os.Getenv("SENDGRID_API_KEY")
	c.Mail.FromName = strings.TrimSpace(os.Getenv("MAIL_FROM_NAME"))
	c.Mail.FromEmail = strings.TrimSpace(os.Getenv("MAIL_FROM_EMAIL"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}
	if c.App.BaseURL == "" {
		errs = append(errs, errors.New("APP_BASE_URL is required"))
	}

	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.DB.SSLMode == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_SSLMODE is required in production"))
		} else {
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
		errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
	}

	if c.Redis.Host == "" {
		errs = append(errs, errors.New("REDIS_HOST is required"))
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	if c.Auth.SigningKeyPEM == "" {
		errs = append(errs, errors.New("AUTH_SIGNING_KEY is required"))
	}
	if c.Auth.VerifyKeyPEM == "" {
		errs = append(errs, errors.New("AUTH_VERIFY_KEY is required"))
	}
	if c.Auth.SessionTTL <= 0 {
		// The long lifetime is a reward for a confirmed identity.
		c.Auth.SessionTTL = 365 * 24 * time.Hour
	}
	if c.Auth.UnverifiedTTL <= 0 {
		c.Auth.UnverifiedTTL = 30 * 24 * time.Hour
	}
	if c.Auth.UnverifiedTTL > c.Auth.SessionTTL {
		errs = append(errs, errors.New("AUTH_UNVERIFIED_TTL must not exceed AUTH_SESSION_TTL"))
	}
	if c.IsProduction() && !c.Auth.CookieSecure {
		errs = append(errs, errors.New("AUTH_COOKIE_INSECURE is not allowed in production"))
	}

	switch c.Mail.Driver {
	case "":
		if c.IsProduction() {
			errs = append(errs, errors.New("MAIL_DRIVER is required in production"))
		} else {
			c.Mail.Driver = "console"
		}
	case "console":
	case "sendgrid":
		if c.Mail.SendGridKey == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY is required with MAIL_DRIVER=sendgrid"))
		}
		if c.Mail.FromEmail == "" {
			errs = append(errs, errors.New("MAIL_FROM_EMAIL is required with MAIL_DRIVER=sendgrid"))
		}
	default:
		errs = append(errs, fmt.Errorf("MAIL_DRIVER must be one of sendgrid, console, got %q", c.Mail.Driver))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}

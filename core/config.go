package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		Host            string
		ShutdownTimeout time.Duration
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		// submissions allowed per client IP per minute; 0 disables the limiter
		RateLimitPerMinute int
		DisableCSRF        bool
	}

	SessionConfig struct {
		CookieName string
		TTL        time.Duration
	}

	PaymentConfig struct {
		ProcessingDelay time.Duration
		RedirectDelay   time.Duration
	}

	Config struct {
		Env      string // DEV (default), TEST, QA, PROD
		Build    string
		Debug    bool
		TestMode bool

		AppName         string
		SecretKey       string
		AdminEmail      string
		FrontendBaseURL string
		RollbarToken    string
		SendgridApiKey  string

		Server  ServerConfig
		Session SessionConfig
		Payment PaymentConfig

		defaultFromEmail string
	}
)

// DefaultFromEmail parses the configured sender, falling back to a bare address.
func (c *Config) DefaultFromEmail() mail.Address {
	if addr, err := mail.ParseAddress(c.defaultFromEmail); err == nil {
		return *addr
	}
	return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed with the env name, eg. `DEV_SECRETKEY`.
func NewConfig() *Config {
	v := viper.New()

	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "EduHelp")
	v.SetDefault("secretKey", "k3x!9w@edu-help#2u$z-s1mulated)p4y^ments")
	v.SetDefault("adminEmail", "admin@eduhelp.com")
	v.SetDefault("defaultFromEmail", "EduHelp <noreply@localhost>")
	v.SetDefault("frontendBaseURL", "http://localhost:8000")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.readTimeout", 10*time.Second)
	v.SetDefault("server.writeTimeout", 10*time.Second)
	v.SetDefault("server.rateLimitPerMinute", 30)
	v.SetDefault("server.disableCSRF", false)

	v.SetDefault("session.cookieName", "eduhelp_session")
	v.SetDefault("session.ttl", 12*time.Hour)

	v.SetDefault("payment.processingDelay", 2*time.Second)
	v.SetDefault("payment.redirectDelay", 3*time.Second)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:             env,
		Build:           v.GetString("build"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		AppName:         v.GetString("appName"),
		SecretKey:       v.GetString("secretKey"),
		AdminEmail:      CleanString(v.GetString("adminEmail")),
		FrontendBaseURL: strings.TrimSuffix(v.GetString("frontendBaseURL"), "/"),
		RollbarToken:    v.GetString("rollbarToken"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		Server: ServerConfig{
			Address:            v.GetString("server.address"),
			Host:               v.GetString("server.host"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			ReadTimeout:        v.GetDuration("server.readTimeout"),
			WriteTimeout:       v.GetDuration("server.writeTimeout"),
			RateLimitPerMinute: v.GetInt("server.rateLimitPerMinute"),
			DisableCSRF:        v.GetBool("server.disableCSRF"),
		},
		Session: SessionConfig{
			CookieName: v.GetString("session.cookieName"),
			TTL:        v.GetDuration("session.ttl"),
		},
		Payment: PaymentConfig{
			ProcessingDelay: v.GetDuration("payment.processingDelay"),
			RedirectDelay:   v.GetDuration("payment.redirectDelay"),
		},
		defaultFromEmail: v.GetString("defaultFromEmail"),
	}
}

// NewTestConfig returns a Config suitable for tests: short delays, no CSRF, no rate limit.
func NewTestConfig() *Config {
	conf := NewConfig()
	conf.Env = "TEST"
	conf.TestMode = true
	conf.Server.DisableCSRF = true
	conf.Server.RateLimitPerMinute = 0
	conf.Payment.ProcessingDelay = 20 * time.Millisecond
	conf.Payment.RedirectDelay = 30 * time.Millisecond
	return conf
}

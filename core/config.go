package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		Debug    bool
		TestMode bool
		AppName  string
		WorkDir  string
		Build    string

		SecretKey        string
		DefaultFromName  string
		DefaultFromAddr  string
		SendgridApiKey   string
		RollbarToken     string
		FrontendBaseURL  string

		Server   ServerConfig
		Database DatabaseConfig
		Redis    RedisConfig
		Identity IdentityConfig
		Auth     AuthConfig
		Apps     AppsConfig
	}

	ServerConfig struct {
		Host            string
		Port            int
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	// IdentityConfig points at the hosted identity provider.
	IdentityConfig struct {
		BaseURL   string
		AnonKey   string
		JWTSecret string
	}

	// AuthConfig carries the role-resolution timeouts.
	// SafetyTimeout bounds the overall loading state; QueryTimeout bounds
	// the authoritative user-record lookup. They are independent: the
	// safety timeout may fire first and a late query success still lands.
	AuthConfig struct {
		QueryTimeout  time.Duration
		SafetyTimeout time.Duration
		SessionCookie string
	}

	// AppsConfig is the canonical root URL of each deployed front end.
	AppsConfig struct {
		ShellURL      string
		StudentURL    string
		InstructorURL string
		AdminURL      string
		LoginURL      string
	}
)

func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.DefaultFromName, Address: c.DefaultFromAddr}
}

// NewConfig loads configuration from the environment, optionally seeded
// by a config/.env.<env> file. ENV is one of DEV (default), TEST, QA, PROD.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "SkillSpring")
	v.SetDefault("secretKey", "+9a(p0&k$e@wnu#-yp3fo0m$6m&vlq^3%^sdlj@+0ok8$n&w=b")
	v.SetDefault("defaultFromName", "SkillSpring")
	v.SetDefault("defaultFromEmail", "noreply@localhost")

	v.SetDefault("serverHost", "0.0.0.0")
	v.SetDefault("serverPort", 8000)
	v.SetDefault("serverShutdownTimeout", 5*time.Second)

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", 5432)
	v.SetDefault("databaseName", "skillspring")
	v.SetDefault("databaseDisableTLS", true)

	v.SetDefault("redisAddr", "localhost:6379")
	v.SetDefault("redisDB", 0)

	v.SetDefault("identityBaseURL", "http://localhost:9999")

	v.SetDefault("authQueryTimeout", 15*time.Second)
	v.SetDefault("authSafetyTimeout", 8*time.Second)
	v.SetDefault("authSessionCookie", "ss_session")

	v.SetDefault("shellURL", "http://localhost:3001")
	v.SetDefault("studentURL", "http://localhost:3003")
	v.SetDefault("instructorURL", "http://localhost:3002")
	v.SetDefault("adminURL", "http://localhost:3000")

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:             env,
		Debug:           v.GetBool("debug"),
		TestMode:        env == "TEST",
		AppName:         v.GetString("appName"),
		WorkDir:         Getwd(),
		Build:           v.GetString("build"),
		SecretKey:       v.GetString("secretKey"),
		DefaultFromName: v.GetString("defaultFromName"),
		DefaultFromAddr: v.GetString("defaultFromEmail"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		RollbarToken:    v.GetString("rollbarToken"),
		FrontendBaseURL: v.GetString("shellURL"),
		Server: ServerConfig{
			Host:            v.GetString("serverHost"),
			Port:            v.GetInt("serverPort"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetInt("databasePort"),
			Name:          v.GetString("databaseName"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			DisableTLS:    v.GetBool("databaseDisableTLS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redisAddr"),
			Password: v.GetString("redisPassword"),
			DB:       v.GetInt("redisDB"),
		},
		Identity: IdentityConfig{
			BaseURL:   v.GetString("identityBaseURL"),
			AnonKey:   v.GetString("identityAnonKey"),
			JWTSecret: v.GetString("identityJWTSecret"),
		},
		Auth: AuthConfig{
			QueryTimeout:  v.GetDuration("authQueryTimeout"),
			SafetyTimeout: v.GetDuration("authSafetyTimeout"),
			SessionCookie: v.GetString("authSessionCookie"),
		},
		Apps: AppsConfig{
			ShellURL:      v.GetString("shellURL"),
			StudentURL:    v.GetString("studentURL"),
			InstructorURL: v.GetString("instructorURL"),
			AdminURL:      v.GetString("adminURL"),
			LoginURL:      v.GetString("loginURL"),
		},
	}
	if conf.Apps.LoginURL == "" {
		conf.Apps.LoginURL = conf.Apps.ShellURL + "/login"
	}
	return conf
}

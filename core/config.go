package core

import (
	"fmt"
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
	Config struct {
		Env             string
		Debug           bool
		TestMode        bool
		Build           string
		AppName         string
		SecretKey       []byte
		FrontendBaseURL string

		DefaultFromEmailName string
		DefaultFromEmailAddr string
		SendgridApiKey       string
		RollbarToken         string

		PasswordResetTimeoutDelta time.Duration

		Server   ServerConfig
		Database DatabaseConfig
	}

	ServerConfig struct {
		Host               string
		Port               int
		JWTExpirationDelta time.Duration
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
)

func (c *Config) IsProd() bool { return c.Env == "PROD" }

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.DefaultFromEmailName, Address: c.DefaultFromEmailAddr}
}

func (sc ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", sc.Host, sc.Port)
}

func (dc DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", dc.Host, dc.Port)
}

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables prefixed with the current ENV.
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "EduTrack")
	conf.SetDefault("secretKey", "v8=r+1b)m4&k#o(w!dq3^ys-7u5@jfx0*9hz$c6p_2ganet%l")
	conf.SetDefault("frontendBaseURL", "http://localhost:5173")
	conf.SetDefault("defaultFromEmailName", "EduTrack")
	conf.SetDefault("defaultFromEmailAddr", "noreply@localhost")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("jwtExpirationDelta", 24*time.Hour)
	conf.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	conf.SetDefault("serverHost", "")
	conf.SetDefault("serverPort", 8000)
	conf.SetDefault("databaseEngine", "postgres")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", 5432)
	conf.SetDefault("databaseName", "edutrack")
	conf.SetDefault("databaseUser", "edutrack")
	conf.SetDefault("databasePassword", "edutrack")
	conf.SetDefault("databaseAdminUser", "")
	conf.SetDefault("databaseAdminPassword", "")
	conf.SetDefault("databaseDisableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:                       env,
		Debug:                     conf.GetBool("debug"),
		TestMode:                  testMode,
		Build:                     conf.GetString("build"),
		AppName:                   conf.GetString("appName"),
		SecretKey:                 []byte(conf.GetString("secretKey")),
		FrontendBaseURL:           conf.GetString("frontendBaseURL"),
		DefaultFromEmailName:      conf.GetString("defaultFromEmailName"),
		DefaultFromEmailAddr:      conf.GetString("defaultFromEmailAddr"),
		SendgridApiKey:            conf.GetString("sendgridApiKey"),
		RollbarToken:              conf.GetString("rollbarToken"),
		PasswordResetTimeoutDelta: conf.GetDuration("passwordResetTimeoutDelta"),
		Server: ServerConfig{
			Host:               conf.GetString("serverHost"),
			Port:               conf.GetInt("serverPort"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("databaseEngine"),
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetInt("databasePort"),
			Name:          conf.GetString("databaseName"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			DisableTLS:    conf.GetBool("databaseDisableTLS"),
		},
	}
}

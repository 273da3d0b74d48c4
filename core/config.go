package core

import (
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
		AppName          string
		Env              string // DEV (default), TEST, QA, PROD
		Debug            bool
		TestMode         bool
		Build            string
		WorkDir          string
		SecretKey        string
		DefaultFromEmail mail.Address
		FrontendBaseURL  string
		SendgridAPIKey   string
		RollbarToken     string

		// VerificationTokenTTL bounds the validity of signed email-verification tokens.
		VerificationTokenTTL time.Duration

		Server    ServerConfig
		Directory DirectoryConfig
		Redis     RedisConfig
		Database  DatabaseConfig
	}

	ServerConfig struct {
		Host             string
		PortalAddress    string
		DirectoryAddress string
		ShutdownTimeout  time.Duration
	}

	// DirectoryConfig configures the portal's client to the user-directory service.
	DirectoryConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	RedisConfig struct {
		Address  string
		Password string
		DB       int
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}
)

func (c DatabaseConfig) Address() string { return net.JoinHostPort(c.Host, c.Port) }

// NewConfig builds the application Config from the environment,
// loading config/.env.<env> first if it exists.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Student Sphere")
	v.SetDefault("secretKey", "v#2qp)d$8y5kb&0_nxz(7!4mj^ce+1ruwa6ls3hg9ft-oi)=%q")
	v.SetDefault("defaultFromEmail", "no-reply@studentsphere.cd")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("verificationTokenTTL", 24*time.Hour)
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("portalAddress", ":8000")
	v.SetDefault("directoryAddress", ":5555")
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("directoryBaseURL", "http://127.0.0.1:5555")
	v.SetDefault("directoryTimeout", 10*time.Second)
	v.SetDefault("redisAddress", "localhost:6379")
	v.SetDefault("redisDB", 0)
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "studentsphere")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbDisableTLS", true)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:              v.GetString("appName"),
		Env:                  env,
		Debug:                v.GetBool("debug"),
		TestMode:             env == "TEST",
		Build:                v.GetString("build"),
		WorkDir:              wd,
		SecretKey:            v.GetString("secretKey"),
		DefaultFromEmail:     mail.Address{Address: v.GetString("defaultFromEmail")},
		FrontendBaseURL:      v.GetString("frontendBaseURL"),
		SendgridAPIKey:       v.GetString("sendgridAPIKey"),
		RollbarToken:         v.GetString("rollbarToken"),
		VerificationTokenTTL: v.GetDuration("verificationTokenTTL"),
		Server: ServerConfig{
			Host:             v.GetString("serverHost"),
			PortalAddress:    v.GetString("portalAddress"),
			DirectoryAddress: v.GetString("directoryAddress"),
			ShutdownTimeout:  v.GetDuration("shutdownTimeout"),
		},
		Directory: DirectoryConfig{
			BaseURL: v.GetString("directoryBaseURL"),
			Timeout: v.GetDuration("directoryTimeout"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redisAddress"),
			Password: v.GetString("redisPassword"),
			DB:       v.GetInt("redisDB"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Name:          v.GetString("dbName"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetString("dbPort"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
	}
}

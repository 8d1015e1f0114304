package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port               string
	AppEnv             string
	LogLevel           string
	DatabaseURL        string
	RedisURL           string
	AccessTokenSecret  string
	RefreshTokenSecret string
	MailjetAPIKey      string
	MailjetSecretKey   string
	MailFrom           string
	CloudinaryURL      string
	AllowedOrigins     []string
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, reading process environment")
	}

	return &Config{
		Port:               getEnv("PORT", "4000"),
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        os.Getenv("DB_CONNECTION_STRING"),
		RedisURL:           getEnv("REDIS_URL", "localhost:6379"),
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		MailjetAPIKey:      os.Getenv("MAILJET_API_KEY"),
		MailjetSecretKey:   os.Getenv("MAILJET_SECRET_KEY"),
		MailFrom:           getEnv("MAIL_FROM", "no-reply@rentalhouse.local"),
		CloudinaryURL:      os.Getenv("CLOUDINARY_URL"),
		AllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SetupLogger configures the global zerolog logger.
func (c *Config) SetupLogger() {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if !c.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// splitList reads a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

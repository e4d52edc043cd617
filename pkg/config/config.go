package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const devJWTSecret = "supersecretjwtkey"

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	JWTExpiresIn            time.Duration
	LoginCookieName         string
	PollCloserSchedule      string
	CacheTTL                time.Duration
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, assuming environment variables are set.")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGO_DATABASE", "socialmedia")
	v.SetDefault("JWT_EXPIRES_IN", "72h")
	v.SetDefault("LOGIN_COOKIE_NAME", "loginToken")
	v.SetDefault("POLL_CLOSER_SCHEDULE", "@every 1m")
	v.SetDefault("CACHE_TTL", "5m")

	return &Config{
		Port:                    v.GetString("PORT"),
		Env:                     v.GetString("ENV"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		FirebaseCredentialsPath: v.GetString("FIREBASE_CREDENTIALS_PATH"),
		PostgresConnStr:         v.GetString("POSTGRES_CONN_STR"),
		MongoURI:                v.GetString("MONGO_URI"),
		MongoDatabase:           v.GetString("MONGO_DATABASE"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		JWTExpiresIn:            v.GetDuration("JWT_EXPIRES_IN"),
		LoginCookieName:         v.GetString("LOGIN_COOKIE_NAME"),
		PollCloserSchedule:      v.GetString("POLL_CLOSER_SCHEDULE"),
		CacheTTL:                v.GetDuration("CACHE_TTL"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Secret returns the signing key. Outside production a fixed key is used when none is set.
func (c *Config) Secret() (string, bool) {
	if c.JWTSecret != "" {
		return c.JWTSecret, true
	}
	if c.IsProduction() {
		return "", false
	}
	return devJWTSecret, true
}

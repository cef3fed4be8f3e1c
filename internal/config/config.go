package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration. Values come from
// environment variables; required ones are enforced by must() and
// missing values abort startup with a fatal log message. The JWT
// secret in particular is never defaulted: the server refuses to
// run with a guessable signing key.
type Config struct {
	Env           string // application environment (dev/test/prod)
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	JWTSecret     string // secret used to sign access tokens
	TokenTTLDays  int    // access token time-to-live in days
	BcryptCost    int    // bcrypt cost for password hashing
	CORSOrigin    string // allowed origin for the web client
	AMQPURL       string // RabbitMQ URL for activity events (optional)
	ActivityQueue string // queue name for activity events
}

// Load reads configuration from the environment. Required
// variables cause the process to exit when absent.
func Load() Config {
	return Config{
		Env:           getenvDefault("APP_ENV", "dev"),
		Port:          getenvDefault("APP_PORT", "4000"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		TokenTTLDays:  intDefault("JWT_EXPIRES_DAYS", 7),
		BcryptCost:    intDefault("BCRYPT_COST", 10),
		CORSOrigin:    getenvDefault("CORS_ORIGIN", "http://localhost:3000"),
		AMQPURL:       os.Getenv("RABBITMQ_URL"),
		ActivityQueue: getenvDefault("ACTIVITY_QUEUE", "crm.activity"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intDefault(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets and identifiers are strings; the seat
// grid is parsed into rows and columns at load time.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	GatewayKeyID   string // payment gateway public key id (sent to clients)
	GatewaySecret  string // payment gateway secret (orders API + HMAC verification)
	GatewayBaseURL string // override for the gateway API endpoint (empty = production)
	Currency       string // ISO currency code for orders, e.g. "INR"

	BookingTZ *time.Location // business civil timezone for "today" comparisons

	SeatRows string // seat grid row labels, e.g. "ABCDE"
	SeatCols int    // seats per row

	AdminJWTSecret string // secret for admin endpoint tokens

	KeepAliveEvery time.Duration // interval of the DB liveness ping
}

// Load reads configuration from environment variables.  Required variables
// are enforced by must() and missing values cause the program to exit with a
// fatal log message.  The timezone is required explicitly because date
// boundaries computed in the host zone would drift from the business locale.
func Load() Config {
	tzName := must("BOOKING_TZ") // e.g. "Asia/Kolkata"
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatalf("invalid BOOKING_TZ %q: %v", tzName, err)
	}
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		GatewayKeyID:   must("GATEWAY_KEY_ID"),
		GatewaySecret:  must("GATEWAY_KEY_SECRET"),
		GatewayBaseURL: os.Getenv("GATEWAY_BASE_URL"),
		Currency:       getenv("CURRENCY", "INR"),
		BookingTZ:      loc,
		SeatRows:       getenv("SEAT_ROWS", "ABCDE"),
		SeatCols:       mustIntDefault("SEAT_COLS", 6),
		AdminJWTSecret: must("ADMIN_JWT_SECRET"),
		KeepAliveEvery: parseDur(getenv("DB_KEEPALIVE_EVERY", "5m")),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustIntDefault reads an integer variable, falling back to def when unset
// and exiting when the value is not a number.
func mustIntDefault(key string, def int) int {
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

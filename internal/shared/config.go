package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	// Remote booking backend
	APIBase        string
	APIKey         string
	RequestTimeout time.Duration
	APIRPS         int
	UseMockData    bool

	// Payments / notifications
	StripeSecretKey  string
	PaymentPublicKey string
	SendGridKey      string
	FromEmail        string

	RedisAddr string
	RedisDB   int
	RedisPass string

	CacheTTL         time.Duration
	FeaturedTTL      time.Duration
	MinFetchInterval time.Duration
	WarmCities       []string
}

func Load() Config {
	// Optional .env for local runs; real deployments inject the environment.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:           env("APP_ENV", "prod"),
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		MetricsAddr:      env("METRICS_ADDR", ":9100"),
		APIBase:          env("BOOKING_API_BASE_URL", "https://api.bookingengine.example/api"),
		APIKey:           env("BOOKING_API_KEY", ""),
		RequestTimeout:   time.Duration(atoi("API_TIMEOUT_SECONDS", 30)) * time.Second,
		APIRPS:           atoi("API_RPS", 5),
		UseMockData:      env("USE_MOCK_DATA", "") == "true",
		StripeSecretKey:  env("STRIPE_SECRET_KEY", ""),
		PaymentPublicKey: env("PAYMENT_PUBLIC_KEY", ""),
		SendGridKey:      env("SENDGRID_API_KEY", ""),
		FromEmail:        env("FROM_EMAIL", "bookings@storefront.example"),
		RedisAddr:        env("REDIS_ADDR", "localhost:6379"),
		RedisPass:        env("REDIS_PASSWORD", ""),
		RedisDB:          atoi("REDIS_DB", 0),
		CacheTTL:         time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		FeaturedTTL:      time.Duration(atoi("FEATURED_TTL_SECONDS", 300)) * time.Second,
		MinFetchInterval: time.Duration(atoi("MIN_FETCH_INTERVAL_MS", 2000)) * time.Millisecond,
		WarmCities:       splitCSV(env("WARM_CITIES", "Makkah,Madinah")),
	}
	if c.APIKey == "" {
		log.Warn().Msg("BOOKING_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

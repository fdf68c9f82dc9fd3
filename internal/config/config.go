package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BackendURL string
	MapsURL    string
	JWTSecret  string
	AppEnv     string

	// Shop (origin) coordinate used by tracking views.
	ShopLat float64
	ShopLng float64

	ListPollInterval     time.Duration
	DetailPollInterval   time.Duration
	LocationPollInterval time.Duration

	// Minimum spacing between outgoing shipper location reports.
	ReportMinInterval time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		BackendURL:           os.Getenv("BACKEND_URL"),
		MapsURL:              os.Getenv("MAPS_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AppEnv:               os.Getenv("APP_ENV"),
		ShopLat:              envFloat("SHOP_LAT", 0),
		ShopLng:              envFloat("SHOP_LNG", 0),
		ListPollInterval:     envDuration("LIST_POLL_INTERVAL", 10*time.Second),
		DetailPollInterval:   envDuration("DETAIL_POLL_INTERVAL", 10*time.Second),
		LocationPollInterval: envDuration("LOCATION_POLL_INTERVAL", 5*time.Second),
		ReportMinInterval:    envDuration("REPORT_MIN_INTERVAL", 3*time.Second),
	}

	if cfg.BackendURL == "" {
		log.Fatal("Environment variables not loaded properly: BACKEND_URL is required")
	}

	return cfg
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

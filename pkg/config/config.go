package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

type Config struct {
	Debug bool
	Port  int

	Password string // shared admin password

	FrontendPath string

	StoreBackend string // file, postgres or memory
	DataFile     string
	DBString     string

	RedisAddr     string
	RedisDB       int
	OfferCacheTTL time.Duration // zero disables the offer cache

	RapidAPIKey    string
	RapidAPIHost   string
	RapidAPIURL    string
	SearchCountry  string
	SearchLanguage string
	SearchLimit    int
	MaxOffers      int

	ShopName      string
	ShopSearchURL string // empty disables the shop fallback, %s is the query

	DiscordHookURL string
}

func NewConfig() *Config {
	return &Config{
		Debug: getBoolEnvDefault("DEBUG", false),
		Port:  getIntEnvDefault("PORT", 8080),

		Password: getStringEnvDefault("PASSWORD", "test"),

		FrontendPath: getStringEnvDefault("FRONTEND_PATH", "./../frontend/build/"),

		StoreBackend: getStringEnvDefault("STORE_BACKEND", StoreBackendFile),
		DataFile:     getStringEnvDefault("DATA_FILE", "./data/russtea.json"),
		DBString:     getStringEnvDefault("DB_STRING", "host=localhost port=5432 user=postgres password=admin dbname=russtea sslmode=disable"),

		RedisAddr:     getStringEnvDefault("REDIS_ADDR", ""),
		RedisDB:       getIntEnvDefault("REDIS_DB", 0),
		OfferCacheTTL: getDurationEnvDefault("OFFER_CACHE_TTL", time.Hour),

		RapidAPIKey:    getStringEnvDefault("RAPIDAPI_KEY", ""),
		RapidAPIHost:   getStringEnvDefault("RAPIDAPI_HOST", "real-time-product-search.p.rapidapi.com"),
		RapidAPIURL:    getStringEnvDefault("RAPIDAPI_URL", "https://real-time-product-search.p.rapidapi.com"),
		SearchCountry:  getStringEnvDefault("SEARCH_COUNTRY", "ru"),
		SearchLanguage: getStringEnvDefault("SEARCH_LANGUAGE", "ru"),
		SearchLimit:    getIntEnvDefault("SEARCH_LIMIT", 20),
		MaxOffers:      getIntEnvDefault("MAX_OFFERS", 5),

		ShopName:      getStringEnvDefault("SHOP_NAME", "Интернет-магазин"),
		ShopSearchURL: getStringEnvDefault("SHOP_SEARCH_URL", ""),

		DiscordHookURL: getStringEnvDefault("DISCORD_HOOK_URL", ""),
	}
}

func getBoolEnvDefault(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}

func getStringEnvDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}

func getIntEnvDefault(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}

// getDurationEnvDefault accepts Go durations ("90m") as well as plain seconds ("3600")
func getDurationEnvDefault(key string, defaultValue time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}

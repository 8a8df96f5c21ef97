package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	// AutoMigrate runs the SQL migrations on startup.
	AutoMigrate bool

	// Identity
	JWTSecret          string
	JWTExpirationDur   time.Duration
	PipelineAPIKeyHash string

	// Valuation
	BaseCurrency           string
	MutualFundFallbackRate decimal.Decimal
	MutationRetries        int

	// Price sources
	PriceTimeout           time.Duration
	PriceConcurrency       int
	PriceRequestsPerSecond float64
	YahooBaseURL           string
	CoinGeckoBaseURL       string
	AMFINavURL             string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "nidhi"),
		DBPassword:  getEnv("DB_PASSWORD", "nidhi"),
		DBName:      getEnv("DB_NAME", "nidhi"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),

		JWTSecret:          getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		PipelineAPIKeyHash: getEnv("PIPELINE_API_KEY_HASH", ""),

		BaseCurrency:    strings.ToUpper(getEnv("BASE_CURRENCY", "INR")),
		MutationRetries: getEnvInt("MUTATION_RETRIES", 3),

		PriceTimeout:           getEnvDuration("PRICE_TIMEOUT", 5*time.Second),
		PriceConcurrency:       getEnvInt("PRICE_CONCURRENCY", 4),
		PriceRequestsPerSecond: getEnvFloat("PRICE_REQUESTS_PER_SECOND", 5),
		YahooBaseURL:           getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
		CoinGeckoBaseURL:       getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
		AMFINavURL:             getEnv("AMFI_NAV_URL", "https://www.amfiindia.com/spages/NAVAll.txt"),
	}

	config.JWTExpirationDur = getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour)

	if money.GetCurrency(config.BaseCurrency) == nil {
		return nil, fmt.Errorf("BASE_CURRENCY %q is not an ISO-4217 currency code", config.BaseCurrency)
	}

	rateStr := getEnv("MUTUAL_FUND_FALLBACK_RATE", "0.05")
	rate, err := decimal.NewFromString(rateStr)
	if err != nil || rate.IsNegative() {
		return nil, fmt.Errorf("invalid MUTUAL_FUND_FALLBACK_RATE %q", rateStr)
	}
	config.MutualFundFallbackRate = rate

	if config.PriceConcurrency < 1 {
		config.PriceConcurrency = 1
	}
	if config.MutationRetries < 1 {
		config.MutationRetries = 1
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getEnvInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %g\n", key, raw, defaultValue)
		return defaultValue
	}
	return f
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return b
}

// PipelineConfig holds settings for the scheduled pipeline job.
type PipelineConfig struct {
	Env            string
	APIURL         string
	APIKey         string
	RequestTimeout time.Duration
	MaturityDays   int
	// ComputeSnapshots disables the snapshot step when false.
	ComputeSnapshots bool
}

// LoadPipeline loads the pipeline job configuration from environment variables.
func LoadPipeline() (*PipelineConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &PipelineConfig{
		Env:              getEnv("ENV", "development"),
		APIURL:           getEnv("NIDHI_API_URL", ""),
		APIKey:           getEnv("PIPELINE_API_KEY", ""),
		RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaturityDays:     getEnvInt("PIPELINE_MATURITY_DAYS", 30),
		ComputeSnapshots: getEnvBool("COMPUTE_SNAPSHOTS", true),
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("NIDHI_API_URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("PIPELINE_API_KEY is required")
	}
	if cfg.MaturityDays < 1 {
		return nil, fmt.Errorf("PIPELINE_MATURITY_DAYS must be positive, got %d", cfg.MaturityDays)
	}
	return cfg, nil
}

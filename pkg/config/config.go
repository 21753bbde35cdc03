package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	RedisURL      string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// SignupBonus is credited to every newly registered account.
	SignupBonus decimal.Decimal

	// Ledger reconciler tuning.
	LedgerRetryInterval    time.Duration
	LedgerRetryMaxAttempts int

	RateLimitPeriod   time.Duration
	RateLimitRequests int64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "paywave-backend")
	viper.SetDefault("SIGNUP_BONUS", "50")
	viper.SetDefault("LEDGER_RETRY_INTERVAL", "5s")
	viper.SetDefault("LEDGER_RETRY_MAX_ATTEMPTS", 5)
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 120)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set. Change feed will run in-process only.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	bonusStr := viper.GetString("SIGNUP_BONUS")
	bonus, err := decimal.NewFromString(bonusStr)
	if err != nil || bonus.IsNegative() {
		bonus = decimal.NewFromInt(50)
		log.Printf("Warning: Invalid value for SIGNUP_BONUS ('%s'). Defaulting to %s.\n", bonusStr, bonus)
	}
	cfg.SignupBonus = bonus

	retryIntervalStr := viper.GetString("LEDGER_RETRY_INTERVAL")
	retryInterval, err := time.ParseDuration(retryIntervalStr)
	if err != nil {
		retryInterval = 5 * time.Second
		log.Printf("Warning: Invalid value for LEDGER_RETRY_INTERVAL ('%s'). Defaulting to %s.\n", retryIntervalStr, retryInterval)
	}
	cfg.LedgerRetryInterval = retryInterval

	cfg.LedgerRetryMaxAttempts = viper.GetInt("LEDGER_RETRY_MAX_ATTEMPTS")
	if cfg.LedgerRetryMaxAttempts <= 0 {
		cfg.LedgerRetryMaxAttempts = 5
	}

	ratePeriodStr := viper.GetString("RATE_LIMIT_PERIOD")
	ratePeriod, err := time.ParseDuration(ratePeriodStr)
	if err != nil {
		ratePeriod = time.Minute
		log.Printf("Warning: Invalid value for RATE_LIMIT_PERIOD ('%s'). Defaulting to %s.\n", ratePeriodStr, ratePeriod)
	}
	cfg.RateLimitPeriod = ratePeriod
	cfg.RateLimitRequests = viper.GetInt64("RATE_LIMIT_REQUESTS")

	return cfg, nil
}

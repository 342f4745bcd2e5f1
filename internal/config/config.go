package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For duration parsing

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string        // Application port
	DBUser     string        // Database user
	DBPassword string        // Database password
	DBHost     string        // Database host
	DBPort     string        // Database port
	DBName     string        // Database name
	JWTSecret  string        // JWT secret key
	JWTTTL     time.Duration // Token validity window
	OTPTTL     time.Duration // OTP validity window
	SMTPHost   string        // SMTP server host
	SMTPPort   string        // SMTP server port
	SMTPUser   string        // SMTP username
	SMTPPass   string        // SMTP password
	SMTPFrom   string        // Sender address for outgoing mail
	RedisAddr  string        // Redis server address
	RedisPass  string        // Redis password
	RedisDB    int           // Redis database number
	IsProd     bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:    os.Getenv("APP_PORT"),               // Application port
		DBUser:     os.Getenv("DB_USER"),                // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),            // Database password
		DBHost:     os.Getenv("DB_HOST"),                // Database host
		DBPort:     os.Getenv("DB_PORT"),                // Database port
		DBName:     os.Getenv("DB_NAME"),                // Database name
		JWTSecret:  os.Getenv("JWT_SECRET"),             // JWT secret key
		JWTTTL:     getDuration("JWT_TTL", 168*time.Hour), // Token validity, 7 days by default
		OTPTTL:     getDuration("OTP_TTL", 10*time.Minute), // OTP validity, 10 minutes by default
		SMTPHost:   os.Getenv("SMTP_HOST"),              // SMTP server host
		SMTPPort:   os.Getenv("SMTP_PORT"),              // SMTP server port
		SMTPUser:   os.Getenv("SMTP_USER"),              // SMTP username
		SMTPPass:   os.Getenv("SMTP_PASS"),              // SMTP password
		SMTPFrom:   os.Getenv("SMTP_FROM"),              // Sender address
		RedisAddr:  os.Getenv("REDIS_ADDR"),             // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),             // Redis password
		RedisDB:    redisDB,                             // Redis database number
		IsProd:     os.Getenv("IS_PROD") == "true",      // Is production environment
	}
}

// getDuration reads a Go duration from the environment, falling back on
// the given default when the variable is unset or malformed
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback // Not set
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback // Malformed value
	}
	return d
}

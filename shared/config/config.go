package config

import (
	"log"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Token signing keys (access and refresh are signed with different keys)
	AccessTokenKey  string
	RefreshTokenKey string

	// Password hashing
	BcryptCost      string
	HashWorkerCount string

	// API
	APIPort string

	// Redis (failed-login throttle)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// Rate Limiting
	RateLimitMaxRequests          string
	RateLimitTimeWindowSeconds    string
	RateLimitBlockDurationMinutes string

	// Login Rate Limiting
	LoginRateLimitMaxAttempts   string
	LoginRateLimitWindowSeconds string
	LoginRateLimitBlockMinutes  string

	// Register Rate Limiting
	RegisterRateLimitMaxAttempts string
	RegisterRateLimitWindowHours string
	RegisterRateLimitBlockHours  string

	// MinIO Configuration
	MinIOServerURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string

	// Upload limits
	MaxUploadSizeMB string

	// Seed admin
	AdminEmail    string
	AdminPassword string
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "ngoconnect"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Token signing keys
		AccessTokenKey:  getEnv("ACCESS_TOKEN_KEY", "access-token-key-change-this"),
		RefreshTokenKey: getEnv("REFRESH_TOKEN_KEY", "refresh-token-key-change-this"),

		// Password hashing
		BcryptCost:      getEnv("BCRYPT_COST", "10"),
		HashWorkerCount: getEnv("HASH_WORKER_COUNT", ""),

		// API
		APIPort: getEnv("API_PORT", "8000"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// Rate Limiting - general
		RateLimitMaxRequests:          getEnv("RATE_LIMIT_MAX_REQUESTS", "100"),
		RateLimitTimeWindowSeconds:    getEnv("RATE_LIMIT_TIME_WINDOW_SECONDS", "60"),
		RateLimitBlockDurationMinutes: getEnv("RATE_LIMIT_BLOCK_DURATION_MINUTES", "15"),

		// Login Rate Limiting
		LoginRateLimitMaxAttempts:   getEnv("LOGIN_RATE_LIMIT_MAX_ATTEMPTS", "5"),
		LoginRateLimitWindowSeconds: getEnv("LOGIN_RATE_LIMIT_WINDOW_SECONDS", "300"),
		LoginRateLimitBlockMinutes:  getEnv("LOGIN_RATE_LIMIT_BLOCK_MINUTES", "30"),

		// Register Rate Limiting
		RegisterRateLimitMaxAttempts: getEnv("REGISTER_RATE_LIMIT_MAX_ATTEMPTS", "3"),
		RegisterRateLimitWindowHours: getEnv("REGISTER_RATE_LIMIT_WINDOW_HOURS", "24"),
		RegisterRateLimitBlockHours:  getEnv("REGISTER_RATE_LIMIT_BLOCK_HOURS", "48"),

		// MinIO Configuration
		MinIOServerURL:    getEnv("MINIO_SERVER_URL", "http://localhost:9000"),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "ngoconnect-documents"),

		// Upload limits
		MaxUploadSizeMB: getEnv("MAX_UPLOAD_SIZE_MB", "100"),

		// Seed admin
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@ngoconnect.org"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// GetBcryptCost returns the bcrypt cost factor as integer
func (c *Config) GetBcryptCost() int {
	if value, err := strconv.Atoi(c.BcryptCost); err == nil && value > 0 {
		return value
	}
	return 10
}

// GetHashWorkerCount returns the hash worker pool size as integer
func (c *Config) GetHashWorkerCount() int {
	if value, err := strconv.Atoi(c.HashWorkerCount); err == nil && value > 0 {
		return value
	}
	return runtime.NumCPU()
}

// GetMaxUploadSizeBytes returns the upload size cap in bytes
func (c *Config) GetMaxUploadSizeBytes() int64 {
	if value, err := strconv.ParseInt(c.MaxUploadSizeMB, 10, 64); err == nil && value > 0 {
		return value * 1024 * 1024
	}
	return 100 * 1024 * 1024
}

// GetRateLimitMaxRequests returns the rate limit max requests as integer
func (c *Config) GetRateLimitMaxRequests() int {
	return atoiOr(c.RateLimitMaxRequests, 100)
}

// GetRateLimitTimeWindowSeconds returns the rate limit time window as integer
func (c *Config) GetRateLimitTimeWindowSeconds() int {
	return atoiOr(c.RateLimitTimeWindowSeconds, 60)
}

// GetRateLimitBlockDurationMinutes returns the rate limit block duration as integer
func (c *Config) GetRateLimitBlockDurationMinutes() int {
	return atoiOr(c.RateLimitBlockDurationMinutes, 15)
}

// GetLoginRateLimitMaxAttempts returns the login attempt cap as integer
func (c *Config) GetLoginRateLimitMaxAttempts() int {
	return atoiOr(c.LoginRateLimitMaxAttempts, 5)
}

// GetLoginRateLimitWindowSeconds returns the login attempt window as integer
func (c *Config) GetLoginRateLimitWindowSeconds() int {
	return atoiOr(c.LoginRateLimitWindowSeconds, 300)
}

// GetLoginRateLimitBlockMinutes returns the login block duration as integer
func (c *Config) GetLoginRateLimitBlockMinutes() int {
	return atoiOr(c.LoginRateLimitBlockMinutes, 30)
}

// GetRegisterRateLimitMaxAttempts returns the registration attempt cap as integer
func (c *Config) GetRegisterRateLimitMaxAttempts() int {
	return atoiOr(c.RegisterRateLimitMaxAttempts, 3)
}

// GetRegisterRateLimitWindowHours returns the registration attempt window as integer
func (c *Config) GetRegisterRateLimitWindowHours() int {
	return atoiOr(c.RegisterRateLimitWindowHours, 24)
}

// GetRegisterRateLimitBlockHours returns the registration block duration as integer
func (c *Config) GetRegisterRateLimitBlockHours() int {
	return atoiOr(c.RegisterRateLimitBlockHours, 48)
}

func atoiOr(value string, defaultValue int) int {
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	LoginRateLimit    string

	CORSAllowedOrigins []string

	// BaseCurrency is the currency every other one is converted through (Córdoba by default).
	BaseCurrency string

	// Redis cache for report summaries. Empty RedisAddr disables caching.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Backups
	BackupDir      string
	BackupInterval time.Duration

	BackupFTPHost     string
	BackupFTPPort     int
	BackupFTPUser     string
	BackupFTPPassword string
	BackupFTPDir      string

	BackupDriveCredentialsFile string
	BackupDriveFolderID        string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_EXPIRY_DURATION", "12h")
	v.SetDefault("JWT_ISSUER", "banquito-backend")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("BASE_CURRENCY", "NIO")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "1m")
	v.SetDefault("BACKUP_DIR", "backups")
	v.SetDefault("BACKUP_INTERVAL", "24h")
	v.SetDefault("BACKUP_FTP_HOST", "")
	v.SetDefault("BACKUP_FTP_PORT", 21)
	v.SetDefault("BACKUP_FTP_USER", "")
	v.SetDefault("BACKUP_FTP_PASSWORD", "")
	v.SetDefault("BACKUP_FTP_DIR", "/")
	v.SetDefault("BACKUP_DRIVE_CREDENTIALS_FILE", "")
	v.SetDefault("BACKUP_DRIVE_FOLDER_ID", "")

	v.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTExpiryDuration = parseDuration(v, "JWT_EXPIRY_DURATION", 12*time.Hour)
	cfg.CacheTTL = parseDuration(v, "CACHE_TTL", time.Minute)
	cfg.BackupInterval = parseDuration(v, "BACKUP_INTERVAL", 24*time.Hour)

	cfg.JWTIssuer = v.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "banquito-backend"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.BaseCurrency = strings.ToUpper(strings.TrimSpace(v.GetString("BASE_CURRENCY")))
	if len(cfg.BaseCurrency) != 3 {
		log.Printf("Warning: Invalid value for BASE_CURRENCY ('%s'). Defaulting to NIO.\n", cfg.BaseCurrency)
		cfg.BaseCurrency = "NIO"
	}

	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = v.GetString("MIGRATIONS_PATH")
	cfg.LoginRateLimit = v.GetString("LOGIN_RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.RedisAddr = v.GetString("REDIS_ADDR")
	cfg.RedisPassword = v.GetString("REDIS_PASSWORD")
	cfg.RedisDB = v.GetInt("REDIS_DB")

	cfg.BackupDir = v.GetString("BACKUP_DIR")
	cfg.BackupFTPHost = v.GetString("BACKUP_FTP_HOST")
	cfg.BackupFTPPort = v.GetInt("BACKUP_FTP_PORT")
	cfg.BackupFTPUser = v.GetString("BACKUP_FTP_USER")
	cfg.BackupFTPPassword = v.GetString("BACKUP_FTP_PASSWORD")
	cfg.BackupFTPDir = v.GetString("BACKUP_FTP_DIR")
	cfg.BackupDriveCredentialsFile = v.GetString("BACKUP_DRIVE_CREDENTIALS_FILE")
	cfg.BackupDriveFolderID = v.GetString("BACKUP_DRIVE_FOLDER_ID")

	if cfg.BackupDriveCredentialsFile != "" && cfg.BackupDriveFolderID == "" {
		log.Println("Warning: BACKUP_DRIVE_FOLDER_ID not set. Drive backups will land in the service account root.")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

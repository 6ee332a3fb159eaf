package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string        `json:"serverAddress"`
	BaseURL       string        `json:"baseUrl"`
	DatabasePath  string        `json:"databasePath"`
	DatabaseURL   string        `json:"databaseUrl"`
	UploadStorage UploadStorage `json:"uploadStorage"`
	Security      Security      `json:"security"`
	LikeLimit     LikeLimit     `json:"likeLimit"`
}

// UsePostgres returns true if PostgreSQL should be used
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// UploadStorage configuration for uploaded images
type UploadStorage struct {
	BasePath          string   `json:"basePath"`
	MaxFileSizeMB     int64    `json:"maxFileSizeMB"`
	AllowedExtensions []string `json:"allowedExtensions"`
}

// Security configuration
type Security struct {
	JWTSecret          string `json:"jwtSecret"`
	TokenDurationHours int    `json:"tokenDurationHours"`
}

// LikeLimit bounds like-toggle requests per source address per window
type LikeLimit struct {
	WindowMinutes int `json:"windowMinutes"`
	MaxPerWindow  int `json:"maxPerWindow"`
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":5000",
		BaseURL:       "http://localhost:5000",
		DatabasePath:  "studiostorm.db",
		UploadStorage: UploadStorage{
			BasePath:      "./uploads",
			MaxFileSizeMB: 50,
			AllowedExtensions: []string{
				".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic", ".heif",
			},
		},
		Security: Security{
			JWTSecret:          "CHANGE_THIS_TO_A_SECURE_SECRET_AT_LEAST_32_CHARS",
			TokenDurationHours: 24,
		},
		LikeLimit: LikeLimit{
			WindowMinutes: 60,
			MaxPerWindow:  50,
		},
	}
}

// Load loads configuration from file or environment
func Load() (*Config, error) {
	cfg := defaultConfig()

	// Try to load from config file
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment variables
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if baseURL := os.Getenv("SERVER_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if basePath := os.Getenv("UPLOAD_STORAGE_PATH"); basePath != "" {
		cfg.UploadStorage.BasePath = basePath
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Security.JWTSecret = secret
	}

	// Like rate limit configuration
	if window := os.Getenv("LIKE_LIMIT_WINDOW_MINUTES"); window != "" {
		if minutes, err := strconv.Atoi(window); err == nil && minutes > 0 {
			cfg.LikeLimit.WindowMinutes = minutes
		}
	}
	if max := os.Getenv("LIKE_LIMIT_MAX_PER_WINDOW"); max != "" {
		if n, err := strconv.Atoi(max); err == nil && n > 0 {
			cfg.LikeLimit.MaxPerWindow = n
		}
	}

	// Ensure upload storage directory exists
	if err := os.MkdirAll(cfg.UploadStorage.BasePath, 0755); err != nil {
		return nil, err
	}

	// Make base path absolute
	absPath, err := filepath.Abs(cfg.UploadStorage.BasePath)
	if err != nil {
		return nil, err
	}
	cfg.UploadStorage.BasePath = absPath

	return cfg, nil
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Uploads
		UI
		Auth
		Sweep
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Uploads struct {
		Dir          string
		MaxSizeBytes int64
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
	Sweep struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("uploads_dir", DefaultUploadsDir)
	v.SetDefault("max_upload_size_bytes", DefaultMaxUploadSizeBytes)
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")

	// Auth defaults
	v.SetDefault("session_secret", "")     // Auto-generated if empty
	v.SetDefault("session_lifetime", "1h") // Idle session lifetime
	v.SetDefault("bcrypt_cost", 12)        // bcrypt cost factor
	v.SetDefault("secure_cookies", true)   // HTTPS-only cookies

	// Upload sweep defaults
	v.SetDefault("upload_sweep_enabled", false)
	v.SetDefault("upload_sweep_schedule", "0 3 * * *") // Daily at 03:00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Uploads: Uploads{
			Dir:          v.GetString("UPLOADS_DIR"),
			MaxSizeBytes: v.GetInt64("MAX_UPLOAD_SIZE_BYTES"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Auth: Auth{
			SessionSecret:   v.GetString("SESSION_SECRET"),
			SessionLifetime: v.GetDuration("SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("BCRYPT_COST"),
			SecureCookies:   v.GetBool("SECURE_COOKIES"),
		},
		Sweep: Sweep{
			Enabled:  v.GetBool("UPLOAD_SWEEP_ENABLED"),
			Schedule: v.GetString("UPLOAD_SWEEP_SCHEDULE"),
		},
	}
}

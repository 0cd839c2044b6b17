package config

const (
	DefaultDatabasePath       = "./bookmaster.db"
	DefaultUploadsDir         = "./uploads"
	DefaultMaxUploadSizeBytes = 50 * 1024 * 1024 // 50 MB
)

package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Security SecurityConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	BaseURL string
	// MaxUploadMB caps multipart request bodies.
	MaxUploadMB int64
}

type DatabaseConfig struct {
	Driver   string // postgres | mongo
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type MongoConfig struct {
	URI          string
	Database     string
	Transactions bool
}

type JWTConfig struct {
	Secret      string
	Issuer      string
	ExpiryHours int
}

type StorageConfig struct {
	Driver       string // s3 | local
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	LocalDir     string
	PublicURL    string
}

type SecurityConfig struct {
	BcryptCost       int
	LikeRequiresAuth bool
}

// LoadConfig reads the optional env file at path, then overlays the process environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = ".env"
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "movie-social")
	v.SetDefault("PORT", "5000")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("BASE_URL", "http://localhost:5000")
	v.SetDefault("MAX_UPLOAD_MB", 100)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "movie_social")
	v.SetDefault("MONGO_TRANSACTIONS", true)
	v.SetDefault("JWT_ISSUER", "movie-social")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_LOCAL_DIR", "uploads")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("LIKE_REQUIRES_AUTH", false)

	if err := v.ReadInConfig(); err != nil && !isMissingConfig(err) {
		return nil, err
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Port:        v.GetString("PORT"),
			Debug:       v.GetBool("DEBUG"),
			LogPath:     v.GetString("LOG_PATH"),
			BaseURL:     strings.TrimRight(v.GetString("BASE_URL"), "/"),
			MaxUploadMB: v.GetInt64("MAX_UPLOAD_MB"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Mongo: MongoConfig{
			URI:          v.GetString("MONGO_URI"),
			Database:     v.GetString("MONGO_DB"),
			Transactions: v.GetBool("MONGO_TRANSACTIONS"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			Issuer:      v.GetString("JWT_ISSUER"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Bucket:       v.GetString("STORAGE_BUCKET"),
			Region:       v.GetString("STORAGE_REGION"),
			Endpoint:     v.GetString("STORAGE_ENDPOINT"),
			AccessKey:    v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey:    v.GetString("STORAGE_SECRET_KEY"),
			UsePathStyle: v.GetBool("STORAGE_USE_PATH_STYLE"),
			LocalDir:     v.GetString("STORAGE_LOCAL_DIR"),
			PublicURL:    strings.TrimRight(v.GetString("STORAGE_PUBLIC_URL"), "/"),
		},
		Security: SecurityConfig{
			BcryptCost:       v.GetInt("BCRYPT_COST"),
			LikeRequiresAuth: v.GetBool("LIKE_REQUIRES_AUTH"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

// TokenTTL is the lifetime of issued bearer tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpiryHours) * time.Hour
}

func isMissingConfig(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

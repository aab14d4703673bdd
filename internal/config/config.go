package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/vishwam-chepuri/matching-app/pkg/storage"
)

type R2Config struct {
	AccountID       string `envconfig:"R2_ACCOUNT_ID"`
	AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"R2_SECRET_ACCESS_KEY"`
	Bucket          string `envconfig:"R2_BUCKET"`
	PublicURL       string `envconfig:"R2_PUBLIC_URL"`
	Endpoint        string `envconfig:"R2_ENDPOINT"`
	Region          string `envconfig:"R2_REGION"`
}

type CloudflareImagesConfig struct {
	AccountID string `envconfig:"CLOUDFLARE_ACCOUNT_ID"`
	Token     string `envconfig:"CLOUDFLARE_IMAGES_TOKEN"`
	Hash      string `envconfig:"CLOUDFLARE_IMAGES_HASH"`
}

type Config struct {
	Env      string `envconfig:"ENV" default:"production"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Port     string `envconfig:"PORT" default:"3001"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`

	BackendURL  string `envconfig:"BACKEND_URL" default:"http://localhost:3001"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@shaadi.local"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin123"`
	AdminName     string `envconfig:"ADMIN_NAME" default:"Admin"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"local"`
	UploadDir     string `envconfig:"UPLOAD_DIR" default:"public/uploads/photos"`

	BodyLimitMB   int `envconfig:"BODY_LIMIT_MB" default:"80"`
	AuthRateLimit int `envconfig:"AUTH_RATE_LIMIT" default:"20"`

	R2               R2Config
	CloudflareImages CloudflareImagesConfig
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver:      c.StorageDriver,
		LocalDir:    c.UploadDir,
		LocalPrefix: storage.DefaultLocalPrefix,
		R2: storage.R2Config{
			AccountID:       c.R2.AccountID,
			AccessKeyID:     c.R2.AccessKeyID,
			SecretAccessKey: c.R2.SecretAccessKey,
			Bucket:          c.R2.Bucket,
			PublicURL:       c.R2.PublicURL,
			Endpoint:        c.R2.Endpoint,
			Region:          c.R2.Region,
		},
		CloudflareImages: storage.CloudflareImagesConfig{
			AccountID:   c.CloudflareImages.AccountID,
			Token:       c.CloudflareImages.Token,
			AccountHash: c.CloudflareImages.Hash,
		},
	}
}

package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
)

type StoreBackend string

const (
	StorePostgres StoreBackend = "postgres"
	StoreMemory   StoreBackend = "memory"
)

type StorageBackend string

const (
	StorageLocal StorageBackend = "local"
	StorageS3    StorageBackend = "s3"
)

const (
	DefaultPort           = "5050"
	DefaultUploadDir      = "public/uploads"
	DefaultMaxUploadBytes = 5 << 20
	devTokenSecret        = "dev-secret-change-me"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is required for the postgres store")
	ErrMissingTokenSecret = errors.New("TOKEN_SECRET environment variable is required for the postgres store")
	ErrMissingS3Bucket    = errors.New("S3_BUCKET environment variable is required for s3 storage")
	ErrUnknownStore       = errors.New("unknown STORE_BACKEND")
	ErrUnknownStorage     = errors.New("unknown STORAGE_BACKEND")
)

// Config holds everything the server reads from its environment.
type Config struct {
	Port           string
	Store          StoreBackend
	DatabaseURL    string
	TokenSecret    string
	AllowedOrigins []string

	Storage         StorageBackend
	UploadDir       string
	MaxUploadBytes  int64
	S3Bucket        string
	S3PublicBaseURL string

	LoginRatePerMinute int
	LoginBurst         int

	SeedFile string

	TrustProxy bool
}

// LoadFromEnv reads configuration from environment variables.
//
// Environment variables:
//   - PORT: listen port (default: 5050)
//   - STORE_BACKEND: "postgres" or "memory" (default: "postgres")
//   - DATABASE_URL: Postgres DSN (required for postgres)
//   - TOKEN_SECRET: HMAC key for bearer tokens (required for postgres; memory falls back to a dev value)
//   - ALLOWED_ORIGINS: comma-separated CORS allow-list
//   - STORAGE_BACKEND: "local" or "s3" (default: "local")
//   - UPLOAD_DIR: local avatar directory (default: public/uploads)
//   - MAX_UPLOAD_BYTES: avatar size ceiling (default: 5 MiB)
//   - S3_BUCKET, S3_PUBLIC_BASE_URL: S3 avatar storage
//   - LOGIN_RATE_PER_MINUTE, LOGIN_BURST: per-IP limits on login/register (default: 10, 5)
//   - SEED_FILE: YAML seed file for cmd/seed (default: embedded seed)
//   - TRUST_PROXY: honor X-Forwarded-For/X-Real-IP for client addresses (default: false)
func LoadFromEnv() Config {
	cfg := Config{
		Port:               getenv("PORT", DefaultPort),
		Store:              StoreBackend(strings.ToLower(getenv("STORE_BACKEND", string(StorePostgres)))),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		TokenSecret:        os.Getenv("TOKEN_SECRET"),
		AllowedOrigins:     splitList(os.Getenv("ALLOWED_ORIGINS")),
		Storage:            StorageBackend(strings.ToLower(getenv("STORAGE_BACKEND", string(StorageLocal)))),
		UploadDir:          getenv("UPLOAD_DIR", DefaultUploadDir),
		MaxUploadBytes:     int64(getInt("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		S3PublicBaseURL:    strings.TrimSuffix(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
		LoginRatePerMinute: getInt("LOGIN_RATE_PER_MINUTE", 10),
		LoginBurst:         getInt("LOGIN_BURST", 5),
		SeedFile:           os.Getenv("SEED_FILE"),
		TrustProxy:         getBool("TRUST_PROXY"),
	}
	if cfg.TokenSecret == "" && cfg.Store == StoreMemory {
		log.Println("TOKEN_SECRET not set, using insecure development secret")
		cfg.TokenSecret = devTokenSecret
	}
	return cfg
}

// Validate checks that the selected backends have what they need.
func (c Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
		if c.TokenSecret == "" || c.TokenSecret == devTokenSecret {
			return ErrMissingTokenSecret
		}
	case StoreMemory:
	default:
		return ErrUnknownStore
	}

	switch c.Storage {
	case StorageLocal:
	case StorageS3:
		if c.S3Bucket == "" {
			return ErrMissingS3Bucket
		}
	default:
		return ErrUnknownStorage
	}
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("ignoring invalid %s=%q", key, v)
		return def
	}
	return n
}

func getBool(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("ignoring invalid %s=%q", key, v)
		return false
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

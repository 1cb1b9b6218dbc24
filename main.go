package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EmpoweredVote/blog-backend/internal/config"
	"github.com/EmpoweredVote/blog-backend/internal/db"
	"github.com/EmpoweredVote/blog-backend/internal/memstore"
	"github.com/EmpoweredVote/blog-backend/internal/posts"
	"github.com/EmpoweredVote/blog-backend/internal/seeds"
	"github.com/EmpoweredVote/blog-backend/internal/server"
	"github.com/EmpoweredVote/blog-backend/internal/storage"
	"github.com/EmpoweredVote/blog-backend/internal/token"
	"github.com/EmpoweredVote/blog-backend/internal/users"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")
	ctx := context.Background()

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	codec, err := token.NewCodec(cfg.TokenSecret)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	deps := server.Deps{
		Codec:              codec,
		AllowedOrigins:     cfg.AllowedOrigins,
		MaxUploadBytes:     cfg.MaxUploadBytes,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
		LoginBurst:         cfg.LoginBurst,
		TrustProxy:         cfg.TrustProxy,
	}

	switch cfg.Store {
	case config.StoreMemory:
		mem := memstore.New()
		deps.Users, deps.Posts = mem.Users(), mem.Posts()

		// An empty in-memory store has nobody to log in as.
		f, err := seeds.Load(cfg.SeedFile)
		if err != nil {
			log.Fatalf("load seed: %v", err)
		}
		if err := seeds.SeedAll(ctx, f, mem.Users(), mem.Posts()); err != nil {
			log.Fatalf("seed memory store: %v", err)
		}
	default:
		conn, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		users.Init()
		posts.Init()
		deps.Users, deps.Posts = users.NewGormStore(conn), posts.NewGormStore(conn)
	}

	switch cfg.Storage {
	case config.StorageS3:
		s3Store, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.S3PublicBaseURL)
		if err != nil {
			log.Fatalf("s3 storage: %v", err)
		}
		deps.Files = s3Store
	default:
		deps.Files = storage.NewLocalStore(cfg.UploadDir)
		deps.UploadDir = cfg.UploadDir
	}

	srv := server.New("0.0.0.0:"+cfg.Port, server.NewRouter(deps))
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

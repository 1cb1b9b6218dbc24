package main

import (
	"context"
	"flag"
	"log"

	"github.com/EmpoweredVote/blog-backend/internal/config"
	"github.com/EmpoweredVote/blog-backend/internal/db"
	"github.com/EmpoweredVote/blog-backend/internal/posts"
	"github.com/EmpoweredVote/blog-backend/internal/seeds"
	"github.com/EmpoweredVote/blog-backend/internal/users"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")
	cfg := config.LoadFromEnv()

	file := flag.String("file", cfg.SeedFile, "YAML seed file (default: built-in seed)")
	flag.Parse()

	if cfg.DatabaseURL == "" {
		log.Fatal(config.ErrMissingDatabaseURL)
	}
	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	users.Init()
	posts.Init()

	f, err := seeds.Load(*file)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	if err := seeds.SeedAll(context.Background(), f, users.NewGormStore(conn), posts.NewGormStore(conn)); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

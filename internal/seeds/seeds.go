package seeds

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"

	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/EmpoweredVote/blog-backend/internal/utils"
	"github.com/goccy/go-yaml"
)

//go:embed data/seed.yaml
var defaultSeed []byte

type File struct {
	Users []SeedUser `yaml:"users"`
	Posts []SeedPost `yaml:"posts"`
}

type SeedUser struct {
	Email    string      `yaml:"email"`
	Username string      `yaml:"username"`
	Password string      `yaml:"password"`
	Role     models.Role `yaml:"role"`
}

type SeedPost struct {
	Title     string `yaml:"title"`
	Content   string `yaml:"content"`
	Published bool   `yaml:"published"`
	// Author is the email of one of the seeded users.
	Author string `yaml:"author"`
}

type UserSeeder interface {
	UpsertByEmail(ctx context.Context, in models.NewUser) (*models.User, error)
}

type PostSeeder interface {
	EnsurePost(ctx context.Context, in models.NewPost) (*models.Post, error)
}

// Load parses the seed file at path, or the embedded default when path is empty.
func Load(path string) (*File, error) {
	data := defaultSeed
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("could not read %s: %w", path, err)
		}
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	for _, u := range f.Users {
		if !u.Role.Valid() {
			return nil, fmt.Errorf("seed user %s: unknown role %q", u.Email, u.Role)
		}
	}
	return &f, nil
}

// SeedAll creates missing users, then missing posts. Running it twice changes nothing.
func SeedAll(ctx context.Context, f *File, users UserSeeder, posts PostSeeder) error {
	byEmail := make(map[string]string, len(f.Users))

	for _, su := range f.Users {
		hashed, err := utils.HashPassword(su.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", su.Email, err)
		}
		u, err := users.UpsertByEmail(ctx, models.NewUser{
			Email:        su.Email,
			Username:     su.Username,
			PasswordHash: hashed,
			Role:         su.Role,
		})
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", su.Email, err)
		}
		byEmail[utils.Normalize(su.Email)] = u.ID
	}
	log.Printf("Seeded %d users", len(f.Users))

	for _, sp := range f.Posts {
		authorID, ok := byEmail[utils.Normalize(sp.Author)]
		if !ok {
			return fmt.Errorf("seed post %q: author %s is not a seeded user", sp.Title, sp.Author)
		}
		content := sp.Content
		if _, err := posts.EnsurePost(ctx, models.NewPost{
			Title:     sp.Title,
			Content:   &content,
			Published: sp.Published,
			AuthorID:  authorID,
		}); err != nil {
			return fmt.Errorf("failed to seed post %q: %w", sp.Title, err)
		}
	}
	log.Printf("Seeded %d posts", len(f.Posts))
	return nil
}

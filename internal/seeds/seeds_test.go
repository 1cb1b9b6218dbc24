package seeds

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/EmpoweredVote/blog-backend/internal/memstore"
	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/EmpoweredVote/blog-backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDefaultSeedIsIdempotent(t *testing.T) {
	utils.BcryptCost = bcrypt.MinCost
	ctx := context.Background()
	mem := memstore.New()

	f, err := Load("")
	require.NoError(t, err)
	require.Len(t, f.Users, 2)
	require.Len(t, f.Posts, 3)

	require.NoError(t, SeedAll(ctx, f, mem.Users(), mem.Posts()))
	require.NoError(t, SeedAll(ctx, f, mem.Users(), mem.Posts()))

	users, err := mem.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	posts, err := mem.Posts().List(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	admin, err := mem.Users().FindByCredentials(ctx, "admin@admin.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, total, err := mem.Posts().ListPublished(ctx, 1, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("users:\n  - email: a@b.c\n    role: ROOT\n"), 0o644))
	_, err := Load(bad)
	assert.ErrorContains(t, err, "unknown role")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSeedPostNeedsSeededAuthor(t *testing.T) {
	mem := memstore.New()
	f := &File{Posts: []SeedPost{{Title: "Orphan", Content: "no author here", Author: "ghost@example.com"}}}
	err := SeedAll(context.Background(), f, mem.Users(), mem.Posts())
	assert.ErrorContains(t, err, "not a seeded user")
}

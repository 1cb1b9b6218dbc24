package memstore_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/EmpoweredVote/blog-backend/internal/memstore"
	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/EmpoweredVote/blog-backend/internal/posts"
	"github.com/EmpoweredVote/blog-backend/internal/users"
	"github.com/EmpoweredVote/blog-backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	_ users.Store = (*memstore.UserStore)(nil)
	_ posts.Store = (*memstore.PostStore)(nil)
)

func newUser(t *testing.T, db *memstore.DB, email, username string) *models.User {
	t.Helper()
	u, err := db.Users().Create(context.Background(), models.NewUser{
		Email: email, Username: username, PasswordHash: "x",
	})
	require.NoError(t, err)
	return u
}

func TestCreateNormalizesAndRejectsDuplicates(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()

	u := newUser(t, db, "  Alice@Example.COM ", "Alice")
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, models.RoleUser, u.Role)

	_, err := db.Users().Create(ctx, models.NewUser{Email: "ALICE@example.com", Username: "other"})
	assert.ErrorIs(t, err, models.ErrConflict)
	_, err = db.Users().Create(ctx, models.NewUser{Email: "new@example.com", Username: "ALICE"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestUpdateConflictExcludesSelf(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	a := newUser(t, db, "a@example.com", "a")
	newUser(t, db, "b@example.com", "b")

	got, err := db.Users().Update(ctx, a.ID, models.UserChanges{Email: "a@example.com", Username: "a2"})
	require.NoError(t, err)
	assert.Equal(t, "a2", got.Username)
	assert.Equal(t, "x", got.Password, "nil PasswordHash keeps the password")

	_, err = db.Users().Update(ctx, a.ID, models.UserChanges{Email: "b@example.com", Username: "a2"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = db.Users().Update(ctx, "missing", models.UserChanges{Email: "z@example.com", Username: "z"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFindByCredentials(t *testing.T) {
	utils.BcryptCost = bcrypt.MinCost
	db := memstore.New()
	ctx := context.Background()

	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	_, err = db.Users().UpsertByEmail(ctx, models.NewUser{Email: "c@example.com", Username: "c", PasswordHash: hash})
	require.NoError(t, err)

	u, err := db.Users().FindByCredentials(ctx, "C@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "c", u.Username)

	_, err = db.Users().FindByCredentials(ctx, "c@example.com", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, err = db.Users().FindByCredentials(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestUpsertByEmailKeepsExisting(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	first := newUser(t, db, "d@example.com", "d")

	again, err := db.Users().UpsertByEmail(ctx, models.NewUser{Email: "d@example.com", Username: "changed"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "d", again.Username)
}

func TestDeleteCascadesPosts(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	a := newUser(t, db, "a@example.com", "a")
	b := newUser(t, db, "b@example.com", "b")

	for i := 0; i < 3; i++ {
		_, err := db.Posts().Create(ctx, models.NewPost{Title: fmt.Sprintf("a %d", i), AuthorID: a.ID})
		require.NoError(t, err)
	}
	kept, err := db.Posts().Create(ctx, models.NewPost{Title: "b post", AuthorID: b.ID})
	require.NoError(t, err)

	require.NoError(t, db.Users().Delete(ctx, a.ID))
	assert.ErrorIs(t, db.Users().Delete(ctx, a.ID), models.ErrNotFound)

	list, err := db.Posts().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)
}

func TestPostsCarryAuthorAndOrder(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	a := newUser(t, db, "a@example.com", "a")

	_, err := db.Posts().Create(ctx, models.NewPost{Title: "older", AuthorID: a.ID, Published: true})
	require.NoError(t, err)
	_, err = db.Posts().Create(ctx, models.NewPost{Title: "draft", AuthorID: a.ID})
	require.NoError(t, err)
	_, err = db.Posts().Create(ctx, models.NewPost{Title: "newer", AuthorID: a.ID, Published: true})
	require.NoError(t, err)

	all, err := db.Posts().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "newer", all[0].Title)
	require.NotNil(t, all[0].Author)
	assert.Equal(t, "a", all[0].Author.Username)

	page, total, err := db.Posts().ListPublished(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, "newer", page[0].Title)

	page, total, err = db.Posts().ListPublished(ctx, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Empty(t, page)

	// an offset that would overflow must not wrap onto the first page
	page, total, err = db.Posts().ListPublished(ctx, math.MaxInt/2+2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Empty(t, page)

	_, err = db.Posts().Create(ctx, models.NewPost{Title: "orphan", AuthorID: "missing"})
	assert.ErrorIs(t, err, models.ErrAuthorNotFound)
}

func TestEnsurePostIsIdempotent(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	a := newUser(t, db, "a@example.com", "a")

	p1, err := db.Posts().EnsurePost(ctx, models.NewPost{Title: "Hello", AuthorID: a.ID})
	require.NoError(t, err)
	p2, err := db.Posts().EnsurePost(ctx, models.NewPost{Title: "Hello", AuthorID: a.ID})
	require.NoError(t, err)
	assert.Equal(t, p1.ID, p2.ID)

	list, err := db.Posts().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSetAvatar(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	a := newUser(t, db, "a@example.com", "a")

	path := "/uploads/1-a.png"
	require.NoError(t, db.Users().SetAvatar(ctx, a.ID, &path))
	got, err := db.Users().FindByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Avatar)
	assert.Equal(t, path, *got.Avatar)

	require.NoError(t, db.Users().SetAvatar(ctx, a.ID, nil))
	got, err = db.Users().FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Avatar)

	assert.ErrorIs(t, db.Users().SetAvatar(ctx, "missing", &path), models.ErrNotFound)
}

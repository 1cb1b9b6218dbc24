package memstore

import (
	"context"
	"sort"

	"github.com/EmpoweredVote/blog-backend/internal/models"
)

// PostStore satisfies posts.Store.
type PostStore struct {
	db *DB
}

func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.db.sortedPosts(false), nil
}

func (s *PostStore) ListPublished(ctx context.Context, page, limit int) ([]models.Post, int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	all := s.db.sortedPosts(true)
	total := int64(len(all))
	start, ok := models.PageOffset(page, limit)
	if !ok || start >= len(all) {
		return []models.Post{}, total, nil
	}
	end := start + min(limit, len(all)-start)
	return all[start:end], total, nil
}

func (s *PostStore) FindByID(ctx context.Context, id int) (*models.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	row, ok := s.db.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	p := s.db.project(row)
	return &p, nil
}

func (s *PostStore) Create(ctx context.Context, in models.NewPost) (*models.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.db.createPost(in)
}

func (s *PostStore) Update(ctx context.Context, id int, ch models.PostChanges) (*models.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row, ok := s.db.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	row.Title = ch.Title
	row.Content = copyString(ch.Content)
	row.Published = ch.Published
	row.UpdatedAt = s.db.now()

	p := s.db.project(row)
	return &p, nil
}

func (s *PostStore) Delete(ctx context.Context, id int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.posts[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.db.posts, id)
	return nil
}

func (s *PostStore) EnsurePost(ctx context.Context, in models.NewPost) (*models.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, row := range s.db.posts {
		if row.AuthorID == in.AuthorID && row.Title == in.Title {
			p := s.db.project(row)
			return &p, nil
		}
	}
	return s.db.createPost(in)
}

func (d *DB) createPost(in models.NewPost) (*models.Post, error) {
	if _, ok := d.users[in.AuthorID]; !ok {
		return nil, models.ErrAuthorNotFound
	}

	now := d.now()
	row := &postRow{
		Post: models.Post{
			ID:        d.nextID,
			Title:     in.Title,
			Content:   copyString(in.Content),
			Published: in.Published,
			AuthorID:  in.AuthorID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		seq: d.nextSeq(),
	}
	d.nextID++
	d.posts[row.ID] = row

	p := d.project(row)
	return &p, nil
}

// sortedPosts returns posts newest first with authors attached.
func (d *DB) sortedPosts(publishedOnly bool) []models.Post {
	rows := make([]*postRow, 0, len(d.posts))
	for _, p := range d.posts {
		if publishedOnly && !p.Published {
			continue
		}
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})

	out := make([]models.Post, len(rows))
	for i, r := range rows {
		out[i] = d.project(r)
	}
	return out
}

func (d *DB) project(row *postRow) models.Post {
	p := row.Post
	p.Content = copyString(row.Content)
	if u, ok := d.users[p.AuthorID]; ok {
		p.Author = models.AuthorOf(u.User)
	}
	return p
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/EmpoweredVote/blog-backend/internal/db"
	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(d *gorm.DB) *GormStore {
	return &GormStore{DB: d}
}

func (s *GormStore) withAuthor(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Preload("Author")
}

func (s *GormStore) List(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	if err := s.withAuthor(ctx).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

func (s *GormStore) ListPublished(ctx context.Context, page, limit int) ([]models.Post, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Post{}).Where("published = ?", true).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count published posts: %w", err)
	}
	offset, ok := models.PageOffset(page, limit)
	if !ok {
		return []models.Post{}, total, nil
	}

	var out []models.Post
	err := s.withAuthor(ctx).
		Where("published = ?", true).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list published posts: %w", err)
	}
	return out, total, nil
}

func (s *GormStore) FindByID(ctx context.Context, id int) (*models.Post, error) {
	var p models.Post
	err := s.withAuthor(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	return &p, nil
}

func (s *GormStore) Create(ctx context.Context, in models.NewPost) (*models.Post, error) {
	if _, err := uuid.Parse(in.AuthorID); err != nil {
		return nil, models.ErrAuthorNotFound
	}

	p := models.Post{Title: in.Title, Content: in.Content, Published: in.Published, AuthorID: in.AuthorID}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("id = ?", in.AuthorID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return models.ErrAuthorNotFound
		}
		return tx.Omit("Author").Create(&p).Error
	})
	if errors.Is(err, models.ErrAuthorNotFound) || db.IsForeignKeyViolation(err) {
		return nil, models.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.FindByID(ctx, p.ID)
}

func (s *GormStore) Update(ctx context.Context, id int, ch models.PostChanges) (*models.Post, error) {
	res := s.DB.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(map[string]any{
		"title":     ch.Title,
		"content":   ch.Content,
		"published": ch.Published,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update post %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	return s.FindByID(ctx, id)
}

func (s *GormStore) Delete(ctx context.Context, id int) error {
	res := s.DB.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete post %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *GormStore) EnsurePost(ctx context.Context, in models.NewPost) (*models.Post, error) {
	var existing models.Post
	err := s.withAuthor(ctx).Where("author_id = ? AND title = ?", in.AuthorID, in.Title).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find post %q: %w", in.Title, err)
	}
	return s.Create(ctx, in)
}

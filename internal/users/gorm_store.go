package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/EmpoweredVote/blog-backend/internal/db"
	"github.com/EmpoweredVote/blog-backend/internal/models"
	"github.com/EmpoweredVote/blog-backend/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore is the Postgres-backed user store. It also satisfies the
// credential contract used by the auth endpoints and middleware.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(d *gorm.DB) *GormStore {
	return &GormStore{DB: d}
}

func (s *GormStore) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	var u models.User
	err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &u, nil
}

func (s *GormStore) FindByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).First(&u, "email = ?", utils.Normalize(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CheckPassword("", password)
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if !utils.CheckPassword(u.Password, password) {
		return nil, models.ErrInvalidCredentials
	}
	return &u, nil
}

func (s *GormStore) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	u := models.User{
		ID:       uuid.NewString(),
		Email:    utils.Normalize(in.Email),
		Username: utils.Normalize(in.Username),
		Password: in.PasswordHash,
		Role:     in.Role,
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}

	if err := s.checkConflict(ctx, "", u.Email, u.Username); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// UpsertByEmail creates the user if no account has the email yet. An existing
// account is returned unchanged.
func (s *GormStore) UpsertByEmail(ctx context.Context, in models.NewUser) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).First(&u, "email = ?", utils.Normalize(in.Email)).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return s.Create(ctx, in)
}

func (s *GormStore) Update(ctx context.Context, id string, ch models.UserChanges) (*models.User, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email, username := utils.Normalize(ch.Email), utils.Normalize(ch.Username)
	if err := s.checkConflict(ctx, id, email, username); err != nil {
		return nil, err
	}

	fields := map[string]any{"email": email, "username": username}
	if ch.Role != "" {
		fields["role"] = ch.Role
	}
	if ch.PasswordHash != nil {
		fields["password"] = *ch.PasswordHash
	}

	if err := s.DB.WithContext(ctx).Model(u).Updates(fields).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return s.FindByID(ctx, id)
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return models.ErrNotFound
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return fmt.Errorf("delete posts of %s: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return fmt.Errorf("delete user %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

func (s *GormStore) SetAvatar(ctx context.Context, id string, path *string) error {
	if _, err := uuid.Parse(id); err != nil {
		return models.ErrNotFound
	}
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("avatar", path)
	if res.Error != nil {
		return fmt.Errorf("set avatar %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// checkConflict reports models.ErrConflict when another user already holds
// email or username. exceptID is skipped so a user can keep their own values.
func (s *GormStore) checkConflict(ctx context.Context, exceptID, email, username string) error {
	q := s.DB.WithContext(ctx).Model(&models.User{}).Where("(email = ? OR username = ?)", email, username)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return fmt.Errorf("check user conflict: %w", err)
	}
	if n > 0 {
		return models.ErrConflict
	}
	return nil
}

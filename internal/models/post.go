package models

import (
	"math"
	"time"
)

type Post struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   *string   `json:"content"`
	Published bool      `gorm:"not null;default:false" json:"published"`
	AuthorID  string    `gorm:"type:uuid;not null;index" json:"authorId"`
	Author    *Author   `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"author,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Post) TableName() string { return "blog.posts" }

// Author is the public projection of a post's author.
type Author struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (Author) TableName() string { return "blog.users" }

func AuthorOf(u User) *Author {
	return &Author{ID: u.ID, Username: u.Username, Email: u.Email}
}

type NewPost struct {
	Title     string
	Content   *string
	Published bool
	AuthorID  string
}

type PostChanges struct {
	Title     string
	Content   *string
	Published bool
}

// Pagination mirrors the metadata returned with paged post listings.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// PageOffset returns the row offset of a 1-based page. ok is false for
// non-positive inputs or when the offset does not fit in an int.
func PageOffset(page, limit int) (offset int, ok bool) {
	if page < 1 || limit < 1 || page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

package models

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("email or username already in use")
	ErrAuthorNotFound     = errors.New("author not found")
)

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/blog-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrNameTaken and ErrEmailTaken narrow ErrAlreadyExists to the column that collided.
var (
	ErrNameTaken  = fmt.Errorf("name: %w", ErrAlreadyExists)
	ErrEmailTaken = fmt.Errorf("email: %w", ErrAlreadyExists)
)

// UserStore captures persistence operations needed for accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	// FindUserByNameOrEmail returns every user whose name or email matches, at most two.
	FindUserByNameOrEmail(ctx context.Context, name, email string) ([]models.User, error)
	ListUsers(ctx context.Context, includeAdmins bool) ([]models.User, error)
}

// PostStore captures persistence operations for posts. Mutations are scoped in
// a single statement and report how many rows they touched.
type PostStore interface {
	ListVisiblePosts(ctx context.Context, viewerID int64) ([]models.Post, error)
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	UpdatePost(ctx context.Context, id, authorID int64, changes models.PostChanges) (int64, error)
	DeletePost(ctx context.Context, id, authorID int64, allowHidden bool) (int64, error)
}

// Store is the full persistence surface used by the server.
type Store interface {
	UserStore
	PostStore
	Close()
}

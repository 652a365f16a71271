package services

import (
	"context"
	"errors"
	"time"

	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/logging"
	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
	"github.com/hongminglow/blog-be/internal/storage/memory"
	"golang.org/x/crypto/bcrypt"
)

func newTokens() *auth.TokenManager {
	return auth.NewTokenManager([]byte("services-test-secret-value"), "blog-backend", 30*time.Minute)
}

func newDirectory(store storage.UserStore) (*UserDirectory, *auth.TokenManager) {
	tokens := newTokens()
	return NewUserDirectory(store, auth.NewPasswordHasher(bcrypt.MinCost), tokens, logging.NewNop()), tokens
}

// racingStore hides existing users from the uniqueness pre-check so the
// store-level constraint is what rejects the insert.
type racingStore struct {
	*memory.Store
}

func (racingStore) FindUserByNameOrEmail(context.Context, string, string) ([]models.User, error) {
	return nil, nil
}

type failingStore struct {
	*memory.Store
	err error
}

func (f failingStore) FindUserByEmail(context.Context, string) (models.User, error) {
	return models.User{}, f.err
}

func (f failingStore) ListUsers(context.Context, bool) ([]models.User, error) {
	return nil, f.err
}

func (f failingStore) ListVisiblePosts(context.Context, int64) ([]models.Post, error) {
	return nil, f.err
}

func (f failingStore) UpdatePost(context.Context, int64, int64, models.PostChanges) (int64, error) {
	return 0, f.err
}

var errStoreDown = errors.New("store down")

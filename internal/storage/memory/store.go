// Package memory keeps users and posts in process memory. It honours the same
// uniqueness and visibility rules as the postgres store and backs local runs
// with STORAGE_DRIVER=memory as well as the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	now    func() time.Time
	users  map[int64]models.User
	posts  map[int64]models.Post
	userID int64
	postID int64
}

func New() *Store {
	return &Store{
		now:   time.Now,
		users: make(map[int64]models.User),
		posts: make(map[int64]models.Post),
	}
}

func (s *Store) Close() {}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Name == user.Name {
			return models.User{}, storage.ErrNameTaken
		}
		if u.Email == user.Email {
			return models.User{}, storage.ErrEmailTaken
		}
	}

	s.userID++
	now := s.now().UTC()
	user.ID = s.userID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindUserByID(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) FindUserByNameOrEmail(_ context.Context, name, email string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for _, u := range s.users {
		if u.Name == name || u.Email == email {
			out = append(out, u)
		}
	}
	sortUsers(out)
	return out, nil
}

func (s *Store) ListUsers(_ context.Context, includeAdmins bool) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if !includeAdmins && u.IsAdmin() {
			continue
		}
		out = append(out, u)
	}
	sortUsers(out)
	return out, nil
}

func (s *Store) ListVisiblePosts(_ context.Context, viewerID int64) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	viewer := models.Viewer{ID: viewerID}
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if p.VisibleTo(viewer) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreatePost(_ context.Context, post models.Post) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.AuthorID]; !ok {
		return models.Post{}, storage.ErrNotFound
	}

	s.postID++
	now := s.now().UTC()
	post.ID = s.postID
	post.CreatedAt = now
	post.UpdatedAt = now
	s.posts[post.ID] = post
	return post, nil
}

func (s *Store) UpdatePost(_ context.Context, id, authorID int64, changes models.PostChanges) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok || !p.EditableBy(models.Viewer{ID: authorID}) {
		return 0, nil
	}
	changes.Apply(&p)
	p.UpdatedAt = s.now().UTC()
	s.posts[id] = p
	return 1, nil
}

func (s *Store) DeletePost(_ context.Context, id, authorID int64, allowHidden bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	viewer := models.Viewer{ID: authorID, Type: models.UserTypeBlogger}
	if allowHidden {
		viewer.Type = models.UserTypeAdmin
	}
	p, ok := s.posts[id]
	if !ok || !p.DeletableBy(viewer) {
		return 0, nil
	}
	delete(s.posts, id)
	return 1, nil
}

func sortUsers(users []models.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
}

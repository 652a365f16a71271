package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const uniqueViolation = "23505"

// DB is the subset of pgxpool.Pool the store issues queries through.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides Postgres-backed persistence for users and posts.
type Store struct {
	db   DB
	pool *pgxpool.Pool
}

// Open connects to databaseURL, applies migrations and returns a ready Store.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{db: pool, pool: pool}, nil
}

// New wraps an existing connection. The caller owns its lifecycle.
func New(db DB) *Store {
	return &Store{db: db}
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const userColumns = `id, name, email, password_hash, type, created_at, updated_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (name, email, password_hash, type)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	row := s.db.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash, string(user.Type))
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "users_name_key":
				return models.User{}, storage.ErrNameTaken
			case "users_email_key":
				return models.User{}, storage.ErrEmailTaken
			}
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// FindUserByID fetches a user by primary key.
func (s *Store) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRow(ctx, query, id))
}

// FindUserByEmail fetches a user by email address.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.db.QueryRow(ctx, query, email))
}

// FindUserByNameOrEmail fetches users colliding with either the name or the email.
func (s *Store) FindUserByNameOrEmail(ctx context.Context, name, email string) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE name = $1 OR email = $2 ORDER BY id`
	return s.queryUsers(ctx, query, name, email)
}

// ListUsers returns all users ordered by id, optionally without admins.
func (s *Store) ListUsers(ctx context.Context, includeAdmins bool) ([]models.User, error) {
	if includeAdmins {
		return s.queryUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	}
	return s.queryUsers(ctx, `SELECT `+userColumns+` FROM users WHERE type <> $1 ORDER BY id`, string(models.UserTypeAdmin))
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

const postColumns = `id, title, content, is_hidden, author_id, created_at, updated_at`

// ListVisiblePosts returns published posts plus the viewer's own, ordered by id.
func (s *Store) ListVisiblePosts(ctx context.Context, viewerID int64) ([]models.Post, error) {
	const query = `SELECT ` + postColumns + ` FROM posts WHERE is_hidden = FALSE OR author_id = $1 ORDER BY id`
	rows, err := s.db.Query(ctx, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// CreatePost inserts a post and returns the stored row.
func (s *Store) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	const query = `
		INSERT INTO posts (title, content, is_hidden, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + postColumns
	created, err := scanPost(s.db.QueryRow(ctx, query, post.Title, post.Content, post.IsHidden, post.AuthorID))
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return created, nil
}

// UpdatePost applies changes to the post when authorID wrote it. Absent fields
// keep their value through COALESCE.
func (s *Store) UpdatePost(ctx context.Context, id, authorID int64, changes models.PostChanges) (int64, error) {
	const query = `
		UPDATE posts SET
			title = COALESCE($3, title),
			content = COALESCE($4, content),
			is_hidden = COALESCE($5, is_hidden),
			updated_at = NOW()
		WHERE id = $1 AND author_id = $2`
	tag, err := s.db.Exec(ctx, query, id, authorID, changes.Title, changes.Content, changes.IsHidden)
	if err != nil {
		return 0, fmt.Errorf("update post: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeletePost removes the post when authorID wrote it and it is either
// published or allowHidden is set.
func (s *Store) DeletePost(ctx context.Context, id, authorID int64, allowHidden bool) (int64, error) {
	const query = `DELETE FROM posts WHERE id = $1 AND author_id = $2 AND ($3 OR is_hidden = FALSE)`
	tag, err := s.db.Exec(ctx, query, id, authorID, allowHidden)
	if err != nil {
		return 0, fmt.Errorf("delete post: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var typ string
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &typ, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	user.Type = models.UserType(typ)
	return user, nil
}

func scanPost(row pgx.Row) (models.Post, error) {
	var post models.Post
	if err := row.Scan(&post.ID, &post.Title, &post.Content, &post.IsHidden, &post.AuthorID, &post.CreatedAt, &post.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, storage.ErrNotFound
		}
		return models.Post{}, err
	}
	return post, nil
}

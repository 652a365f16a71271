package services

import (
	"context"

	"github.com/hongminglow/blog-be/internal/apperr"
	"github.com/hongminglow/blog-be/internal/logging"
	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

type CreatePostInput struct {
	Title    string
	Content  *string
	IsHidden *bool
}

type UpdatePostInput struct {
	ID       *int64
	Title    *string
	Content  *string
	IsHidden *bool
}

// PostService applies the visibility and ownership rules to post operations.
type PostService struct {
	posts storage.PostStore
	log   logging.Logger
}

func NewPostService(posts storage.PostStore, log logging.Logger) *PostService {
	return &PostService{posts: posts, log: log}
}

// ListVisible returns published posts plus the viewer's own, ordered by id.
func (s *PostService) ListVisible(ctx context.Context, viewer models.Viewer) ([]models.Post, error) {
	posts, err := s.posts.ListVisiblePosts(ctx, viewer.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return posts, nil
}

// Create stores a post authored by viewer. Posts start hidden unless told otherwise.
func (s *PostService) Create(ctx context.Context, viewer models.Viewer, in CreatePostInput) (models.Post, error) {
	if in.Title == "" {
		return models.Post{}, apperr.BadRequest(apperr.CodeEmptyPostTitle)
	}

	post := models.Post{
		Title:    in.Title,
		IsHidden: true,
		AuthorID: viewer.ID,
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.IsHidden != nil {
		post.IsHidden = *in.IsHidden
	}

	created, err := s.posts.CreatePost(ctx, post)
	if err != nil {
		return models.Post{}, apperr.Internal(err)
	}
	s.log.Debug(ctx, "post created", "post_id", created.ID, "author_id", created.AuthorID)
	return created, nil
}

// Update changes the provided fields on a post the viewer wrote. Posts written
// by someone else are left alone and the count is zero.
func (s *PostService) Update(ctx context.Context, viewer models.Viewer, in UpdatePostInput) (int64, error) {
	if in.ID == nil || *in.ID == 0 {
		return 0, apperr.BadRequest(apperr.CodeMissingPostID)
	}
	if in.Title != nil && *in.Title == "" {
		return 0, apperr.BadRequest(apperr.CodeEmptyPostTitle)
	}

	n, err := s.posts.UpdatePost(ctx, *in.ID, viewer.ID, models.PostChanges{
		Title:    in.Title,
		Content:  in.Content,
		IsHidden: in.IsHidden,
	})
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return n, nil
}

// Delete removes a post the viewer wrote. Hidden posts can only be removed by
// an admin author.
func (s *PostService) Delete(ctx context.Context, viewer models.Viewer, id *int64) (int64, error) {
	if id == nil || *id == 0 {
		return 0, apperr.BadRequest(apperr.CodeMissingPostID)
	}

	n, err := s.posts.DeletePost(ctx, *id, viewer.ID, viewer.IsAdmin())
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return n, nil
}

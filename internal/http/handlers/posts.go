package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/logging"
	"github.com/hongminglow/blog-be/internal/models/dto"
	"github.com/hongminglow/blog-be/internal/services"
)

// PostsHandler owns the /posts endpoints. Every route needs an authenticated caller.
type PostsHandler struct {
	posts *services.PostService
	log   logging.Logger
}

func NewPostsHandler(posts *services.PostService, log logging.Logger) *PostsHandler {
	return &PostsHandler{posts: posts, log: log}
}

func (h *PostsHandler) Register(r chi.Router, authenticate func(http.Handler) http.Handler) {
	r.Route("/posts", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Put("/", h.handleUpdate)
		r.Delete("/", h.handleDelete)
	})
}

func (h *PostsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	posts, err := h.posts.ListVisible(r.Context(), id.Viewer())
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}
	respond.JSON(w, http.StatusOK, posts)
}

func (h *PostsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	var req dto.CreatePostRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	post, err := h.posts.Create(r.Context(), id.Viewer(), services.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		IsHidden: req.IsHidden,
	})
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}
	respond.JSON(w, http.StatusOK, post)
}

func (h *PostsHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	var req dto.UpdatePostRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	n, err := h.posts.Update(r.Context(), id.Viewer(), services.UpdatePostInput{
		ID:       req.ID,
		Title:    req.Title,
		Content:  req.Content,
		IsHidden: req.IsHidden,
	})
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}
	respond.JSON(w, http.StatusOK, n)
}

func (h *PostsHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	var req dto.DeletePostRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	n, err := h.posts.Delete(r.Context(), id.Viewer(), req.ID)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}
	respond.JSON(w, http.StatusOK, n)
}

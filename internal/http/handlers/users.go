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

// UsersHandler owns the /users endpoints.
type UsersHandler struct {
	users *services.UserDirectory
	log   logging.Logger
}

func NewUsersHandler(users *services.UserDirectory, log logging.Logger) *UsersHandler {
	return &UsersHandler{users: users, log: log}
}

// Register attaches the user routes. authenticate resolves the caller and
// requireAdmin gates account creation.
func (h *UsersHandler) Register(r chi.Router, authenticate, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/register", h.handleRegister)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", h.handleList)
			r.With(requireAdmin).Post("/", h.handleCreate)
		})
	})
}

func (h *UsersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	summaries, err := h.users.List(r.Context(), id.IsAdmin())
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	out := make([]dto.UserSummary, 0, len(summaries))
	for _, s := range summaries {
		entry := dto.UserSummary{Name: s.Name, Email: s.Email}
		if id.IsAdmin() {
			userID := s.ID
			entry.ID = &userID
		}
		out = append(out, entry)
	}
	respond.JSON(w, http.StatusOK, out)
}

func (h *UsersHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	_, err := h.users.CreateByAdmin(r.Context(), services.CreateUserInput{
		Type:     req.Type,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}
	respond.NoContent(w)
}

func (h *UsersHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	_, err := h.users.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *UsersHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(r.Context(), h.log, w, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}

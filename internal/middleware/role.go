package middleware

import (
	"net/http"

	"github.com/hongminglow/blog-be/internal/apperr"
	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/logging"
	"github.com/hongminglow/blog-be/internal/models"
)

// RequireType lets the request through only when the authenticated user has
// one of the given types. It must run after Authenticate.
func RequireType(log logging.Logger, types ...models.UserType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFrom(r.Context())
			if !ok {
				respond.Error(r.Context(), log, w, apperr.Unauthorized(apperr.CodeUnauthorized))
				return
			}
			for _, t := range types {
				if id.Type == t {
					next.ServeHTTP(w, r)
					return
				}
			}
			respond.Error(r.Context(), log, w, apperr.Forbidden())
		})
	}
}

func RequireAdmin(log logging.Logger) func(http.Handler) http.Handler {
	return RequireType(log, models.UserTypeAdmin)
}

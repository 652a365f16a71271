package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hongminglow/blog-be/internal/apperr"
	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/logging"
	"github.com/hongminglow/blog-be/internal/storage"
)

// Authenticate resolves the bearer token into an auth.Identity on the request
// context. Every token problem surfaces to the client as the same 401.
func Authenticate(tokens *auth.TokenManager, users storage.UserStore, log logging.Logger) func(http.Handler) http.Handler {
	unauthorized := apperr.Unauthorized(apperr.CodeUnauthorized)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				respond.Error(ctx, log, w, unauthorized)
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				var tokenErr *auth.TokenError
				if errors.As(err, &tokenErr) {
					log.Debug(ctx, "token rejected", "reason", string(tokenErr.Reason))
				}
				respond.Error(ctx, log, w, unauthorized)
				return
			}

			user, err := users.FindUserByID(ctx, claims.UserID)
			if errors.Is(err, storage.ErrNotFound) {
				log.Debug(ctx, "token for unknown user", "user_id", claims.UserID)
				respond.Error(ctx, log, w, unauthorized)
				return
			}
			if err != nil {
				respond.Error(ctx, log, w, apperr.Internal(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(ctx, auth.IdentityOf(user))))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

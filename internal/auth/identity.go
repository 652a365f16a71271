package auth

import (
	"context"

	"github.com/hongminglow/blog-be/internal/models"
)

// Identity is the authenticated caller attached to a request context. It never
// carries the password hash.
type Identity struct {
	ID    int64
	Type  models.UserType
	Name  string
	Email string
}

func IdentityOf(u models.User) Identity {
	return Identity{ID: u.ID, Type: u.Type, Name: u.Name, Email: u.Email}
}

func (i Identity) IsAdmin() bool { return i.Type == models.UserTypeAdmin }

// Viewer projects the identity onto the fields the post predicates need.
func (i Identity) Viewer() models.Viewer {
	return models.Viewer{ID: i.ID, Type: i.Type}
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by the authentication middleware.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

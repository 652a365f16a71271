// Package services holds the account and post rules that sit between the HTTP
// handlers and the stores.
package services

import (
	"context"
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/hongminglow/blog-be/internal/apperr"
	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/logging"
	"github.com/hongminglow/blog-be/internal/models"
	"github.com/hongminglow/blog-be/internal/storage"
)

const (
	minPasswordLength = 10
	// bcrypt only accepts up to 72 bytes of input.
	maxPasswordBytes  = 72
)

var passwordBytes = validation.By(func(value interface{}) error {
	if s, _ := value.(string); len(s) > maxPasswordBytes {
		return errors.New("must be at most 72 bytes")
	}
	return nil
})

var emailPattern = regexp.MustCompile(`(?i)^(([^<>()[\].,;:\s@"]+(\.[^<>()[\].,;:\s@"]+)*)|(".+"))@(([^<>()[\].,;:\s@"]+\.)+[^<>()[\].,;:\s@"]{2,})$`)

// RegisterInput is a self-service sign up.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Email, validation.Required, validation.Match(emailPattern)),
		validation.Field(&in.Password, validation.Required, validation.Length(minPasswordLength, 0), passwordBytes),
	)
}

// CreateUserInput is an account created by an administrator with an explicit type.
type CreateUserInput struct {
	Type     models.UserType
	Name     string
	Email    string
	Password string
}

func (in CreateUserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Type, validation.Required),
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Email, validation.Required, validation.Match(emailPattern)),
		validation.Field(&in.Password, validation.Required, validation.Length(minPasswordLength, 0), passwordBytes),
	)
}

// UserSummary is one roster entry. ID is zero for non-admin requesters.
type UserSummary struct {
	ID    int64
	Name  string
	Email string
}

// UserDirectory registers, authenticates and lists users.
type UserDirectory struct {
	users  storage.UserStore
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
	log    logging.Logger
}

func NewUserDirectory(users storage.UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenManager, log logging.Logger) *UserDirectory {
	return &UserDirectory{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a BLOGGER account. Registration can never create an admin.
func (d *UserDirectory) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	if err := in.Validate(); err != nil {
		return models.User{}, apperr.BadRequest(apperr.CodeInvalidParams).Wrap(err)
	}
	return d.createUser(ctx, models.UserTypeBlogger, in.Name, in.Email, in.Password)
}

// CreateByAdmin creates an account of any known type. The caller must already
// have been checked to be an admin.
func (d *UserDirectory) CreateByAdmin(ctx context.Context, in CreateUserInput) (models.User, error) {
	if err := in.Validate(); err != nil {
		return models.User{}, apperr.BadRequest(apperr.CodeInvalidParams).Wrap(err)
	}
	if !in.Type.Valid() {
		return models.User{}, apperr.BadRequest(apperr.CodeUnknownUserType)
	}
	return d.createUser(ctx, in.Type, in.Name, in.Email, in.Password)
}

// EnsureAdmin provisions an administrator unless the email is already registered.
// It reports whether a user was created.
func (d *UserDirectory) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	_, err := d.users.FindUserByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, apperr.Internal(err)
	}

	_, err = d.CreateByAdmin(ctx, CreateUserInput{
		Type:     models.UserTypeAdmin,
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *UserDirectory) createUser(ctx context.Context, typ models.UserType, name, email, password string) (models.User, error) {
	existing, err := d.users.FindUserByNameOrEmail(ctx, name, email)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}
	for _, u := range existing {
		if u.Name == name {
			return models.User{}, apperr.BadRequest(apperr.CodeNameAlreadyUsed)
		}
	}
	if len(existing) > 0 {
		return models.User{}, apperr.BadRequest(apperr.CodeEmailAlreadyUsed)
	}

	hash, err := d.hasher.Hash(password)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}

	created, err := d.users.CreateUser(ctx, models.User{
		Name:         name,
		Email:        email,
		Type:         typ,
		PasswordHash: hash,
	})
	switch {
	case errors.Is(err, storage.ErrNameTaken):
		return models.User{}, apperr.BadRequest(apperr.CodeNameAlreadyUsed).Wrap(err)
	case errors.Is(err, storage.ErrEmailTaken):
		return models.User{}, apperr.BadRequest(apperr.CodeEmailAlreadyUsed).Wrap(err)
	case err != nil:
		return models.User{}, apperr.Internal(err)
	}

	d.log.Info(ctx, "user created", "user_id", created.ID, "type", string(created.Type))
	created.PasswordHash = ""
	return created, nil
}

// Login exchanges credentials for a token. Unknown emails and wrong passwords
// fail with the same error.
func (d *UserDirectory) Login(ctx context.Context, email, password string) (string, error) {
	invalid := apperr.Unauthorized(apperr.CodeInvalidCredentials)

	user, err := d.users.FindUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		d.hasher.VerifyDummy(password)
		return "", invalid
	}
	if err != nil {
		return "", apperr.Internal(err)
	}
	ok, err := d.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", apperr.Internal(err)
	}
	if !ok {
		return "", invalid
	}

	token, err := d.tokens.Issue(user.ID)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}

// List returns the roster. Admins see every user with ids; everyone else sees
// the names and emails of non-admin users only.
func (d *UserDirectory) List(ctx context.Context, requesterIsAdmin bool) ([]UserSummary, error) {
	users, err := d.users.ListUsers(ctx, requesterIsAdmin)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		s := UserSummary{Name: u.Name, Email: u.Email}
		if requesterIsAdmin {
			s.ID = u.ID
		}
		out = append(out, s)
	}
	return out, nil
}

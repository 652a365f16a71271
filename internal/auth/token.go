package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the only token failure callers should branch on. The
// concrete *TokenError keeps the reason for logs.
var ErrInvalidToken = errors.New("invalid token")

// TokenFailure tags why a token was rejected.
type TokenFailure string

const (
	FailureMalformed TokenFailure = "malformed"
	FailureSignature TokenFailure = "signature"
	FailureExpired   TokenFailure = "expired"
	FailureClaims    TokenFailure = "claims"
)

// TokenError is returned by Validate for every rejected token.
type TokenError struct {
	Reason TokenFailure
	Err    error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("invalid token (%s): %v", e.Reason, e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

func (e *TokenError) Is(target error) bool { return target == ErrInvalidToken }

// Claims is the decoded identity carried by a validated token.
type Claims struct {
	ID        string
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// TokenManager issues and validates signed JWTs for authenticated users.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenManager)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenManager) {
		t.now = now
	}
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret []byte, issuer string, ttl time.Duration, opts ...TokenOption) *TokenManager {
	t := &TokenManager{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Issue signs a token for userID that expires ttl from now.
func (t *TokenManager) Issue(userID int64) (string, error) {
	now := t.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, issuer and expiry and returns the decoded claims.
// There is no separate decode step: claims only exist for a valid token.
func (t *TokenManager) Validate(tokenString string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	parsed := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, &TokenError{Reason: classify(err), Err: err}
	}
	if !token.Valid {
		return Claims{}, &TokenError{Reason: FailureClaims, Err: errors.New("token not valid")}
	}
	if parsed.UserID <= 0 || parsed.Subject != strconv.FormatInt(parsed.UserID, 10) {
		return Claims{}, &TokenError{Reason: FailureClaims, Err: errors.New("subject does not match user id")}
	}

	return Claims{
		ID:        parsed.RegisteredClaims.ID,
		UserID:    parsed.UserID,
		IssuedAt:  parsed.IssuedAt.Time,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}

func classify(err error) TokenFailure {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return FailureExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return FailureSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return FailureMalformed
	default:
		return FailureClaims
	}
}

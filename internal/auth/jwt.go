package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc/metadata"

	"firewoodbank/models"
)

// sessionClaims are the JWT claims carried for a logged-in worker. They map
// one-to-one onto models.Session and stay fixed for the lifetime of the login.
type sessionClaims struct {
	Username       string `json:"name"`
	DisplayName    string `json:"display_name"`
	Role           string `json:"role"`
	HipaaCertified bool   `json:"hipaa"`
	IsDriver       bool   `json:"driver"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 session token for the user, valid for ttl.
func IssueToken(u *models.User, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := sessionClaims{
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		Role:           u.Role,
		HipaaCertified: u.HipaaCertified,
		IsDriver:       u.IsDriver,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

type sessionKey struct{}

// WithSession stores the session in context.
func WithSession(ctx context.Context, s models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext retrieves the session from context (if any).
func FromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(models.Session)
	return s, ok
}

// ParseFromMD extracts and validates a Bearer JWT from gRPC metadata and
// returns the caller's session.
func ParseFromMD(ctx context.Context, secret string) (models.Session, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return models.Session{}, errors.New("missing metadata")
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		vals = md.Get("Authorization")
	}
	if len(vals) == 0 {
		return models.Session{}, errors.New("missing authorization")
	}
	parts := strings.SplitN(vals[0], " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return models.Session{}, errors.New("invalid authorization header")
	}
	return ParseToken(strings.TrimSpace(parts[1]), secret)
}

// ParseToken validates a session token and rebuilds the Session. An
// unrecognized role value survives parsing: it maps to the empty Role, which
// the policy layer treats as the most restrictive case.
func ParseToken(tokenStr, secret string) (models.Session, error) {
	if secret == "" {
		return models.Session{}, errors.New("jwt secret is empty")
	}
	tok, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return models.Session{}, err
	}
	c, _ := tok.Claims.(*sessionClaims)
	if c == nil || c.Username == "" {
		return models.Session{}, errors.New("invalid claims")
	}
	return models.Session{
		UserID:         c.Subject,
		Username:       c.Username,
		DisplayName:    c.DisplayName,
		Role:           models.ParseRole(c.Role),
		HipaaCertified: c.HipaaCertified,
		IsDriver:       c.IsDriver,
	}, nil
}

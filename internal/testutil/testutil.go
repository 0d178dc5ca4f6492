package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"google.golang.org/grpc/metadata"

	"firewoodbank/internal/auth"
	"firewoodbank/internal/db"
	"firewoodbank/models"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// A shared-cache name keeps multiple connections on the same database.
// Cleanup is registered on t.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// SessionToken signs a JWT for the given user, valid for an hour.
func SessionToken(t *testing.T, secret string, u *models.User) string {
	t.Helper()
	tok, err := auth.IssueToken(u, secret, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// CtxWithBearer returns a context carrying gRPC metadata with the bearer token.
func CtxWithBearer(ctx context.Context, token string) context.Context {
	md := metadata.Pairs("authorization", "Bearer "+token)
	return metadata.NewIncomingContext(ctx, md)
}

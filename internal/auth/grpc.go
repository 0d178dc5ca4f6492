package auth

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"firewoodbank/internal/policy"
	"firewoodbank/models"
)

// NewUnaryAuthInterceptor returns a gRPC unary interceptor that extracts and
// validates a Bearer JWT from incoming metadata and injects the Session into
// the context. Methods listed in allowUnauthenticated bypass authentication
// (login, health checks).
func NewUnaryAuthInterceptor(secret string, allowUnauthenticated ...string) grpc.UnaryServerInterceptor {
	allow := make(map[string]struct{}, len(allowUnauthenticated))
	for _, m := range allowUnauthenticated {
		allow[strings.TrimSpace(m)] = struct{}{}
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := allow[info.FullMethod]; ok {
			return handler(ctx, req)
		}
		s, err := ParseFromMD(ctx, secret)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "auth error: %v", err)
		}
		return handler(WithSession(ctx, s), req)
	}
}

// RequireSession ensures a session is present in context.
func RequireSession(ctx context.Context) (models.Session, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return models.Session{}, status.Error(codes.Unauthenticated, "missing session")
	}
	return s, nil
}

// RequireCapability ensures the caller's role grants the capability.
func RequireCapability(ctx context.Context, c policy.Capability) (models.Session, error) {
	s, err := RequireSession(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if !policy.Allows(s, c) {
		return models.Session{}, status.Errorf(codes.PermissionDenied, "role %q may not %s", s.Role, c)
	}
	return s, nil
}

// RequireAdmin ensures the caller is an admin.
func RequireAdmin(ctx context.Context) (models.Session, error) {
	s, err := RequireSession(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if s.Role != models.RoleAdmin {
		return models.Session{}, status.Error(codes.PermissionDenied, "only admin can perform this action")
	}
	return s, nil
}

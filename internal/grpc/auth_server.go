//go:build grpcserver

package grpcserver

import (
	"context"
	"time"

	authv1 "firewoodbank/api/auth/v1"
	"firewoodbank/internal/auth"
	"firewoodbank/repository"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// sessionTTL is how long a login token stays valid.
const sessionTTL = 12 * time.Hour

// AuthServer implements the AuthService: username/password login producing a
// session token.
type AuthServer struct {
	authv1.UnimplementedAuthServiceServer
	Users     *repository.UserRepository
	JWTSecret string
}

// Login verifies credentials and returns a signed session token plus the
// session fields the client needs for rendering decisions.
func (s *AuthServer) Login(ctx context.Context, req *authv1.LoginRequest) (*authv1.LoginResponse, error) {
	if req.GetUsername() == "" || req.GetPassword() == "" {
		return nil, status.Error(codes.InvalidArgument, "username and password are required")
	}
	u, err := s.Users.Authenticate(ctx, req.GetUsername(), req.GetPassword())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "authenticate: %v", err)
	}
	if u == nil {
		return nil, status.Error(codes.Unauthenticated, "bad username or password")
	}
	tok, err := auth.IssueToken(u, s.JWTSecret, sessionTTL)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "issue token: %v", err)
	}
	sess := u.Session()
	return &authv1.LoginResponse{
		Token:          tok,
		UserId:         sess.UserID,
		Username:       sess.Username,
		DisplayName:    sess.DisplayName,
		Role:           string(sess.Role),
		HipaaCertified: sess.HipaaCertified,
		IsDriver:       sess.IsDriver,
	}, nil
}

// ChangePassword lets the authenticated worker rotate their own password.
func (s *AuthServer) ChangePassword(ctx context.Context, req *authv1.ChangePasswordRequest) (*authv1.ChangePasswordResponse, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.Authenticate(ctx, sess.Username, req.GetCurrentPassword())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "authenticate: %v", err)
	}
	if u == nil {
		return nil, status.Error(codes.PermissionDenied, "current password does not match")
	}
	if err := s.Users.SetPassword(ctx, u.ID, req.GetNewPassword()); err != nil {
		return nil, rpcError(err)
	}
	return &authv1.ChangePasswordResponse{}, nil
}

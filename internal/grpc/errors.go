//go:build grpcserver

package grpcserver

import (
	"database/sql"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"firewoodbank/internal/fault"
)

// rpcError maps domain errors onto gRPC status codes: validation failures
// become InvalidArgument with the human-readable reason, policy denials
// become PermissionDenied, missing rows NotFound.
func rpcError(err error) error {
	if err == nil {
		return nil
	}
	var ve *fault.ValidationError
	if errors.As(err, &ve) {
		return status.Error(codes.InvalidArgument, ve.Reason)
	}
	var pd *fault.PolicyDenied
	if errors.As(err, &pd) {
		return status.Error(codes.PermissionDenied, pd.Error())
	}
	if errors.Is(err, sql.ErrNoRows) {
		return status.Error(codes.NotFound, "not found")
	}
	return status.Errorf(codes.Internal, "%v", err)
}

//go:build grpcserver

package grpcserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	adminv1 "firewoodbank/api/admin/v1"
	"firewoodbank/internal/auth"
	"firewoodbank/internal/policy"
	"firewoodbank/internal/reports"
	"firewoodbank/models"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AdminServer implements the AdminService: worker accounts, inventory, the
// audit log, and report exports.
type AdminServer struct {
	adminv1.UnimplementedAdminServiceServer
	Repos
	ReportsDir string
}

// CreateUser creates a worker account with an initial password.
func (s *AdminServer) CreateUser(ctx context.Context, req *adminv1.CreateUserRequest) (*adminv1.CreateUserResponse, error) {
	sess, err := auth.RequireCapability(ctx, policy.CapManageUsers)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:               req.GetUsername(),
		DisplayName:            req.GetDisplayName(),
		Role:                   req.GetRole(),
		HipaaCertified:         req.GetHipaaCertified(),
		IsDriver:               req.GetIsDriver(),
		DriverLicenseStatus:    strPtr(req.GetDriverLicenseStatus()),
		DriverLicenseExpiresOn: strPtr(req.GetDriverLicenseExpiresOn()),
		Vehicle:                strPtr(req.GetVehicle()),
		Email:                  strPtr(req.GetEmail()),
		Telephone:              strPtr(req.GetTelephone()),
		AvailabilityNotes:      req.GetAvailabilityNotes(),
	}
	created, err := s.Users.Create(ctx, u, req.GetPassword())
	if err != nil {
		return nil, rpcError(err)
	}
	s.Audits.Event(ctx, "create_user", string(sess.Role), sess.Username)
	return &adminv1.CreateUserResponse{User: userToProto(policy.MaskUserContacts(sess, *created))}, nil
}

// ListUsers lists worker accounts, masking contact and license details for
// callers below coordination level.
func (s *AdminServer) ListUsers(ctx context.Context, req *adminv1.ListUsersRequest) (*adminv1.ListUsersResponse, error) {
	sess, err := auth.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.Users.List(ctx, clampPage(req.GetPageSize()), int(req.GetOffset()))
	if err != nil {
		return nil, rpcError(err)
	}
	out := make([]*adminv1.User, 0, len(rows))
	for _, u := range rows {
		out = append(out, userToProto(policy.MaskUserContacts(sess, *u)))
	}
	return &adminv1.ListUsersResponse{Users: out}, nil
}

// SetUserFlags rewrites a user's role/certification/driver flags. The driver
// license invariant is enforced by the repository.
func (s *AdminServer) SetUserFlags(ctx context.Context, req *adminv1.SetUserFlagsRequest) (*adminv1.SetUserFlagsResponse, error) {
	sess, err := auth.RequireCapability(ctx, policy.CapManageUsers)
	if err != nil {
		return nil, err
	}
	f := models.UserFlags{
		Role:                   req.GetRole(),
		HipaaCertified:         req.GetHipaaCertified(),
		IsDriver:               req.GetIsDriver(),
		DriverLicenseStatus:    strPtr(req.GetDriverLicenseStatus()),
		DriverLicenseExpiresOn: strPtr(req.GetDriverLicenseExpiresOn()),
	}
	if err := s.Users.SetFlags(ctx, req.GetUserId(), f, sess); err != nil {
		return nil, rpcError(err)
	}
	return &adminv1.SetUserFlagsResponse{}, nil
}

// ResetPassword sets a new password on a worker account.
func (s *AdminServer) ResetPassword(ctx context.Context, req *adminv1.ResetPasswordRequest) (*adminv1.ResetPasswordResponse, error) {
	sess, err := auth.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Users.SetPassword(ctx, req.GetUserId(), req.GetNewPassword()); err != nil {
		return nil, rpcError(err)
	}
	s.Audits.Event(ctx, "reset_password", string(sess.Role), sess.Username)
	return &adminv1.ResetPasswordResponse{}, nil
}

// AvailableDrivers returns the drivers whose availability notes do not rule
// out the given date.
func (s *AdminServer) AvailableDrivers(ctx context.Context, req *adminv1.AvailableDriversRequest) (*adminv1.AvailableDriversResponse, error) {
	sess, err := auth.RequireCapability(ctx, policy.CapEditWorkOrders)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(wireDateFormat, req.GetDate())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "bad date: %v", err)
	}
	rows, err := s.Users.AvailableDrivers(ctx, date)
	if err != nil {
		return nil, rpcError(err)
	}
	out := make([]*adminv1.User, 0, len(rows))
	for _, u := range rows {
		out = append(out, userToProto(policy.MaskUserContacts(sess, *u)))
	}
	return &adminv1.AvailableDriversResponse{Drivers: out}, nil
}

// CreateInventoryItem adds a stock item.
func (s *AdminServer) CreateInventoryItem(ctx context.Context, req *adminv1.CreateInventoryItemRequest) (*adminv1.CreateInventoryItemResponse, error) {
	sess, err := auth.RequireCapability(ctx, policy.CapManageInventory)
	if err != nil {
		return nil, err
	}
	it := &models.InventoryItem{
		Name:             req.GetName(),
		Category:         strPtr(req.GetCategory()),
		QuantityOnHand:   req.GetQuantityOnHand(),
		Unit:             req.GetUnit(),
		ReorderThreshold: req.GetReorderThreshold(),
		Notes:            strPtr(req.GetNotes()),
		CreatedByUserID:  &sess.UserID,
	}
	if req.GetReorderAmount() != 0 {
		a := req.GetReorderAmount()
		it.ReorderAmount = &a
	}
	created, err := s.Inventory.Create(ctx, it)
	if err != nil {
		return nil, rpcError(err)
	}
	return &adminv1.CreateInventoryItemResponse{Item: inventoryToProto(created)}, nil
}

// ListInventory lists active stock items.
func (s *AdminServer) ListInventory(ctx context.Context, req *adminv1.ListInventoryRequest) (*adminv1.ListInventoryResponse, error) {
	if _, err := auth.RequireSession(ctx); err != nil {
		return nil, err
	}
	rows, err := s.Inventory.List(ctx)
	if err != nil {
		return nil, rpcError(err)
	}
	out := make([]*adminv1.InventoryItem, 0, len(rows))
	for _, it := range rows {
		out = append(out, inventoryToProto(it))
	}
	return &adminv1.ListInventoryResponse{Items: out}, nil
}

// UpdateInventoryItem rewrites a stock item. Quantity changes land in the
// audit log.
func (s *AdminServer) UpdateInventoryItem(ctx context.Context, req *adminv1.UpdateInventoryItemRequest) (*adminv1.UpdateInventoryItemResponse, error) {
	sess, err := auth.RequireCapability(ctx, policy.CapManageInventory)
	if err != nil {
		return nil, err
	}
	it := &models.InventoryItem{
		ID:               req.GetId(),
		Name:             req.GetName(),
		Category:         strPtr(req.GetCategory()),
		QuantityOnHand:   req.GetQuantityOnHand(),
		Unit:             req.GetUnit(),
		ReorderThreshold: req.GetReorderThreshold(),
		Notes:            strPtr(req.GetNotes()),
	}
	if req.GetReorderAmount() != 0 {
		a := req.GetReorderAmount()
		it.ReorderAmount = &a
	}
	if err := s.Inventory.Update(ctx, it, sess); err != nil {
		return nil, rpcError(err)
	}
	return &adminv1.UpdateInventoryItemResponse{}, nil
}

// DeleteInventoryItem soft-deletes a stock item.
func (s *AdminServer) DeleteInventoryItem(ctx context.Context, req *adminv1.DeleteInventoryItemRequest) (*adminv1.DeleteInventoryItemResponse, error) {
	if _, err := auth.RequireCapability(ctx, policy.CapManageInventory); err != nil {
		return nil, err
	}
	if err := s.Inventory.SoftDelete(ctx, req.GetId()); err != nil {
		return nil, rpcError(err)
	}
	return &adminv1.DeleteInventoryItemResponse{}, nil
}

// ListAuditLog returns the most recent audit records.
func (s *AdminServer) ListAuditLog(ctx context.Context, req *adminv1.ListAuditLogRequest) (*adminv1.ListAuditLogResponse, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	limit := clampPage(req.GetLimit())
	rows, err := s.Audits.List(ctx, limit)
	if err != nil {
		return nil, rpcError(err)
	}
	out := make([]*adminv1.AuditRecord, 0, len(rows))
	for _, a := range rows {
		out = append(out, &adminv1.AuditRecord{
			Id:       a.ID,
			Event:    a.Event,
			Role:     a.Role,
			Actor:    a.Actor,
			Entity:   strVal(a.Entity),
			EntityId: strVal(a.EntityID),
			Field:    strVal(a.Field),
			OldValue: strVal(a.OldValue),
			NewValue: strVal(a.NewValue),
		})
	}
	return &adminv1.ListAuditLogResponse{Records: out}, nil
}

// ExportWorkerCredit recomputes every worker's credit and writes it to an
// .xlsx file under the configured reports directory. Returns the file path.
func (s *AdminServer) ExportWorkerCredit(ctx context.Context, req *adminv1.ExportWorkerCreditRequest) (*adminv1.ExportWorkerCreditResponse, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	workers, err := s.Users.List(ctx, 1000, 0)
	if err != nil {
		return nil, rpcError(err)
	}
	rows, err := reports.WorkerCreditSummary(ctx, s.Orders, s.Events, workers)
	if err != nil {
		return nil, rpcError(err)
	}
	dir := s.ReportsDir
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, status.Errorf(codes.Internal, "reports dir: %v", err)
	}
	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("worker-credit-%s.xlsx", now.Format("2006-01-02")))
	if err := reports.WriteWorkerCreditXLSX(rows, now, path); err != nil {
		return nil, status.Errorf(codes.Internal, "write report: %v", err)
	}
	return &adminv1.ExportWorkerCreditResponse{Path: path}, nil
}

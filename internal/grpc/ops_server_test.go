//go:build grpcserver

package grpcserver

import (
	"context"
	"testing"

	opsv1 "firewoodbank/api/ops/v1"
	"firewoodbank/internal/auth"
	"firewoodbank/internal/testutil"
	"firewoodbank/models"
	"firewoodbank/repository"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestRepos(t *testing.T, name string) Repos {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	return Repos{
		Users:     repository.NewUserRepository(d),
		Clients:   repository.NewClientRepository(d),
		Orders:    repository.NewWorkOrderRepository(d),
		Events:    repository.NewDeliveryEventRepository(d),
		Inventory: repository.NewInventoryRepository(d),
		Audits:    repository.NewAuditRepository(d),
	}
}

func sessionCtx(s models.Session) context.Context {
	return auth.WithSession(context.Background(), s)
}

func TestListClients_MasksPIIPerSession(t *testing.T) {
	r := newTestRepos(t, "grpc_mask")
	s := &OpsServer{Repos: r}

	admin := models.Session{UserID: "u1", Username: "admin", Role: models.RoleAdmin}
	phone := "555-0101"
	if _, err := r.Clients.Create(sessionCtx(admin), &models.Client{
		Name:      "Ada Smith",
		Telephone: &phone,
		PhysicalAddress: models.Address{
			Line1: "1 Elm St", City: "Ridgway", State: "CO", PostalCode: "81432",
		},
	}); err != nil {
		t.Fatalf("create client: %v", err)
	}

	// Volunteer without HIPAA sees placeholders.
	vol := models.Session{UserID: "u2", Username: "vol", Role: models.RoleVolunteer}
	resp, err := s.ListClients(sessionCtx(vol), &opsv1.ListClientsRequest{})
	if err != nil {
		t.Fatalf("list as volunteer: %v", err)
	}
	if got := resp.GetClients()[0].GetTelephone(); got != "Hidden" {
		t.Errorf("volunteer saw telephone %q", got)
	}
	if got := resp.GetClients()[0].GetPhysicalAddress().GetLine1(); got == "1 Elm St" {
		t.Error("volunteer saw the physical address")
	}

	// A driver sees everything, whatever their role.
	driver := models.Session{UserID: "u3", Username: "pat", Role: models.RoleVolunteer, IsDriver: true}
	resp, err = s.ListClients(sessionCtx(driver), &opsv1.ListClientsRequest{})
	if err != nil {
		t.Fatalf("list as driver: %v", err)
	}
	if got := resp.GetClients()[0].GetTelephone(); got != phone {
		t.Errorf("driver saw telephone %q, want %q", got, phone)
	}
}

func TestUpdateWorkOrderStatus_ValidationSurfacesAsInvalidArgument(t *testing.T) {
	r := newTestRepos(t, "grpc_status")
	s := &OpsServer{Repos: r}
	admin := models.Session{UserID: "u1", Username: "admin", Role: models.RoleAdmin}
	ctx := sessionCtx(admin)

	email := "ada@example.com"
	c, err := r.Clients.Create(ctx, &models.Client{Name: "Ada Smith", Email: &email})
	if err != nil {
		t.Fatal(err)
	}
	created, err := s.CreateWorkOrder(ctx, &opsv1.CreateWorkOrderRequest{ClientId: c.ID})
	if err != nil {
		t.Fatalf("create work order: %v", err)
	}

	// Completing without mileage is rejected with a usable message.
	_, err = s.UpdateWorkOrderStatus(ctx, &opsv1.UpdateWorkOrderStatusRequest{
		WorkOrderId: created.GetWorkOrder().GetId(),
		Status:      string(models.WorkOrderCompleted),
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %v, want InvalidArgument", status.Code(err))
	}

	_, err = s.UpdateWorkOrderStatus(ctx, &opsv1.UpdateWorkOrderStatusRequest{
		WorkOrderId: created.GetWorkOrder().GetId(),
		Status:      string(models.WorkOrderCompleted),
		Mileage:     12,
		WorkHours:   3,
	})
	if err != nil {
		t.Fatalf("complete with mileage and hours: %v", err)
	}

	// Terminal orders accept no further transitions.
	_, err = s.UpdateWorkOrderStatus(ctx, &opsv1.UpdateWorkOrderStatusRequest{
		WorkOrderId: created.GetWorkOrder().GetId(),
		Status:      string(models.WorkOrderCancelled),
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestSetPickupQuantity_Dimensions(t *testing.T) {
	r := newTestRepos(t, "grpc_pickup")
	s := &OpsServer{Repos: r}
	lead := models.Session{UserID: "u1", Username: "lead", Role: models.RoleLead}
	ctx := sessionCtx(lead)

	email := "ada@example.com"
	c, err := r.Clients.Create(ctx, &models.Client{Name: "Ada Smith", Email: &email})
	if err != nil {
		t.Fatal(err)
	}
	created, err := s.CreateWorkOrder(ctx, &opsv1.CreateWorkOrderRequest{ClientId: c.ID})
	if err != nil {
		t.Fatal(err)
	}
	id := created.GetWorkOrder().GetId()

	// A full 4x4x8 ft stack is exactly one cord.
	_, err = s.SetPickupQuantity(ctx, &opsv1.SetPickupQuantityRequest{
		WorkOrderId: id,
		Dimensions:  &opsv1.StackDimensions{Length: 8, Width: 4, Height: 4, Units: "ft"},
	})
	if err != nil {
		t.Fatalf("set pickup by dimensions: %v", err)
	}
	o, err := r.Orders.GetByID(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if o.PickupCords == nil || *o.PickupCords != 1.0 {
		t.Errorf("pickup cords = %v, want 1.0", o.PickupCords)
	}

	// Unauthenticated callers are rejected before any work happens.
	_, err = s.SetPickupQuantity(context.Background(), &opsv1.SetPickupQuantityRequest{WorkOrderId: id, Cords: 2})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("code = %v, want Unauthenticated", status.Code(err))
	}
}

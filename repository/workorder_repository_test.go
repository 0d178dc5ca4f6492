package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"firewoodbank/internal/fault"
	"firewoodbank/internal/testutil"
	"firewoodbank/models"
)

var (
	staffSession = models.Session{Username: "desk", Role: models.RoleStaff}
	leadSession  = models.Session{Username: "lead1", Role: models.RoleLead}
	volSession   = models.Session{Username: "vol1", Role: models.RoleVolunteer}

	testTuesday = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
)

// fixtures creates a client, a driver named Pat (off Tuesdays), and one work
// order in received status.
func fixtures(t *testing.T, name string) (context.Context, *WorkOrderRepository, *models.WorkOrder, *models.Client) {
	ctx, orders, o, c, _ := fixturesDB(t, name)
	return ctx, orders, o, c
}

func fixturesDB(t *testing.T, name string) (context.Context, *WorkOrderRepository, *models.WorkOrder, *models.Client, *ClientRepository) {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	ctx := context.Background()

	clients := NewClientRepository(d)
	users := NewUserRepository(d)
	orders := NewWorkOrderRepository(d)

	c, err := clients.Create(ctx, testClient("Ada Smith"))
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	status, expires := "valid", "2027-01-01"
	_, err = users.Create(ctx, &models.User{
		Username: "pat", DisplayName: "Pat", IsDriver: true,
		DriverLicenseStatus: &status, DriverLicenseExpiresOn: &expires,
		AvailabilityNotes: "off on tue",
	}, "pw12345")
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}

	o, err := orders.Create(ctx, &models.WorkOrder{ClientID: c.ID})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return ctx, orders, o, c, clients
}

func TestWorkOrderCreate_SnapshotsClientName(t *testing.T) {
	ctx, orders, o, _ := fixtures(t, "wo_create")
	if o.Status != models.WorkOrderReceived {
		t.Errorf("status = %s, want received", o.Status)
	}
	if o.ClientName != "Ada Smith" {
		t.Errorf("client name snapshot = %q", o.ClientName)
	}

	if _, err := orders.Create(ctx, &models.WorkOrder{ClientID: "no-such-client"}); err == nil {
		t.Fatal("creating against a missing client should be rejected")
	}
}

func TestSchedule_ValidatesAssignment(t *testing.T) {
	ctx, orders, o, _ := fixtures(t, "wo_schedule")

	// Pat is off on Tuesdays.
	err := orders.Schedule(ctx, o.ID, models.WorkOrderScheduled, testTuesday, []string{"Pat"}, nil, staffSession)
	var ve *fault.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError for Tuesday, got %v", err)
	}

	wednesday := testTuesday.AddDate(0, 0, 1)
	if err := orders.Schedule(ctx, o.ID, models.WorkOrderScheduled, wednesday, []string{"Pat"}, []string{"Kim"}, staffSession); err != nil {
		t.Fatalf("Wednesday schedule rejected: %v", err)
	}

	got, err := orders.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.WorkOrderScheduled {
		t.Errorf("status = %s", got.Status)
	}
	if got.ScheduledDate == nil || !got.ScheduledDate.Equal(wednesday) {
		t.Errorf("scheduled date = %v", got.ScheduledDate)
	}
	if len(got.Assignees) != 2 || got.Assignees[0] != "Pat" || got.Assignees[1] != "Kim" {
		t.Errorf("assignees = %v", got.Assignees)
	}
}

func TestSchedule_RejectsTooManyHelpers(t *testing.T) {
	ctx, orders, o, _ := fixtures(t, "wo_helpers")
	wednesday := testTuesday.AddDate(0, 0, 1)
	helpers := []string{"a", "b", "c", "d", "e"}
	if err := orders.Schedule(ctx, o.ID, models.WorkOrderScheduled, wednesday, []string{"Pat"}, helpers, staffSession); err == nil {
		t.Fatal("five helpers should be rejected")
	}
}

func TestUpdateStatus_CompletionRules(t *testing.T) {
	ctx, orders, o, _ := fixtures(t, "wo_complete")
	wednesday := testTuesday.AddDate(0, 0, 1)
	if err := orders.Schedule(ctx, o.ID, models.WorkOrderScheduled, wednesday, []string{"Pat"}, nil, staffSession); err != nil {
		t.Fatal(err)
	}

	// No mileage: rejected for everyone.
	if err := orders.UpdateStatus(ctx, o.ID, models.WorkOrderCompleted, nil, nil, leadSession); err == nil {
		t.Fatal("completion without mileage should be rejected")
	}

	mileage := 12.5
	// A lead must also record hours.
	if err := orders.UpdateStatus(ctx, o.ID, models.WorkOrderCompleted, &mileage, nil, leadSession); err == nil {
		t.Fatal("lead completion without hours should be rejected")
	}
	// A volunteer needs only mileage.
	if err := orders.UpdateStatus(ctx, o.ID, models.WorkOrderCompleted, &mileage, nil, volSession); err != nil {
		t.Fatalf("volunteer completion rejected: %v", err)
	}

	got, _ := orders.GetByID(ctx, o.ID)
	if got.Status != models.WorkOrderCompleted || got.Mileage == nil || *got.Mileage != 12.5 {
		t.Fatalf("completion not persisted: %+v", got)
	}

	// Terminal: no further transitions.
	if err := orders.UpdateStatus(ctx, o.ID, models.WorkOrderCancelled, nil, nil, leadSession); err == nil {
		t.Fatal("completed order should accept no further transitions")
	}
}

func TestUpdateStatus_RejectionWritesNothing(t *testing.T) {
	ctx, orders, o, _ := fixtures(t, "wo_no_partial")
	mileage := 40.0
	// received -> in_progress is not a legal edge; mileage must not stick.
	if err := orders.UpdateStatus(ctx, o.ID, models.WorkOrderInProgress, &mileage, nil, staffSession); err == nil {
		t.Fatal("received -> in_progress should be rejected")
	}
	got, _ := orders.GetByID(ctx, o.ID)
	if got.Mileage != nil || got.Status != models.WorkOrderReceived {
		t.Fatalf("rejected transition left a partial write: %+v", got)
	}
}

func TestPickupFlow(t *testing.T) {
	ctx, orders, o, _ := fixtures(t, "wo_pickup")

	// Picked up without a resolved quantity: rejected.
	if err := orders.UpdateStatus(ctx, o.ID, models.WorkOrderPickedUp, nil, nil, staffSession); err == nil {
		t.Fatal("pickup without quantity should be rejected")
	}

	if err := orders.SetPickupCords(ctx, o.ID, 0); err == nil {
		t.Fatal("zero cords should be rejected")
	}
	if err := orders.SetPickupCords(ctx, o.ID, 1.0); err != nil {
		t.Fatalf("set pickup cords: %v", err)
	}
	if err := orders.UpdateStatus(ctx, o.ID, models.WorkOrderPickedUp, nil, nil, staffSession); err != nil {
		t.Fatalf("pickup with quantity rejected: %v", err)
	}
	got, _ := orders.GetByID(ctx, o.ID)
	if got.PickupCords == nil || *got.PickupCords != 1.0 {
		t.Fatalf("pickup cords not persisted: %+v", got)
	}
}

func TestDeliverySizeAndPairing(t *testing.T) {
	ctx, orders, o, c, clients := fixturesDB(t, "wo_pairing")

	if err := orders.SetDeliverySize(ctx, o.ID, "f250_half", "", 0); err != nil {
		t.Fatalf("set delivery size: %v", err)
	}
	got, _ := orders.GetByID(ctx, o.ID)
	if got.DeliverySizeLabel == nil || *got.DeliverySizeLabel != "Ford F-250 1/2" || *got.DeliverySizeCords != 0.5 {
		t.Fatalf("half load not persisted: %+v", got)
	}

	// A second client wants a half load too; the first order is a candidate.
	other, err := clients.Create(ctx, testClient("Bo Hall"))
	if err != nil {
		t.Fatal(err)
	}
	candidates, err := orders.PairableHalfOrders(ctx, other.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 || candidates[0].ID != o.ID {
		t.Fatalf("candidates = %v", candidates)
	}

	// Never offered against its own client.
	candidates, err = orders.PairableHalfOrders(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 0 {
		t.Fatal("order offered to its own client")
	}

	// Pair the new order; the counterpart is not touched.
	paired, err := orders.Create(ctx, &models.WorkOrder{ClientID: other.ID, PairedOrderID: &o.ID})
	if err != nil {
		t.Fatalf("create paired order: %v", err)
	}
	if paired.PairedOrderID == nil || *paired.PairedOrderID != o.ID {
		t.Fatalf("pairing not persisted: %+v", paired)
	}
	counterpart, _ := orders.GetByID(ctx, o.ID)
	if counterpart.PairedOrderID != nil {
		t.Error("counterpart should not be mutated by pairing")
	}

	// Pairing against an unpairable target is rejected.
	if _, err := orders.Create(ctx, &models.WorkOrder{ClientID: c.ID, PairedOrderID: &o.ID}); err == nil {
		t.Fatal("pairing an order to its own client's order should be rejected")
	}
}

func TestSetDeliverySize_UnknownChoice(t *testing.T) {
	ctx, orders, o, _ := fixtures(t, "wo_size_bad")
	if err := orders.SetDeliverySize(ctx, o.ID, "dump_truck", "", 0); err == nil {
		t.Fatal("unknown vehicle choice should be rejected")
	}
	got, _ := orders.GetByID(ctx, o.ID)
	if got.DeliverySizeLabel != nil {
		t.Error("rejected size choice left a partial write")
	}
}

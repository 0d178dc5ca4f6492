package lifecycle

import (
	"errors"
	"testing"
	"time"

	"firewoodbank/internal/fault"
	"firewoodbank/models"
)

func ptr[T any](v T) *T { return &v }

func scheduledOrder() *models.WorkOrder {
	return &models.WorkOrder{
		Status:        models.WorkOrderScheduled,
		ScheduledDate: ptr(time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)),
		Assignees:     []string{"Pat"},
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.WorkOrderStatus
		want     bool
	}{
		{models.WorkOrderReceived, models.WorkOrderScheduled, true},
		{models.WorkOrderReceived, models.WorkOrderPickedUp, true},
		{models.WorkOrderReceived, models.WorkOrderCancelled, true},
		{models.WorkOrderScheduled, models.WorkOrderRescheduled, true},
		{models.WorkOrderRescheduled, models.WorkOrderScheduled, true},
		{models.WorkOrderScheduled, models.WorkOrderInProgress, true},
		{models.WorkOrderInProgress, models.WorkOrderCompleted, true},
		{models.WorkOrderPickedUp, models.WorkOrderCompleted, true},
		{models.WorkOrderCompleted, models.WorkOrderScheduled, false},
		{models.WorkOrderCancelled, models.WorkOrderReceived, false},
		{models.WorkOrderInProgress, models.WorkOrderScheduled, false},
		{models.WorkOrderScheduled, models.WorkOrderReceived, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidate_ScheduleNeedsDriverAndDate(t *testing.T) {
	o := &models.WorkOrder{Status: models.WorkOrderReceived}
	err := Validate(o, models.WorkOrderScheduled, models.RoleStaff)
	var ve *fault.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}

	o.Assignees = []string{"Pat"}
	if err := Validate(o, models.WorkOrderScheduled, models.RoleStaff); err == nil {
		t.Fatal("missing scheduled date should still be rejected")
	}

	o.ScheduledDate = ptr(time.Now())
	if err := Validate(o, models.WorkOrderScheduled, models.RoleStaff); err != nil {
		t.Fatalf("fully specified schedule rejected: %v", err)
	}
}

func TestValidate_PickupNeedsQuantity(t *testing.T) {
	o := &models.WorkOrder{Status: models.WorkOrderReceived}
	if err := Validate(o, models.WorkOrderPickedUp, models.RoleStaff); err == nil {
		t.Fatal("pickup without a resolved quantity should be rejected")
	}
	o.PickupCords = ptr(1.0)
	if err := Validate(o, models.WorkOrderPickedUp, models.RoleStaff); err != nil {
		t.Fatalf("pickup with quantity rejected: %v", err)
	}
}

func TestValidate_CompletionMileageAndHours(t *testing.T) {
	// Mileage is required regardless of role.
	for _, role := range []models.Role{models.RoleVolunteer, models.RoleLead, models.RoleAdmin} {
		o := scheduledOrder()
		if err := Validate(o, models.WorkOrderCompleted, role); err == nil {
			t.Errorf("role %s: completion without mileage should be rejected", role)
		}
	}

	// A volunteer may complete without hours.
	o := scheduledOrder()
	o.Mileage = ptr(12.5)
	if err := Validate(o, models.WorkOrderCompleted, models.RoleVolunteer); err != nil {
		t.Fatalf("volunteer completion with mileage only: %v", err)
	}

	// Leads and admins must also record hours.
	for _, role := range []models.Role{models.RoleLead, models.RoleAdmin} {
		o := scheduledOrder()
		o.Mileage = ptr(12.5)
		if err := Validate(o, models.WorkOrderCompleted, role); err == nil {
			t.Errorf("role %s: completion without hours should be rejected", role)
		}
		o.WorkHours = ptr(3.0)
		if err := Validate(o, models.WorkOrderCompleted, role); err != nil {
			t.Errorf("role %s: completion with mileage and hours rejected: %v", role, err)
		}
	}
}

func TestValidate_TerminalStates(t *testing.T) {
	for _, status := range []models.WorkOrderStatus{models.WorkOrderCompleted, models.WorkOrderCancelled} {
		o := &models.WorkOrder{Status: status, Mileage: ptr(1.0)}
		if err := Validate(o, models.WorkOrderCancelled, models.RoleAdmin); err == nil {
			t.Errorf("transition out of terminal %s should be rejected", status)
		}
	}
}

func TestValidate_CancelAlwaysLegalFromNonTerminal(t *testing.T) {
	for _, status := range []models.WorkOrderStatus{
		models.WorkOrderReceived,
		models.WorkOrderScheduled,
		models.WorkOrderRescheduled,
		models.WorkOrderInProgress,
		models.WorkOrderPickedUp,
	} {
		o := &models.WorkOrder{Status: status}
		if err := Validate(o, models.WorkOrderCancelled, models.RoleVolunteer); err != nil {
			t.Errorf("cancel from %s rejected: %v", status, err)
		}
	}
}

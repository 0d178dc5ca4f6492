// Package lifecycle governs legal work-order status transitions and the field
// preconditions each transition demands. A violated precondition blocks the
// transition before anything is written; there are no partial writes.
package lifecycle

import (
	"firewoodbank/internal/fault"
	"firewoodbank/models"
)

// transitions is the legal edge set. Completed and cancelled are terminal.
var transitions = map[models.WorkOrderStatus][]models.WorkOrderStatus{
	models.WorkOrderReceived: {
		models.WorkOrderScheduled,
		models.WorkOrderRescheduled,
		models.WorkOrderPickedUp,
		models.WorkOrderCompleted,
		models.WorkOrderCancelled,
	},
	models.WorkOrderScheduled: {
		models.WorkOrderRescheduled,
		models.WorkOrderInProgress,
		models.WorkOrderCompleted,
		models.WorkOrderCancelled,
	},
	models.WorkOrderRescheduled: {
		models.WorkOrderScheduled,
		models.WorkOrderInProgress,
		models.WorkOrderCompleted,
		models.WorkOrderCancelled,
	},
	models.WorkOrderInProgress: {
		models.WorkOrderCompleted,
		models.WorkOrderCancelled,
	},
	models.WorkOrderPickedUp: {
		models.WorkOrderCompleted,
		models.WorkOrderCancelled,
	},
	models.WorkOrderCompleted: nil,
	models.WorkOrderCancelled: nil,
}

// CanTransition reports whether moving from one status to another is legal,
// ignoring field preconditions.
func CanTransition(from, to models.WorkOrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Validate checks both the transition edge and the target state's field
// preconditions against the candidate order (the order as it would be after
// the mutation). actorRole matters only for completion: leads and admins must
// record work hours, drivers and staff closing out an order need not.
func Validate(o *models.WorkOrder, target models.WorkOrderStatus, actorRole models.Role) error {
	if o.Status.Terminal() {
		return fault.Invalid("A %s work order can no longer change status.", o.Status)
	}
	if !CanTransition(o.Status, target) {
		return fault.Invalid("A work order cannot move from %s to %s.", o.Status, target)
	}
	switch target {
	case models.WorkOrderScheduled, models.WorkOrderRescheduled, models.WorkOrderInProgress:
		if len(o.Assignees) == 0 {
			return fault.Invalid("Assign at least one available driver for scheduled or in-progress work.")
		}
		if o.ScheduledDate == nil {
			return fault.Invalid("Pick a scheduled date/time when assigning a driver.")
		}
	case models.WorkOrderPickedUp:
		if o.PickupCords == nil || *o.PickupCords <= 0 {
			return fault.Invalid("Enter the pickup quantity (cords or stack dimensions) before marking picked up.")
		}
	case models.WorkOrderCompleted:
		if o.Mileage == nil {
			return fault.Invalid("Record the mileage before completing a work order.")
		}
		if (actorRole == models.RoleLead || actorRole == models.RoleAdmin) && o.WorkHours == nil {
			return fault.Invalid("Record the work hours before completing a work order.")
		}
	}
	return nil
}

package models

import "time"

// WorkOrderStatus represents the current progress of a work order.
type WorkOrderStatus string

const (
	WorkOrderReceived    WorkOrderStatus = "received"
	WorkOrderScheduled   WorkOrderStatus = "scheduled"
	WorkOrderRescheduled WorkOrderStatus = "rescheduled"
	WorkOrderInProgress  WorkOrderStatus = "in_progress"
	WorkOrderPickedUp    WorkOrderStatus = "picked_up"
	WorkOrderCompleted   WorkOrderStatus = "completed"
	WorkOrderCancelled   WorkOrderStatus = "cancelled"
)

// Terminal reports whether no further transitions are accepted from s.
func (s WorkOrderStatus) Terminal() bool {
	return s == WorkOrderCompleted || s == WorkOrderCancelled
}

// WorkOrder represents one schedulable unit of delivery or pickup work tied to
// a single client. ClientName is a snapshot taken at creation time so the
// order stays readable even if the client record changes later.
type WorkOrder struct {
	ID         string          `db:"id" json:"id"`
	ClientID   string          `db:"client_id" json:"client_id"`
	ClientName string          `db:"client_name" json:"client_name"`
	Status     WorkOrderStatus `db:"status" json:"status"`
	// ScheduledDate is nullable: orders in `received` typically have none yet.
	ScheduledDate *time.Time `db:"scheduled_date" json:"scheduled_date,omitempty"`
	// Assignees is the ordered list of driver and helper display names,
	// stored as a JSON array column.
	Assignees []string `db:"assignees" json:"assignees"`
	// Resolved sizing fields, persisted at submission time and never
	// recomputed implicitly (see internal/quantity).
	DeliverySizeLabel *string  `db:"delivery_size_label" json:"delivery_size_label,omitempty"`
	DeliverySizeCords *float64 `db:"delivery_size_cords" json:"delivery_size_cords,omitempty"`
	PickupCords       *float64 `db:"pickup_cords" json:"pickup_cords,omitempty"`
	Mileage           *float64 `db:"mileage" json:"mileage,omitempty"`
	WorkHours         *float64 `db:"work_hours" json:"work_hours,omitempty"`
	// PairedOrderID links a half-load delivery to its counterpart. The link
	// is one-directional: only the newer order records the pairing.
	PairedOrderID   *string `db:"paired_order_id" json:"paired_order_id,omitempty"`
	Notes           *string `db:"notes" json:"notes,omitempty"`
	CreatedByUserID *string `db:"created_by_user_id" json:"created_by_user_id,omitempty"`
	IsDeleted       bool    `db:"is_deleted" json:"is_deleted"`
}

package models

import "time"

// DeliveryEventType classifies a calendar occurrence.
type DeliveryEventType string

const (
	EventDelivery  DeliveryEventType = "delivery"
	EventCutting   DeliveryEventType = "cutting"
	EventSplitting DeliveryEventType = "splitting"
)

// DeliveryEvent is a calendar occurrence, optionally linked to a work order
// and to the workers assigned to it. The core logic only reads these for
// derived worker credit and day-of driver views.
type DeliveryEvent struct {
	ID          string            `db:"id" json:"id"`
	Title       string            `db:"title" json:"title"`
	Description *string           `db:"description" json:"description,omitempty"`
	EventType   DeliveryEventType `db:"event_type" json:"event_type"`
	WorkOrderID *string           `db:"work_order_id" json:"work_order_id,omitempty"`
	StartDate   time.Time         `db:"start_date" json:"start_date"`
	EndDate     *time.Time        `db:"end_date" json:"end_date,omitempty"`
	ColorCode   *string           `db:"color_code" json:"color_code,omitempty"`
	// Assigned holds usernames or display names, stored as a JSON array.
	// Matching against the session is case-insensitive.
	Assigned  []string `db:"assigned" json:"assigned"`
	IsDeleted bool     `db:"is_deleted" json:"is_deleted"`
}

package repository

import (
	"context"
	"time"

	"firewoodbank/models"
)

// UserRepositoryI defines operations on worker accounts.
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User, password string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	ListDrivers(ctx context.Context) ([]*models.User, error)
	AvailableDrivers(ctx context.Context, date time.Time) ([]*models.User, error)
	SetFlags(ctx context.Context, id string, f models.UserFlags, actor models.Session) error
	SetPassword(ctx context.Context, id, newPassword string) error
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// ClientRepositoryI defines operations on client records.
type ClientRepositoryI interface {
	Create(ctx context.Context, c *models.Client) (*models.Client, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context, limit, offset int) ([]*models.Client, error)
	Update(ctx context.Context, c *models.Client, actor models.Session) error
	SetApproval(ctx context.Context, id string, status models.ApprovalStatus, denialReason *string, actor models.Session) error
	SoftDelete(ctx context.Context, id string) error
}

// WorkOrderRepositoryI defines operations on work orders, including the
// validated lifecycle mutations.
type WorkOrderRepositoryI interface {
	Create(ctx context.Context, o *models.WorkOrder) (*models.WorkOrder, error)
	GetByID(ctx context.Context, id string) (*models.WorkOrder, error)
	List(ctx context.Context, limit, offset int) ([]*models.WorkOrder, error)
	ListByClient(ctx context.Context, clientID string) ([]*models.WorkOrder, error)
	ListActive(ctx context.Context) ([]*models.WorkOrder, error)
	Schedule(ctx context.Context, id string, target models.WorkOrderStatus, date time.Time, drivers, helpers []string, actor models.Session) error
	UpdateStatus(ctx context.Context, id string, target models.WorkOrderStatus, mileage, workHours *float64, actor models.Session) error
	UpdateAssignees(ctx context.Context, id string, assignees []string) error
	SetDeliverySize(ctx context.Context, id, choice, otherLabel string, otherCords float64) error
	SetPickupCords(ctx context.Context, id string, cords float64) error
	PairableHalfOrders(ctx context.Context, excludeClientID string) ([]*models.WorkOrder, error)
	SoftDelete(ctx context.Context, id string) error
}

// DeliveryEventRepositoryI defines operations on calendar events.
type DeliveryEventRepositoryI interface {
	Create(ctx context.Context, ev *models.DeliveryEvent) (*models.DeliveryEvent, error)
	List(ctx context.Context, limit, offset int) ([]*models.DeliveryEvent, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.DeliveryEvent, error)
}

// InventoryRepositoryI defines operations on inventory items.
type InventoryRepositoryI interface {
	Create(ctx context.Context, it *models.InventoryItem) (*models.InventoryItem, error)
	GetByID(ctx context.Context, id string) (*models.InventoryItem, error)
	List(ctx context.Context) ([]*models.InventoryItem, error)
	Update(ctx context.Context, it *models.InventoryItem, actor models.Session) error
	SoftDelete(ctx context.Context, id string) error
}

// AuditRepositoryI defines the append-only audit log.
type AuditRepositoryI interface {
	Event(ctx context.Context, event, role, actor string)
	Change(ctx context.Context, event, role, actor, entity, entityID, field string, oldValue, newValue *string)
	List(ctx context.Context, limit int) ([]*models.AuditRecord, error)
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"firewoodbank/internal/assignment"
	"firewoodbank/internal/fault"
	"firewoodbank/internal/lifecycle"
	"firewoodbank/internal/pairing"
	"firewoodbank/internal/quantity"
	"firewoodbank/models"
)

// sqliteDateFormat is how scheduled dates are stored.
const sqliteDateFormat = "2006-01-02 15:04:05"

// WorkOrderRepository is the SQLite repository for work orders. Lifecycle
// mutations run through the validators before anything is written, so a
// rejected transition never leaves a partial write behind.
type WorkOrderRepository struct {
	db    *sql.DB
	users *UserRepository
	audit *AuditRepository
}

// NewWorkOrderRepository creates a new WorkOrderRepository.
func NewWorkOrderRepository(db *sql.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db, users: NewUserRepository(db), audit: NewAuditRepository(db)}
}

const workOrderColumns = `id, client_id, client_name, status, scheduled_date, assignees,
	delivery_size_label, delivery_size_cords, pickup_cords, mileage, work_hours,
	paired_order_id, notes, created_by_user_id, is_deleted`

func scanWorkOrder(row interface{ Scan(...any) error }) (*models.WorkOrder, error) {
	var o models.WorkOrder
	var status string
	var scheduled sql.NullString
	var assignees string
	err := row.Scan(&o.ID, &o.ClientID, &o.ClientName, &status, &scheduled, &assignees,
		&o.DeliverySizeLabel, &o.DeliverySizeCords, &o.PickupCords, &o.Mileage, &o.WorkHours,
		&o.PairedOrderID, &o.Notes, &o.CreatedByUserID, &o.IsDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	o.Status = models.WorkOrderStatus(status)
	if scheduled.Valid && scheduled.String != "" {
		t, err := time.Parse(sqliteDateFormat, scheduled.String)
		if err != nil {
			return nil, fmt.Errorf("bad scheduled_date for order %s: %w", o.ID, err)
		}
		o.ScheduledDate = &t
	}
	if err := json.Unmarshal([]byte(assignees), &o.Assignees); err != nil {
		return nil, fmt.Errorf("bad assignees for order %s: %w", o.ID, err)
	}
	return &o, nil
}

// Create inserts a new work order in `received` status, snapshotting the
// client name. A half-load pairing target is verified before it is linked.
func (r *WorkOrderRepository) Create(ctx context.Context, o *models.WorkOrder) (*models.WorkOrder, error) {
	if o == nil {
		return nil, errors.New("work order is nil")
	}
	if o.Status == "" {
		o.Status = models.WorkOrderReceived
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// Snapshot the client name at creation time.
	var clientName string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM clients WHERE id = ? AND is_deleted = 0`, o.ClientID).Scan(&clientName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.Invalid("Pick an existing client for the work order.")
	}
	if err != nil {
		return nil, err
	}
	o.ClientName = clientName

	if o.PairedOrderID != nil && *o.PairedOrderID != "" {
		target, err := r.GetByID(ctx, *o.PairedOrderID)
		if err != nil {
			return nil, err
		}
		if target == nil || !pairing.Pairable(target, o.ClientID) {
			return nil, fault.Invalid("That order can no longer be paired with a half load.")
		}
	}

	id := uuid.New().String()
	assignees, err := json.Marshal(orEmpty(o.Assignees))
	if err != nil {
		return nil, err
	}
	var scheduled *string
	if o.ScheduledDate != nil {
		s := o.ScheduledDate.UTC().Format(sqliteDateFormat)
		scheduled = &s
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO work_orders
		(id, client_id, client_name, status, scheduled_date, assignees,
		 delivery_size_label, delivery_size_cords, pickup_cords, mileage, work_hours,
		 paired_order_id, notes, created_by_user_id)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, o.ClientID, o.ClientName, string(o.Status), scheduled, string(assignees),
		o.DeliverySizeLabel, o.DeliverySizeCords, o.PickupCords, o.Mileage, o.WorkHours,
		o.PairedOrderID, o.Notes, o.CreatedByUserID)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a work order by ID.
func (r *WorkOrderRepository) GetByID(ctx context.Context, id string) (*models.WorkOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanWorkOrder(r.db.QueryRowContext(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id = ?`, id))
}

func (r *WorkOrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*models.WorkOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.WorkOrder
	for rows.Next() {
		o, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// List returns non-deleted work orders, newest first.
func (r *WorkOrderRepository) List(ctx context.Context, limit, offset int) ([]*models.WorkOrder, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.queryOrders(ctx, `SELECT `+workOrderColumns+` FROM work_orders
		WHERE is_deleted = 0 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
}

// ListByClient returns a client's work orders, newest first.
func (r *WorkOrderRepository) ListByClient(ctx context.Context, clientID string) ([]*models.WorkOrder, error) {
	return r.queryOrders(ctx, `SELECT `+workOrderColumns+` FROM work_orders
		WHERE is_deleted = 0 AND client_id = ? ORDER BY created_at DESC, id DESC`, clientID)
}

// ListActive returns non-deleted orders that are not in a terminal state.
func (r *WorkOrderRepository) ListActive(ctx context.Context) ([]*models.WorkOrder, error) {
	return r.queryOrders(ctx, `SELECT `+workOrderColumns+` FROM work_orders
		WHERE is_deleted = 0 AND status NOT IN (?, ?) ORDER BY created_at DESC, id DESC`,
		string(models.WorkOrderCompleted), string(models.WorkOrderCancelled))
}

// Schedule assigns drivers and helpers and moves the order to the target
// status in one validated mutation: the assignment rules (driver required,
// date required, availability notes, helper cap) and then the lifecycle
// preconditions all pass before the write happens.
func (r *WorkOrderRepository) Schedule(ctx context.Context, id string, target models.WorkOrderStatus, date time.Time, drivers, helpers []string, actor models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	o, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		return sql.ErrNoRows
	}

	pool, err := r.users.ListDrivers(ctx)
	if err != nil {
		return err
	}
	if err := assignment.Validate(target, &date, drivers, helpers, pool); err != nil {
		return err
	}

	candidate := *o
	candidate.ScheduledDate = &date
	candidate.Assignees = append(append([]string{}, drivers...), helpers...)
	if err := lifecycle.Validate(&candidate, target, actor.Role); err != nil {
		return err
	}

	assignees, err := json.Marshal(candidate.Assignees)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE work_orders SET status = ?, scheduled_date = ?, assignees = ?, updated_at = datetime('now') WHERE id = ?`,
		string(target), date.UTC().Format(sqliteDateFormat), string(assignees), id)
	if err != nil {
		return err
	}
	oldStatus, newStatus := string(o.Status), string(target)
	r.audit.Change(ctx, "schedule_work_order", string(actor.Role), actor.Username, "work_orders", id, "status", &oldStatus, &newStatus)
	return nil
}

// UpdateStatus moves an order to the target status, recording mileage and
// work hours when supplied. Lifecycle preconditions are checked against the
// order as it would look after the mutation; violations block the write.
func (r *WorkOrderRepository) UpdateStatus(ctx context.Context, id string, target models.WorkOrderStatus, mileage, workHours *float64, actor models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	o, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		return sql.ErrNoRows
	}

	candidate := *o
	if mileage != nil {
		candidate.Mileage = mileage
	}
	if workHours != nil {
		candidate.WorkHours = workHours
	}
	if err := lifecycle.Validate(&candidate, target, actor.Role); err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `UPDATE work_orders SET status = ?, mileage = ?, work_hours = ?, updated_at = datetime('now') WHERE id = ?`,
		string(target), candidate.Mileage, candidate.WorkHours, id)
	if err != nil {
		return err
	}
	oldStatus, newStatus := string(o.Status), string(target)
	r.audit.Change(ctx, "update_work_order_status", string(actor.Role), actor.Username, "work_orders", id, "status", &oldStatus, &newStatus)
	return nil
}

// UpdateAssignees rewrites the assignee list without a status change.
func (r *WorkOrderRepository) UpdateAssignees(ctx context.Context, id string, assignees []string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	b, err := json.Marshal(orEmpty(assignees))
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE work_orders SET assignees = ?, updated_at = datetime('now') WHERE id = ?`, string(b), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetDeliverySize resolves a delivery vehicle choice and persists the label
// and cord amount. The resolved numbers are what later reads see; nothing
// recomputes them implicitly.
func (r *WorkOrderRepository) SetDeliverySize(ctx context.Context, id, choice, otherLabel string, otherCords float64) error {
	size, err := quantity.ResolveDeliverySize(choice, otherLabel, otherCords)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE work_orders SET delivery_size_label = ?, delivery_size_cords = ?, updated_at = datetime('now') WHERE id = ?`,
		size.Label, size.Cords, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetPickupCords persists a resolved pickup quantity. Callers convert
// dimension input with quantity.ResolvePickupDimensions first.
func (r *WorkOrderRepository) SetPickupCords(ctx context.Context, id string, cords float64) error {
	resolved, err := quantity.ResolvePickupCords(cords)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE work_orders SET pickup_cords = ?, updated_at = datetime('now') WHERE id = ?`, resolved, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// PairableHalfOrders returns the half-load pairing candidates for an order
// belonging to excludeClientID.
func (r *WorkOrderRepository) PairableHalfOrders(ctx context.Context, excludeClientID string) ([]*models.WorkOrder, error) {
	active, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return pairing.FindPairableHalfOrders(active, excludeClientID), nil
}

// SoftDelete marks a work order deleted without purging the row.
func (r *WorkOrderRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `UPDATE work_orders SET is_deleted = 1, updated_at = datetime('now') WHERE id = ?`, id)
	return err
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"firewoodbank/internal/fault"
	"firewoodbank/models"
)

// InventoryRepository is the SQLite repository for yard equipment and
// consumable stock.
type InventoryRepository struct {
	db    *sql.DB
	audit *AuditRepository
}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db, audit: NewAuditRepository(db)}
}

const inventoryColumns = `id, name, category, quantity_on_hand, unit,
	reorder_threshold, reorder_amount, notes, created_by_user_id, is_deleted`

func scanInventory(row interface{ Scan(...any) error }) (*models.InventoryItem, error) {
	var it models.InventoryItem
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.QuantityOnHand, &it.Unit,
		&it.ReorderThreshold, &it.ReorderAmount, &it.Notes, &it.CreatedByUserID, &it.IsDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

// Create inserts a new inventory item.
func (r *InventoryRepository) Create(ctx context.Context, it *models.InventoryItem) (*models.InventoryItem, error) {
	if it == nil {
		return nil, errors.New("inventory item is nil")
	}
	if strings.TrimSpace(it.Name) == "" {
		return nil, fault.Invalid("Inventory item name is required.")
	}
	if it.Unit == "" {
		it.Unit = "pcs"
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	id := uuid.New().String()
	_, err := r.db.ExecContext(ctx, `INSERT INTO inventory_items
		(id, name, category, quantity_on_hand, unit, reorder_threshold, reorder_amount, notes, created_by_user_id)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		id, it.Name, it.Category, it.QuantityOnHand, it.Unit,
		it.ReorderThreshold, it.ReorderAmount, it.Notes, it.CreatedByUserID)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches an inventory item by ID.
func (r *InventoryRepository) GetByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanInventory(r.db.QueryRowContext(ctx, `SELECT `+inventoryColumns+` FROM inventory_items WHERE id = ?`, id))
}

// List returns non-deleted items ordered by name.
func (r *InventoryRepository) List(ctx context.Context) ([]*models.InventoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+inventoryColumns+` FROM inventory_items
		WHERE is_deleted = 0 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.InventoryItem
	for rows.Next() {
		it, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Update rewrites an item's fields and audits quantity changes field by field.
func (r *InventoryRepository) Update(ctx context.Context, it *models.InventoryItem, actor models.Session) error {
	if it == nil {
		return errors.New("inventory item is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	prev, err := r.GetByID(ctx, it.ID)
	if err != nil {
		return err
	}
	if prev == nil || prev.IsDeleted {
		return sql.ErrNoRows
	}
	_, err = r.db.ExecContext(ctx, `UPDATE inventory_items SET
		name = ?, category = ?, quantity_on_hand = ?, unit = ?,
		reorder_threshold = ?, reorder_amount = ?, notes = ?, updated_at = datetime('now')
		WHERE id = ?`,
		it.Name, it.Category, it.QuantityOnHand, it.Unit,
		it.ReorderThreshold, it.ReorderAmount, it.Notes, it.ID)
	if err != nil {
		return err
	}
	if prev.QuantityOnHand != it.QuantityOnHand {
		oldQty := strconv.FormatFloat(prev.QuantityOnHand, 'f', -1, 64)
		newQty := strconv.FormatFloat(it.QuantityOnHand, 'f', -1, 64)
		r.audit.Change(ctx, "update_inventory_item", string(actor.Role), actor.Username,
			"inventory_items", it.ID, "quantity_on_hand", &oldQty, &newQty)
	} else {
		r.audit.Event(ctx, "update_inventory_item", string(actor.Role), actor.Username)
	}
	return nil
}

// SoftDelete marks an item deleted without purging the row.
func (r *InventoryRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `UPDATE inventory_items SET is_deleted = 1, updated_at = datetime('now') WHERE id = ?`, id)
	return err
}

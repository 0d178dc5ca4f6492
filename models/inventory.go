package models

// InventoryItem is a piece of yard equipment or consumable stock
// (chainsaws, bar oil, gas, helmets). Maps to the `inventory_items` table.
type InventoryItem struct {
	ID               string   `db:"id" json:"id"`
	Name             string   `db:"name" json:"name"`
	Category         *string  `db:"category" json:"category,omitempty"`
	QuantityOnHand   float64  `db:"quantity_on_hand" json:"quantity_on_hand"`
	Unit             string   `db:"unit" json:"unit"`
	ReorderThreshold float64  `db:"reorder_threshold" json:"reorder_threshold"`
	ReorderAmount    *float64 `db:"reorder_amount" json:"reorder_amount,omitempty"`
	Notes            *string  `db:"notes" json:"notes,omitempty"`
	CreatedByUserID  *string  `db:"created_by_user_id" json:"created_by_user_id,omitempty"`
	IsDeleted        bool     `db:"is_deleted" json:"is_deleted"`
}

// NeedsReorder reports whether on-hand stock has fallen to the threshold.
func (i *InventoryItem) NeedsReorder() bool {
	return i.QuantityOnHand <= i.ReorderThreshold
}

package repository

import (
	"context"
	"testing"

	"firewoodbank/internal/testutil"
	"firewoodbank/models"
)

func TestInventoryCreateListUpdate(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "inventory_crud")
	repo := NewInventoryRepository(d)
	ctx := context.Background()
	actor := models.Session{Username: "admin", Role: models.RoleAdmin}

	if _, err := repo.Create(ctx, &models.InventoryItem{Name: "  "}); err == nil {
		t.Fatal("nameless item should be rejected")
	}

	it, err := repo.Create(ctx, &models.InventoryItem{
		Name:             "Bar oil",
		QuantityOnHand:   6,
		ReorderThreshold: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if it.Unit != "pcs" {
		t.Errorf("unit should default to pcs, got %q", it.Unit)
	}
	if it.NeedsReorder() {
		t.Error("6 on hand with threshold 2 should not need reorder")
	}

	it.QuantityOnHand = 1
	if err := repo.Update(ctx, it, actor); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetByID(ctx, it.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.NeedsReorder() {
		t.Error("1 on hand with threshold 2 should need reorder")
	}

	// Quantity changes land in the audit log with old and new values.
	recs, err := NewAuditRepository(d).List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, a := range recs {
		if a.Event == "update_inventory_item" && a.Field != nil && *a.Field == "quantity_on_hand" {
			found = true
			if a.OldValue == nil || *a.OldValue != "6" || a.NewValue == nil || *a.NewValue != "1" {
				t.Errorf("audit values = %v -> %v", a.OldValue, a.NewValue)
			}
		}
	}
	if !found {
		t.Error("quantity change was not audited")
	}
}

func TestInventorySoftDelete(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "inventory_delete")
	repo := NewInventoryRepository(d)
	ctx := context.Background()

	it, err := repo.Create(ctx, &models.InventoryItem{Name: "Chainsaw"})
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.SoftDelete(ctx, it.ID); err != nil {
		t.Fatal(err)
	}
	items, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, got := range items {
		if got.ID == it.ID {
			t.Fatal("deleted item should not be listed")
		}
	}
	// Row survives for history.
	if got, err := repo.GetByID(ctx, it.ID); err != nil || got == nil || !got.IsDeleted {
		t.Fatalf("soft-deleted row should remain readable, got %v err %v", got, err)
	}
}

// Package pairing matches half-load deliveries to a compatible unpaired
// counterpart so two half cords fill one vehicle trip.
package pairing

import (
	"firewoodbank/internal/quantity"
	"firewoodbank/models"
)

// Pairable reports whether o can serve as a pairing candidate for an order
// belonging to excludeClientID: a live, unpaired half-load for a different
// client.
func Pairable(o *models.WorkOrder, excludeClientID string) bool {
	if o.IsDeleted {
		return false
	}
	if o.DeliverySizeLabel == nil || *o.DeliverySizeLabel != quantity.HalfLoadLabel {
		return false
	}
	if o.PairedOrderID != nil && *o.PairedOrderID != "" {
		return false
	}
	switch o.Status {
	case models.WorkOrderCompleted, models.WorkOrderCancelled, models.WorkOrderPickedUp:
		return false
	}
	return o.ClientID != excludeClientID
}

// FindPairableHalfOrders filters orders down to the pairing candidates for an
// order being created or edited for excludeClientID. Selecting a candidate
// sets paired_order_id on the new order only; the counterpart is deliberately
// left untouched (reconciling the reverse link is a backend concern).
func FindPairableHalfOrders(orders []*models.WorkOrder, excludeClientID string) []*models.WorkOrder {
	var out []*models.WorkOrder
	for _, o := range orders {
		if Pairable(o, excludeClientID) {
			out = append(out, o)
		}
	}
	return out
}

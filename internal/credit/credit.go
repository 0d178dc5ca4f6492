// Package credit derives per-worker hours, delivery counts, and wood credit
// from calendar events and their linked work orders. Recomputed on every data
// reload; holds no state of its own.
package credit

import (
	"strings"

	"firewoodbank/models"
)

const (
	// HoursPerMile credits 0.75 minutes of work per mile driven.
	HoursPerMile = 0.0125
	// MinDeliveryHours is the floor for a mileage-derived delivery credit.
	MinDeliveryHours = 0.1
	// DefaultDeliveryHours applies when the linked order has no mileage.
	DefaultDeliveryHours = 1.5
	// DefaultDeliveryCords applies when the linked order has no resolved size.
	DefaultDeliveryCords = 0.33
)

// Credit is the derived totals for one worker.
type Credit struct {
	Hours           float64 `json:"hours"`
	Deliveries      int     `json:"deliveries"`
	WoodCreditCords float64 `json:"wood_credit_cords"`
}

// ComputeWorkerCredit tallies the session's credit across all delivery events
// whose assigned identifiers mention the worker's username or display name
// (case-insensitive). Orders are looked up by ID for mileage and load size.
func ComputeWorkerCredit(s models.Session, orders []*models.WorkOrder, events []*models.DeliveryEvent) Credit {
	byID := make(map[string]*models.WorkOrder, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	var c Credit
	for _, ev := range events {
		if !assignedTo(ev, s) {
			continue
		}
		c.Deliveries++
		var wo *models.WorkOrder
		if ev.WorkOrderID != nil {
			wo = byID[*ev.WorkOrderID]
		}
		if wo != nil && wo.Mileage != nil && *wo.Mileage >= 0 {
			h := *wo.Mileage * HoursPerMile
			if h < MinDeliveryHours {
				h = MinDeliveryHours
			}
			c.Hours += h
		} else {
			c.Hours += DefaultDeliveryHours
		}
		if wo != nil && wo.DeliverySizeCords != nil && *wo.DeliverySizeCords > 0 {
			c.WoodCreditCords += *wo.DeliverySizeCords
		} else {
			c.WoodCreditCords += DefaultDeliveryCords
		}
	}
	return c
}

func assignedTo(ev *models.DeliveryEvent, s models.Session) bool {
	for _, id := range ev.Assigned {
		if strings.EqualFold(id, s.Username) || strings.EqualFold(id, s.DisplayName) {
			return true
		}
	}
	return false
}

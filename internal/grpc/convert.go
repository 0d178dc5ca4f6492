//go:build grpcserver

package grpcserver

import (
	"time"

	adminv1 "firewoodbank/api/admin/v1"
	opsv1 "firewoodbank/api/ops/v1"
	"firewoodbank/models"
)

// Conversions between storage models and wire messages. Optional model
// fields are pointers; on the wire they are plain strings/floats with the
// zero value meaning absent.

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func f64Val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func addressToProto(a models.Address) *opsv1.Address {
	return &opsv1.Address{
		Line1:      a.Line1,
		Line2:      strVal(a.Line2),
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
	}
}

func addressFromProto(a *opsv1.Address) models.Address {
	if a == nil {
		return models.Address{}
	}
	return models.Address{
		Line1:      a.GetLine1(),
		Line2:      strPtr(a.GetLine2()),
		City:       a.GetCity(),
		State:      a.GetState(),
		PostalCode: a.GetPostalCode(),
	}
}

func clientToProto(c models.Client) *opsv1.Client {
	out := &opsv1.Client{
		Id:              c.ID,
		ClientNumber:    c.ClientNumber,
		Title:           strVal(c.Title),
		Name:            c.Name,
		Telephone:       strVal(c.Telephone),
		Email:           strVal(c.Email),
		PhysicalAddress: addressToProto(c.PhysicalAddress),
		ApprovalStatus:  string(c.ApprovalStatus),
		DenialReason:    strVal(c.DenialReason),
		ReferringAgency: strVal(c.ReferringAgency),
		HowHeard:        strVal(c.HowHeard),
		PreferredDriver: strVal(c.PreferredDriver),
		WoodSizePref:    strVal(c.WoodSizePref),
		GateCombo:       strVal(c.GateCombo),
		Directions:      strVal(c.Directions),
		Notes:           strVal(c.Notes),
	}
	if c.MailingAddress != nil {
		out.MailingAddress = addressToProto(*c.MailingAddress)
	}
	return out
}

func clientFromProto(c *opsv1.Client) *models.Client {
	if c == nil {
		return &models.Client{}
	}
	out := &models.Client{
		ID:              c.GetId(),
		ClientNumber:    c.GetClientNumber(),
		Title:           strPtr(c.GetTitle()),
		Name:            c.GetName(),
		Telephone:       strPtr(c.GetTelephone()),
		Email:           strPtr(c.GetEmail()),
		PhysicalAddress: addressFromProto(c.GetPhysicalAddress()),
		ApprovalStatus:  models.ApprovalStatus(c.GetApprovalStatus()),
		DenialReason:    strPtr(c.GetDenialReason()),
		ReferringAgency: strPtr(c.GetReferringAgency()),
		HowHeard:        strPtr(c.GetHowHeard()),
		PreferredDriver: strPtr(c.GetPreferredDriver()),
		WoodSizePref:    strPtr(c.GetWoodSizePref()),
		GateCombo:       strPtr(c.GetGateCombo()),
		Directions:      strPtr(c.GetDirections()),
		Notes:           strPtr(c.GetNotes()),
	}
	if m := c.GetMailingAddress(); m != nil {
		a := addressFromProto(m)
		out.MailingAddress = &a
	}
	return out
}

func workOrderToProto(o *models.WorkOrder) *opsv1.WorkOrder {
	out := &opsv1.WorkOrder{
		Id:                o.ID,
		ClientId:          o.ClientID,
		ClientName:        o.ClientName,
		Status:            string(o.Status),
		Assignees:         o.Assignees,
		DeliverySizeLabel: strVal(o.DeliverySizeLabel),
		DeliverySizeCords: f64Val(o.DeliverySizeCords),
		PickupCords:       f64Val(o.PickupCords),
		Mileage:           f64Val(o.Mileage),
		WorkHours:         f64Val(o.WorkHours),
		PairedOrderId:     strVal(o.PairedOrderID),
		Notes:             strVal(o.Notes),
	}
	if o.ScheduledDate != nil {
		out.ScheduledDate = o.ScheduledDate.Format(time.RFC3339)
	}
	return out
}

func eventToProto(ev *models.DeliveryEvent) *opsv1.DeliveryEvent {
	out := &opsv1.DeliveryEvent{
		Id:          ev.ID,
		Title:       ev.Title,
		Description: strVal(ev.Description),
		EventType:   string(ev.EventType),
		WorkOrderId: strVal(ev.WorkOrderID),
		StartDate:   ev.StartDate.Format(time.RFC3339),
		ColorCode:   strVal(ev.ColorCode),
		Assigned:    ev.Assigned,
	}
	if ev.EndDate != nil {
		out.EndDate = ev.EndDate.Format(time.RFC3339)
	}
	return out
}

func userToProto(u models.User) *adminv1.User {
	return &adminv1.User{
		Id:                     u.ID,
		Username:               u.Username,
		DisplayName:            u.DisplayName,
		Role:                   u.Role,
		HipaaCertified:         u.HipaaCertified,
		IsDriver:               u.IsDriver,
		DriverLicenseStatus:    strVal(u.DriverLicenseStatus),
		DriverLicenseExpiresOn: strVal(u.DriverLicenseExpiresOn),
		Vehicle:                strVal(u.Vehicle),
		Email:                  strVal(u.Email),
		Telephone:              strVal(u.Telephone),
		AvailabilityNotes:      u.AvailabilityNotes,
	}
}

func inventoryToProto(it *models.InventoryItem) *adminv1.InventoryItem {
	return &adminv1.InventoryItem{
		Id:               it.ID,
		Name:             it.Name,
		Category:         strVal(it.Category),
		QuantityOnHand:   it.QuantityOnHand,
		Unit:             it.Unit,
		ReorderThreshold: it.ReorderThreshold,
		ReorderAmount:    f64Val(it.ReorderAmount),
		Notes:            strVal(it.Notes),
		NeedsReorder:     it.NeedsReorder(),
	}
}

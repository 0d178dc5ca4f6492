// Package policy implements role-based field visibility. All functions are
// pure and total: they are called fresh on every render/serve decision and an
// unrecognized role always resolves to the most restrictive answer.
package policy

import "firewoodbank/models"

// Masked is the placeholder rendered in place of a hidden PII field.
const Masked = "Hidden"

// Capability names one role-gated action.
type Capability string

const (
	CapViewClientPII      Capability = "view_client_pii"
	CapViewDriverContacts Capability = "view_driver_contacts"
	CapApproveClients     Capability = "approve_clients"
	CapManageUsers        Capability = "manage_users"
	CapManageInventory    Capability = "manage_inventory"
	CapEditWorkOrders     Capability = "edit_work_orders"
)

// capabilities is the per-role grant table. Keeping the grants in one table
// (rather than scattered role comparisons) is what makes the policy auditable.
var capabilities = map[models.Role]map[Capability]bool{
	models.RoleAdmin: {
		CapViewClientPII:      true,
		CapViewDriverContacts: true,
		CapApproveClients:     true,
		CapManageUsers:        true,
		CapManageInventory:    true,
		CapEditWorkOrders:     true,
	},
	models.RoleLead: {
		CapViewDriverContacts: true,
		CapApproveClients:     true,
		CapManageInventory:    true,
		CapEditWorkOrders:     true,
	},
	models.RoleStaff: {
		CapManageInventory: true,
		CapEditWorkOrders:  true,
	},
	models.RoleEmployee:  {},
	models.RoleVolunteer: {},
}

// Allows reports whether the session's role grants the capability outright.
// PII visibility has extra session-level conditions; use CanViewClientPII.
func Allows(s models.Session, c Capability) bool {
	grants, ok := capabilities[s.Role]
	if !ok {
		return false
	}
	return grants[c]
}

// CanViewClientPII reports whether the session may see full client PII
// (phone, email, address, gate combo, directions). Admins always may; leads
// only with HIPAA certification; drivers always may, since they need contact
// and access details for their deliveries. Everyone else sees masked values.
func CanViewClientPII(s models.Session) bool {
	if s.IsDriver {
		return true
	}
	switch s.Role {
	case models.RoleAdmin:
		return true
	case models.RoleLead:
		return s.HipaaCertified
	}
	return false
}

// CanViewDriverContactDetails reports whether the session may see driver
// phone/email and license details. Coordination-level roles only.
func CanViewDriverContactDetails(s models.Session) bool {
	return Allows(s, CapViewDriverContacts)
}

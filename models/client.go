package models

import "strings"

// ApprovalStatus represents where a client stands in the intake workflow.
type ApprovalStatus string

const (
	ApprovalApproved  ApprovalStatus = "approved"
	ApprovalException ApprovalStatus = "exception"
	ApprovalPending   ApprovalStatus = "pending"
	ApprovalVolunteer ApprovalStatus = "volunteer"
	ApprovalDenied    ApprovalStatus = "denied"
)

// Address is a physical or mailing address. Stored flattened in the DB.
type Address struct {
	Line1      string  `db:"line1" json:"line1"`
	Line2      *string `db:"line2" json:"line2,omitempty"`
	City       string  `db:"city" json:"city"`
	State      string  `db:"state" json:"state"`
	PostalCode string  `db:"postal_code" json:"postal_code"`
}

// Client represents a firewood recipient. It maps to the `clients` table.
// Phone, email, address, gate combo and directions are PII and are masked
// for sessions that fail the policy check (see internal/policy).
type Client struct {
	ID              string         `db:"id" json:"id"`
	ClientNumber    string         `db:"client_number" json:"client_number"`
	Title           *string        `db:"title" json:"title,omitempty"`
	Name            string         `db:"name" json:"name"`
	Telephone       *string        `db:"telephone" json:"telephone,omitempty"`
	Email           *string        `db:"email" json:"email,omitempty"`
	PhysicalAddress Address        `json:"physical_address"`
	MailingAddress  *Address       `json:"mailing_address,omitempty"`
	ApprovalStatus  ApprovalStatus `db:"approval_status" json:"approval_status"`
	DenialReason    *string        `db:"denial_reason" json:"denial_reason,omitempty"`
	ReferringAgency *string        `db:"referring_agency" json:"referring_agency,omitempty"`
	HowHeard        *string        `db:"how_heard" json:"how_heard,omitempty"`
	PreferredDriver *string        `db:"preferred_driver" json:"preferred_driver,omitempty"`
	WoodSizePref    *string        `db:"wood_size_pref" json:"wood_size_pref,omitempty"`
	GateCombo       *string        `db:"gate_combo" json:"gate_combo,omitempty"`
	Directions      *string        `db:"directions" json:"directions,omitempty"`
	Notes           *string        `db:"notes" json:"notes,omitempty"`
	OnboardedAt     *string        `db:"onboarded_at" json:"onboarded_at,omitempty"`
	CreatedByUserID *string        `db:"created_by_user_id" json:"created_by_user_id,omitempty"`
	IsDeleted       bool           `db:"is_deleted" json:"is_deleted"`
}

// DefaultApprovalStatus picks the intake status for a new client: pending by
// default, approved immediately when a referring agency vouches for them.
func DefaultApprovalStatus(referringAgency string) ApprovalStatus {
	if strings.TrimSpace(referringAgency) != "" {
		return ApprovalApproved
	}
	return ApprovalPending
}

// HasContact reports whether at least one of phone/email is present.
// Client intake requires one contact method.
func (c *Client) HasContact() bool {
	has := func(p *string) bool { return p != nil && strings.TrimSpace(*p) != "" }
	return has(c.Telephone) || has(c.Email)
}

package policy

import "firewoodbank/models"

// maskedDash is used for address components, where "Hidden" reads poorly in
// tabular views.
const maskedDash = "—"

// MaskClient returns a render-ready copy of c with PII fields replaced by
// placeholders unless the session passes the PII check. The input is never
// mutated.
func MaskClient(s models.Session, c models.Client) models.Client {
	if CanViewClientPII(s) {
		return c
	}
	hidden := Masked
	if c.Telephone != nil {
		c.Telephone = &hidden
	}
	if c.Email != nil {
		c.Email = &hidden
	}
	if c.GateCombo != nil {
		c.GateCombo = &hidden
	}
	if c.Directions != nil {
		c.Directions = &hidden
	}
	c.PhysicalAddress = maskedAddress()
	if c.MailingAddress != nil {
		m := maskedAddress()
		c.MailingAddress = &m
	}
	return c
}

// MaskUserContacts returns a copy of u with driver contact details hidden
// unless the session may view them.
func MaskUserContacts(s models.Session, u models.User) models.User {
	if CanViewDriverContactDetails(s) {
		return u
	}
	hidden := Masked
	if u.Email != nil {
		u.Email = &hidden
	}
	if u.Telephone != nil {
		u.Telephone = &hidden
	}
	if u.DriverLicenseStatus != nil {
		u.DriverLicenseStatus = &hidden
	}
	if u.DriverLicenseExpiresOn != nil {
		u.DriverLicenseExpiresOn = &hidden
	}
	return u
}

func maskedAddress() models.Address {
	return models.Address{
		Line1:      maskedDash,
		City:       maskedDash,
		State:      maskedDash,
		PostalCode: maskedDash,
	}
}

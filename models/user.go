package models

// User represents a worker (staff, lead, driver, volunteer) in the system.
// It maps to the `users` table in SQLite.
type User struct {
	ID             string `db:"id" json:"id"`
	Username       string `db:"username" json:"username"`
	DisplayName    string `db:"display_name" json:"display_name"`
	Role           string `db:"role" json:"role"`
	HipaaCertified bool   `db:"hipaa_certified" json:"hipaa_certified"`
	IsDriver       bool   `db:"is_driver" json:"is_driver"`
	// License fields must both be set whenever IsDriver is flipped on.
	// Nullable in DB; use pointers to distinguish null vs empty.
	DriverLicenseStatus    *string `db:"driver_license_status" json:"driver_license_status,omitempty"`
	DriverLicenseExpiresOn *string `db:"driver_license_expires_on" json:"driver_license_expires_on,omitempty"`
	Vehicle                *string `db:"vehicle" json:"vehicle,omitempty"`
	Email                  *string `db:"email" json:"email,omitempty"`
	Telephone              *string `db:"telephone" json:"telephone,omitempty"`
	// AvailabilityNotes is free-text day-of-week cues ("off on tue", "any day").
	// The assignment validator substring-matches against it; see internal/assignment.
	AvailabilityNotes string `db:"availability_notes" json:"availability_notes,omitempty"`
	// AvailabilitySchedule is a day->boolean map stored as a JSON object column.
	AvailabilitySchedule map[string]bool `db:"availability_schedule" json:"availability_schedule,omitempty"`
	PasswordHash         string          `db:"password_hash" json:"-"`
	IsDeleted            bool            `db:"is_deleted" json:"is_deleted"`
}

// UserFlags is the mutable role/permission surface of a user record. The
// is_driver invariant (license status and expiry required) is enforced at the
// moment the flags are written.
type UserFlags struct {
	Role                   string  `json:"role"`
	HipaaCertified         bool    `json:"hipaa_certified"`
	IsDriver               bool    `json:"is_driver"`
	DriverLicenseStatus    *string `json:"driver_license_status,omitempty"`
	DriverLicenseExpiresOn *string `json:"driver_license_expires_on,omitempty"`
}

// Session materializes the login session for this user.
func (u *User) Session() Session {
	return Session{
		UserID:         u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		Role:           ParseRole(u.Role),
		HipaaCertified: u.HipaaCertified,
		IsDriver:       u.IsDriver,
	}
}

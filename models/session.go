package models

// Session identifies the authenticated worker. It is built once at login from
// the JWT claims and stays immutable until sign-out.
type Session struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	Role           Role   `json:"role"`
	HipaaCertified bool   `json:"hipaa_certified"`
	IsDriver       bool   `json:"is_driver"`
}

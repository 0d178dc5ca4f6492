package models

// AuditRecord is one append-only audit log row: either a bare command event
// (entity fields nil) or a field-level change with old/new values.
type AuditRecord struct {
	ID       string  `db:"id" json:"id"`
	Event    string  `db:"event" json:"event"`
	Role     string  `db:"role" json:"role"`
	Actor    string  `db:"actor" json:"actor"`
	Entity   *string `db:"entity" json:"entity,omitempty"`
	EntityID *string `db:"entity_id" json:"entity_id,omitempty"`
	Field    *string `db:"field" json:"field,omitempty"`
	OldValue *string `db:"old_value" json:"old_value,omitempty"`
	NewValue *string `db:"new_value" json:"new_value,omitempty"`
}

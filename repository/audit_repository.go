package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"firewoodbank/models"
)

// AuditRepository appends to the audit log. Writes are best-effort: a failed
// audit insert never fails the operation being audited.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Event records a bare command event.
func (r *AuditRepository) Event(ctx context.Context, event, role, actor string) {
	r.Change(ctx, event, role, actor, "", "", "", nil, nil)
}

// Change records a field-level change. Entity fields may be empty for bare
// events.
func (r *AuditRepository) Change(ctx context.Context, event, role, actor, entity, entityID, field string, oldValue, newValue *string) {
	if role == "" {
		role = "unknown"
	}
	if actor == "" {
		actor = "unknown"
	}
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, _ = r.db.ExecContext(ctx, `INSERT INTO audit_logs
		(id, event, role, actor, entity, entity_id, field, old_value, new_value)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		uuid.New().String(), event, role, actor, opt(entity), opt(entityID), opt(field), oldValue, newValue)
}

// List returns the most recent audit records.
func (r *AuditRepository) List(ctx context.Context, limit int) ([]*models.AuditRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, event, role, actor, entity, entity_id, field, old_value, new_value
		FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.AuditRecord
	for rows.Next() {
		var a models.AuditRecord
		if err := rows.Scan(&a.ID, &a.Event, &a.Role, &a.Actor, &a.Entity, &a.EntityID, &a.Field, &a.OldValue, &a.NewValue); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

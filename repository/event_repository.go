package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"firewoodbank/internal/fault"
	"firewoodbank/models"
)

// DeliveryEventRepository is the SQLite repository for calendar events.
type DeliveryEventRepository struct {
	db *sql.DB
}

// NewDeliveryEventRepository creates a new DeliveryEventRepository.
func NewDeliveryEventRepository(db *sql.DB) *DeliveryEventRepository {
	return &DeliveryEventRepository{db: db}
}

const eventColumns = `id, title, description, event_type, work_order_id,
	start_date, end_date, color_code, assigned, is_deleted`

func scanEvent(row interface{ Scan(...any) error }) (*models.DeliveryEvent, error) {
	var ev models.DeliveryEvent
	var eventType, start string
	var end sql.NullString
	var assigned string
	err := row.Scan(&ev.ID, &ev.Title, &ev.Description, &eventType, &ev.WorkOrderID,
		&start, &end, &ev.ColorCode, &assigned, &ev.IsDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	ev.EventType = models.DeliveryEventType(eventType)
	t, err := time.Parse(sqliteDateFormat, start)
	if err != nil {
		return nil, fmt.Errorf("bad start_date for event %s: %w", ev.ID, err)
	}
	ev.StartDate = t
	if end.Valid && end.String != "" {
		t, err := time.Parse(sqliteDateFormat, end.String)
		if err != nil {
			return nil, fmt.Errorf("bad end_date for event %s: %w", ev.ID, err)
		}
		ev.EndDate = &t
	}
	if err := json.Unmarshal([]byte(assigned), &ev.Assigned); err != nil {
		return nil, fmt.Errorf("bad assigned list for event %s: %w", ev.ID, err)
	}
	return &ev, nil
}

// Create inserts a new calendar event.
func (r *DeliveryEventRepository) Create(ctx context.Context, ev *models.DeliveryEvent) (*models.DeliveryEvent, error) {
	if ev == nil {
		return nil, errors.New("event is nil")
	}
	if strings.TrimSpace(ev.Title) == "" {
		return nil, fault.Invalid("Give the event a title.")
	}
	switch ev.EventType {
	case models.EventDelivery, models.EventCutting, models.EventSplitting:
	case "":
		ev.EventType = models.EventDelivery
	default:
		return nil, fault.Invalid("Unknown event type %q.", ev.EventType)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	id := uuid.New().String()
	assigned, err := json.Marshal(orEmpty(ev.Assigned))
	if err != nil {
		return nil, err
	}
	var end *string
	if ev.EndDate != nil {
		s := ev.EndDate.UTC().Format(sqliteDateFormat)
		end = &s
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO delivery_events
		(id, title, description, event_type, work_order_id, start_date, end_date, color_code, assigned)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		id, ev.Title, ev.Description, string(ev.EventType), ev.WorkOrderID,
		ev.StartDate.UTC().Format(sqliteDateFormat), end, ev.ColorCode, string(assigned))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches an event by ID.
func (r *DeliveryEventRepository) GetByID(ctx context.Context, id string) (*models.DeliveryEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM delivery_events WHERE id = ?`, id))
}

func (r *DeliveryEventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*models.DeliveryEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.DeliveryEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// List returns non-deleted events in calendar order.
func (r *DeliveryEventRepository) List(ctx context.Context, limit, offset int) ([]*models.DeliveryEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.queryEvents(ctx, `SELECT `+eventColumns+` FROM delivery_events
		WHERE is_deleted = 0 ORDER BY start_date LIMIT ? OFFSET ?`, limit, offset)
}

// ListBetween returns non-deleted events starting within [from, to).
func (r *DeliveryEventRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.DeliveryEvent, error) {
	return r.queryEvents(ctx, `SELECT `+eventColumns+` FROM delivery_events
		WHERE is_deleted = 0 AND start_date >= ? AND start_date < ? ORDER BY start_date`,
		from.UTC().Format(sqliteDateFormat), to.UTC().Format(sqliteDateFormat))
}

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

	"firewoodbank/internal/assignment"
	"firewoodbank/internal/auth"
	"firewoodbank/internal/fault"
	"firewoodbank/models"
)

// UserRepository is the SQLite repository for worker accounts.
type UserRepository struct {
	db    *sql.DB
	audit *AuditRepository
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, audit: NewAuditRepository(db)}
}

const userColumns = `id, username, display_name, role, hipaa_certified, is_driver,
	driver_license_status, driver_license_expires_on, vehicle, email, telephone,
	availability_notes, availability_schedule, password_hash, is_deleted`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var schedule sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role, &u.HipaaCertified, &u.IsDriver,
		&u.DriverLicenseStatus, &u.DriverLicenseExpiresOn, &u.Vehicle, &u.Email, &u.Telephone,
		&u.AvailabilityNotes, &schedule, &u.PasswordHash, &u.IsDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if schedule.Valid && schedule.String != "" {
		if err := json.Unmarshal([]byte(schedule.String), &u.AvailabilitySchedule); err != nil {
			return nil, fmt.Errorf("bad availability_schedule for user %s: %w", u.ID, err)
		}
	}
	return &u, nil
}

// validateDriverFlags enforces the is_driver invariant: the flag can only be
// set when both license status and expiry are recorded.
func validateDriverFlags(isDriver bool, status, expires *string) error {
	if !isDriver {
		return nil
	}
	empty := func(p *string) bool { return p == nil || strings.TrimSpace(*p) == "" }
	if empty(status) || empty(expires) {
		return fault.Invalid("A driver needs a license status and a license expiration date on file.")
	}
	return nil
}

// Create inserts a new worker with a hashed password. Role defaults to
// volunteer if empty; the driver invariant is checked up front.
func (r *UserRepository) Create(ctx context.Context, u *models.User, password string) (*models.User, error) {
	if u == nil {
		return nil, errors.New("user is nil")
	}
	if strings.TrimSpace(u.Username) == "" {
		return nil, fault.Invalid("Username is required.")
	}
	if u.Role == "" {
		u.Role = string(models.RoleVolunteer)
	}
	if err := validateDriverFlags(u.IsDriver, u.DriverLicenseStatus, u.DriverLicenseExpiresOn); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fault.Invalid("Pick a non-empty password.")
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	id := uuid.New().String()
	var schedule any
	if u.AvailabilitySchedule != nil {
		b, err := json.Marshal(u.AvailabilitySchedule)
		if err != nil {
			return nil, err
		}
		schedule = string(b)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO users
		(id, username, display_name, role, hipaa_certified, is_driver,
		 driver_license_status, driver_license_expires_on, vehicle, email, telephone,
		 availability_notes, availability_schedule, password_hash)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, u.Username, u.DisplayName, u.Role, u.HipaaCertified, u.IsDriver,
		u.DriverLicenseStatus, u.DriverLicenseExpiresOn, u.Vehicle, u.Email, u.Telephone,
		u.AvailabilityNotes, schedule, hash)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a worker by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetByUsername fetches a worker by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

// List returns non-deleted workers ordered by display name.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if limit <= 0 {
		limit = 50
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users
		WHERE is_deleted = 0 ORDER BY display_name LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ListDrivers returns all non-deleted workers with the driver flag set.
func (r *UserRepository) ListDrivers(ctx context.Context) ([]*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users
		WHERE is_deleted = 0 AND is_driver = 1 ORDER BY display_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// AvailableDrivers returns the drivers whose availability notes do not flag
// the given date's weekday. Same heuristic the assignment validator applies.
func (r *UserRepository) AvailableDrivers(ctx context.Context, date time.Time) ([]*models.User, error) {
	drivers, err := r.ListDrivers(ctx)
	if err != nil {
		return nil, err
	}
	var out []*models.User
	for _, d := range drivers {
		name := d.DisplayName
		if name == "" {
			name = d.Username
		}
		if err := assignment.Validate(models.WorkOrderScheduled, &date, []string{name}, nil, []*models.User{d}); err != nil {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// SetFlags updates the role/permission flags, enforcing the driver invariant
// at write time, and records the change in the audit log.
func (r *UserRepository) SetFlags(ctx context.Context, id string, f models.UserFlags, actor models.Session) error {
	if err := validateDriverFlags(f.IsDriver, f.DriverLicenseStatus, f.DriverLicenseExpiresOn); err != nil {
		return err
	}
	if models.ParseRole(f.Role) == "" {
		return fault.Invalid("Unknown role %q.", f.Role)
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	prev, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if prev == nil {
		return sql.ErrNoRows
	}
	_, err = r.db.ExecContext(ctx, `UPDATE users SET role = ?, hipaa_certified = ?, is_driver = ?,
		driver_license_status = ?, driver_license_expires_on = ?, updated_at = datetime('now')
		WHERE id = ?`,
		f.Role, f.HipaaCertified, f.IsDriver, f.DriverLicenseStatus, f.DriverLicenseExpiresOn, id)
	if err != nil {
		return err
	}
	if prev.Role != f.Role {
		oldRole, newRole := prev.Role, f.Role
		r.audit.Change(ctx, "update_user_flags", string(actor.Role), actor.Username, "users", id, "role", &oldRole, &newRole)
	} else {
		r.audit.Event(ctx, "update_user_flags", string(actor.Role), actor.Username)
	}
	return nil
}

// SetPassword replaces the stored password hash.
func (r *UserRepository) SetPassword(ctx context.Context, id, newPassword string) error {
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fault.Invalid("Pick a non-empty password.")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated_at = datetime('now') WHERE id = ?`, hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Authenticate verifies the username/password pair and returns the user on
// success, nil on a bad username or password.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || u.IsDeleted || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, nil
	}
	return u, nil
}

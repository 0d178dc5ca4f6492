package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"firewoodbank/internal/fault"
	"firewoodbank/models"
)

// ClientRepository is the SQLite repository for client records.
type ClientRepository struct {
	db    *sql.DB
	audit *AuditRepository
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db, audit: NewAuditRepository(db)}
}

const clientColumns = `id, client_number, title, name, telephone, email,
	addr_line1, addr_line2, addr_city, addr_state, addr_postal,
	mail_line1, mail_line2, mail_city, mail_state, mail_postal,
	approval_status, denial_reason, referring_agency, how_heard,
	preferred_driver, wood_size_pref, gate_combo, directions, notes,
	onboarded_at, created_by_user_id, is_deleted`

func scanClient(row interface{ Scan(...any) error }) (*models.Client, error) {
	var c models.Client
	var status string
	var mail models.Address
	var mailLine1, mailLine2, mailCity, mailState, mailPostal sql.NullString
	err := row.Scan(&c.ID, &c.ClientNumber, &c.Title, &c.Name, &c.Telephone, &c.Email,
		&c.PhysicalAddress.Line1, &c.PhysicalAddress.Line2, &c.PhysicalAddress.City,
		&c.PhysicalAddress.State, &c.PhysicalAddress.PostalCode,
		&mailLine1, &mailLine2, &mailCity, &mailState, &mailPostal,
		&status, &c.DenialReason, &c.ReferringAgency, &c.HowHeard,
		&c.PreferredDriver, &c.WoodSizePref, &c.GateCombo, &c.Directions, &c.Notes,
		&c.OnboardedAt, &c.CreatedByUserID, &c.IsDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.ApprovalStatus = models.ApprovalStatus(status)
	if mailLine1.Valid && mailLine1.String != "" {
		mail.Line1 = mailLine1.String
		if mailLine2.Valid {
			v := mailLine2.String
			mail.Line2 = &v
		}
		mail.City = mailCity.String
		mail.State = mailState.String
		mail.PostalCode = mailPostal.String
		c.MailingAddress = &mail
	}
	return &c, nil
}

// Create inserts a new client. At least one contact method is required. The
// approval status defaults to pending, or approved when a referring agency is
// given.
func (r *ClientRepository) Create(ctx context.Context, c *models.Client) (*models.Client, error) {
	if c == nil {
		return nil, errors.New("client is nil")
	}
	if strings.TrimSpace(c.Name) == "" {
		return nil, fault.Invalid("Client name is required.")
	}
	if !c.HasContact() {
		return nil, fault.Invalid("Enter a phone number or an email so the client can be reached.")
	}
	if c.ApprovalStatus == "" {
		agency := ""
		if c.ReferringAgency != nil {
			agency = *c.ReferringAgency
		}
		c.ApprovalStatus = models.DefaultApprovalStatus(agency)
	}
	id := uuid.New().String()
	if strings.TrimSpace(c.ClientNumber) == "" {
		c.ClientNumber = "C-" + id[:8]
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var mailLine1, mailLine2, mailCity, mailState, mailPostal *string
	if m := c.MailingAddress; m != nil {
		mailLine1, mailLine2 = &m.Line1, m.Line2
		mailCity, mailState, mailPostal = &m.City, &m.State, &m.PostalCode
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO clients
		(id, client_number, title, name, telephone, email,
		 addr_line1, addr_line2, addr_city, addr_state, addr_postal,
		 mail_line1, mail_line2, mail_city, mail_state, mail_postal,
		 approval_status, denial_reason, referring_agency, how_heard,
		 preferred_driver, wood_size_pref, gate_combo, directions, notes,
		 onboarded_at, created_by_user_id)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, c.ClientNumber, c.Title, c.Name, c.Telephone, c.Email,
		c.PhysicalAddress.Line1, c.PhysicalAddress.Line2, c.PhysicalAddress.City,
		c.PhysicalAddress.State, c.PhysicalAddress.PostalCode,
		mailLine1, mailLine2, mailCity, mailState, mailPostal,
		string(c.ApprovalStatus), c.DenialReason, c.ReferringAgency, c.HowHeard,
		c.PreferredDriver, c.WoodSizePref, c.GateCombo, c.Directions, c.Notes,
		c.OnboardedAt, c.CreatedByUserID)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanClient(r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id))
}

// List returns non-deleted clients ordered by name.
func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*models.Client, error) {
	if limit <= 0 {
		limit = 50
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients
		WHERE is_deleted = 0 ORDER BY name LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites a client's profile fields and audits the command.
func (r *ClientRepository) Update(ctx context.Context, c *models.Client, actor models.Session) error {
	if c == nil {
		return errors.New("client is nil")
	}
	if !c.HasContact() {
		return fault.Invalid("Enter a phone number or an email so the client can be reached.")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var mailLine1, mailLine2, mailCity, mailState, mailPostal *string
	if m := c.MailingAddress; m != nil {
		mailLine1, mailLine2 = &m.Line1, m.Line2
		mailCity, mailState, mailPostal = &m.City, &m.State, &m.PostalCode
	}
	res, err := r.db.ExecContext(ctx, `UPDATE clients SET
		title = ?, name = ?, telephone = ?, email = ?,
		addr_line1 = ?, addr_line2 = ?, addr_city = ?, addr_state = ?, addr_postal = ?,
		mail_line1 = ?, mail_line2 = ?, mail_city = ?, mail_state = ?, mail_postal = ?,
		referring_agency = ?, how_heard = ?, preferred_driver = ?, wood_size_pref = ?,
		gate_combo = ?, directions = ?, notes = ?, updated_at = datetime('now')
		WHERE id = ? AND is_deleted = 0`,
		c.Title, c.Name, c.Telephone, c.Email,
		c.PhysicalAddress.Line1, c.PhysicalAddress.Line2, c.PhysicalAddress.City,
		c.PhysicalAddress.State, c.PhysicalAddress.PostalCode,
		mailLine1, mailLine2, mailCity, mailState, mailPostal,
		c.ReferringAgency, c.HowHeard, c.PreferredDriver, c.WoodSizePref,
		c.GateCombo, c.Directions, c.Notes, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	r.audit.Event(ctx, "update_client", string(actor.Role), actor.Username)
	return nil
}

// SetApproval moves a client through the approval workflow. A denial needs a
// reason; any other status clears it.
func (r *ClientRepository) SetApproval(ctx context.Context, id string, status models.ApprovalStatus, denialReason *string, actor models.Session) error {
	switch status {
	case models.ApprovalApproved, models.ApprovalException, models.ApprovalPending,
		models.ApprovalVolunteer, models.ApprovalDenied:
	default:
		return fault.Invalid("Unknown approval status %q.", status)
	}
	if status == models.ApprovalDenied && (denialReason == nil || strings.TrimSpace(*denialReason) == "") {
		return fault.Invalid("Give a reason when denying a client.")
	}
	if status != models.ApprovalDenied {
		denialReason = nil
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
	_, err = r.db.ExecContext(ctx, `UPDATE clients SET approval_status = ?, denial_reason = ?, updated_at = datetime('now') WHERE id = ?`,
		string(status), denialReason, id)
	if err != nil {
		return err
	}
	oldStatus, newStatus := string(prev.ApprovalStatus), string(status)
	r.audit.Change(ctx, "set_client_approval", string(actor.Role), actor.Username, "clients", id, "approval_status", &oldStatus, &newStatus)
	return nil
}

// SoftDelete marks a client deleted without purging the row.
func (r *ClientRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `UPDATE clients SET is_deleted = 1, updated_at = datetime('now') WHERE id = ?`, id)
	return err
}

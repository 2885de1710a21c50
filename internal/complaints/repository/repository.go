package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"citizenconnect_backend/internal/complaints/domain"
	"citizenconnect_backend/platform/apperr"
)

const complaintNotFoundMessage = "complaint not found"

const complaintColumns = `
	id, title, description, domain, category, department, status,
	location, latitude, longitude, ward, zone, district, media_url,
	user_id, assigned_to_id, assigned_by_id,
	created_at, assigned_at, acknowledged_at, in_progress_at, resolved_at, closed_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new complaints repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a complaint by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Complaint, error) {
	query := `SELECT` + complaintColumns + ` FROM complaints WHERE id = $1`

	complaint, err := scanComplaint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Complaint{}, apperr.NotFound(complaintNotFoundMessage)
		}
		return Complaint{}, fmt.Errorf("get complaint by id: %w", err)
	}
	return complaint, nil
}

// List retrieves complaints matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter ListFilter) ([]Complaint, error) {
	query := `SELECT` + complaintColumns + ` FROM complaints`

	var conditions []string
	var args []interface{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Domain != "" {
		addCondition("domain = $%d", filter.Domain)
	}
	if filter.Category != "" {
		addCondition("category = $%d", filter.Category)
	}
	if filter.Status != "" {
		addCondition("status = $%d", filter.Status)
	}
	if filter.Department != "" {
		addCondition("department = $%d", filter.Department)
	}
	if filter.Ward != "" {
		addCondition("ward = $%d", filter.Ward)
	}
	if filter.UserID != nil {
		addCondition("user_id = $%d", *filter.UserID)
	}
	if filter.AssignedToID != nil {
		addCondition("assigned_to_id = $%d", *filter.AssignedToID)
	}
	if filter.From != nil {
		addCondition("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		addCondition("created_at <= $%d", *filter.To)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	return scanComplaints(rows)
}

// ListAssignedTo retrieves the complaints assigned to a user, most recently
// assigned first.
func (r *Repo) ListAssignedTo(ctx context.Context, userID uuid.UUID) ([]Complaint, error) {
	query := `SELECT` + complaintColumns + ` FROM complaints
		WHERE assigned_to_id = $1
		ORDER BY assigned_at DESC NULLS LAST`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list assigned complaints: %w", err)
	}
	defer rows.Close()

	return scanComplaints(rows)
}

// ListStatusUpdates retrieves a complaint's audit entries, oldest first.
func (r *Repo) ListStatusUpdates(ctx context.Context, complaintID uuid.UUID) ([]StatusUpdate, error) {
	query := `
		SELECT id, complaint_id, status, remarks, updated_by_id, updated_at, time_spent_in_previous_status
		FROM status_updates
		WHERE complaint_id = $1
		ORDER BY updated_at ASC`

	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, fmt.Errorf("list status updates: %w", err)
	}
	defer rows.Close()

	var updates []StatusUpdate
	for rows.Next() {
		var u StatusUpdate
		if err := rows.Scan(&u.ID, &u.ComplaintID, &u.Status, &u.Remarks, &u.UpdatedByID, &u.UpdatedAt, &u.TimeSpentInPreviousStatus); err != nil {
			return nil, fmt.Errorf("scan status update: %w", err)
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

// Create inserts a complaint, and when the resolver pre-assigned an employee,
// starts it Acknowledged with a single audit row in the same transaction.
// Unassigned complaints start Raised with no audit row.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Complaint, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Complaint{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status := domain.StatusRaised
	if params.AssignedToID != nil {
		status = domain.StatusAcknowledged
	}

	query := `
		INSERT INTO complaints (
			title, description, domain, category, department, status,
			location, latitude, longitude, ward, zone, district, media_url,
			user_id, assigned_to_id, assigned_at, acknowledged_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			CASE WHEN $15::uuid IS NULL THEN NULL ELSE now() END,
			CASE WHEN $15::uuid IS NULL THEN NULL ELSE now() END
		)
		RETURNING` + complaintColumns

	complaint, err := scanComplaint(tx.QueryRow(ctx, query,
		params.Title, params.Description, params.Domain, params.Category,
		params.Department, status,
		params.Location, params.Latitude, params.Longitude,
		params.Ward, params.Zone, params.District, params.MediaURL,
		params.UserID, params.AssignedToID,
	))
	if err != nil {
		return Complaint{}, fmt.Errorf("insert complaint: %w", err)
	}

	if params.AssignedToID != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO status_updates (complaint_id, status, remarks)
			VALUES ($1, $2, $3)`,
			complaint.ID, domain.StatusAcknowledged, "Auto-assigned by system",
		)
		if err != nil {
			return Complaint{}, fmt.Errorf("insert auto-assignment audit row: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Complaint{}, fmt.Errorf("commit transaction: %w", err)
	}
	return complaint, nil
}

// UpdateStatus performs a lifecycle transition. The complaint row is locked
// for the duration of the transaction so racing writers serialize and the
// second validates against committed state.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, params UpdateStatusParams) (StatusTransition, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return StatusTransition{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := lockComplaint(ctx, tx, id)
	if err != nil {
		return StatusTransition{}, err
	}

	check := domain.ValidateTransition(current.Status, params.NewStatus)
	if !check.Valid {
		allowed := make([]string, len(check.Allowed))
		for i, s := range check.Allowed {
			allowed[i] = string(s)
		}
		return StatusTransition{}, apperr.InvalidTransition(check.Message, string(current.Status), allowed)
	}

	dwell, err := minutesSinceLastUpdate(ctx, tx, id)
	if err != nil {
		return StatusTransition{}, err
	}

	setClause := "status = $2"
	if column := domain.TimestampColumn(params.NewStatus); column != "" {
		// First-reach timestamps are write-once; reverts and re-advances
		// keep the original value.
		setClause += fmt.Sprintf(", %s = COALESCE(%s, now())", column, column)
	}

	query := fmt.Sprintf(`UPDATE complaints SET %s WHERE id = $1 RETURNING`, setClause) + complaintColumns
	updated, err := scanComplaint(tx.QueryRow(ctx, query, id, params.NewStatus))
	if err != nil {
		return StatusTransition{}, fmt.Errorf("update complaint status: %w", err)
	}

	var update StatusUpdate
	err = tx.QueryRow(ctx, `
		INSERT INTO status_updates (complaint_id, status, remarks, updated_by_id, time_spent_in_previous_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, complaint_id, status, remarks, updated_by_id, updated_at, time_spent_in_previous_status`,
		id, params.NewStatus, params.Remarks, params.UpdatedByID, dwell,
	).Scan(&update.ID, &update.ComplaintID, &update.Status, &update.Remarks, &update.UpdatedByID, &update.UpdatedAt, &update.TimeSpentInPreviousStatus)
	if err != nil {
		return StatusTransition{}, fmt.Errorf("insert status update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return StatusTransition{}, fmt.Errorf("commit transaction: %w", err)
	}

	return StatusTransition{Complaint: updated, Update: update, OldStatus: current.Status}, nil
}

// Assign sets the complaint's assignee. A Raised complaint advances to
// Acknowledged as part of the same transaction.
func (r *Repo) Assign(ctx context.Context, id uuid.UUID, params AssignParams) (Complaint, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Complaint{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := lockComplaint(ctx, tx, id)
	if err != nil {
		return Complaint{}, err
	}

	newStatus := current.Status
	if current.Status == domain.StatusRaised {
		newStatus = domain.StatusAcknowledged
	}

	query := `
		UPDATE complaints SET
			assigned_to_id = $2,
			assigned_by_id = $3,
			assigned_at = now(),
			department = COALESCE($4, department),
			status = $5,
			acknowledged_at = CASE WHEN $5 = 'Acknowledged' THEN COALESCE(acknowledged_at, now()) ELSE acknowledged_at END
		WHERE id = $1
		RETURNING` + complaintColumns

	updated, err := scanComplaint(tx.QueryRow(ctx, query, id, params.AssigneeID, params.AssignedByID, params.Department, newStatus))
	if err != nil {
		return Complaint{}, fmt.Errorf("assign complaint: %w", err)
	}

	if err := insertAuditRow(ctx, tx, id, newStatus, params.Remarks, &params.AssignedByID); err != nil {
		return Complaint{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Complaint{}, fmt.Errorf("commit transaction: %w", err)
	}
	return updated, nil
}

// Reassign moves the complaint to a new assignee without changing its status.
func (r *Repo) Reassign(ctx context.Context, id uuid.UUID, params ReassignParams) (Complaint, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Complaint{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := lockComplaint(ctx, tx, id)
	if err != nil {
		return Complaint{}, err
	}

	query := `
		UPDATE complaints SET
			assigned_to_id = $2,
			assigned_by_id = $3,
			assigned_at = now()
		WHERE id = $1
		RETURNING` + complaintColumns

	updated, err := scanComplaint(tx.QueryRow(ctx, query, id, params.NewAssigneeID, params.AssignedByID))
	if err != nil {
		return Complaint{}, fmt.Errorf("reassign complaint: %w", err)
	}

	if err := insertAuditRow(ctx, tx, id, current.Status, params.Remarks, &params.AssignedByID); err != nil {
		return Complaint{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Complaint{}, fmt.Errorf("commit transaction: %w", err)
	}
	return updated, nil
}

// Unassign clears the complaint's assignment fields.
func (r *Repo) Unassign(ctx context.Context, id uuid.UUID, params UnassignParams) (Complaint, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Complaint{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := lockComplaint(ctx, tx, id)
	if err != nil {
		return Complaint{}, err
	}

	query := `
		UPDATE complaints SET
			assigned_to_id = NULL,
			assigned_by_id = NULL,
			assigned_at = NULL
		WHERE id = $1
		RETURNING` + complaintColumns

	updated, err := scanComplaint(tx.QueryRow(ctx, query, id))
	if err != nil {
		return Complaint{}, fmt.Errorf("unassign complaint: %w", err)
	}

	if err := insertAuditRow(ctx, tx, id, current.Status, params.Remarks, &params.ActorID); err != nil {
		return Complaint{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Complaint{}, fmt.Errorf("commit transaction: %w", err)
	}
	return updated, nil
}

// Update applies citizen edits to a complaint.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Complaint, error) {
	query := `
		UPDATE complaints SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			location = COALESCE($4, location)
		WHERE id = $1
		RETURNING` + complaintColumns

	complaint, err := scanComplaint(r.pool.QueryRow(ctx, query, id, params.Title, params.Description, params.Location))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Complaint{}, apperr.NotFound(complaintNotFoundMessage)
		}
		return Complaint{}, fmt.Errorf("update complaint: %w", err)
	}
	return complaint, nil
}

// Delete removes a complaint. Audit rows cascade.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(complaintNotFoundMessage)
	}
	return nil
}

func lockComplaint(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Complaint, error) {
	query := `SELECT` + complaintColumns + ` FROM complaints WHERE id = $1 FOR UPDATE`

	complaint, err := scanComplaint(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Complaint{}, apperr.NotFound(complaintNotFoundMessage)
		}
		return Complaint{}, fmt.Errorf("lock complaint: %w", err)
	}
	return complaint, nil
}

// minutesSinceLastUpdate computes the whole minutes elapsed since the most
// recent audit row, or nil when the complaint has no audit history yet.
func minutesSinceLastUpdate(ctx context.Context, tx pgx.Tx, complaintID uuid.UUID) (*int, error) {
	var minutes *int
	err := tx.QueryRow(ctx, `
		SELECT FLOOR(EXTRACT(EPOCH FROM (now() - MAX(updated_at))) / 60)::int
		FROM status_updates
		WHERE complaint_id = $1`,
		complaintID,
	).Scan(&minutes)
	if err != nil {
		return nil, fmt.Errorf("compute time in previous status: %w", err)
	}
	return minutes, nil
}

func insertAuditRow(ctx context.Context, tx pgx.Tx, complaintID uuid.UUID, status domain.Status, remarks string, updatedBy *uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO status_updates (complaint_id, status, remarks, updated_by_id)
		VALUES ($1, $2, $3, $4)`,
		complaintID, status, remarks, updatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert audit row: %w", err)
	}
	return nil
}

func scanComplaint(row pgx.Row) (Complaint, error) {
	var c Complaint
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Domain, &c.Category, &c.Department, &c.Status,
		&c.Location, &c.Latitude, &c.Longitude, &c.Ward, &c.Zone, &c.District, &c.MediaURL,
		&c.UserID, &c.AssignedToID, &c.AssignedByID,
		&c.CreatedAt, &c.AssignedAt, &c.AcknowledgedAt, &c.InProgressAt, &c.ResolvedAt, &c.ClosedAt,
	)
	return c, err
}

func scanComplaints(rows pgx.Rows) ([]Complaint, error) {
	var complaints []Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

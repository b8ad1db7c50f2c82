package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"leavemgmt/internal/domain/listing"
	"leavemgmt/internal/platform/querier"
)

const leaveColumns = `
    l.id::text, l.user_id::text, l.leave_type, l.start_date, l.end_date, l.total_days, l.reason, l.status,
    l.admin_comments, l.approved_by::text, l.approved_at, l.created_at, l.updated_at,
    u.name, u.email, u.employee_id, COALESCE(u.department, ''),
    a.name, a.email, a.employee_id, a.department
  `

const leaveFrom = `
    FROM leaves l
    JOIN users u ON u.id = l.user_id
    LEFT JOIN users a ON a.id = l.approved_by
  `

func scanLeave(row pgx.Row) (Leave, error) {
	var l Leave
	var start, end time.Time
	var owner Person
	var approverName, approverEmail, approverEmployeeID, approverDepartment *string
	if err := row.Scan(
		&l.ID, &l.UserID, &l.LeaveType, &start, &end, &l.TotalDays, &l.Reason, &l.Status,
		&l.AdminComments, &l.ApprovedBy, &l.ApprovedAt, &l.CreatedAt, &l.UpdatedAt,
		&owner.Name, &owner.Email, &owner.EmployeeID, &owner.Department,
		&approverName, &approverEmail, &approverEmployeeID, &approverDepartment,
	); err != nil {
		return Leave{}, err
	}
	l.StartDate = NewDate(start)
	l.EndDate = NewDate(end)
	owner.ID = l.UserID
	l.User = &owner
	if l.ApprovedBy != nil && approverName != nil {
		l.Approver = &Person{
			ID:         *l.ApprovedBy,
			Name:       *approverName,
			Email:      deref(approverEmail),
			EmployeeID: deref(approverEmployeeID),
			Department: deref(approverDepartment),
		}
	}
	return l, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func collectLeaves(rows pgx.Rows) ([]Leave, error) {
	defer rows.Close()
	leaves := []Leave{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// CreateExclusive serialises creates per owner with a transaction scoped
// advisory lock, so two concurrent overlapping requests cannot both pass
// the overlap check.
func (s *Store) CreateExclusive(ctx context.Context, ownerID string, build BuildFunc) (Leave, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Leave{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", ownerID); err != nil {
		return Leave{}, fmt.Errorf("acquire owner lock: %w", err)
	}
	active, err := activePeriods(ctx, tx, ownerID)
	if err != nil {
		return Leave{}, err
	}
	l, err := build(active)
	if err != nil {
		return Leave{}, err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO leaves (id, user_id, leave_type, start_date, end_date, total_days, reason, status, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
  `, l.ID, l.UserID, l.LeaveType, l.StartDate.Time(), l.EndDate.Time(), l.TotalDays, l.Reason, l.Status, l.CreatedAt); err != nil {
		return Leave{}, err
	}

	created, err := scanLeave(tx.QueryRow(ctx, "SELECT"+leaveColumns+leaveFrom+"WHERE l.id = $1", l.ID))
	if err != nil {
		return Leave{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Leave{}, err
	}
	return created, nil
}

func activePeriods(ctx context.Context, q querier.Querier, ownerID string) ([]Period, error) {
	rows, err := q.Query(ctx, `
    SELECT start_date, end_date
    FROM leaves
    WHERE user_id = $1 AND status IN ('pending', 'approved')
  `, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(&p.Start, &p.End); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Leave, error) {
	l, err := scanLeave(s.DB.QueryRow(ctx, "SELECT"+leaveColumns+leaveFrom+"WHERE l.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Leave{}, ErrNotFound
	}
	return l, err
}

func (s *Store) List(ctx context.Context, filter listing.Filter, page listing.Page) (ListResult, error) {
	where := []string{"1=1"}
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("l.status = $%d", len(args)))
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where = append(where, fmt.Sprintf("l.user_id = $%d", len(args)))
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leaves l"+clause, args...).Scan(&total); err != nil {
		return ListResult{}, err
	}

	query := "SELECT" + leaveColumns + leaveFrom + clause +
		fmt.Sprintf(" ORDER BY l.created_at DESC, l.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Limit(), page.Offset())

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, err
	}
	leaves, err := collectLeaves(rows)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Leaves: leaves, Total: total}, nil
}

// SaveDecision writes a decision only if the row is still pending.
func (s *Store) SaveDecision(ctx context.Context, l Leave) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leaves
    SET status = $2, admin_comments = $3, approved_by = $4, approved_at = $5, updated_at = $5
    WHERE id = $1 AND status = 'pending'
  `, l.ID, l.Status, l.AdminComments, l.ApprovedBy, l.ApprovedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStale
	}
	return nil
}

func (s *Store) DeletePending(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leaves WHERE id = $1 AND status = 'pending'", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStale
	}
	return nil
}

func (s *Store) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := s.DB.Query(ctx, "SELECT status, leave_type, created_at FROM leaves")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.Status, &sum.LeaveType, &sum.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) CountEmployees(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE role = 'employee'").Scan(&count)
	return count, err
}

func (s *Store) OwnerCounts(ctx context.Context, ownerID string) (OwnerCounts, error) {
	var counts OwnerCounts
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
      COUNT(1) FILTER (WHERE status = 'pending'),
      COUNT(1) FILTER (WHERE status = 'approved'),
      COUNT(1) FILTER (WHERE status = 'rejected')
    FROM leaves
    WHERE user_id = $1
  `, ownerID).Scan(&counts.TotalLeaves, &counts.PendingLeaves, &counts.ApprovedLeaves, &counts.RejectedLeaves)
	return counts, err
}

func (s *Store) RecentByOwner(ctx context.Context, ownerID string, limit int) ([]Leave, error) {
	rows, err := s.DB.Query(ctx, "SELECT"+leaveColumns+leaveFrom+`
    WHERE l.user_id = $1
    ORDER BY l.created_at DESC, l.id DESC
    LIMIT $2
  `, ownerID, limit)
	if err != nil {
		return nil, err
	}
	return collectLeaves(rows)
}

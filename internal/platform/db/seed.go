package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/platform/config"
)

const demoPassword = "password123"

type seedUser struct {
	name       string
	email      string
	department string
	employeeID string
	joined     string
}

var demoEmployees = []seedUser{
	{"John Doe", "employee1@example.com", "Human Resources", "EMP001", "2023-02-15"},
	{"Jane Smith", "jane.smith@example.com", "Marketing", "EMP002", "2023-03-10"},
	{"Mike Johnson", "mike.johnson@example.com", "Development", "EMP003", "2023-01-20"},
	{"Sarah Wilson", "sarah.wilson@example.com", "Finance", "EMP004", "2023-04-05"},
}

// Seed creates the configured admin and, when enabled, a handful of demo
// employees with leave history. It is safe to run on every start.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	logger := zap.L().Named("seed")

	adminID, err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	if adminID == "" {
		logger.Warn("admin seed skipped, SEED_ADMIN_PASSWORD is empty")
	}

	if !cfg.SeedDemoData {
		return nil
	}
	if adminID == "" {
		return errors.New("demo data requires a seeded admin")
	}
	now := time.Now().UTC()
	for i, employee := range demoEmployees {
		userID, created, err := ensureUser(ctx, pool, employee, auth.RoleEmployee, demoPassword)
		if err != nil {
			return err
		}
		if !created {
			continue
		}
		if err := seedLeaves(ctx, pool, userID, adminID, now, i%2 == 1); err != nil {
			return err
		}
		logger.Info("demo employee seeded", zap.String("email", employee.email))
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return "", nil
	}
	admin := seedUser{
		name:       "System Administrator",
		email:      strings.ToLower(strings.TrimSpace(email)),
		department: "IT Administration",
		employeeID: "ADMIN001",
		joined:     "2023-01-01",
	}
	id, err := renameAdmin(ctx, pool, admin)
	if err != nil || id != "" {
		return id, err
	}
	id, _, err = ensureUser(ctx, pool, admin, auth.RoleAdmin, password)
	return id, err
}

// renameAdmin moves an admin seeded under a previous SEED_ADMIN_EMAIL to the
// configured one. It returns "" when there is nothing to move.
func renameAdmin(ctx context.Context, pool *pgxpool.Pool, admin seedUser) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id::text FROM users WHERE email = $1", admin.email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	err = pool.QueryRow(ctx, `
    UPDATE users SET email = $1, updated_at = now()
    WHERE employee_id = $2 AND role = $3
    RETURNING id::text
  `, admin.email, admin.employeeID, auth.RoleAdmin).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	zap.L().Named("seed").Info("admin email updated", zap.String("email", admin.email))
	return id, nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, u seedUser, role auth.Role, password string) (string, bool, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id::text FROM users WHERE email = $1", u.email).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", false, err
	}
	joined, err := time.Parse("2006-01-02", u.joined)
	if err != nil {
		return "", false, err
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO users (name, email, password_hash, role, department, employee_id, joining_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id::text
  `, u.name, u.email, hash, role, u.department, u.employeeID, joined).Scan(&id)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

type seedLeave struct {
	leaveType string
	startIn   int
	days      int
	reason    string
	status    string
	comments  string
	decidedIn int
}

func seedLeaves(ctx context.Context, pool *pgxpool.Pool, userID, adminID string, now time.Time, withRejected bool) error {
	leaves := []seedLeave{
		{"annual", 10, 3, "Family vacation planned for the holidays.", "pending", "", 0},
		{"sick", -15, 3, "Flu and fever, need rest to recover.", "approved", "Approved. Get well soon!", -16},
	}
	if withRejected {
		leaves = append(leaves, seedLeave{"personal", 5, 3, "Personal matters to attend to.", "rejected", "Sorry, we have a critical project deadline during this period.", -2})
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, l := range leaves {
		start := today.AddDate(0, 0, l.startIn)
		end := start.AddDate(0, 0, l.days-1)
		var comments, approver, approvedAt any
		if l.status != "pending" {
			comments = l.comments
			approver = adminID
			approvedAt = now.AddDate(0, 0, l.decidedIn)
		}
		if _, err := pool.Exec(ctx, `
      INSERT INTO leaves (id, user_id, leave_type, start_date, end_date, total_days, reason, status, admin_comments, approved_by, approved_at)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    `, uuid.NewString(), userID, l.leaveType, start, end, l.days, l.reason, l.status, comments, approver, approvedAt); err != nil {
			return err
		}
	}
	return nil
}

package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"leavemgmt/internal/domain/auth"
	"leavemgmt/internal/domain/listing"
	"leavemgmt/internal/platform/querier"
)

const uniqueViolation = "23505"

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const userColumns = `id::text, name, email, role, department, employee_id, joining_date, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	var joining *time.Time
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Department, &u.EmployeeID, &joining, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	if joining != nil {
		formatted := joining.Format("2006-01-02")
		u.JoiningDate = &formatted
	}
	return u, nil
}

func (s *Store) List(ctx context.Context, filter listing.Filter, page listing.Page) (ListResult, error) {
	where := []string{"1=1"}
	args := []any{}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, filter.SearchPattern())
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR employee_id ILIKE $%d)", n, n, n))
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users"+clause, args...).Scan(&total); err != nil {
		return ListResult{}, err
	}

	query := "SELECT " + userColumns + " FROM users" + clause +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Limit(), page.Offset())

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return ListResult{}, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, err
	}
	return ListResult{Users: users, Total: total}, nil
}

func (s *Store) Get(ctx context.Context, id string) (User, error) {
	u, err := scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) Create(ctx context.Context, u NewUser) (User, error) {
	created, err := scanUser(s.DB.QueryRow(ctx, `
    INSERT INTO users (name, email, password_hash, role, department, employee_id, joining_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING `+userColumns,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Department, u.EmployeeID, u.JoiningDate))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "users_email_key":
				return User{}, ErrDuplicateEmail
			case "users_employee_id_key":
				return User{}, ErrDuplicateEmployeeID
			}
		}
		return User{}, err
	}
	return created, nil
}

func (s *Store) FindCredentials(ctx context.Context, email string) (auth.Credentials, error) {
	var creds auth.Credentials
	err := s.DB.QueryRow(ctx, `
    SELECT id::text, role, password_hash
    FROM users
    WHERE email = $1
  `, email).Scan(&creds.UserID, &creds.Role, &creds.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.Credentials{}, auth.ErrCredentialsNotFound
	}
	return creds, err
}

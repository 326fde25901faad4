package repositories

import (
	"context"
	"fmt"

	"github.com/adconnect/backend/internal/models"
	"github.com/google/uuid"
)

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, role, flagged, created_at`

func scanUser(row interface{ Scan(...any) error }, u *models.User) error {
	return row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Flagged, &u.CreatedAt)
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, flagged, created_at
	`, u.Username, u.Email, u.PasswordHash, u.Role).Scan(&u.ID, &u.Flagged, &u.CreatedAt)
	return translate(err)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err := scanUser(row, &u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	if err := scanUser(row, &u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Exists reports whether the username or email is already taken.
func (r *UserRepo) Exists(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE username = $1),
		       EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($2))
	`, username, email).Scan(&usernameTaken, &emailTaken)
	return usernameTaken, emailTaken, translate(err)
}

func (r *UserRepo) SetFlagged(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET flagged = true WHERE id = $1`, id)
	return requireAffected(tag, err)
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, translate(err)
}

type UserFilter struct {
	Role      *models.Role
	Flagged   *bool
	ExcludeID *uuid.UUID
	Limit     int
	Offset    int
}

func (r *UserRepo) List(ctx context.Context, f UserFilter) ([]models.User, error) {
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.Role != nil {
		where = append(where, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, *f.Role)
		argIdx++
	}
	if f.Flagged != nil {
		where = append(where, fmt.Sprintf("flagged = $%d", argIdx))
		args = append(args, *f.Flagged)
		argIdx++
	}
	if f.ExcludeID != nil {
		where = append(where, fmt.Sprintf("id <> $%d", argIdx))
		args = append(args, *f.ExcludeID)
		argIdx++
	}

	query := `SELECT ` + userColumns + ` FROM users` + whereClause(where) +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, clampLimit(f.Limit), clampOffset(f.Offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saasbase/saasbase/pkg/pg"
)

// DB is the slice of the central pool the storage layer needs.
// *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgStorage persists user accounts in the central database.
type pgStorage struct {
	db DB
}

// NewStorage creates the pgx-backed user storage.
func NewStorage(db DB) Storage {
	return &pgStorage{db: db}
}

const userColumns = `id, email, full_name, password_hash, is_active, created_at, updated_at`

func (s *pgStorage) CreateUser(ctx context.Context, u *User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Email, u.FullName, u.PasswordHash, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if pg.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *pgStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *pgStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *pgStorage) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *pgStorage) scanOne(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt)
	if pg.IsNotFoundError(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

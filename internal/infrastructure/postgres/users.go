package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/go-otp-auth/internal/domain"
)

const uniqueViolation = "23505"

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type UserRepo struct {
	db  DBTX
	now func() time.Time
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db, now: time.Now}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query :=
		`SELECT user_id, email, password_hash, first_name, last_name,
		        division, district, upazila, address, is_verified, created_at, updated_at
		 FROM users
		 WHERE email = $1`

	var (
		u                           domain.User
		division, district, upazila []byte
	)
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.UserID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&division, &district, &upazila, &u.Address, &u.Verified, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if u.Division, err = decodeRegion(division); err != nil {
		return nil, err
	}
	if u.District, err = decodeRegion(district); err != nil {
		return nil, err
	}
	if u.Upazila, err = decodeRegion(upazila); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u. A duplicate email maps to domain.ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query :=
		`INSERT INTO users (user_id, email, password_hash, first_name, last_name,
		                    division, district, upazila, address, is_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	division, err := encodeRegion(u.Division)
	if err != nil {
		return err
	}
	district, err := encodeRegion(u.District)
	if err != nil {
		return err
	}
	upazila, err := encodeRegion(u.Upazila)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		u.UserID, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		division, district, upazila, u.Address, u.Verified, u.CreatedAt, u.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SetVerified flips is_verified to true. Repeating it is harmless.
func (r *UserRepo) SetVerified(ctx context.Context, email string) error {
	query :=
		`UPDATE users SET is_verified = TRUE, updated_at = $2
		 WHERE email = $1`

	res, err := r.db.ExecContext(ctx, query, email, r.now().UTC())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return nil
}

func encodeRegion(r *domain.Region) (any, error) {
	if r == nil {
		return nil, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode region: %w", err)
	}
	return b, nil
}

func decodeRegion(b []byte) (*domain.Region, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var r domain.Region
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("decode region: %w", err)
	}
	return &r, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hongminglow/volcano-api/internal/models"
	"github.com/hongminglow/volcano-api/internal/storage"
)

const uniqueViolation = "23505"

// CreateUser inserts a new user row with no profile fields.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) error {
	const query = `INSERT INTO users (email, password_hash) VALUES ($1, $2);`
	if _, err := s.pool.Exec(ctx, query, email, passwordHash); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
	SELECT email, password_hash, first_name, last_name, dob, address, created_at
	FROM users
	WHERE email = $1;
	`
	row := s.pool.QueryRow(ctx, query, email)
	return scanUser(row)
}

// UpdateProfile overwrites every profile field of the user with email.
func (s *Store) UpdateProfile(ctx context.Context, email string, profile models.Profile) error {
	dob, err := time.Parse(models.DateLayout, profile.DOB)
	if err != nil {
		return fmt.Errorf("parse dob: %w", err)
	}

	const query = `
	UPDATE users
	SET first_name = $2, last_name = $3, dob = $4, address = $5
	WHERE email = $1;
	`
	tag, err := s.pool.Exec(ctx, query, email, profile.FirstName, profile.LastName, dob, profile.Address)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.DOB, &user.Address, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

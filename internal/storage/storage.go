package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/volcano-api/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations needed by the user handlers.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	UpdateProfile(ctx context.Context, email string, profile models.Profile) error
}

// VolcanoStore is the read-only volcano dataset.
type VolcanoStore interface {
	Countries(ctx context.Context) ([]string, error)
	ListVolcanoes(ctx context.Context, filter models.VolcanoFilter) ([]models.VolcanoSummary, error)
	// GetVolcano returns the record with id; population fields are loaded
	// only when withPopulation is set.
	GetVolcano(ctx context.Context, id int64, withPopulation bool) (models.Volcano, error)
}

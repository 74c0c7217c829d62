package facility

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("hospital not found")
	ErrInvalidInput = errors.New("invalid input")
)

type HospitalRepository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	GetByName(ctx context.Context, name string) (*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	// ListActive returns active hospitals ordered by name.
	ListActive(ctx context.Context) ([]*Hospital, error)
	CountActive(ctx context.Context) (int, error)
}

package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
)

var (
	ErrNotFound      = errors.New("doctor not found")
	ErrDuplicateCode = errors.New("doctor code already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByCode(ctx context.Context, code string) (*Doctor, error)
	List(ctx context.Context, f DoctorFilter, limit, offset int) ([]*Doctor, int, error)
	// ListAvailable returns every doctor whose status is available, in no
	// particular order.
	ListAvailable(ctx context.Context) ([]*Doctor, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status triage.Availability) error
	Count(ctx context.Context, f DoctorFilter) (int, error)
}

type ActivityRepository interface {
	Append(ctx context.Context, a *ActivityLog) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*ActivityLog, int, error)
}

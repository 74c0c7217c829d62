package emergency

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/domain/triage"
)

var (
	ErrNotFound         = errors.New("emergency case not found")
	ErrHomeCareNotFound = errors.New("home care request not found")
	ErrDuplicateToken   = errors.New("token already in use")
	ErrTokenExhausted   = errors.New("could not allocate a unique token")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidInput     = errors.New("invalid input")
)

type CaseRepository interface {
	// Create inserts c. It returns ErrDuplicateToken, leaving any enclosing
	// transaction usable, when c.Token is taken.
	Create(ctx context.Context, c *Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*Case, error)
	GetByToken(ctx context.Context, token string) (*Case, error)
	// UpdateProgress writes status and eta. No other column is touched.
	UpdateProgress(ctx context.Context, id uuid.UUID, status triage.Status, eta string) error
	// ListOpen returns every case in an open status.
	ListOpen(ctx context.Context) ([]*Case, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Case, error)
	// List pages through all cases, newest first.
	List(ctx context.Context, limit, offset int) ([]*Case, int, error)
	CountByStatus(ctx context.Context, statuses ...triage.Status) (int, error)
}

type HomeCareRepository interface {
	Create(ctx context.Context, r *HomeCareRequest) error
	GetByToken(ctx context.Context, token string) (*HomeCareRequest, error)
}

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/martinreed/routeboard/pkg/models"
)

var ErrNotFound = errors.New("resource not found")

// ErrInvalidTransition is returned when a terminal write targets a request
// that is no longer pending. The store is the ownership boundary for the
// pending -> {completed, failed} state machine: a record never leaves a
// terminal state regardless of caller behavior.
var ErrInvalidTransition = errors.New("request is not pending")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	CreateOptimizationRequest(ctx context.Context, req *models.OptimizationRequest) error
	GetOptimizationRequest(ctx context.Context, id uuid.UUID) (*models.OptimizationRequest, error)
	ListRecentOptimizationRequests(ctx context.Context, limit int) ([]*models.OptimizationRequest, error)
	CompleteOptimizationRequest(ctx context.Context, id uuid.UUID, result *models.RouteSet, processingTimeMs int64) error
	FailOptimizationRequest(ctx context.Context, id uuid.UUID, errorMessage string) error

	// MarkStaleRequestsFailed fails every pending request created before the
	// cutoff and returns how many were updated. Used by the reconciliation
	// sweep to unstick records stranded by a crash mid-computation.
	MarkStaleRequestsFailed(ctx context.Context, cutoff time.Time) (int, error)
}

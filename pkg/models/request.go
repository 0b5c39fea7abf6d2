package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RequestStatusPending   = "pending"
	RequestStatusCompleted = "completed"
	RequestStatusFailed    = "failed"
)

// OptimizationRequest is the persisted record of one optimization attempt.
// The API returns the full record on POST /api/v1/optimize; the dashboard
// polls GET /api/v1/optimize/{id} or lists recent requests for history.
//
// A request transitions pending -> completed or pending -> failed exactly
// once; both terminal states are final.
type OptimizationRequest struct {
	ID               uuid.UUID          `db:"id"                 json:"id"`
	RequestDate      time.Time          `db:"request_date"       json:"request_date"`
	JobsSnapshot     []Booking          `db:"jobs_snapshot"      json:"jobs_snapshot"`
	Params           OptimizationParams `db:"params"             json:"params"`
	Status           string             `db:"status"             json:"status"`
	Result           *RouteSet          `db:"result"             json:"result,omitempty"`
	ErrorMessage     *string            `db:"error_message"      json:"error_message,omitempty"`
	ProcessingTimeMs *int64             `db:"processing_time_ms" json:"processing_time_ms,omitempty"`
	RequestedBy      *string            `db:"requested_by"       json:"requested_by,omitempty"`
	CreatedAt        time.Time          `db:"created_at"         json:"created_at"`
	CompletedAt      *time.Time         `db:"completed_at"       json:"completed_at,omitempty"`
}

// Terminal reports whether the request has reached a final status.
func (r *OptimizationRequest) Terminal() bool {
	return r.Status == RequestStatusCompleted || r.Status == RequestStatusFailed
}

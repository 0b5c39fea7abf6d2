package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/martinreed/routeboard/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const requestColumns = `id, request_date, jobs_snapshot, params, status, result,
	error_message, processing_time_ms, requested_by, created_at, completed_at`

func (s *PostgresStore) CreateOptimizationRequest(ctx context.Context, req *models.OptimizationRequest) error {
	jobsJSON, err := json.Marshal(req.JobsSnapshot)
	if err != nil {
		return fmt.Errorf("marshal jobs snapshot: %w", err)
	}
	paramsJSON, err := json.Marshal(req.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO optimization_requests (id, request_date, jobs_snapshot, params, status, requested_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		req.ID, req.RequestDate, jobsJSON, paramsJSON, req.Status, req.RequestedBy, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("create optimization request: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetOptimizationRequest(ctx context.Context, id uuid.UUID) (*models.OptimizationRequest, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM optimization_requests WHERE id = $1`, id)

	req, err := scanOptimizationRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get optimization request: %w", err)
	}
	return req, nil
}

func (s *PostgresStore) ListRecentOptimizationRequests(ctx context.Context, limit int) ([]*models.OptimizationRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM optimization_requests ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list optimization requests: %w", err)
	}
	defer rows.Close()

	var reqs []*models.OptimizationRequest
	for rows.Next() {
		req, err := scanOptimizationRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan optimization request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (s *PostgresStore) CompleteOptimizationRequest(ctx context.Context, id uuid.UUID, result *models.RouteSet, processingTimeMs int64) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE optimization_requests
		 SET status = $2, result = $3, processing_time_ms = $4, completed_at = NOW()
		 WHERE id = $1 AND status = $5`,
		id, models.RequestStatusCompleted, resultJSON, processingTimeMs, models.RequestStatusPending)
	if err != nil {
		return fmt.Errorf("complete optimization request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.transitionError(ctx, id)
	}
	return nil
}

func (s *PostgresStore) FailOptimizationRequest(ctx context.Context, id uuid.UUID, errorMessage string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE optimization_requests
		 SET status = $2, error_message = $3, completed_at = NOW()
		 WHERE id = $1 AND status = $4`,
		id, models.RequestStatusFailed, errorMessage, models.RequestStatusPending)
	if err != nil {
		return fmt.Errorf("fail optimization request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.transitionError(ctx, id)
	}
	return nil
}

func (s *PostgresStore) MarkStaleRequestsFailed(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE optimization_requests
		 SET status = $1, error_message = 'request timed out before completing', completed_at = NOW()
		 WHERE status = $2 AND created_at < $3`,
		models.RequestStatusFailed, models.RequestStatusPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("mark stale requests failed: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// transitionError distinguishes a missing record from a terminal-state write
// after a guarded update matched no rows.
func (s *PostgresStore) transitionError(ctx context.Context, id uuid.UUID) error {
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT status FROM optimization_requests WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get request status: %w", err)
	}
	return fmt.Errorf("%w: status is %s", ErrInvalidTransition, status)
}

func scanOptimizationRequest(row pgx.Row) (*models.OptimizationRequest, error) {
	var (
		r          models.OptimizationRequest
		jobsJSON   []byte
		paramsJSON []byte
		resultJSON []byte
	)
	err := row.Scan(&r.ID, &r.RequestDate, &jobsJSON, &paramsJSON, &r.Status, &resultJSON,
		&r.ErrorMessage, &r.ProcessingTimeMs, &r.RequestedBy, &r.CreatedAt, &r.CompletedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(jobsJSON, &r.JobsSnapshot); err != nil {
		return nil, fmt.Errorf("unmarshal jobs snapshot: %w", err)
	}
	if err := json.Unmarshal(paramsJSON, &r.Params); err != nil {
		return nil, fmt.Errorf("unmarshal params: %w", err)
	}
	if resultJSON != nil {
		r.Result = &models.RouteSet{}
		if err := json.Unmarshal(resultJSON, r.Result); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
	}
	return &r, nil
}

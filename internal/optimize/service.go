package optimize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/martinreed/routeboard/internal/cache"
	"github.com/martinreed/routeboard/internal/store"
	"github.com/martinreed/routeboard/pkg/models"
)

const (
	statusCacheTTL     = 30 * time.Minute
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// Service owns the optimization request lifecycle. It is the only component
// that writes OptimizationRequest records: it persists the pending record,
// runs the clustering pipeline synchronously, and writes exactly one terminal
// state before returning.
type Service struct {
	clusterer Clusterer
	store     store.Store
	cache     cache.Cache
}

// NewService creates a new Service.
func NewService(clusterer Clusterer, st store.Store, ca cache.Cache) *Service {
	return &Service{clusterer: clusterer, store: st, cache: ca}
}

// Submit validates the batch, persists a pending request, and runs the
// pipeline to completion within the call. Validation failures are returned
// before anything is persisted. Once the pending record exists, a pipeline
// failure resolves to a terminal failed record rather than an error; only
// store failures propagate to the caller.
func (s *Service) Submit(ctx context.Context, bookings []models.Booking, params models.OptimizationParams, requestedBy string) (*models.OptimizationRequest, error) {
	if len(bookings) == 0 {
		return nil, ErrNoBookings
	}
	if params.MaxStopsPerRoute < 1 {
		return nil, ErrInvalidMaxStops
	}

	now := time.Now().UTC()
	req := &models.OptimizationRequest{
		ID:           uuid.New(),
		RequestDate:  now.Truncate(24 * time.Hour),
		JobsSnapshot: bookings,
		Params:       params,
		Status:       models.RequestStatusPending,
		CreatedAt:    now,
	}
	if requestedBy != "" {
		req.RequestedBy = &requestedBy
	}

	if err := s.store.CreateOptimizationRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("creating optimization request: %w", err)
	}
	_ = s.cache.SetRequestStatus(ctx, req.ID, models.RequestStatusPending, statusCacheTTL)

	start := time.Now()
	result, runErr := s.runPipeline(bookings, params)
	elapsed := time.Since(start).Milliseconds()

	if runErr != nil {
		slog.Error("optimization failed", "request_id", req.ID, "error", runErr)
		if err := s.store.FailOptimizationRequest(ctx, req.ID, runErr.Error()); err != nil {
			return nil, fmt.Errorf("recording optimization failure: %w", err)
		}
		_ = s.cache.SetRequestStatus(ctx, req.ID, models.RequestStatusFailed, statusCacheTTL)
	} else {
		if err := s.store.CompleteOptimizationRequest(ctx, req.ID, result, elapsed); err != nil {
			return nil, fmt.Errorf("recording optimization result: %w", err)
		}
		_ = s.cache.SetRequestStatus(ctx, req.ID, models.RequestStatusCompleted, statusCacheTTL)
		slog.Info("optimization completed",
			"request_id", req.ID,
			"routes", result.TotalRoutesCreated,
			"stops", result.TotalStops,
			"processing_ms", elapsed,
		)
	}

	// Return the terminal record the store committed.
	final, err := s.store.GetOptimizationRequest(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("reloading optimization request: %w", err)
	}
	return final, nil
}

// runPipeline executes clustering, route building, and metrics. A panic from
// malformed input is converted into an error so the caller can record a
// terminal failure for the request.
func (s *Service) runPipeline(bookings []models.Booking, params models.OptimizationParams) (result *models.RouteSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("optimization panic: %v", r)
		}
	}()

	groups := s.clusterer.Cluster(bookings, params.MaxStopsPerRoute)
	routes := BuildRoutes(groups)
	efficiency, savings := ComputeMetrics(routes)

	totalStops := 0
	for _, r := range routes {
		totalStops += len(r.Stops)
	}

	return &models.RouteSet{
		Routes:               routes,
		TotalRoutesCreated:   len(routes),
		TotalStops:           totalStops,
		EfficiencyScore:      efficiency,
		EstimatedTimeSavings: savings,
	}, nil
}

// GetRequest fetches one request record for the dashboard poll.
func (s *Service) GetRequest(ctx context.Context, id uuid.UUID) (*models.OptimizationRequest, error) {
	return s.store.GetOptimizationRequest(ctx, id)
}

// GetStatus returns just the request status, preferring the cache entry
// written at each transition so dashboard polls avoid a database read.
func (s *Service) GetStatus(ctx context.Context, id uuid.UUID) (string, error) {
	if status, ok, err := s.cache.GetRequestStatus(ctx, id); err == nil && ok {
		return status, nil
	}
	req, err := s.store.GetOptimizationRequest(ctx, id)
	if err != nil {
		return "", err
	}
	return req.Status, nil
}

// ListRecent returns the newest requests for the history display, ordered by
// creation time descending.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*models.OptimizationRequest, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	reqs, err := s.store.ListRecentOptimizationRequests(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing optimization requests: %w", err)
	}
	return reqs, nil
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/martinreed/routeboard/internal/api/response"
	"github.com/martinreed/routeboard/internal/optimize"
	"github.com/martinreed/routeboard/internal/store"
	"github.com/martinreed/routeboard/pkg/models"
)

// OptimizeService defines the interface the handlers depend on.
type OptimizeService interface {
	Submit(ctx context.Context, bookings []models.Booking, params models.OptimizationParams, requestedBy string) (*models.OptimizationRequest, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*models.OptimizationRequest, error)
	GetStatus(ctx context.Context, id uuid.UUID) (string, error)
	ListRecent(ctx context.Context, limit int) ([]*models.OptimizationRequest, error)
}

// NewSubmitHandler returns an http.HandlerFunc for POST /api/v1/optimize.
// The computation runs synchronously; the response carries the terminal
// record, so a failed optimization is still a 201 with status "failed".
func NewSubmitHandler(svc OptimizeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Bookings    []models.Booking          `json:"bookings"`
			Params      models.OptimizationParams `json:"params"`
			RequestedBy string                    `json:"requested_by"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		result, err := svc.Submit(r.Context(), req.Bookings, req.Params, req.RequestedBy)
		if err != nil {
			switch {
			case errors.Is(err, optimize.ErrNoBookings):
				response.Error(w, http.StatusBadRequest, "VALIDATION_FAILED",
					"At least one booking is required", nil)
			case errors.Is(err, optimize.ErrInvalidMaxStops):
				response.Error(w, http.StatusBadRequest, "VALIDATION_FAILED",
					"max_stops_per_route must be at least 1", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.Created(w, result)
	}
}

// NewGetRequestHandler returns an http.HandlerFunc for GET /api/v1/optimize/{requestID}.
func NewGetRequestHandler(svc OptimizeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseRequestID(w, r)
		if !ok {
			return
		}

		req, err := svc.GetRequest(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Request not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.JSON(w, req)
	}
}

// NewRequestStatusHandler returns an http.HandlerFunc for
// GET /api/v1/optimize/{requestID}/status, the lightweight polling endpoint.
func NewRequestStatusHandler(svc OptimizeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseRequestID(w, r)
		if !ok {
			return
		}

		status, err := svc.GetStatus(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Request not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.JSON(w, statusResponse{ID: id, Status: status})
	}
}

// NewListRequestsHandler returns an http.HandlerFunc for GET /api/v1/optimize.
func NewListRequestsHandler(svc OptimizeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"limit must be an integer", nil)
				return
			}
			limit = parsed
		}
		if limit < 1 {
			limit = 1
		}
		if limit > 100 {
			limit = 100
		}

		reqs, err := svc.ListRecent(r.Context(), limit)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		if reqs == nil {
			reqs = []*models.OptimizationRequest{}
		}

		response.List(w, reqs, response.ListMeta{Limit: limit, Count: len(reqs)})
	}
}

func parseRequestID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			"requestID must be a valid UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

type statusResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

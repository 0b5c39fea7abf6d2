package optimize

import "errors"

// Validation errors, returned by Submit before anything is persisted.
var (
	ErrNoBookings      = errors.New("no bookings to optimize")
	ErrInvalidMaxStops = errors.New("max_stops_per_route must be at least 1")
)

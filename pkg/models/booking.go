package models

// Booking is one collection job submitted for route optimization. The engine
// treats it as read-only input; it is captured verbatim in the request's
// jobs_snapshot and never mutated.
type Booking struct {
	ID           string `json:"id"`
	Address      string `json:"address"`
	Postcode     string `json:"postcode"`
	CustomerName string `json:"customer_name,omitempty"`
}

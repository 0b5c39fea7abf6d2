package models

// OptimizationParams is the per-request tuning configuration supplied by the
// caller. MaxStopsPerRoute is the only field the current heuristic consumes;
// the remaining fields are accepted and persisted with the request so a future
// solver can pick them up without a schema change.
type OptimizationParams struct {
	MaxStopsPerRoute        int     `json:"max_stops_per_route"`
	MaxRouteDistance        float64 `json:"max_route_distance"`
	StartLocation           string  `json:"start_location"`
	PrioritizeByDistance    bool    `json:"prioritize_by_distance"`
	ConsiderTrafficPatterns bool    `json:"consider_traffic_patterns"`
	VehicleCapacityLimits   bool    `json:"vehicle_capacity_limits"`
}

// Stop is one booking placed at a specific position within a route.
type Stop struct {
	StopOrder                int    `json:"stop_order"`
	JobID                    string `json:"job_id"`
	Address                  string `json:"address"`
	Postcode                 string `json:"postcode"`
	EstimatedDurationMinutes int    `json:"estimated_duration_minutes"`
	CustomerName             string `json:"customer_name"`
}

// Route is an ordered sequence of stops assigned to one vehicle trip.
// EstimatedTotalDuration is in minutes.
type Route struct {
	RouteName              string  `json:"route_name"`
	Stops                  []Stop  `json:"stops"`
	EstimatedTotalDuration int     `json:"estimated_total_duration"`
	EstimatedDistanceKm    float64 `json:"estimated_distance_km"`
	OptimizationScore      float64 `json:"optimization_score"`
}

// RouteSet is the result payload of a completed optimization request.
type RouteSet struct {
	Routes               []Route `json:"routes"`
	TotalRoutesCreated   int     `json:"total_routes_created"`
	TotalStops           int     `json:"total_stops"`
	EfficiencyScore      float64 `json:"efficiency_score"`
	EstimatedTimeSavings float64 `json:"estimated_time_savings"`
}

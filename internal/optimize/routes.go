package optimize

import (
	"fmt"

	"github.com/martinreed/routeboard/pkg/models"
)

const (
	// Fixed per-stop estimates used by the duration and distance model.
	stopServiceMinutes     = 30
	interStopTravelMinutes = 15
	estimatedKmPerStop     = 5.0

	// Baseline for time savings: minutes per booking when driven as a
	// separate unoptimized trip.
	baselineMinutesPerTrip = 120

	unknownCustomerName = "Unknown"
)

// BuildRoutes converts clustered booking groups into named routes with
// per-stop and per-route estimates. Names, estimates, and scores depend only
// on the input, so identical groups always yield identical routes.
func BuildRoutes(groups [][]models.Booking) []models.Route {
	routes := make([]models.Route, 0, len(groups))

	for i, group := range groups {
		stops := make([]models.Stop, 0, len(group))
		for p, b := range group {
			name := b.CustomerName
			if name == "" {
				name = unknownCustomerName
			}
			stops = append(stops, models.Stop{
				StopOrder:                p + 1,
				JobID:                    b.ID,
				Address:                  b.Address,
				Postcode:                 b.Postcode,
				EstimatedDurationMinutes: stopServiceMinutes,
				CustomerName:             name,
			})
		}

		n := len(group)
		duration := n * stopServiceMinutes
		if n > 1 {
			duration += (n - 1) * interStopTravelMinutes
		}
		distance := float64(n) * estimatedKmPerStop

		routes = append(routes, models.Route{
			RouteName:              fmt.Sprintf("Optimized Route %d", i+1),
			Stops:                  stops,
			EstimatedTotalDuration: duration,
			EstimatedDistanceKm:    distance,
			OptimizationScore:      routeScore(distance, duration),
		})
	}

	return routes
}

// routeScore rates a route in [0,100] as the share of its estimated duration
// spent servicing stops rather than travelling between them. Estimated
// distance maps back to service minutes through the fixed per-stop model, so
// the score is a pure function of the route's own estimates: a single-stop
// route scores 100 and the score falls toward 66 as travel buffers stack up.
func routeScore(distanceKm float64, durationMinutes int) float64 {
	if durationMinutes <= 0 {
		return 0
	}
	serviceMinutes := distanceKm / estimatedKmPerStop * stopServiceMinutes
	score := serviceMinutes / float64(durationMinutes) * 100
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

package optimize

import "github.com/martinreed/routeboard/pkg/models"

// ComputeMetrics derives the batch-level efficiency score and estimated time
// savings (in minutes) from the built routes. An empty route set yields zero
// for both rather than dividing by zero; the efficiency score is clamped to
// [0,100].
func ComputeMetrics(routes []models.Route) (efficiencyScore, timeSavingsMinutes float64) {
	totalStops := 0
	totalDistance := 0.0
	optimizedMinutes := 0

	for _, r := range routes {
		totalStops += len(r.Stops)
		totalDistance += r.EstimatedDistanceKm
		optimizedMinutes += r.EstimatedTotalDuration
	}

	if totalDistance > 0 {
		efficiencyScore = float64(totalStops) / totalDistance * 10
		if efficiencyScore > 100 {
			efficiencyScore = 100
		}
	}

	timeSavingsMinutes = float64(totalStops*baselineMinutesPerTrip - optimizedMinutes)
	if timeSavingsMinutes < 0 {
		timeSavingsMinutes = 0
	}

	return efficiencyScore, timeSavingsMinutes
}

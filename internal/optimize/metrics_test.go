package optimize

import (
	"testing"

	"github.com/martinreed/routeboard/pkg/models"
)

func routeOfSize(n int) models.Route {
	stops := make([]models.Stop, n)
	for i := range stops {
		stops[i] = models.Stop{StopOrder: i + 1, EstimatedDurationMinutes: stopServiceMinutes}
	}
	duration := n * stopServiceMinutes
	if n > 1 {
		duration += (n - 1) * interStopTravelMinutes
	}
	return models.Route{
		Stops:                  stops,
		EstimatedTotalDuration: duration,
		EstimatedDistanceKm:    float64(n) * estimatedKmPerStop,
	}
}

func TestComputeMetrics_ThreeRoutes(t *testing.T) {
	// Routes of sizes 2, 2, 1: total distance 25 km, optimized time 180 min,
	// baseline 5*120 = 600 min.
	routes := []models.Route{routeOfSize(2), routeOfSize(2), routeOfSize(1)}

	efficiency, savings := ComputeMetrics(routes)

	if efficiency != 2.0 {
		t.Errorf("efficiency = %v, want 2.0", efficiency)
	}
	if savings != 420 {
		t.Errorf("time savings = %v, want 420", savings)
	}
}

func TestComputeMetrics_EmptyRouteSet(t *testing.T) {
	efficiency, savings := ComputeMetrics(nil)
	if efficiency != 0 {
		t.Errorf("efficiency for no routes = %v, want 0", efficiency)
	}
	if savings != 0 {
		t.Errorf("savings for no routes = %v, want 0", savings)
	}
}

func TestComputeMetrics_EfficiencyClamped(t *testing.T) {
	// A route claiming 5 stops in 0.1 km would score (5/0.1)*10 = 500 raw.
	routes := []models.Route{{
		Stops:                  make([]models.Stop, 5),
		EstimatedTotalDuration: 150,
		EstimatedDistanceKm:    0.1,
	}}

	efficiency, _ := ComputeMetrics(routes)
	if efficiency != 100 {
		t.Errorf("efficiency = %v, want clamped to 100", efficiency)
	}
}

func TestComputeMetrics_SavingsNeverNegative(t *testing.T) {
	// An optimized duration above the baseline must floor at zero.
	routes := []models.Route{{
		Stops:                  make([]models.Stop, 1),
		EstimatedTotalDuration: 500,
		EstimatedDistanceKm:    5,
	}}

	_, savings := ComputeMetrics(routes)
	if savings != 0 {
		t.Errorf("savings = %v, want 0", savings)
	}
}

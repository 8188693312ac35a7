package analysis

import (
	"math"
	"sort"

	"github.com/nzvengeance/skylog/internal/economy"
	"github.com/nzvengeance/skylog/internal/flight"
	"github.com/nzvengeance/skylog/internal/models"
)

// groundedMood is the mood at or below which a plane will not take off again.
const groundedMood = 10

// AnalyzeFleet summarizes the fleet and estimates what each flown route earns.
func AnalyzeFleet(planes []models.Plane, routes []models.Route, lookup flight.ModelLookup) *models.FleetAnalysis {
	analysis := &models.FleetAnalysis{
		TotalPlanes:  len(planes),
		StatusCounts: buildStatusCounts(planes),
		Grounded:     []string{},
		Unassigned:   []string{},
	}

	buildOverview(analysis, planes)
	buildRouteCoverage(analysis, routes)
	analysis.RouteEstimates = buildRouteEstimates(planes, routes, lookup)
	if len(analysis.RouteEstimates) > 0 {
		best := analysis.RouteEstimates[0]
		analysis.BestRoute = &best
	}

	return analysis
}

func buildStatusCounts(planes []models.Plane) map[models.FlightStatus]int {
	counts := make(map[models.FlightStatus]int)
	for _, p := range planes {
		counts[p.FlightStatus]++
	}
	return counts
}

func buildOverview(a *models.FleetAnalysis, planes []models.Plane) {
	var mood, bond float64
	for _, p := range planes {
		mood += p.Mood
		bond += p.Bond
		a.TotalFlights += p.TotalFlights
		a.TotalDistance += p.TotalDistance

		switch {
		case p.AssignedRoute == "":
			a.Unassigned = append(a.Unassigned, p.InstanceID)
		case isOnGround(p.FlightStatus) && p.Mood <= groundedMood:
			a.Grounded = append(a.Grounded, p.InstanceID)
		}
	}
	if len(planes) > 0 {
		a.AverageMood = round1(mood / float64(len(planes)))
		a.AverageBond = round1(bond / float64(len(planes)))
	}
	sort.Strings(a.Unassigned)
	sort.Strings(a.Grounded)
}

func buildRouteCoverage(a *models.FleetAnalysis, routes []models.Route) {
	for _, r := range routes {
		if r.AssignedPlaneID != "" {
			a.AssignedRoutes++
		} else {
			a.OpenRoutes++
		}
	}
}

// buildRouteEstimates prices every assigned route at its plane's current
// revenue, best earner per hour first.
func buildRouteEstimates(planes []models.Plane, routes []models.Route, lookup flight.ModelLookup) []models.RouteEstimate {
	byID := make(map[string]models.Plane, len(planes))
	for _, p := range planes {
		byID[p.InstanceID] = p
	}

	estimates := []models.RouteEstimate{}
	for _, r := range routes {
		p, ok := byID[r.AssignedPlaneID]
		if !ok || r.FlightDuration <= 0 {
			continue
		}
		m, ok := lookup.PlaneModel(p.ModelID)
		if !ok {
			continue
		}
		trip := economy.Revenue(r, p, m)
		estimates = append(estimates, models.RouteEstimate{
			RouteID:        r.ID,
			PlaneID:        p.InstanceID,
			RevenuePerTrip: trip,
			RevenuePerHour: round1(float64(trip) * 60 / float64(r.FlightDuration)),
		})
	}

	sort.SliceStable(estimates, func(i, j int) bool {
		if estimates[i].RevenuePerHour != estimates[j].RevenuePerHour {
			return estimates[i].RevenuePerHour > estimates[j].RevenuePerHour
		}
		return estimates[i].RouteID < estimates[j].RouteID
	})
	return estimates
}

func isOnGround(s models.FlightStatus) bool {
	return s == models.StatusIdle || s == models.StatusArrived
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

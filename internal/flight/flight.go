// Package flight is the flight lifecycle state machine. It advances planes
// through taxiing, airborne, landing and arrived, resolves arrivals into
// revenue, experience, mood and bond, and batches offline time into whole
// flights. It never touches player-level state.
package flight

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nzvengeance/skylog/internal/economy"
	"github.com/nzvengeance/skylog/internal/models"
)

const (
	taxiThreshold    = 0.08
	landingThreshold = 0.92

	// GroundedMood is the mood at or below which an arrived plane stays on
	// the ground instead of restarting.
	GroundedMood = 10.0

	offlineRevenueFactor = 0.8
	offlineMoodPerFlight = 3.0
	offlineMoodFloor     = 10.0

	// progressEpsilon absorbs float drift from summing many small ticks.
	progressEpsilon = 1e-9
)

// ModelLookup resolves a plane model id against the reference catalog.
type ModelLookup interface {
	PlaneModel(id string) (models.PlaneModel, bool)
}

// DeriveStatus maps in-flight progress to a status. Completion at p >= 1 is
// handled by Complete, not here.
func DeriveStatus(progress float64) models.FlightStatus {
	switch {
	case progress < taxiThreshold:
		return models.StatusTaxiing
	case progress > landingThreshold:
		return models.StatusLanding
	default:
		return models.StatusAirborne
	}
}

// Start puts the plane on the runway. It does not check for an assigned
// route; the tick never advances a plane without one.
func Start(p *models.Plane, now time.Time) {
	departed := now
	p.FlightStatus = models.StatusTaxiing
	p.FlightProgress = 0
	p.FlightDepartedAt = &departed
}

// CanRestart reports whether an idle or arrived plane may take off again.
func CanRestart(p models.Plane) bool {
	if p.AssignedRoute == "" || p.Mood <= GroundedMood {
		return false
	}
	return p.FlightStatus == models.StatusIdle || p.FlightStatus == models.StatusArrived
}

// Complete resolves an arrival. Revenue uses the stats the plane had before
// the flight; the plane is then updated in one step.
func Complete(p *models.Plane, route models.Route, model models.PlaneModel) models.FlightResult {
	revenue := economy.Revenue(route, *p, model)
	moodDelta := economy.MoodDelta(route.FlightDuration)
	bondGain := economy.BondGain(p.Bond)
	expGain := economy.ExpGain(route.Distance)

	level, exp, gained := economy.ApplyLevelUps(p.Level, p.Exp+expGain, economy.PlaneExpForLevel)

	p.FlightStatus = models.StatusArrived
	p.FlightProgress = 1
	p.FlightDepartedAt = nil
	p.TotalFlights++
	p.TotalDistance += route.Distance
	p.Mood = economy.Clamp(p.Mood+moodDelta, 0, economy.MaxMood)
	p.Bond = economy.Clamp(p.Bond+bondGain, 0, economy.MaxBond)
	p.Exp = exp
	p.Level = level

	return models.FlightResult{
		PlaneID:   p.InstanceID,
		RouteID:   route.ID,
		Revenue:   revenue,
		ExpGained: expGain,
		Distance:  route.Distance,
		Leveled:   gained > 0,
	}
}

// Tick advances every plane by delta against one snapshot of the route table
// and returns a result for each flight that landed. Planes are mutated in
// place.
func Tick(planes []models.Plane, routes map[string]models.Route, lookup ModelLookup, delta time.Duration, now time.Time) []models.FlightResult {
	if delta <= 0 {
		return nil
	}

	var completed []models.FlightResult
	for i := range planes {
		p := &planes[i]

		if p.AssignedRoute == "" || p.FlightStatus == models.StatusIdle {
			continue
		}
		if p.FlightStatus == models.StatusArrived {
			if p.Mood > GroundedMood {
				Start(p, now)
			}
			continue
		}

		route, ok := routes[p.AssignedRoute]
		if !ok {
			log.Warn().Str("plane_id", p.InstanceID).Str("route_id", p.AssignedRoute).Msg("Assigned route not found, skipping plane")
			continue
		}
		if route.FlightDuration <= 0 {
			log.Warn().Str("route_id", route.ID).Int("flight_duration", route.FlightDuration).Msg("Route has no flight time, skipping plane")
			continue
		}
		model, ok := lookup.PlaneModel(p.ModelID)
		if !ok {
			log.Warn().Str("plane_id", p.InstanceID).Str("model_id", p.ModelID).Msg("Plane model not found, skipping plane")
			continue
		}

		flightTime := time.Duration(route.FlightDuration) * time.Minute
		progress := p.FlightProgress + float64(delta)/float64(flightTime)
		if progress >= 1-progressEpsilon {
			completed = append(completed, Complete(p, route, model))
			continue
		}
		p.FlightProgress = progress
		p.FlightStatus = DeriveStatus(progress)
	}
	return completed
}

// CatchUp converts an absence into whole flights without simulating the
// progress in between. Each flying plane earns its current per-flight
// revenue times the flight count at the offline rate; experience for those
// flights is applied in one levelling pass. Planes without a route rest and
// recover mood instead.
func CatchUp(planes []models.Plane, routes map[string]models.Route, lookup ModelLookup, offline time.Duration) models.OfflineResult {
	result := models.OfflineResult{
		PlaneFlights: make(map[string]int),
		PlaneCoins:   make(map[string]int),
	}
	if offline <= 0 {
		return result
	}

	for i := range planes {
		p := &planes[i]

		if p.AssignedRoute == "" {
			p.Mood = economy.Recover(p.Mood, p.Personality, offline)
			continue
		}

		route, ok := routes[p.AssignedRoute]
		if !ok {
			log.Warn().Str("plane_id", p.InstanceID).Str("route_id", p.AssignedRoute).Msg("Assigned route not found during catch-up")
			continue
		}
		if route.FlightDuration <= 0 {
			continue
		}
		model, ok := lookup.PlaneModel(p.ModelID)
		if !ok {
			log.Warn().Str("plane_id", p.InstanceID).Str("model_id", p.ModelID).Msg("Plane model not found during catch-up")
			continue
		}

		flights := int(offline / (time.Duration(route.FlightDuration) * time.Minute))
		if flights <= 0 {
			continue
		}

		perFlight := economy.Revenue(route, *p, model)
		coins := int(math.Round(float64(perFlight) * float64(flights) * offlineRevenueFactor))

		p.TotalFlights += flights
		p.TotalDistance += route.Distance * flights
		p.Mood = max(offlineMoodFloor, p.Mood-float64(flights)*offlineMoodPerFlight)
		p.Level, p.Exp, _ = economy.ApplyLevelUps(p.Level, p.Exp+economy.ExpGain(route.Distance)*flights, economy.PlaneExpForLevel)

		result.CoinsEarned += coins
		result.FlightsCompleted += flights
		result.PlaneFlights[p.InstanceID] = flights
		result.PlaneCoins[p.InstanceID] = coins
	}
	return result
}

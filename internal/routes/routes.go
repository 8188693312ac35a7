// Package routes derives the point-to-point route network between unlocked
// cities. Every value it produces is deterministic in the city pair.
package routes

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/nzvengeance/skylog/internal/models"
)

const (
	earthRadiusKm   = 6371.0
	cruiseSpeedKmh  = 850.0
	groundOverhead  = 30 // minutes for taxi, takeoff and landing
	sameCountryBump = 0.2
)

// CityLookup resolves a city id against the reference catalog.
type CityLookup interface {
	City(id string) (models.City, bool)
}

// Haversine returns the great-circle distance in whole kilometres.
func Haversine(lat1, lng1, lat2, lng2 float64) int {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return int(math.Round(earthRadiusKm * c))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// ID canonicalizes an unordered city pair.
func ID(cityA, cityB string) string {
	if cityB < cityA {
		cityA, cityB = cityB, cityA
	}
	return cityA + "-" + cityB
}

// FlightDuration is the block time in minutes at average cruise speed.
func FlightDuration(distanceKm int) int {
	return int(math.Round(float64(distanceKm)/cruiseSpeedKmh*60)) + groundOverhead
}

// BaseRevenue is the unmodified per-flight revenue of a route.
func BaseRevenue(distanceKm int, demand float64) int {
	return int(math.Round(math.Sqrt(float64(distanceKm)) * 2 * (0.5 + demand*1.0)))
}

// Demand maps the city pair into [0.3, 0.8), plus a domestic bonus, capped at 1.
func Demand(a, b models.City) float64 {
	first, second := a.ID, b.ID
	if second < first {
		first, second = second, first
	}
	d := 0.3 + float64(pairHash(first+second)%50)/100
	if a.Country == b.Country {
		d += sameCountryBump
	}
	return math.Min(1, d)
}

// pairHash is a 31-multiplier string hash over UTF-16 code units with 32-bit
// wraparound, returned as a non-negative value.
func pairHash(s string) int64 {
	var h int32
	for _, r := range s {
		if r > 0xFFFF {
			r -= 0x10000
			h = h*31 + int32(0xD800+(r>>10))
			h = h*31 + int32(0xDC00+(r&0x3FF))
			continue
		}
		h = h*31 + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// Generate builds one route for every unordered pair of distinct unlocked
// cities. Unknown city ids are logged and skipped; duplicates are ignored.
func Generate(cities CityLookup, unlocked []string) []models.Route {
	resolved := make([]models.City, 0, len(unlocked))
	seen := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		if seen[id] {
			continue
		}
		seen[id] = true
		city, ok := cities.City(id)
		if !ok {
			log.Warn().Str("city_id", id).Msg("Unknown city in unlocked set, skipping")
			continue
		}
		resolved = append(resolved, city)
	}
	sort.Slice(resolved, func(i, j int) bool { return resolved[i].ID < resolved[j].ID })

	out := make([]models.Route, 0, len(resolved)*(len(resolved)-1)/2)
	for i := 0; i < len(resolved); i++ {
		for j := i + 1; j < len(resolved); j++ {
			a, b := resolved[i], resolved[j]
			dist := Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
			demand := Demand(a, b)
			out = append(out, models.Route{
				ID:             ID(a.ID, b.ID),
				From:           a.ID,
				To:             b.ID,
				Distance:       dist,
				FlightDuration: FlightDuration(dist),
				BaseRevenue:    BaseRevenue(dist, demand),
				Demand:         demand,
				Unlocked:       true,
			})
		}
	}

	return out
}

// Merge carries assignment pointers from old onto fresh for every route id
// present in both. Assignments on routes that disappeared are dropped.
func Merge(old, fresh []models.Route) []models.Route {
	assigned := make(map[string]string, len(old))
	for _, r := range old {
		if r.AssignedPlaneID != "" {
			assigned[r.ID] = r.AssignedPlaneID
		}
	}
	out := make([]models.Route, len(fresh))
	for i, r := range fresh {
		r.AssignedPlaneID = assigned[r.ID]
		out[i] = r
	}
	return out
}

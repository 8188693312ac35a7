// Package economy holds the pure per-flight formulas: revenue, mood and bond
// changes, experience and level thresholds, and idle mood recovery.
package economy

import (
	"math"
	"time"

	"github.com/nzvengeance/skylog/internal/models"
)

const (
	MaxMood = 100.0
	MaxBond = 100.0
)

// Revenue is the coins earned by one flight, rounded once at the end.
func Revenue(route models.Route, plane models.Plane, model models.PlaneModel) int {
	r := float64(route.BaseRevenue)
	r *= 1 + float64(model.Capacity)/500
	r *= model.FuelEfficiency
	r *= 1 + plane.Mood/100*0.3
	r *= 1 + plane.Bond/100*0.2
	r *= 1 + float64(plane.Level-1)*0.05
	if r < 0 {
		return 0
	}
	return int(math.Round(r))
}

// MoodDelta is the (non-positive) mood change for a flight of the given length.
func MoodDelta(durationMinutes int) float64 {
	switch {
	case durationMinutes < 60:
		return -2
	case durationMinutes < 180:
		return -5
	case durationMinutes < 360:
		return -8
	default:
		return -12
	}
}

// BondGain shrinks as the bond deepens.
func BondGain(bond float64) float64 {
	switch {
	case bond < 30:
		return 3
	case bond < 60:
		return 2
	case bond < 90:
		return 1
	default:
		return 0.5
	}
}

func ExpGain(distanceKm int) int {
	return int(math.Round(float64(distanceKm)/100 + 10))
}

// PlaneExpForLevel is the experience a plane needs to leave level L.
func PlaneExpForLevel(level int) int {
	l := float64(level)
	return int(math.Floor(50*l + 10*l*l))
}

// PlayerExpForLevel is the experience a player needs to leave level L.
func PlayerExpForLevel(level int) int {
	l := float64(level)
	return int(math.Floor(80*l + 20*l*l))
}

// ApplyLevelUps subtracts thresholds until exp no longer covers the current
// level, returning the new level, the remaining exp and the levels gained.
func ApplyLevelUps(level, exp int, threshold func(int) int) (int, int, int) {
	if level < 1 {
		level = 1
	}
	gained := 0
	for {
		need := threshold(level)
		if need <= 0 || exp < need {
			break
		}
		exp -= need
		level++
		gained++
	}
	return level, exp, gained
}

// MoodRecoveryRate is the idle mood recovered per hour for a personality.
func MoodRecoveryRate(p models.Personality) float64 {
	switch p {
	case models.PersonalityDreamer:
		return 8
	case models.PersonalityGentle:
		return 7
	case models.PersonalitySteady, models.PersonalityShy:
		return 6
	case models.PersonalityProud:
		return 5
	case models.PersonalityAdventurer:
		return 4
	default:
		return 5
	}
}

// Recover returns mood after resting for elapsed, capped at MaxMood.
func Recover(mood float64, p models.Personality, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return mood
	}
	return Clamp(mood+MoodRecoveryRate(p)*elapsed.Hours(), 0, MaxMood)
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

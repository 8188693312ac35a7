// Package catalog holds the static reference data for SKYLOG: cities, plane
// models, achievement definitions and the starter fleet. All tables are
// read-only; lookups return copies.
package catalog

import (
	"time"

	"github.com/nzvengeance/skylog/internal/models"
)

// Catalog indexes the reference tables by id.
type Catalog struct {
	cities       []models.City
	planeModels  []models.PlaneModel
	achievements []models.AchievementDef
	cityByID     map[string]models.City
	modelByID    map[string]models.PlaneModel
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(cities, planeModels, achievements)
}

// New builds a catalog over the given tables.
func New(cs []models.City, ms []models.PlaneModel, as []models.AchievementDef) *Catalog {
	c := &Catalog{
		cities:       cs,
		planeModels:  ms,
		achievements: as,
		cityByID:     make(map[string]models.City, len(cs)),
		modelByID:    make(map[string]models.PlaneModel, len(ms)),
	}
	for _, city := range cs {
		c.cityByID[city.ID] = city
	}
	for _, m := range ms {
		c.modelByID[m.ID] = m
	}
	return c
}

func (c *Catalog) City(id string) (models.City, bool) {
	city, ok := c.cityByID[id]
	return city, ok
}

func (c *Catalog) PlaneModel(id string) (models.PlaneModel, bool) {
	m, ok := c.modelByID[id]
	return m, ok
}

func (c *Catalog) Cities() []models.City {
	return append([]models.City(nil), c.cities...)
}

func (c *Catalog) PlaneModels() []models.PlaneModel {
	return append([]models.PlaneModel(nil), c.planeModels...)
}

func (c *Catalog) Achievements() []models.AchievementDef {
	return append([]models.AchievementDef(nil), c.achievements...)
}

// StarterPlanes returns the three planes every new game begins with.
func StarterPlanes(now time.Time) []models.Plane {
	starters := []struct {
		id, model, nickname, color string
		personality                models.Personality
		mood                       float64
	}{
		{"starter-luna", "crj-200", "Luna", "#B8A9E8", models.PersonalityDreamer, 80},
		{"starter-breeze", "erj-175", "Breeze", "#7BC4E8", models.PersonalitySteady, 70},
		{"starter-dash", "arj21", "Dash", "#F0A500", models.PersonalityAdventurer, 90},
	}

	planes := make([]models.Plane, 0, len(starters))
	for _, s := range starters {
		planes = append(planes, models.Plane{
			InstanceID:   s.id,
			ModelID:      s.model,
			Nickname:     s.nickname,
			Personality:  s.personality,
			Level:        1,
			Mood:         s.mood,
			Bond:         30,
			FlightStatus: models.StatusIdle,
			Diaries:      []models.Diary{},
			AcquiredAt:   now,
			Color:        s.color,
		})
	}
	return planes
}

// StarterCities are unlocked for a brand new player.
var StarterCities = []string{"beijing", "shanghai"}

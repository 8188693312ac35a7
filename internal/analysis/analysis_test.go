package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzvengeance/skylog/internal/models"
)

type lookup map[string]models.PlaneModel

func (l lookup) PlaneModel(id string) (models.PlaneModel, bool) {
	m, ok := l[id]
	return m, ok
}

var testModels = lookup{
	"jet": {ID: "jet", Capacity: 70, FuelEfficiency: 0.9},
}

func TestAnalyzeFleet(t *testing.T) {
	planes := []models.Plane{
		{InstanceID: "p1", ModelID: "jet", Level: 1, Mood: 80, Bond: 30, TotalFlights: 4, TotalDistance: 400, AssignedRoute: "a-b", FlightStatus: models.StatusAirborne},
		{InstanceID: "p2", ModelID: "jet", Level: 1, Mood: 8, Bond: 50, TotalFlights: 10, TotalDistance: 2000, AssignedRoute: "a-c", FlightStatus: models.StatusArrived},
		{InstanceID: "p3", ModelID: "jet", Level: 1, Mood: 60, Bond: 10, FlightStatus: models.StatusIdle},
	}
	routes := []models.Route{
		{ID: "a-b", FlightDuration: 60, BaseRevenue: 100, AssignedPlaneID: "p1"},
		{ID: "a-c", FlightDuration: 120, BaseRevenue: 100, AssignedPlaneID: "p2"},
		{ID: "b-c", FlightDuration: 90, BaseRevenue: 200},
	}

	a := AnalyzeFleet(planes, routes, testModels)
	assert.Equal(t, 3, a.TotalPlanes)
	assert.Equal(t, 1, a.StatusCounts[models.StatusAirborne])
	assert.Equal(t, 1, a.StatusCounts[models.StatusArrived])
	assert.Equal(t, 1, a.StatusCounts[models.StatusIdle])
	assert.Equal(t, []string{"p2"}, a.Grounded)
	assert.Equal(t, []string{"p3"}, a.Unassigned)
	assert.InDelta(t, 49.3, a.AverageMood, 1e-9)
	assert.InDelta(t, 30, a.AverageBond, 1e-9)
	assert.Equal(t, 14, a.TotalFlights)
	assert.Equal(t, 2400, a.TotalDistance)
	assert.Equal(t, 2, a.AssignedRoutes)
	assert.Equal(t, 1, a.OpenRoutes)

	require.Len(t, a.RouteEstimates, 2)
	require.NotNil(t, a.BestRoute)
	// 135 coins per 60 minute trip
	assert.Equal(t, "a-b", a.BestRoute.RouteID)
	assert.Equal(t, 135, a.BestRoute.RevenuePerTrip)
	assert.InDelta(t, 135, a.BestRoute.RevenuePerHour, 1e-9)
}

func TestAnalyzeEmptyFleet(t *testing.T) {
	a := AnalyzeFleet(nil, nil, testModels)
	assert.Zero(t, a.TotalPlanes)
	assert.Zero(t, a.AverageMood)
	assert.Nil(t, a.BestRoute)
	assert.Empty(t, a.RouteEstimates)
	assert.NotNil(t, a.Grounded)
}

func TestAnalyzeSkipsUnknownModel(t *testing.T) {
	planes := []models.Plane{{InstanceID: "p1", ModelID: "ghost", AssignedRoute: "a-b", FlightStatus: models.StatusTaxiing}}
	routes := []models.Route{{ID: "a-b", FlightDuration: 60, BaseRevenue: 100, AssignedPlaneID: "p1"}}
	a := AnalyzeFleet(planes, routes, testModels)
	assert.Empty(t, a.RouteEstimates)
}

package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzvengeance/skylog/internal/catalog"
	"github.com/nzvengeance/skylog/internal/models"
)

var testNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	r := NewRepository(catalog.Default())
	r.SetClock(func() time.Time { return testNow })
	for _, p := range catalog.StarterPlanes(testNow) {
		require.NoError(t, r.AddPlane(p))
	}
	r.RefreshRoutes([]string{"beijing", "shanghai", "tokyo"})
	return r
}

// assertBindings checks that plane and route pointers agree and are 1:1.
func assertBindings(t *testing.T, r *Repository) {
	t.Helper()
	planes := r.Planes()
	byRoute := map[string]string{}
	for _, rt := range r.Routes() {
		if rt.AssignedPlaneID != "" {
			byRoute[rt.ID] = rt.AssignedPlaneID
		}
	}
	seen := map[string]bool{}
	for _, p := range planes {
		if p.AssignedRoute == "" {
			assert.Contains(t, []models.FlightStatus{models.StatusIdle, models.StatusArrived}, p.FlightStatus)
			assert.Zero(t, p.FlightProgress)
			continue
		}
		assert.False(t, seen[p.AssignedRoute], "route %s bound twice", p.AssignedRoute)
		seen[p.AssignedRoute] = true
		assert.Equal(t, p.InstanceID, byRoute[p.AssignedRoute])
	}
	assert.Len(t, byRoute, len(seen))
}

func TestAssignRebinding(t *testing.T) {
	r := newTestRepo(t)

	require.NoError(t, r.AssignRoute("starter-luna", "beijing-shanghai"))
	require.NoError(t, r.AssignRoute("starter-luna", "beijing-tokyo"))

	r1, _ := r.Route("beijing-shanghai")
	r2, _ := r.Route("beijing-tokyo")
	assert.Empty(t, r1.AssignedPlaneID)
	assert.Equal(t, "starter-luna", r2.AssignedPlaneID)

	require.NoError(t, r.AssignRoute("starter-breeze", "beijing-tokyo"))
	r2, _ = r.Route("beijing-tokyo")
	assert.Equal(t, "starter-breeze", r2.AssignedPlaneID)

	luna, _ := r.Plane("starter-luna")
	assert.Empty(t, luna.AssignedRoute)
	assert.Equal(t, models.StatusIdle, luna.FlightStatus)

	assertBindings(t, r)
}

func TestAssignResetsFlight(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.AssignRoute("starter-dash", "beijing-shanghai"))
	require.NoError(t, r.StartFlight("starter-dash"))
	r.Tick(10 * time.Minute)

	require.NoError(t, r.AssignRoute("starter-dash", "shanghai-tokyo"))
	p, _ := r.Plane("starter-dash")
	assert.Equal(t, models.StatusIdle, p.FlightStatus)
	assert.Zero(t, p.FlightProgress)
	assert.Nil(t, p.FlightDepartedAt)
}

func TestAssignUnknown(t *testing.T) {
	r := newTestRepo(t)
	assert.ErrorIs(t, r.AssignRoute("ghost", "beijing-shanghai"), ErrPlaneNotFound)
	assert.ErrorIs(t, r.AssignRoute("starter-luna", "beijing-paris"), ErrRouteNotFound)
	assertBindings(t, r)
}

func TestUnassign(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.AssignRoute("starter-luna", "beijing-shanghai"))
	require.NoError(t, r.StartFlight("starter-luna"))

	require.NoError(t, r.UnassignRoute("starter-luna"))
	rt, _ := r.Route("beijing-shanghai")
	assert.Empty(t, rt.AssignedPlaneID)
	p, _ := r.Plane("starter-luna")
	assert.Equal(t, models.StatusIdle, p.FlightStatus)
	assertBindings(t, r)
}

func TestRemovePlaneClearsRoute(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.AssignRoute("starter-luna", "beijing-shanghai"))
	require.NoError(t, r.RemovePlane("starter-luna"))

	_, ok := r.Plane("starter-luna")
	assert.False(t, ok)
	rt, _ := r.Route("beijing-shanghai")
	assert.Empty(t, rt.AssignedPlaneID)
	assert.ErrorIs(t, r.RemovePlane("starter-luna"), ErrPlaneNotFound)
}

func TestStartFlightPreconditions(t *testing.T) {
	r := newTestRepo(t)
	assert.ErrorIs(t, r.StartFlight("starter-luna"), ErrNoRoute)
	p, _ := r.Plane("starter-luna")
	assert.Equal(t, models.StatusIdle, p.FlightStatus)

	require.NoError(t, r.AssignRoute("starter-luna", "beijing-shanghai"))
	require.NoError(t, r.StartFlight("starter-luna"))
	assert.ErrorIs(t, r.StartFlight("starter-luna"), ErrAlreadyFlying)

	p, _ = r.Plane("starter-luna")
	assert.Equal(t, models.StatusTaxiing, p.FlightStatus)
	require.NotNil(t, p.FlightDepartedAt)
	assert.Equal(t, testNow, *p.FlightDepartedAt)
}

func TestTickCompletesAndAutoRestarts(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.AssignRoute("starter-luna", "beijing-shanghai"))
	require.NoError(t, r.StartFlight("starter-luna"))
	rt, _ := r.Route("beijing-shanghai")

	got := r.Tick(time.Duration(rt.FlightDuration) * time.Minute)
	require.Len(t, got, 1)
	assert.Equal(t, "starter-luna", got[0].PlaneID)
	assert.Greater(t, got[0].Revenue, 0)

	p, _ := r.Plane("starter-luna")
	assert.Equal(t, models.StatusArrived, p.FlightStatus)
	assert.Equal(t, 1.0, p.FlightProgress)
	assert.Equal(t, rt.Distance, p.TotalDistance)

	assert.Empty(t, r.Tick(time.Second))
	p, _ = r.Plane("starter-luna")
	assert.Equal(t, models.StatusTaxiing, p.FlightStatus)
	assert.Zero(t, p.FlightProgress)
}

func TestCompleteFlight(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.AssignRoute("starter-breeze", "beijing-shanghai"))

	_, err := r.CompleteFlight("starter-breeze")
	assert.ErrorIs(t, err, ErrNotFlying)

	require.NoError(t, r.StartFlight("starter-breeze"))
	res, err := r.CompleteFlight("starter-breeze")
	require.NoError(t, err)
	assert.Equal(t, "beijing-shanghai", res.RouteID)

	p, _ := r.Plane("starter-breeze")
	assert.Equal(t, 1, p.TotalFlights)
	assert.Equal(t, models.StatusArrived, p.FlightStatus)
}

func TestAutoStart(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.AssignRoute("starter-luna", "beijing-shanghai"))
	require.NoError(t, r.AssignRoute("starter-dash", "beijing-tokyo"))
	require.NoError(t, r.BoostMood("starter-dash", 50))

	started := r.AutoStart()
	assert.ElementsMatch(t, []string{"starter-luna", "starter-dash"}, started)
	assert.Empty(t, r.AutoStart())

	p, _ := r.Plane("starter-breeze")
	assert.Equal(t, models.StatusIdle, p.FlightStatus)
}

func TestRecoverResting(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.AssignRoute("starter-luna", "beijing-shanghai"))
	require.NoError(t, r.StartFlight("starter-luna"))

	r.RecoverResting(time.Hour)

	luna, _ := r.Plane("starter-luna")
	breeze, _ := r.Plane("starter-breeze")
	assert.Equal(t, 80.0, luna.Mood, "flying planes do not rest")
	assert.Equal(t, 76.0, breeze.Mood)
}

func TestRecoverMood(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.RecoverMood("starter-breeze", 2))
	p, _ := r.Plane("starter-breeze")
	assert.InDelta(t, 82, p.Mood, 1e-9)

	require.NoError(t, r.RecoverMood("starter-breeze", 10))
	p, _ = r.Plane("starter-breeze")
	assert.Equal(t, 100.0, p.Mood)

	assert.ErrorIs(t, r.RecoverMood("starter-breeze", 0), ErrInvalidAmount)
	assert.ErrorIs(t, r.RecoverMood("ghost", 1), ErrPlaneNotFound)
}

func TestBoostMoodCaps(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.BoostMood("starter-dash", 50))
	p, _ := r.Plane("starter-dash")
	assert.Equal(t, 100.0, p.Mood)
	assert.ErrorIs(t, r.BoostMood("starter-dash", 0), ErrInvalidAmount)
	assert.ErrorIs(t, r.BoostMood("ghost", 5), ErrPlaneNotFound)
}

func TestDiaries(t *testing.T) {
	r := newTestRepo(t)
	for i := 0; i < 4; i++ {
		require.NoError(t, r.AddDiary(models.Diary{ID: string(rune('a' + i)), PlaneID: "starter-luna"}))
	}
	assert.ErrorIs(t, r.AddDiary(models.Diary{PlaneID: "ghost"}), ErrPlaneNotFound)

	recent, err := r.RecentDiaries("starter-luna", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "d", recent[1].ID)

	// returned slices are copies
	recent[0].Content = "changed"
	again, _ := r.RecentDiaries("starter-luna", 2)
	assert.Empty(t, again[0].Content)
}

func TestAccessorsReturnCopies(t *testing.T) {
	r := newTestRepo(t)
	p, _ := r.Plane("starter-luna")
	p.Mood = 0
	p.AssignedRoute = "beijing-shanghai"

	again, _ := r.Plane("starter-luna")
	assert.Equal(t, 80.0, again.Mood)
	assert.Empty(t, again.AssignedRoute)
}

func TestRefreshRoutesKeepsAssignments(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.AssignRoute("starter-luna", "beijing-tokyo"))

	r.RefreshRoutes([]string{"beijing", "shanghai", "tokyo", "seoul"})
	assert.Len(t, r.Routes(), 6)
	rt, _ := r.Route("beijing-tokyo")
	assert.Equal(t, "starter-luna", rt.AssignedPlaneID)

	r.RefreshRoutes([]string{"beijing", "shanghai"})
	assert.Len(t, r.Routes(), 1)
	p, _ := r.Plane("starter-luna")
	assert.Empty(t, p.AssignedRoute)
	assertBindings(t, r)
}

func TestSnapshotRestore(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.AssignRoute("starter-luna", "beijing-shanghai"))
	require.NoError(t, r.StartFlight("starter-luna"))
	r.Tick(5 * time.Minute)

	snap := r.Snapshot()

	restored := NewRepository(catalog.Default())
	restored.Restore(snap, []string{"beijing", "shanghai", "tokyo"})

	assert.Equal(t, r.Planes(), restored.Planes())
	assert.Equal(t, r.Routes(), restored.Routes())
}

func TestRestoreMigratesOldSaves(t *testing.T) {
	snap := Snapshot{
		Planes: []models.Plane{
			{InstanceID: "old", ModelID: "crj-200", Level: 0, Mood: 50, AssignedRoute: "beijing-shanghai"},
			{InstanceID: "stray", ModelID: "crj-200", Level: 2, FlightStatus: models.StatusAirborne, FlightProgress: 0.4},
		},
		Routes: []models.Route{{ID: "beijing-shanghai", AssignedPlaneID: "old"}},
	}

	r := NewRepository(catalog.Default())
	r.Restore(snap, []string{"beijing", "shanghai"})

	old, ok := r.Plane("old")
	require.True(t, ok)
	assert.Equal(t, models.StatusIdle, old.FlightStatus)
	assert.Equal(t, 1, old.Level)
	assert.NotNil(t, old.Diaries)
	assert.Equal(t, "beijing-shanghai", old.AssignedRoute)

	stray, _ := r.Plane("stray")
	assert.Equal(t, models.StatusIdle, stray.FlightStatus)
	assert.Zero(t, stray.FlightProgress)

	rt, _ := r.Route("beijing-shanghai")
	assert.Equal(t, "old", rt.AssignedPlaneID)
	assert.Greater(t, rt.Distance, 0)
	assertBindings(t, r)
}

func TestInvariantUnderRandomCommands(t *testing.T) {
	r := newTestRepo(t)
	planes := []string{"starter-luna", "starter-breeze", "starter-dash"}
	routeIDs := []string{"beijing-shanghai", "beijing-tokyo", "shanghai-tokyo"}

	for i := 0; i < 60; i++ {
		p := planes[i%3]
		switch i % 4 {
		case 0, 1:
			require.NoError(t, r.AssignRoute(p, routeIDs[(i*7)%3]))
		case 2:
			require.NoError(t, r.UnassignRoute(p))
		case 3:
			r.AutoStart()
			r.Tick(17 * time.Minute)
		}
		assertBindings(t, r)
	}
}

func TestStats(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.AssignRoute("starter-luna", "beijing-shanghai"))
	require.NoError(t, r.StartFlight("starter-luna"))
	res, err := r.CompleteFlight("starter-luna")
	require.NoError(t, err)

	flights, distance, count := r.Stats()
	assert.Equal(t, 1, flights)
	assert.Equal(t, res.Distance, distance)
	assert.Equal(t, 3, count)
}

package game

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzvengeance/skylog/internal/catalog"
	"github.com/nzvengeance/skylog/internal/config"
	"github.com/nzvengeance/skylog/internal/database"
	"github.com/nzvengeance/skylog/internal/models"
	"github.com/nzvengeance/skylog/internal/narrative"
	"github.com/nzvengeance/skylog/internal/progression"
)

type memStore struct {
	mu      sync.Mutex
	docs    map[string][]byte
	flights []models.FlightLogEntry
}

func newMemStore() *memStore {
	return &memStore{docs: map[string][]byte{}}
}

func (m *memStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.docs[key]
	return v, ok, nil
}

func (m *memStore) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) RecordFlights(_ context.Context, entries []models.FlightLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		e.ID = len(m.flights) + 1
		m.flights = append(m.flights, e)
	}
	return nil
}

func (m *memStore) RecentFlights(_ context.Context, n int) ([]models.FlightLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.FlightLogEntry{}
	for i := len(m.flights) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.flights[i])
	}
	return out, nil
}

func (m *memStore) Close() error { return nil }

var _ database.Store = (*memStore)(nil)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		TickInterval:      time.Second,
		AutoStartInterval: 5 * time.Second,
		MinOffline:        5 * time.Minute,
		OfflineCatchUp:    true,
	}
}

func newTestSession(t *testing.T, store database.Store, at time.Time) *Session {
	t.Helper()
	s := NewSession(testConfig(), catalog.Default(), store, narrative.NewGenerator(nil, ""))
	s.SetClock(func() time.Time { return at })
	return s
}

const lunaID = "starter-luna"
const shuttle = "beijing-shanghai"

func TestHydrateFirstRun(t *testing.T) {
	s := newTestSession(t, newMemStore(), t0)
	report, err := s.Hydrate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, report)

	planes := s.Fleet().Planes()
	require.Len(t, planes, 3)
	for _, p := range planes {
		assert.Equal(t, models.StatusIdle, p.FlightStatus)
		assert.Empty(t, p.AssignedRoute)
	}

	_, ok := s.Fleet().Route(shuttle)
	assert.True(t, ok)
	assert.Len(t, s.Fleet().Routes(), 1)

	discovered, _ := s.Ledger().CollectionProgress()
	assert.Equal(t, 3, discovered)
	assert.Equal(t, progression.StartingCoins, s.Ledger().Coins())
	assert.Equal(t, t0, s.Ledger().LastOnline())
}

func TestSaveAndRehydrate(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	s := newTestSession(t, store, t0)
	_, err := s.Hydrate(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Fleet().AssignRoute(lunaID, shuttle))
	s.TogglePause()
	require.NoError(t, s.Save(ctx))

	for _, key := range []string{database.KeyPlayer, database.KeyPlanes, database.KeyGame, database.KeyStories} {
		raw, ok, _ := store.Load(ctx, key)
		require.True(t, ok, key)
		assert.True(t, json.Valid(raw), key)
	}

	again := newTestSession(t, store, t0.Add(time.Minute))
	report, err := again.Hydrate(ctx)
	require.NoError(t, err)
	assert.Nil(t, report, "short absence does not trigger catch-up")
	assert.True(t, again.Paused())

	luna, ok := again.Fleet().Plane(lunaID)
	require.True(t, ok)
	assert.Equal(t, shuttle, luna.AssignedRoute)
	route, _ := again.Fleet().Route(shuttle)
	assert.Equal(t, lunaID, route.AssignedPlaneID)
}

func TestHydrateOfflineCatchUp(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	s := newTestSession(t, store, t0)
	_, err := s.Hydrate(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Fleet().AssignRoute(lunaID, shuttle))
	require.NoError(t, s.Fleet().StartFlight(lunaID))
	require.NoError(t, s.Save(ctx))

	route, _ := s.Fleet().Route(shuttle)
	away := 3 * time.Duration(route.FlightDuration) * time.Minute

	back := newTestSession(t, store, t0.Add(away))
	report, err := back.Hydrate(ctx)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, away, report.OfflineDuration)
	assert.Equal(t, 3, report.FlightsCompleted)
	assert.Positive(t, report.CoinsEarned)
	assert.Equal(t, progression.StartingCoins+report.CoinsEarned, back.Ledger().Coins())

	luna, _ := back.Fleet().Plane(lunaID)
	assert.Equal(t, 3, luna.TotalFlights)
	assert.InDelta(t, 71, luna.Mood, 1e-9)

	logged, _ := store.RecentFlights(ctx, 10)
	require.Len(t, logged, 3)
	sum := 0
	for _, e := range logged {
		assert.True(t, e.Offline)
		assert.Equal(t, route.Distance, e.Distance)
		sum += e.Revenue
	}
	assert.Equal(t, report.CoinsEarned, sum)

	got, ok := back.OfflineReport()
	assert.True(t, ok)
	assert.Equal(t, report.CoinsEarned, got.CoinsEarned)

	var welcome bool
	for _, n := range back.Ledger().State().Notifications {
		welcome = welcome || n.Type == "welcome_back"
	}
	assert.True(t, welcome)
	assert.Equal(t, t0.Add(away), back.Ledger().LastOnline())
}

func TestHydrateCatchUpDisabled(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	s := newTestSession(t, store, t0)
	_, err := s.Hydrate(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Fleet().AssignRoute(lunaID, shuttle))
	require.NoError(t, s.Save(ctx))

	back := newTestSession(t, store, t0.Add(24*time.Hour))
	back.cfg.OfflineCatchUp = false
	report, err := back.Hydrate(ctx)
	require.NoError(t, err)
	assert.Nil(t, report)
	luna, _ := back.Fleet().Plane(lunaID)
	assert.Zero(t, luna.TotalFlights)
}

func TestHydrateDiscardsCorruptSave(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Save(context.Background(), database.KeyPlanes, []byte("{not json")))

	s := newTestSession(t, store, t0)
	_, err := s.Hydrate(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.Fleet().Planes(), 3)
}

func TestHydrateReseedKeepsCollection(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	s := newTestSession(t, store, t0)
	_, err := s.Hydrate(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx))
	require.NoError(t, store.Save(ctx, database.KeyPlanes, []byte("{not json")))

	again := newTestSession(t, store, t0.Add(time.Minute))
	_, err = again.Hydrate(ctx)
	require.NoError(t, err)
	assert.Len(t, again.Fleet().Planes(), 3)

	owned := map[string]int{}
	for _, e := range again.Ledger().State().Collection {
		owned[e.ModelID] = e.OwnedCount
	}
	for _, p := range catalog.StarterPlanes(t0) {
		assert.Equal(t, 1, owned[p.ModelID], p.ModelID)
	}
}

func TestSaveWaitsForCommit(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	s := newTestSession(t, store, t0)
	_, err := s.Hydrate(ctx)
	require.NoError(t, err)

	s.commit.Lock()
	done := make(chan error, 1)
	go func() { done <- s.Save(ctx) }()

	select {
	case <-done:
		t.Fatal("save finished while an update was in progress")
	case <-time.After(50 * time.Millisecond):
	}
	_, ok, _ := store.Load(ctx, database.KeyPlayer)
	assert.False(t, ok)

	s.commit.Unlock()
	require.NoError(t, <-done)
	_, ok, _ = store.Load(ctx, database.KeyPlayer)
	assert.True(t, ok)
}

func TestEventsExpire(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	s := newTestSession(t, store, t0)
	s.AddEvent(models.GameEvent{ID: "old", StartAt: t0.Add(-2 * time.Hour), EndAt: t0.Add(-time.Hour)})
	s.AddEvent(models.GameEvent{ID: "now", StartAt: t0.Add(-time.Hour), EndAt: t0.Add(time.Hour)})
	s.AddEvent(models.GameEvent{ID: "soon", StartAt: t0.Add(time.Hour), EndAt: t0.Add(2 * time.Hour)})

	active := s.ActiveEvents()
	require.Len(t, active, 1)
	assert.Equal(t, "now", active[0].ID)

	require.NoError(t, s.Save(ctx))
	again := newTestSession(t, store, t0)
	_, err := again.Hydrate(ctx)
	require.NoError(t, err)
	assert.Len(t, again.state.Events, 2)
}

func TestPhaseAt(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 1, 1, h, 30, 0, 0, time.UTC) }
	assert.Equal(t, models.PhaseNight, PhaseAt(at(4)))
	assert.Equal(t, models.PhaseDawn, PhaseAt(at(5)))
	assert.Equal(t, models.PhaseDay, PhaseAt(at(7)))
	assert.Equal(t, models.PhaseDay, PhaseAt(at(16)))
	assert.Equal(t, models.PhaseDusk, PhaseAt(at(18)))
	assert.Equal(t, models.PhaseNight, PhaseAt(at(19)))
}

func TestUnlockCity(t *testing.T) {
	s := newTestSession(t, newMemStore(), t0)
	_, err := s.Hydrate(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, s.UnlockCity("atlantis"), ErrCityNotFound)
	assert.ErrorIs(t, s.UnlockCity("guangzhou"), progression.ErrCityLocked)

	s.Ledger().AddExp(100)
	require.Equal(t, 2, s.Ledger().Level())
	require.NoError(t, s.UnlockCity("guangzhou"))
	assert.Len(t, s.Fleet().Routes(), 3)
	assert.ErrorIs(t, s.UnlockCity("guangzhou"), progression.ErrCityUnlocked)
}

func TestNarrativeCommands(t *testing.T) {
	s := newTestSession(t, newMemStore(), t0)
	ctx := context.Background()
	_, err := s.Hydrate(ctx)
	require.NoError(t, err)

	d, err := s.GenerateDiary(ctx, lunaID)
	require.NoError(t, err)
	assert.NotEmpty(t, d.Content)
	diaries, err := s.Fleet().RecentDiaries(lunaID, 5)
	require.NoError(t, err)
	assert.Len(t, diaries, 1)
	assert.Equal(t, 1, s.Ledger().State().TotalDiariesRead)

	_, err = s.GenerateStory(ctx, lunaID)
	assert.Error(t, err, "a plane without a route has no passengers")

	require.NoError(t, s.Fleet().AssignRoute(lunaID, shuttle))
	st, err := s.GenerateStory(ctx, lunaID)
	require.NoError(t, err)
	assert.Equal(t, shuttle, st.RouteID)
	pending, ok := s.Stories().Pending()
	require.True(t, ok)
	assert.Equal(t, st.ID, pending.ID)

	chosen, err := s.MakeChoice(st.ID, st.Choices[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, chosen.Outcome)
	assert.Equal(t, 5, s.Ledger().State().Reputation)
	assert.Equal(t, 1, s.Ledger().State().TotalStoriesRead)
	_, ok = s.Stories().Pending()
	assert.False(t, ok)
}

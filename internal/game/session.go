// Package game wires the fleet, the player's ledger and the story book into
// one running session: it hydrates from the save store, drives the flight
// tick and writes snapshots back.
package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nzvengeance/skylog/internal/catalog"
	"github.com/nzvengeance/skylog/internal/config"
	"github.com/nzvengeance/skylog/internal/database"
	"github.com/nzvengeance/skylog/internal/fleet"
	"github.com/nzvengeance/skylog/internal/models"
	"github.com/nzvengeance/skylog/internal/narrative"
	"github.com/nzvengeance/skylog/internal/progression"
	"github.com/nzvengeance/skylog/internal/story"
)

var ErrCityNotFound = errors.New("city not found")

// State is the persisted game-wide state outside the fleet and the ledger.
type State struct {
	Paused bool               `json:"paused"`
	Events []models.GameEvent `json:"events"`
}

type Session struct {
	cfg      *config.Config
	catalog  *catalog.Catalog
	store    database.Store
	narrator *narrative.Generator

	fleet   *fleet.Repository
	ledger  *progression.Ledger
	stories *story.Book

	// commit is held by every update that spans fleet, ledger and story
	// book, and by Save while it snapshots them.
	commit sync.Mutex

	mu             sync.Mutex
	state          State
	sinceAutoStart time.Duration
	offline        *models.OfflineReport
	now            func() time.Time
}

func NewSession(cfg *config.Config, cat *catalog.Catalog, store database.Store, narrator *narrative.Generator) *Session {
	now := time.Now()
	return &Session{
		cfg:      cfg,
		catalog:  cat,
		store:    store,
		narrator: narrator,
		fleet:    fleet.NewRepository(cat),
		ledger:   progression.NewLedger(modelIDs(cat), catalog.StarterCities, now),
		stories:  story.NewBook(),
		state:    State{Events: []models.GameEvent{}},
		now:      time.Now,
	}
}

// SetClock replaces the time source of the session and its components.
func (s *Session) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	s.fleet.SetClock(now)
	s.ledger.SetClock(now)
}

func (s *Session) Fleet() *fleet.Repository { return s.fleet }
func (s *Session) Ledger() *progression.Ledger { return s.ledger }
func (s *Session) Stories() *story.Book { return s.stories }
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }
func (s *Session) Narrator() *narrative.Generator { return s.narrator }

// --- Persistence ---

// Hydrate loads every saved store. A missing player save is a first run and
// starts the starter fleet. Returning players get an offline catch-up when
// they were away longer than MinOffline; the report is returned, or nil.
func (s *Session) Hydrate(ctx context.Context) (*models.OfflineReport, error) {
	ids := modelIDs(s.catalog)

	var player models.PlayerState
	returning, err := s.load(ctx, database.KeyPlayer, &player)
	if err != nil {
		return nil, err
	}
	if returning {
		s.ledger.Restore(player, ids)
	}

	var snap fleet.Snapshot
	found, err := s.load(ctx, database.KeyPlanes, &snap)
	if err != nil {
		return nil, err
	}
	if found {
		s.fleet.Restore(snap, s.ledger.UnlockedCities())
	} else {
		s.seedStarterFleet(!returning)
	}

	var state State
	found, err = s.load(ctx, database.KeyGame, &state)
	if err != nil {
		return nil, err
	}
	if found {
		if state.Events == nil {
			state.Events = []models.GameEvent{}
		}
		s.mu.Lock()
		s.state = state
		s.mu.Unlock()
	}

	var book story.Snapshot
	found, err = s.load(ctx, database.KeyStories, &book)
	if err != nil {
		return nil, err
	}
	if found {
		s.stories.Restore(book)
	}

	var report *models.OfflineReport
	if returning && s.cfg.OfflineCatchUp {
		report = s.catchUp(ctx)
	}

	s.cleanExpiredEvents()
	s.ledger.TouchLastOnline()

	log.Info().
		Bool("returning", returning).
		Int("planes", len(s.fleet.Planes())).
		Int("routes", len(s.fleet.Routes())).
		Msg("session hydrated")
	return report, nil
}

func (s *Session) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := s.store.Load(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding unreadable save")
		return false, nil
	}
	return true, nil
}

// seedStarterFleet adds the starter planes. The collection is only credited
// for a new player; a returning player already owns them.
func (s *Session) seedStarterFleet(collect bool) {
	for _, p := range catalog.StarterPlanes(s.clock()) {
		if err := s.fleet.AddPlane(p); err != nil {
			log.Warn().Err(err).Str("plane_id", p.InstanceID).Msg("failed to add starter plane")
			continue
		}
		if !collect {
			continue
		}
		if err := s.ledger.OwnPlane(p.ModelID); err != nil {
			log.Warn().Err(err).Str("model_id", p.ModelID).Msg("failed to record starter plane")
		}
	}
	s.fleet.RefreshRoutes(s.ledger.UnlockedCities())
}

func (s *Session) catchUp(ctx context.Context) *models.OfflineReport {
	now := s.clock()
	away := now.Sub(s.ledger.LastOnline())
	if away <= s.cfg.MinOffline {
		return nil
	}

	res := s.fleet.CatchUp(away)
	report := models.OfflineReport{
		OfflineDuration:  away,
		CoinsEarned:      res.CoinsEarned,
		FlightsCompleted: res.FlightsCompleted,
		NewDiaries:       []models.Diary{},
		Events:           []string{},
	}
	s.ledger.ProcessOfflineReturn(report)
	if res.FlightsCompleted > 0 {
		s.ledger.AddExp(res.FlightsCompleted * progression.ExpPerFlight)
	}

	entries := s.offlineLog(res, now)
	if err := s.store.RecordFlights(ctx, entries); err != nil {
		log.Warn().Err(err).Msg("failed to record offline flights")
	}

	log.Info().
		Dur("away", away).
		Int("flights", res.FlightsCompleted).
		Int("coins", res.CoinsEarned).
		Msg("offline catch-up applied")

	s.mu.Lock()
	s.offline = &report
	s.mu.Unlock()
	return &report
}

// offlineLog expands a catch-up result into one log entry per flight,
// spreading each plane's coins across its flights.
func (s *Session) offlineLog(res models.OfflineResult, at time.Time) []models.FlightLogEntry {
	var entries []models.FlightLogEntry
	for planeID, n := range res.PlaneFlights {
		if n <= 0 {
			continue
		}
		p, ok := s.fleet.Plane(planeID)
		if !ok {
			continue
		}
		route, _ := s.fleet.Route(p.AssignedRoute)
		coins := res.PlaneCoins[planeID]
		for i := 0; i < n; i++ {
			revenue := coins / n
			if i < coins%n {
				revenue++
			}
			entries = append(entries, models.FlightLogEntry{
				PlaneID:     planeID,
				RouteID:     p.AssignedRoute,
				Revenue:     revenue,
				Distance:    route.Distance,
				Offline:     true,
				CompletedAt: at,
			})
		}
	}
	return entries
}

// Save writes all four snapshots to the store.
func (s *Session) Save(ctx context.Context) error {
	s.commit.Lock()
	s.ledger.TouchLastOnline()

	s.mu.Lock()
	state := State{Paused: s.state.Paused, Events: append([]models.GameEvent{}, s.state.Events...)}
	s.mu.Unlock()

	docs := []struct {
		key string
		val any
	}{
		{database.KeyPlayer, s.ledger.State()},
		{database.KeyPlanes, s.fleet.Snapshot()},
		{database.KeyGame, state},
		{database.KeyStories, s.stories.Snapshot()},
	}
	s.commit.Unlock()

	for _, d := range docs {
		raw, err := json.Marshal(d.val)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", d.key, err)
		}
		if err := s.store.Save(ctx, d.key, raw); err != nil {
			return err
		}
	}
	return nil
}

// OfflineReport returns the catch-up report from the last hydrate, if any.
func (s *Session) OfflineReport() (models.OfflineReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.offline == nil {
		return models.OfflineReport{}, false
	}
	return *s.offline, true
}

func (s *Session) RecentFlights(ctx context.Context, n int) ([]models.FlightLogEntry, error) {
	return s.store.RecentFlights(ctx, n)
}

// --- Game state ---

func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Paused
}

// TogglePause flips the paused flag and returns the new value.
func (s *Session) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Paused = !s.state.Paused
	return s.state.Paused
}

func (s *Session) Phase() models.DayPhase {
	return PhaseAt(s.clock())
}

// PhaseAt maps a local hour to the time of day: dawn 5-7, day 7-17,
// dusk 17-19, night otherwise.
func PhaseAt(t time.Time) models.DayPhase {
	switch h := t.Hour(); {
	case h >= 5 && h < 7:
		return models.PhaseDawn
	case h >= 7 && h < 17:
		return models.PhaseDay
	case h >= 17 && h < 19:
		return models.PhaseDusk
	default:
		return models.PhaseNight
	}
}

func (s *Session) AddEvent(e models.GameEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Events = append(s.state.Events, e)
}

// ActiveEvents returns events that have started and not yet ended.
func (s *Session) ActiveEvents() []models.GameEvent {
	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()
	active := []models.GameEvent{}
	for _, e := range s.state.Events {
		if !now.Before(e.StartAt) && now.Before(e.EndAt) {
			active = append(active, e)
		}
	}
	return active
}

func (s *Session) cleanExpiredEvents() {
	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.state.Events[:0]
	for _, e := range s.state.Events {
		if now.Before(e.EndAt) {
			kept = append(kept, e)
		}
	}
	s.state.Events = kept
}

// --- Player commands ---

// UnlockCity opens a city for the player and regenerates the route table.
func (s *Session) UnlockCity(id string) error {
	city, ok := s.catalog.City(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCityNotFound, id)
	}
	s.commit.Lock()
	defer s.commit.Unlock()
	if err := s.ledger.UnlockCity(city); err != nil {
		return err
	}
	s.fleet.RefreshRoutes(s.ledger.UnlockedCities())
	log.Info().Str("city_id", id).Int("routes", len(s.fleet.Routes())).Msg("city unlocked")
	return nil
}

// MakeChoice answers a passenger story and credits the reputation it earns.
func (s *Session) MakeChoice(storyID, choiceID string) (models.PassengerStory, error) {
	s.commit.Lock()
	defer s.commit.Unlock()
	st, err := s.stories.MakeChoice(storyID, choiceID)
	if err != nil {
		return models.PassengerStory{}, err
	}
	s.ledger.AddReputation(story.ChoiceReputation)
	s.ledger.IncrementStoriesRead()
	return st, nil
}

// GenerateDiary writes a new diary entry for the plane and files it.
func (s *Session) GenerateDiary(ctx context.Context, planeID string) (models.Diary, error) {
	p, ok := s.fleet.Plane(planeID)
	if !ok {
		return models.Diary{}, fleet.ErrPlaneNotFound
	}
	in := narrative.DiaryInput{Plane: p, Phase: s.Phase()}
	if r, ok := s.fleet.Route(p.AssignedRoute); ok {
		in.From, in.To = s.cityName(r.From), s.cityName(r.To)
	}

	d := s.narrator.Diary(ctx, in)

	s.commit.Lock()
	defer s.commit.Unlock()
	if err := s.fleet.AddDiary(d); err != nil {
		return models.Diary{}, err
	}
	s.ledger.IncrementDiariesRead()
	s.ledger.Notify("diary", p.Nickname+" wrote a diary entry", d.Content)
	return d, nil
}

// GenerateStory writes a passenger story for the plane's current route and
// makes it the pending story.
func (s *Session) GenerateStory(ctx context.Context, planeID string) (models.PassengerStory, error) {
	p, ok := s.fleet.Plane(planeID)
	if !ok {
		return models.PassengerStory{}, fleet.ErrPlaneNotFound
	}
	r, ok := s.fleet.Route(p.AssignedRoute)
	if !ok {
		return models.PassengerStory{}, fleet.ErrNoRoute
	}

	st := s.narrator.Story(ctx, narrative.StoryInput{
		Plane:   p,
		RouteID: r.ID,
		From:    s.cityName(r.From),
		To:      s.cityName(r.To),
		Phase:   s.Phase(),
	})

	s.commit.Lock()
	defer s.commit.Unlock()
	s.stories.Add(st)
	if err := s.stories.SetPending(st.ID); err != nil {
		return models.PassengerStory{}, err
	}
	s.ledger.Notify("story", "A passenger story on "+p.Nickname, st.PassengerName+" has a story to tell.")
	return st, nil
}

func (s *Session) cityName(id string) string {
	if c, ok := s.catalog.City(id); ok {
		return c.Name
	}
	return id
}

func (s *Session) clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

func modelIDs(cat *catalog.Catalog) []string {
	ms := cat.PlaneModels()
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}

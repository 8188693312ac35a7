// Package progression keeps the player's books: currencies, player level,
// unlocked cities, the plane collection, achievements and notifications.
// It consumes flight results but never touches planes or routes.
package progression

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nzvengeance/skylog/internal/economy"
	"github.com/nzvengeance/skylog/internal/models"
)

var (
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrInsufficientGems  = errors.New("insufficient gems")
	ErrCityLocked        = errors.New("player level too low for city")
	ErrCityUnlocked      = errors.New("city already unlocked")
	ErrUnknownModel      = errors.New("unknown plane model")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

const (
	StartingCoins = 10000
	StartingGems  = 50
	DefaultName   = "Captain"

	// ExpPerFlight is the player experience credited for every landed flight.
	ExpPerFlight = 5

	maxNotifications = 100
)

type Ledger struct {
	mu    sync.Mutex
	state models.PlayerState
	now   func() time.Time
}

// NewLedger starts a fresh player with a collection entry for every model.
func NewLedger(modelIDs []string, startingCities []string, now time.Time) *Ledger {
	return &Ledger{
		state: models.PlayerState{
			Name:           DefaultName,
			Level:          1,
			Coins:          StartingCoins,
			Gems:           StartingGems,
			UnlockedCities: append([]string{}, startingCities...),
			Achievements:   []string{},
			Collection:     initCollection(modelIDs),
			Notifications:  []models.Notification{},
			LastOnline:     now,
			CreatedAt:      now,
		},
		now: time.Now,
	}
}

func (l *Ledger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

func initCollection(modelIDs []string) []models.CollectionEntry {
	out := make([]models.CollectionEntry, 0, len(modelIDs))
	for _, id := range modelIDs {
		out = append(out, models.CollectionEntry{ModelID: id})
	}
	return out
}

// State returns a copy of the player's state.
func (l *Ledger) State() models.PlayerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneState(l.state)
}

func (l *Ledger) Level() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Level
}

func (l *Ledger) Coins() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Coins
}

func (l *Ledger) UnlockedCities() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.state.UnlockedCities...)
}

func (l *Ledger) LastOnline() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.LastOnline
}

// --- Currency ---

func (l *Ledger) AddCoins(amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Coins = max(0, l.state.Coins+amount)
}

func (l *Ledger) SpendCoins(amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.Coins < amount {
		return ErrInsufficientCoins
	}
	l.state.Coins -= amount
	return nil
}

func (l *Ledger) SpendGems(amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.Gems < amount {
		return ErrInsufficientGems
	}
	l.state.Gems -= amount
	return nil
}

func (l *Ledger) AddReputation(amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Reputation = max(0, l.state.Reputation+amount)
}

// --- Experience ---

// AddExp credits player experience and returns the number of levels gained.
func (l *Ledger) AddExp(amount int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addExp(amount)
}

func (l *Ledger) addExp(amount int) int {
	if amount <= 0 {
		return 0
	}
	level, exp, gained := economy.ApplyLevelUps(l.state.Level, l.state.Exp+amount, economy.PlayerExpForLevel)
	l.state.Level, l.state.Exp = level, exp
	if gained > 0 {
		l.notify("level_up", "Level up!", fmt.Sprintf("You reached level %d.", level), map[string]any{"level": level})
	}
	return gained
}

// CreditFlights books the coins and player experience of landed flights.
func (l *Ledger) CreditFlights(results []models.FlightResult) (coins int) {
	if len(results) == 0 {
		return 0
	}
	for _, r := range results {
		coins += r.Revenue
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Coins = max(0, l.state.Coins+coins)
	l.addExp(len(results) * ExpPerFlight)
	return coins
}

// --- Cities ---

// UnlockCity opens a city once the player has reached its unlock level.
func (l *Ledger) UnlockCity(city models.City) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range l.state.UnlockedCities {
		if id == city.ID {
			return ErrCityUnlocked
		}
	}
	if l.state.Level < city.UnlockLevel {
		return fmt.Errorf("%w: %s needs level %d", ErrCityLocked, city.ID, city.UnlockLevel)
	}
	l.state.UnlockedCities = append(l.state.UnlockedCities, city.ID)
	return nil
}

func (l *Ledger) IsCityUnlocked(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.state.UnlockedCities {
		if c == id {
			return true
		}
	}
	return false
}

// --- Collection ---

func (l *Ledger) DiscoverPlane(modelID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.entry(modelID)
	if e == nil {
		return ErrUnknownModel
	}
	if !e.Discovered {
		t := l.now()
		e.Discovered = true
		e.DiscoveredAt = &t
	}
	return nil
}

func (l *Ledger) OwnPlane(modelID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.entry(modelID)
	if e == nil {
		return ErrUnknownModel
	}
	t := l.now()
	e.Discovered = true
	if e.DiscoveredAt == nil {
		e.DiscoveredAt = &t
	}
	if e.FirstOwnedAt == nil {
		e.FirstOwnedAt = &t
	}
	e.OwnedCount++
	return nil
}

// CollectionProgress returns discovered and total model counts.
func (l *Ledger) CollectionProgress() (discovered, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.discovered(), len(l.state.Collection)
}

func (l *Ledger) discovered() int {
	n := 0
	for _, c := range l.state.Collection {
		if c.Discovered {
			n++
		}
	}
	return n
}

func (l *Ledger) entry(modelID string) *models.CollectionEntry {
	for i := range l.state.Collection {
		if l.state.Collection[i].ModelID == modelID {
			return &l.state.Collection[i]
		}
	}
	return nil
}

// --- Reading ---

func (l *Ledger) IncrementStoriesRead() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.TotalStoriesRead++
}

func (l *Ledger) IncrementDiariesRead() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.TotalDiariesRead++
}

// --- Achievements ---

// Stats fills in the player side of the achievement tally.
func (l *Ledger) Stats(flights, distance int) models.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return models.Stats{
		Flights:  flights,
		Distance: distance,
		Planes:   l.discovered(),
		Cities:   len(l.state.UnlockedCities),
		Stories:  l.state.TotalStoriesRead,
		Diaries:  l.state.TotalDiariesRead,
		Level:    l.state.Level,
		Coins:    l.state.Coins,
	}
}

// CheckAchievements unlocks every definition whose target the stats meet
// and grants its reward. Each achievement unlocks once.
func (l *Ledger) CheckAchievements(defs []models.AchievementDef, stats models.Stats) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	have := make(map[string]bool, len(l.state.Achievements))
	for _, id := range l.state.Achievements {
		have[id] = true
	}

	var unlocked []string
	for _, def := range defs {
		if have[def.ID] || progressFor(def.Condition.Type, stats) < def.Condition.Target {
			continue
		}
		l.state.Achievements = append(l.state.Achievements, def.ID)
		have[def.ID] = true
		unlocked = append(unlocked, def.ID)

		l.state.Coins += def.Reward.Coins
		l.state.Gems += def.Reward.Gems
		l.notify("achievement", "Achievement unlocked!", def.Name, map[string]any{"achievement_id": def.ID})
		l.addExp(def.Reward.Exp)
	}
	return unlocked
}

func progressFor(kind string, s models.Stats) int {
	switch kind {
	case "flights":
		return s.Flights
	case "distance":
		return s.Distance
	case "planes":
		return s.Planes
	case "cities":
		return s.Cities
	case "stories":
		return s.Stories
	case "diary":
		return s.Diaries
	case "level":
		return s.Level
	case "coins":
		return s.Coins
	default:
		return 0
	}
}

func (l *Ledger) HasAchievement(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range l.state.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// --- Offline and notifications ---

// ProcessOfflineReturn credits offline earnings and leaves a welcome back
// notification summarizing the absence.
func (l *Ledger) ProcessOfflineReturn(report models.OfflineReport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Coins += report.CoinsEarned
	l.notify("welcome_back", "Welcome back!",
		fmt.Sprintf("You were away for %s. Your planes completed %d flights and earned %d coins.",
			FormatAway(report.OfflineDuration), report.FlightsCompleted, report.CoinsEarned),
		map[string]any{
			"offline_seconds":   int64(report.OfflineDuration.Seconds()),
			"coins_earned":      report.CoinsEarned,
			"flights_completed": report.FlightsCompleted,
		})
}

func (l *Ledger) TouchLastOnline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.LastOnline = l.now()
}

func (l *Ledger) Notify(kind, title, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notify(kind, title, message, nil)
}

func (l *Ledger) notify(kind, title, message string, data map[string]any) {
	l.state.Notifications = append(l.state.Notifications, models.Notification{
		ID:        uuid.NewString(),
		Type:      kind,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: l.now(),
	})
	if over := len(l.state.Notifications) - maxNotifications; over > 0 {
		l.state.Notifications = append([]models.Notification{}, l.state.Notifications[over:]...)
	}
}

func (l *Ledger) MarkNotificationRead(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.state.Notifications {
		if l.state.Notifications[i].ID == id {
			l.state.Notifications[i].Read = true
			return true
		}
	}
	return false
}

func (l *Ledger) ClearNotifications() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Notifications = []models.Notification{}
}

// --- Persistence ---

// Restore replaces the player state with a saved one. The collection is
// rebuilt so models added since the save get an entry.
func (l *Ledger) Restore(saved models.PlayerState, modelIDs []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	byModel := make(map[string]models.CollectionEntry, len(saved.Collection))
	for _, c := range saved.Collection {
		byModel[c.ModelID] = c
	}
	collection := initCollection(modelIDs)
	for i, c := range collection {
		if s, ok := byModel[c.ModelID]; ok {
			collection[i] = s
		}
	}

	s := cloneState(saved)
	s.Collection = collection
	if s.Level < 1 {
		s.Level = 1
	}
	if s.Name == "" {
		s.Name = DefaultName
	}
	if s.UnlockedCities == nil {
		s.UnlockedCities = []string{}
	}
	if s.Achievements == nil {
		s.Achievements = []string{}
	}
	if s.Notifications == nil {
		s.Notifications = []models.Notification{}
	}
	l.state = s
}

func cloneState(s models.PlayerState) models.PlayerState {
	s.UnlockedCities = append([]string{}, s.UnlockedCities...)
	s.Achievements = append([]string{}, s.Achievements...)
	s.Collection = append([]models.CollectionEntry{}, s.Collection...)
	s.Notifications = append([]models.Notification{}, s.Notifications...)
	return s
}

// FormatAway renders an absence in days, hours and minutes.
func FormatAway(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	switch {
	case hours > 24:
		return fmt.Sprintf("%d days %d hours", hours/24, hours%24)
	case hours > 0:
		return fmt.Sprintf("%d hours %d minutes", hours, minutes)
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}

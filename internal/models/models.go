package models

import "time"

// --- Enums ---

type FlightStatus string

const (
	StatusIdle     FlightStatus = "idle"
	StatusBoarding FlightStatus = "boarding" // reserved, never set by the tick
	StatusTaxiing  FlightStatus = "taxiing"
	StatusAirborne FlightStatus = "airborne"
	StatusLanding  FlightStatus = "landing"
	StatusArrived  FlightStatus = "arrived"
)

type Personality string

const (
	PersonalityDreamer    Personality = "dreamer"
	PersonalitySteady     Personality = "steady"
	PersonalityAdventurer Personality = "adventurer"
	PersonalityGentle     Personality = "gentle"
	PersonalityProud      Personality = "proud"
	PersonalityShy        Personality = "shy"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

type DiaryMood string

const (
	DiaryHappy      DiaryMood = "happy"
	DiaryTired      DiaryMood = "tired"
	DiaryExcited    DiaryMood = "excited"
	DiaryMelancholy DiaryMood = "melancholy"
	DiaryPeaceful   DiaryMood = "peaceful"
)

type DayPhase string

const (
	PhaseDawn  DayPhase = "dawn"
	PhaseDay   DayPhase = "day"
	PhaseDusk  DayPhase = "dusk"
	PhaseNight DayPhase = "night"
)

// --- Reference Data ---

type PlaneModel struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Manufacturer   string  `json:"manufacturer"`
	Type           string  `json:"type"` // narrow, wide, regional, cargo, private
	Capacity       int     `json:"capacity"`
	RangeKm        int     `json:"range"`
	SpeedKmh       int     `json:"speed"`
	FuelEfficiency float64 `json:"fuel_efficiency"` // 0-1, higher is better
	Rarity         Rarity  `json:"rarity"`
	UnlockLevel    int     `json:"unlock_level"`
	BasePrice      int     `json:"base_price"`
}

type City struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	IATA        string  `json:"iata"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Timezone    string  `json:"timezone"`
	UnlockLevel int     `json:"unlock_level"`
}

type AchievementCondition struct {
	Type   string `json:"type"` // flights, distance, planes, cities, stories, level, coins, diary
	Target int    `json:"target"`
}

type Reward struct {
	Coins int `json:"coins,omitempty"`
	Gems  int `json:"gems,omitempty"`
	Exp   int `json:"exp,omitempty"`
}

type AchievementDef struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Condition   AchievementCondition `json:"condition"`
	Reward      Reward               `json:"reward"`
}

// --- Live Game Objects ---

// Route is an unordered city pair. ID is the two city ids sorted and joined.
type Route struct {
	ID              string  `json:"id"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	Distance        int     `json:"distance"`        // km
	FlightDuration  int     `json:"flight_duration"` // minutes
	BaseRevenue     int     `json:"base_revenue"`
	Demand          float64 `json:"demand"` // 0-1
	Unlocked        bool    `json:"unlocked"`
	AssignedPlaneID string  `json:"assigned_plane_id,omitempty"`
}

// Plane is an owned plane instance. AssignedRoute is empty when the plane has
// no route, in which case FlightStatus is idle or arrived and progress is 0.
type Plane struct {
	InstanceID       string       `json:"instance_id"`
	ModelID          string       `json:"model_id"`
	Nickname         string       `json:"nickname"`
	Personality      Personality  `json:"personality"`
	Level            int          `json:"level"`
	Exp              int          `json:"exp"`
	Mood             float64      `json:"mood"` // 0-100
	Bond             float64      `json:"bond"` // 0-100
	TotalFlights     int          `json:"total_flights"`
	TotalDistance    int          `json:"total_distance"` // km
	AssignedRoute    string       `json:"assigned_route,omitempty"`
	FlightStatus     FlightStatus `json:"flight_status"`
	FlightProgress   float64      `json:"flight_progress"`
	FlightDepartedAt *time.Time   `json:"flight_departed_at,omitempty"`
	Diaries          []Diary      `json:"diaries"`
	AcquiredAt       time.Time    `json:"acquired_at"`
	Color            string       `json:"color,omitempty"`
}

// Clone returns a deep copy safe to hand out of the repository.
func (p Plane) Clone() Plane {
	if p.FlightDepartedAt != nil {
		t := *p.FlightDepartedAt
		p.FlightDepartedAt = &t
	}
	if p.Diaries != nil {
		p.Diaries = append([]Diary{}, p.Diaries...)
	}
	return p
}

type Diary struct {
	ID        string    `json:"id"`
	PlaneID   string    `json:"plane_id"`
	Content   string    `json:"content"`
	Mood      DiaryMood `json:"mood"`
	Weather   string    `json:"weather"`
	RouteID   string    `json:"route_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type StoryChoice struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Consequence string `json:"consequence"`
}

type PassengerStory struct {
	ID               string        `json:"id"`
	RouteID          string        `json:"route_id"`
	PlaneID          string        `json:"plane_id"`
	PassengerName    string        `json:"passenger_name"`
	Content          string        `json:"content"`
	Choices          []StoryChoice `json:"choices"`
	ChosenID         string        `json:"chosen_id,omitempty"`
	Outcome          string        `json:"outcome,omitempty"`
	ButterflyEffects []string      `json:"butterfly_effects"`
	CreatedAt        time.Time     `json:"created_at"`
}

type GameEvent struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"` // weather, festival, incident, special
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Effects     map[string]float64 `json:"effects,omitempty"`
	StartAt     time.Time          `json:"start_at"`
	EndAt       time.Time          `json:"end_at"`
	CityID      string             `json:"city_id,omitempty"`
}

// --- Flight Results ---

// FlightResult is emitted once per completed flight.
type FlightResult struct {
	PlaneID   string `json:"plane_id"`
	RouteID   string `json:"route_id"`
	Revenue   int    `json:"revenue"`
	ExpGained int    `json:"exp_gained"`
	Distance  int    `json:"distance"`
	Leveled   bool   `json:"leveled"`
}

// OfflineResult aggregates a catch-up pass over the whole fleet.
type OfflineResult struct {
	CoinsEarned      int            `json:"coins_earned"`
	FlightsCompleted int            `json:"flights_completed"`
	PlaneFlights     map[string]int `json:"plane_flights"`
	PlaneCoins       map[string]int `json:"plane_coins"`
}

type OfflineReport struct {
	OfflineDuration  time.Duration `json:"offline_duration"`
	CoinsEarned      int           `json:"coins_earned"`
	FlightsCompleted int           `json:"flights_completed"`
	NewDiaries       []Diary       `json:"new_diaries"`
	Events           []string      `json:"events"`
}

type FlightLogEntry struct {
	ID          int       `json:"id"`
	PlaneID     string    `json:"plane_id"`
	RouteID     string    `json:"route_id"`
	Revenue     int       `json:"revenue"`
	Distance    int       `json:"distance"`
	Offline     bool      `json:"offline"`
	CompletedAt time.Time `json:"completed_at"`
}

// --- Player ---

type CollectionEntry struct {
	ModelID      string     `json:"model_id"`
	Discovered   bool       `json:"discovered"`
	DiscoveredAt *time.Time `json:"discovered_at,omitempty"`
	OwnedCount   int        `json:"owned_count"`
	FirstOwnedAt *time.Time `json:"first_owned_at,omitempty"`
}

type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"` // flight_complete, diary, story, level_up, achievement, event, welcome_back
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"created_at"`
}

type PlayerState struct {
	Name             string            `json:"name"`
	Level            int               `json:"level"`
	Exp              int               `json:"exp"`
	Coins            int               `json:"coins"`
	Gems             int               `json:"gems"`
	Reputation       int               `json:"reputation"`
	UnlockedCities   []string          `json:"unlocked_cities"`
	Achievements     []string          `json:"achievements"`
	TotalStoriesRead int               `json:"total_stories_read"`
	TotalDiariesRead int               `json:"total_diaries_read"`
	Collection       []CollectionEntry `json:"collection"`
	Notifications    []Notification    `json:"notifications"`
	LastOnline       time.Time         `json:"last_online"`
	CreatedAt        time.Time         `json:"created_at"`
}

// Stats is the fleet-wide tally used for achievement checks.
type Stats struct {
	Flights  int
	Distance int
	Planes   int
	Cities   int
	Stories  int
	Diaries  int
	Level    int
	Coins    int
}

// --- Fleet Analysis ---

type FleetAnalysis struct {
	TotalPlanes    int                  `json:"total_planes"`
	StatusCounts   map[FlightStatus]int `json:"status_counts"`
	Grounded       []string             `json:"grounded"`
	Unassigned     []string             `json:"unassigned"`
	AverageMood    float64              `json:"average_mood"`
	AverageBond    float64              `json:"average_bond"`
	TotalFlights   int                  `json:"total_flights"`
	TotalDistance  int                  `json:"total_distance"`
	AssignedRoutes int                  `json:"assigned_routes"`
	OpenRoutes     int                  `json:"open_routes"`
	BestRoute      *RouteEstimate       `json:"best_route,omitempty"`
	RouteEstimates []RouteEstimate      `json:"route_estimates"`
}

type RouteEstimate struct {
	RouteID        string  `json:"route_id"`
	PlaneID        string  `json:"plane_id"`
	RevenuePerHour float64 `json:"revenue_per_hour"`
	RevenuePerTrip int     `json:"revenue_per_trip"`
}

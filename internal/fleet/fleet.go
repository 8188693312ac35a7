// Package fleet owns the plane and route collections for one game session.
// Every change to the plane-route relationship goes through a Repository so
// that a route carries at most one plane and a plane flies at most one route.
// Accessors hand out copies.
package fleet

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nzvengeance/skylog/internal/economy"
	"github.com/nzvengeance/skylog/internal/flight"
	"github.com/nzvengeance/skylog/internal/models"
	"github.com/nzvengeance/skylog/internal/routes"
)

var (
	ErrPlaneNotFound = errors.New("plane not found")
	ErrRouteNotFound = errors.New("route not found")
	ErrPlaneExists   = errors.New("plane already exists")
	ErrNoRoute       = errors.New("plane has no assigned route")
	ErrAlreadyFlying = errors.New("plane is already flying")
	ErrNotFlying     = errors.New("plane is not flying")
	ErrModelNotFound = errors.New("plane model not found")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Catalog is the reference data the repository needs.
type Catalog interface {
	routes.CityLookup
	flight.ModelLookup
}

// Snapshot is the persisted form of the fleet.
type Snapshot struct {
	Planes []models.Plane `json:"planes"`
	Routes []models.Route `json:"routes"`
}

type Repository struct {
	mu      sync.Mutex
	catalog Catalog
	planes  []models.Plane
	routes  []models.Route
	now     func() time.Time
}

func NewRepository(catalog Catalog) *Repository {
	return &Repository{
		catalog: catalog,
		planes:  []models.Plane{},
		routes:  []models.Route{},
		now:     time.Now,
	}
}

// SetClock replaces the time source used for departure timestamps.
func (r *Repository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// --- Queries ---

func (r *Repository) Plane(id string) (models.Plane, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.planeIndex(id)
	if i < 0 {
		return models.Plane{}, false
	}
	return r.planes[i].Clone(), true
}

func (r *Repository) Planes() []models.Plane {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Plane, len(r.planes))
	for i, p := range r.planes {
		out[i] = p.Clone()
	}
	return out
}

func (r *Repository) Route(id string) (models.Route, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.routeIndex(id)
	if i < 0 {
		return models.Route{}, false
	}
	return r.routes[i], true
}

func (r *Repository) Routes() []models.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Route(nil), r.routes...)
}

// RecentDiaries returns up to n of the plane's newest diaries, oldest first.
func (r *Repository) RecentDiaries(planeID string, n int) ([]models.Diary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.planeIndex(planeID)
	if i < 0 {
		return nil, ErrPlaneNotFound
	}
	d := r.planes[i].Diaries
	if n >= 0 && len(d) > n {
		d = d[len(d)-n:]
	}
	return append([]models.Diary(nil), d...), nil
}

// --- Fleet commands ---

// AddPlane adds a plane to the fleet. The plane starts unassigned.
func (r *Repository) AddPlane(p models.Plane) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.planeIndex(p.InstanceID) >= 0 {
		return fmt.Errorf("%w: %s", ErrPlaneExists, p.InstanceID)
	}
	if _, ok := r.catalog.PlaneModel(p.ModelID); !ok {
		return fmt.Errorf("%w: %s", ErrModelNotFound, p.ModelID)
	}
	p = p.Clone()
	normalizePlane(&p)
	p.AssignedRoute = ""
	p.FlightStatus = models.StatusIdle
	p.FlightProgress = 0
	p.FlightDepartedAt = nil
	r.planes = append(r.planes, p)
	return nil
}

// RemovePlane deletes the plane and clears any route pointing at it.
func (r *Repository) RemovePlane(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.planeIndex(id)
	if i < 0 {
		return ErrPlaneNotFound
	}
	r.releaseRoutesOf(id)
	r.planes = append(r.planes[:i], r.planes[i+1:]...)
	return nil
}

// RefreshRoutes regenerates the route network for the unlocked cities,
// keeping assignments on routes that survive.
func (r *Repository) RefreshRoutes(unlocked []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = routes.Merge(r.routes, routes.Generate(r.catalog, unlocked))
	r.reconcile()
}

// --- Assignment ---

// AssignRoute binds plane and route one-to-one. Any previous route of the
// plane and any previous plane of the route are released. The plane is left
// idle; it does not take off until started.
func (r *Repository) AssignRoute(planeID, routeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pi := r.planeIndex(planeID)
	if pi < 0 {
		return ErrPlaneNotFound
	}
	ri := r.routeIndex(routeID)
	if ri < 0 {
		return ErrRouteNotFound
	}

	r.releaseRoutesOf(planeID)
	if prev := r.routes[ri].AssignedPlaneID; prev != "" && prev != planeID {
		if j := r.planeIndex(prev); j >= 0 {
			ground(&r.planes[j])
		}
	}

	r.routes[ri].AssignedPlaneID = planeID
	p := &r.planes[pi]
	p.AssignedRoute = routeID
	p.FlightStatus = models.StatusIdle
	p.FlightProgress = 0
	p.FlightDepartedAt = nil

	log.Debug().Str("plane_id", planeID).Str("route_id", routeID).Msg("Route assigned")
	return nil
}

// UnassignRoute takes the plane off its route and leaves it idle.
func (r *Repository) UnassignRoute(planeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pi := r.planeIndex(planeID)
	if pi < 0 {
		return ErrPlaneNotFound
	}
	r.releaseRoutesOf(planeID)
	ground(&r.planes[pi])
	return nil
}

// --- Flight lifecycle ---

// StartFlight sends an idle or arrived plane down its route. A plane with no
// route, or one already in the air, is left unchanged.
func (r *Repository) StartFlight(planeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pi := r.planeIndex(planeID)
	if pi < 0 {
		return ErrPlaneNotFound
	}
	p := &r.planes[pi]
	if p.AssignedRoute == "" {
		return ErrNoRoute
	}
	if p.FlightStatus != models.StatusIdle && p.FlightStatus != models.StatusArrived {
		return ErrAlreadyFlying
	}
	flight.Start(p, r.now())
	return nil
}

// CompleteFlight lands a flying plane immediately.
func (r *Repository) CompleteFlight(planeID string) (models.FlightResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pi := r.planeIndex(planeID)
	if pi < 0 {
		return models.FlightResult{}, ErrPlaneNotFound
	}
	p := &r.planes[pi]
	if p.AssignedRoute == "" {
		return models.FlightResult{}, ErrNoRoute
	}
	if p.FlightStatus == models.StatusIdle || p.FlightStatus == models.StatusArrived {
		return models.FlightResult{}, ErrNotFlying
	}
	ri := r.routeIndex(p.AssignedRoute)
	if ri < 0 {
		return models.FlightResult{}, ErrRouteNotFound
	}
	model, ok := r.catalog.PlaneModel(p.ModelID)
	if !ok {
		return models.FlightResult{}, fmt.Errorf("%w: %s", ErrModelNotFound, p.ModelID)
	}
	return flight.Complete(p, r.routes[ri], model), nil
}

// Tick advances the whole fleet by delta. The route table cannot change
// while a tick is running.
func (r *Repository) Tick(delta time.Duration) []models.FlightResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return flight.Tick(r.planes, r.routeMap(), r.catalog, delta, r.now())
}

// CatchUp applies an absence of the given length to the fleet.
func (r *Repository) CatchUp(offline time.Duration) models.OfflineResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return flight.CatchUp(r.planes, r.routeMap(), r.catalog, offline)
}

// AutoStart starts every plane that has a route, is on the ground and is in
// good enough spirits. It returns the ids of the planes started.
func (r *Repository) AutoStart() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var started []string
	now := r.now()
	for i := range r.planes {
		p := &r.planes[i]
		if !flight.CanRestart(*p) {
			continue
		}
		flight.Start(p, now)
		started = append(started, p.InstanceID)
	}
	return started
}

// --- Mood and diaries ---

// RecoverResting lets every plane on the ground recover mood for elapsed.
func (r *Repository) RecoverResting(elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.planes {
		p := &r.planes[i]
		if p.FlightStatus != models.StatusIdle && p.FlightStatus != models.StatusArrived {
			continue
		}
		p.Mood = economy.Recover(p.Mood, p.Personality, elapsed)
	}
}

// RecoverMood applies hours of rest to a single plane.
func (r *Repository) RecoverMood(planeID string, hours float64) error {
	if hours <= 0 {
		return ErrInvalidAmount
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pi := r.planeIndex(planeID)
	if pi < 0 {
		return ErrPlaneNotFound
	}
	p := &r.planes[pi]
	p.Mood = economy.Recover(p.Mood, p.Personality, time.Duration(hours*float64(time.Hour)))
	return nil
}

func (r *Repository) BoostMood(planeID string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pi := r.planeIndex(planeID)
	if pi < 0 {
		return ErrPlaneNotFound
	}
	p := &r.planes[pi]
	p.Mood = economy.Clamp(p.Mood+amount, 0, economy.MaxMood)
	return nil
}

// AddDiary appends a finished diary to its plane.
func (r *Repository) AddDiary(diary models.Diary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pi := r.planeIndex(diary.PlaneID)
	if pi < 0 {
		return ErrPlaneNotFound
	}
	r.planes[pi].Diaries = append(r.planes[pi].Diaries, diary)
	return nil
}

// --- Stats and persistence ---

// Stats totals flights and distance across the fleet.
func (r *Repository) Stats() (flights, distance, planes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.planes {
		flights += p.TotalFlights
		distance += p.TotalDistance
	}
	return flights, distance, len(r.planes)
}

func (r *Repository) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Snapshot{
		Planes: make([]models.Plane, len(r.planes)),
		Routes: append([]models.Route{}, r.routes...),
	}
	for i, p := range r.planes {
		s.Planes[i] = p.Clone()
	}
	return s
}

// Restore replaces the fleet with a saved snapshot. Routes are regenerated
// for the unlocked cities and saved assignments carried over. Fields missing
// from older saves fall back to their defaults.
func (r *Repository) Restore(s Snapshot, unlocked []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.planes = make([]models.Plane, 0, len(s.Planes))
	for _, p := range s.Planes {
		p = p.Clone()
		normalizePlane(&p)
		r.planes = append(r.planes, p)
	}
	r.routes = routes.Merge(s.Routes, routes.Generate(r.catalog, unlocked))
	r.reconcile()
}

// --- internal ---

func (r *Repository) planeIndex(id string) int {
	for i := range r.planes {
		if r.planes[i].InstanceID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) routeIndex(id string) int {
	for i := range r.routes {
		if r.routes[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) routeMap() map[string]models.Route {
	m := make(map[string]models.Route, len(r.routes))
	for _, rt := range r.routes {
		m[rt.ID] = rt
	}
	return m
}

func (r *Repository) releaseRoutesOf(planeID string) {
	for i := range r.routes {
		if r.routes[i].AssignedPlaneID == planeID {
			r.routes[i].AssignedPlaneID = ""
		}
	}
}

// reconcile repairs the plane-route binding after the route table has been
// replaced. Only mutual pointers survive.
func (r *Repository) reconcile() {
	owner := make(map[string]string, len(r.routes))
	for i := range r.routes {
		rt := &r.routes[i]
		if rt.AssignedPlaneID == "" {
			continue
		}
		pi := r.planeIndex(rt.AssignedPlaneID)
		if pi < 0 || r.planes[pi].AssignedRoute != rt.ID {
			rt.AssignedPlaneID = ""
			continue
		}
		owner[rt.ID] = rt.AssignedPlaneID
	}
	for i := range r.planes {
		p := &r.planes[i]
		if p.AssignedRoute == "" {
			continue
		}
		if owner[p.AssignedRoute] == p.InstanceID {
			continue
		}
		ri := r.routeIndex(p.AssignedRoute)
		if ri >= 0 && owner[p.AssignedRoute] == "" {
			r.routes[ri].AssignedPlaneID = p.InstanceID
			owner[p.AssignedRoute] = p.InstanceID
			continue
		}
		log.Warn().Str("plane_id", p.InstanceID).Str("route_id", p.AssignedRoute).Msg("Dropping assignment to unavailable route")
		ground(p)
	}
}

// ground clears the plane's route and leaves it idle on the apron.
func ground(p *models.Plane) {
	p.AssignedRoute = ""
	p.FlightStatus = models.StatusIdle
	p.FlightProgress = 0
	p.FlightDepartedAt = nil
}

func normalizePlane(p *models.Plane) {
	if p.FlightStatus == "" {
		p.FlightStatus = models.StatusIdle
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Diaries == nil {
		p.Diaries = []models.Diary{}
	}
	p.Mood = economy.Clamp(p.Mood, 0, economy.MaxMood)
	p.Bond = economy.Clamp(p.Bond, 0, economy.MaxBond)
	if p.AssignedRoute == "" {
		if p.FlightStatus != models.StatusArrived {
			p.FlightStatus = models.StatusIdle
		}
		p.FlightProgress = 0
		p.FlightDepartedAt = nil
	}
}

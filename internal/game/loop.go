package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nzvengeance/skylog/internal/models"
)

// StepResult is what one driver cadence produced.
type StepResult struct {
	Flights      []models.FlightResult
	Coins        int
	Started      []string
	Achievements []string
}

// Step runs one cadence of the game: tick the fleet, book the landed
// flights, let resting planes recover, periodically restart idle planes and
// check achievements. It does nothing while the game is paused.
func (s *Session) Step(ctx context.Context, delta time.Duration) StepResult {
	var res StepResult
	if delta <= 0 || s.Paused() {
		return res
	}
	s.commit.Lock()
	defer s.commit.Unlock()

	res.Flights = s.fleet.Tick(delta)
	if len(res.Flights) > 0 {
		res.Coins = s.ledger.CreditFlights(res.Flights)
		s.recordFlights(ctx, res.Flights)
	}

	s.fleet.RecoverResting(delta)

	s.mu.Lock()
	s.sinceAutoStart += delta
	due := s.sinceAutoStart >= s.cfg.AutoStartInterval
	if due {
		s.sinceAutoStart = 0
	}
	s.mu.Unlock()
	if due {
		res.Started = s.fleet.AutoStart()
	}

	flights, distance, _ := s.fleet.Stats()
	res.Achievements = s.ledger.CheckAchievements(s.catalog.Achievements(), s.ledger.Stats(flights, distance))

	for _, id := range res.Achievements {
		log.Info().Str("achievement_id", id).Msg("achievement unlocked")
	}
	return res
}

func (s *Session) recordFlights(ctx context.Context, results []models.FlightResult) {
	at := s.clock()
	entries := make([]models.FlightLogEntry, len(results))
	for i, r := range results {
		entries[i] = models.FlightLogEntry{
			PlaneID:     r.PlaneID,
			RouteID:     r.RouteID,
			Revenue:     r.Revenue,
			Distance:    r.Distance,
			CompletedAt: at,
		}
		log.Debug().
			Str("plane_id", r.PlaneID).
			Str("route_id", r.RouteID).
			Int("revenue", r.Revenue).
			Bool("leveled", r.Leveled).
			Msg("flight completed")
	}
	if err := s.store.RecordFlights(ctx, entries); err != nil {
		log.Warn().Err(err).Int("flights", len(entries)).Msg("failed to record flights")
	}
}

// Loop calls Step every TickInterval with the wall-clock time elapsed since
// the previous call, until ctx is cancelled. Time spent paused is dropped,
// not replayed on resume.
func (s *Session) Loop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.cfg.TickInterval).Msg("game loop started")
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("game loop stopped")
			return
		case t := <-ticker.C:
			s.Step(ctx, t.Sub(last))
			last = t
		}
	}
}

// CompleteFlight lands a flying plane immediately and books the result the
// same way a tick does.
func (s *Session) CompleteFlight(ctx context.Context, planeID string) (models.FlightResult, error) {
	s.commit.Lock()
	defer s.commit.Unlock()
	res, err := s.fleet.CompleteFlight(planeID)
	if err != nil {
		return models.FlightResult{}, err
	}
	results := []models.FlightResult{res}
	s.ledger.CreditFlights(results)
	s.recordFlights(ctx, results)
	return res, nil
}

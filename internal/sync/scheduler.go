package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	"github.com/nzvengeance/skylog/internal/config"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const saveTimeout = 30 * time.Second

// Saver writes the current game snapshot to persistent storage.
type Saver interface {
	Save(ctx context.Context) error
}

// Status describes the most recent save attempt.
type Status struct {
	LastSave  time.Time `json:"last_save"`
	LastError string    `json:"last_error,omitempty"`
	Saves     int       `json:"saves"`
}

// Scheduler autosaves the game on a cron schedule and flushes once more when
// stopped.
type Scheduler struct {
	saver Saver
	cfg   *config.Config
	cron  *cron.Cron

	mu     gosync.Mutex
	status Status
}

func NewScheduler(saver Saver, cfg *config.Config) *Scheduler {
	return &Scheduler{
		saver: saver,
		cfg:   cfg,
		cron:  cron.New(),
	}
}

// Start begins the scheduled autosave job
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.SaveSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		if err := s.SaveNow(ctx); err != nil {
			log.Error().Err(err).Msg("scheduled save failed")
		}
	})
	if err != nil {
		return fmt.Errorf("adding cron job: %w", err)
	}

	s.cron.Start()
	log.Info().Str("schedule", s.cfg.SaveSchedule).Msg("autosave scheduler started")
	return nil
}

// Stop waits for a running save to finish, then writes a final snapshot.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()

	flushCtx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.SaveNow(flushCtx); err != nil {
		log.Error().Err(err).Msg("final save failed")
	}
	log.Info().Msg("autosave scheduler stopped")
}

// SaveNow saves immediately and records the outcome.
func (s *Scheduler) SaveNow(ctx context.Context) error {
	err := s.saver.Save(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status.LastError = err.Error()
		return fmt.Errorf("saving game: %w", err)
	}
	s.status.LastSave = time.Now()
	s.status.LastError = ""
	s.status.Saves++
	log.Debug().Int("saves", s.status.Saves).Msg("game saved")
	return nil
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

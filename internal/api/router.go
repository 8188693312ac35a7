package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nzvengeance/skylog/internal/analysis"
	"github.com/nzvengeance/skylog/internal/config"
	"github.com/nzvengeance/skylog/internal/fleet"
	"github.com/nzvengeance/skylog/internal/game"
	"github.com/nzvengeance/skylog/internal/llm"
	"github.com/nzvengeance/skylog/internal/progression"
	"github.com/nzvengeance/skylog/internal/story"
	syncsvc "github.com/nzvengeance/skylog/internal/sync"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

type Server struct {
	session        *game.Session
	cfg            *config.Config
	scheduler      *syncsvc.Scheduler
	llmRateLimiter *rate.Limiter
}

func NewServer(session *game.Session, cfg *config.Config, scheduler *syncsvc.Scheduler) *Server {
	return &Server{
		session:        session,
		cfg:            cfg,
		scheduler:      scheduler,
		llmRateLimiter: newLLMLimiter(cfg.NarrativeRateSeconds),
	}
}

// newLLMLimiter allows one narrative request per interval; zero or less
// disables the limit.
func newLLMLimiter(seconds int) *rate.Limiter {
	if seconds <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Duration(seconds)*time.Second), 1)
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.healthCheck)
		r.Get("/status", s.getStatus)

		// Owned planes
		r.Route("/planes", func(r chi.Router) {
			r.Get("/", s.listPlanes)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getPlane)
				r.Delete("/", s.removePlane)
				r.Post("/assign", s.assignRoute)
				r.Post("/unassign", s.unassignRoute)
				r.Post("/start", s.startFlight)
				r.Post("/complete", s.completeFlight)
				r.Post("/boost", s.boostMood)
				r.Post("/rest", s.restPlane)
				r.Get("/diaries", s.listDiaries)
				r.With(s.rateLimitLLM).Post("/diaries", s.generateDiary)
			})
		})

		r.Route("/routes", func(r chi.Router) {
			r.Get("/", s.listRoutes)
			r.Get("/{id}", s.getRoute)
		})

		r.Route("/player", func(r chi.Router) {
			r.Get("/", s.getPlayer)
			r.Post("/cities/{id}/unlock", s.unlockCity)
			r.Post("/notifications/{id}/read", s.readNotification)
			r.Delete("/notifications", s.clearNotifications)
		})

		// Passenger stories
		r.Route("/stories", func(r chi.Router) {
			r.Get("/", s.listStories)
			r.Get("/pending", s.getPendingStory)
			r.With(s.rateLimitLLM).Post("/generate", s.generateStory)
			r.Post("/{id}/choice", s.makeChoice)
		})

		r.Route("/game", func(r chi.Router) {
			r.Get("/", s.getGame)
			r.Post("/pause", s.togglePause)
			r.Post("/save", s.saveNow)
			r.Get("/offline", s.getOfflineReport)
		})

		r.Get("/catalog", s.getCatalog)
		r.Get("/flights", s.listFlights)
		r.Get("/analysis", s.getAnalysis)

		r.Route("/llm", func(r chi.Router) {
			r.With(s.rateLimitLLM).Post("/test-connection", s.testLLMConnection)
		})
	})

	return r
}

// --- Middleware ---

func (s *Server) rateLimitLLM(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.llmRateLimiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded - please wait before generating more content")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- Health & Status ---

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	player := s.session.Ledger().State()
	flights, distance, planes := s.session.Fleet().Stats()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"planes":         planes,
		"routes":         len(s.session.Fleet().Routes()),
		"total_flights":  flights,
		"total_distance": distance,
		"player_level":   player.Level,
		"coins":          player.Coins,
		"paused":         s.session.Paused(),
		"phase":          s.session.Phase(),
		"save_status":    s.scheduler.Status(),
		"config": map[string]interface{}{
			"save_schedule":  s.cfg.SaveSchedule,
			"db_driver":      s.cfg.DBDriver,
			"tick_interval":  s.cfg.TickInterval.String(),
			"llm_provider":   s.cfg.LLMProvider,
			"narrative_live": s.session.Narrator().Live(),
		},
	})
}

// --- Planes ---

func (s *Server) listPlanes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Fleet().Planes())
}

func (s *Server) getPlane(w http.ResponseWriter, r *http.Request) {
	p, ok := s.session.Fleet().Plane(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Plane not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) removePlane(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.session.Fleet().RemovePlane(id); err != nil {
		writeDomainError(w, err)
		return
	}
	log.Info().Str("plane_id", id).Msg("plane removed")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) assignRoute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RouteID string `json:"route_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RouteID == "" {
		writeError(w, http.StatusBadRequest, "route_id is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.session.Fleet().AssignRoute(id, req.RouteID); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writePlane(w, id)
}

func (s *Server) unassignRoute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.session.Fleet().UnassignRoute(id); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writePlane(w, id)
}

func (s *Server) startFlight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.session.Fleet().StartFlight(id); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writePlane(w, id)
}

func (s *Server) completeFlight(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.CompleteFlight(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) boostMood(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.session.Fleet().BoostMood(id, req.Amount); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writePlane(w, id)
}

func (s *Server) restPlane(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hours float64 `json:"hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.session.Fleet().RecoverMood(id, req.Hours); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writePlane(w, id)
}

func (s *Server) listDiaries(w http.ResponseWriter, r *http.Request) {
	diaries, err := s.session.Fleet().RecentDiaries(chi.URLParam(r, "id"), listLimit(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, diaries)
}

func (s *Server) generateDiary(w http.ResponseWriter, r *http.Request) {
	d, err := s.session.GenerateDiary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) writePlane(w http.ResponseWriter, id string) {
	p, ok := s.session.Fleet().Plane(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Plane not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- Routes ---

func (s *Server) listRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Fleet().Routes())
}

func (s *Server) getRoute(w http.ResponseWriter, r *http.Request) {
	route, ok := s.session.Fleet().Route(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Route not found")
		return
	}
	writeJSON(w, http.StatusOK, route)
}

// --- Player ---

func (s *Server) getPlayer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Ledger().State())
}

func (s *Server) unlockCity(w http.ResponseWriter, r *http.Request) {
	if err := s.session.UnlockCity(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"unlocked_cities": s.session.Ledger().UnlockedCities(),
		"routes":          s.session.Fleet().Routes(),
	})
}

func (s *Server) readNotification(w http.ResponseWriter, r *http.Request) {
	if !s.session.Ledger().MarkNotificationRead(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "Notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearNotifications(w http.ResponseWriter, r *http.Request) {
	s.session.Ledger().ClearNotifications()
	w.WriteHeader(http.StatusNoContent)
}

// --- Stories ---

func (s *Server) listStories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Stories().Recent(listLimit(r)))
}

func (s *Server) getPendingStory(w http.ResponseWriter, r *http.Request) {
	st, ok := s.session.Stories().Pending()
	if !ok {
		writeError(w, http.StatusNotFound, "No pending story")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) generateStory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlaneID string `json:"plane_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlaneID == "" {
		writeError(w, http.StatusBadRequest, "plane_id is required")
		return
	}

	st, err := s.session.GenerateStory(r.Context(), req.PlaneID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) makeChoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChoiceID string `json:"choice_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChoiceID == "" {
		writeError(w, http.StatusBadRequest, "choice_id is required")
		return
	}

	st, err := s.session.MakeChoice(chi.URLParam(r, "id"), req.ChoiceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// --- Game ---

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"paused":          s.session.Paused(),
		"phase":           s.session.Phase(),
		"events":          s.session.ActiveEvents(),
		"butterfly_queue": s.session.Stories().ButterflyQueue(),
	})
}

func (s *Server) togglePause(w http.ResponseWriter, r *http.Request) {
	paused := s.session.TogglePause()
	log.Info().Bool("paused", paused).Msg("game pause toggled")
	writeJSON(w, http.StatusOK, map[string]bool{"paused": paused})
}

func (s *Server) saveNow(w http.ResponseWriter, r *http.Request) {
	if err := s.scheduler.SaveNow(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.scheduler.Status())
}

func (s *Server) getOfflineReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.session.OfflineReport()
	if !ok {
		writeError(w, http.StatusNotFound, "No offline report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// --- Reference data, flight log, analysis ---

func (s *Server) getCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.session.Catalog()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cities":       cat.Cities(),
		"plane_models": cat.PlaneModels(),
		"achievements": cat.Achievements(),
	})
}

func (s *Server) listFlights(w http.ResponseWriter, r *http.Request) {
	entries, err := s.session.RecentFlights(r.Context(), listLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch flights: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request) {
	f := s.session.Fleet()
	result := analysis.AnalyzeFleet(f.Planes(), f.Routes(), s.session.Catalog())
	writeJSON(w, http.StatusOK, result)
}

// --- LLM ---

func (s *Server) testLLMConnection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider string `json:"provider"`
		APIKey   string `json:"api_key"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}
	if req.Provider == "" {
		req.Provider = s.cfg.LLMProvider
	}
	if req.APIKey == "" {
		req.APIKey = s.cfg.LLMAPIKey
	}
	if req.APIKey == "" {
		writeError(w, http.StatusBadRequest, "API key is required")
		return
	}

	client, err := llm.NewClient(req.Provider, req.APIKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	if err := client.TestConnection(ctx); err != nil {
		writeError(w, http.StatusUnauthorized, "API key is invalid: "+err.Error())
		return
	}

	availableModels, err := client.ListModels(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch models: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"models":  availableModels,
	})
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps game errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, fleet.ErrPlaneNotFound),
		errors.Is(err, fleet.ErrRouteNotFound),
		errors.Is(err, story.ErrStoryNotFound),
		errors.Is(err, story.ErrChoiceNotFound),
		errors.Is(err, game.ErrCityNotFound):
		return http.StatusNotFound
	case errors.Is(err, fleet.ErrNoRoute),
		errors.Is(err, fleet.ErrAlreadyFlying),
		errors.Is(err, fleet.ErrNotFlying),
		errors.Is(err, fleet.ErrPlaneExists),
		errors.Is(err, story.ErrAlreadyChosen),
		errors.Is(err, progression.ErrCityUnlocked):
		return http.StatusConflict
	case errors.Is(err, progression.ErrCityLocked),
		errors.Is(err, progression.ErrInsufficientCoins),
		errors.Is(err, progression.ErrInsufficientGems):
		return http.StatusForbidden
	case errors.Is(err, fleet.ErrInvalidAmount),
		errors.Is(err, progression.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func listLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return defaultListLimit
	}
	return min(n, maxListLimit)
}

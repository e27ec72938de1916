// Package server provides the HTTP API over the forecast engine and the model
// store, plus an optional watcher that keeps the store in sync with a model
// directory.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/fcast/internal/pipeline"
	"github.com/theirongolddev/fcast/internal/store"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	ModelsDir    string // watched and synced into Store when set
	Interval     time.Duration
	Workers      int
	EventsBuffer int
}

// Event is emitted when the server computes something or the model
// directory changes.
type Event struct {
	ID        int64          `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Subject   string         `json:"subject,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastSyncAt      time.Time `json:"last_sync_at,omitempty"`
	SyncIntervalSec int       `json:"sync_interval_sec"`
	SyncCount       int64     `json:"sync_count"`
	ModelsDir       string    `json:"models_dir,omitempty"`
	StoredModels    int       `json:"stored_models"`
	Forecasts       int64     `json:"forecasts"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the HTTP API and directory sync loop.
type Service struct {
	cfg     Config
	store   *store.Store
	log     zerolog.Logger
	metrics *metrics

	mu          sync.RWMutex
	startedAt   time.Time
	lastSyncAt  time.Time
	syncCount   int64
	forecasts   int64
	lastError   string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new service. st may be nil, in which case model routes
// respond 503 and no directory sync runs.
func New(cfg Config, st *store.Store, log zerolog.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8420"
	}

	return &Service{
		cfg:       cfg,
		store:     st,
		log:       log,
		metrics:   newMetrics(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run serves HTTP and syncs the model directory until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	watching := s.store != nil && s.cfg.ModelsDir != ""
	if watching {
		s.syncOnce()
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("shutdown initiated")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			if watching {
				s.syncOnce()
			}
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}
	}
}

// syncOnce imports changed model files and publishes an event when anything
// changed.
func (s *Service) syncOnce() {
	res, err := pipeline.SyncDir(s.cfg.ModelsDir, s.store, s.cfg.Workers, nil)
	now := time.Now()

	s.mu.Lock()
	s.lastSyncAt = now
	s.syncCount++
	if err != nil {
		s.lastError = err.Error()
		s.mu.Unlock()
		s.log.Error().Err(err).Str("dir", s.cfg.ModelsDir).Msg("model sync failed")
		return
	}
	s.lastError = ""
	s.mu.Unlock()

	s.metrics.storedModels.Set(float64(len(res.Models)))
	for _, fe := range res.FileErrors {
		s.log.Warn().Err(fe.Err).Str("path", fe.Path).Msg("skipping model file")
	}

	if res.Reparsed-len(res.FileErrors) > 0 || res.Removed > 0 {
		s.emit("models_synced", s.cfg.ModelsDir, map[string]any{
			"reparsed":  res.Reparsed - len(res.FileErrors),
			"unchanged": res.Unchanged,
			"removed":   res.Removed,
			"errors":    len(res.FileErrors),
		})
	}
}

func (s *Service) emit(typ, subject string, data map[string]any) {
	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: time.Now(),
		Subject:   subject,
		Data:      data,
	}
	s.mu.Unlock()
	s.publishEvent(ev)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	stored := 0
	if s.store != nil {
		if n, err := s.store.ModelCount(); err == nil {
			stored = n
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastSyncAt:      s.lastSyncAt,
		SyncIntervalSec: int(s.cfg.Interval.Seconds()),
		SyncCount:       s.syncCount,
		ModelsDir:       s.cfg.ModelsDir,
		StoredModels:    stored,
		Forecasts:       s.forecasts,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

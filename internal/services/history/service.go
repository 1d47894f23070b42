package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/storage"
)

const (
	Key     = "weather_search_history"
	MaxSize = 20
)

// FailureHook receives persistence failures that are not returned to callers.
type FailureHook func(operation string, err error)

type Option func(*Service)

func WithFailureHook(hook FailureHook) Option {
	return func(s *Service) {
		s.onFailure = hook
	}
}

// Service owns the persisted, most-recent-first list of searched cities.
//
// It does no locking of its own: overlapping mutations on one store are
// read-modify-write cycles and the last one to persist wins.
type Service struct {
	kv        storage.KV
	logger    zerolog.Logger
	onFailure FailureHook
}

func NewService(kv storage.KV, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		kv:     kv,
		logger: logger.With().Str("component", "HistoryService").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll returns the stored history. Missing or unreadable data is an empty history.
func (s *Service) GetAll(ctx context.Context) []string {
	raw, err := s.kv.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Warn().
				Ctx(ctx).
				Err(err).
				Msg("failed to load search history")
		}
		return []string{}
	}

	var cities []string
	if err := json.Unmarshal([]byte(raw), &cities); err != nil {
		s.logger.Warn().
			Ctx(ctx).
			Err(err).
			Msg("stored search history is malformed, treating as empty")
		return []string{}
	}
	if cities == nil {
		return []string{}
	}
	return cities
}

// Record moves city to the front, dropping any case-insensitive duplicate,
// and trims the list to MaxSize.
func (s *Service) Record(ctx context.Context, city string) {
	current := s.GetAll(ctx)

	next := make([]string, 0, len(current)+1)
	next = append(next, city)
	for _, c := range current {
		if strings.EqualFold(c, city) {
			continue
		}
		next = append(next, c)
	}
	if len(next) > MaxSize {
		next = next[:MaxSize]
	}

	s.logger.Debug().
		Ctx(ctx).
		Str("city", city).
		Int("size", len(next)).
		Msg("recording search")
	s.persist(ctx, "record", next)
}

// ReplaceAll stores list as is.
func (s *Service) ReplaceAll(ctx context.Context, list []string) {
	if list == nil {
		list = []string{}
	}
	s.persist(ctx, "replace", list)
}

// Remove drops entries equal to city. Comparison is exact, unlike Record.
func (s *Service) Remove(ctx context.Context, city string) {
	current := s.GetAll(ctx)

	next := make([]string, 0, len(current))
	for _, c := range current {
		if c != city {
			next = append(next, c)
		}
	}

	s.logger.Debug().
		Ctx(ctx).
		Str("city", city).
		Int("removed", len(current)-len(next)).
		Msg("removing search")
	s.ReplaceAll(ctx, next)
}

func (s *Service) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, Key); err != nil {
		s.fail(ctx, "clear", err)
		return
	}
	s.logger.Info().Ctx(ctx).Msg("search history cleared")
}

func (s *Service) persist(ctx context.Context, op string, list []string) {
	data, err := json.Marshal(list)
	if err != nil {
		s.fail(ctx, op, err)
		return
	}
	if err := s.kv.Set(ctx, Key, string(data)); err != nil {
		s.fail(ctx, op, err)
	}
}

func (s *Service) fail(ctx context.Context, op string, err error) {
	err = fmt.Errorf("%w: %s history: %w", models.ErrPersistence, op, err)
	s.logger.Error().
		Ctx(ctx).
		Str("operation", op).
		Err(err).
		Msg("failed to persist search history")
	if s.onFailure != nil {
		s.onFailure(op, err)
	}
}

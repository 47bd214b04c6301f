package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/embed-service/internal/apperr"
	"github.com/DjordjeVuckovic/embed-service/internal/model"
	"github.com/DjordjeVuckovic/embed-service/pkg/metrics"
	"golang.org/x/sync/semaphore"
)

const DefaultMaxConcurrency = 4

var ErrAlreadyReady = errors.New("model handle already set")

// Service is the application context shared by every handler. It starts
// Unready and moves to Ready exactly once, when MarkReady is given the loaded
// model handle.
type Service struct {
	handle  atomic.Pointer[model.Handle]
	limiter *semaphore.Weighted
}

type Option func(*Service)

// WithMaxConcurrency bounds the number of encodes running at once. Zero or a
// negative value leaves inference unbounded.
func WithMaxConcurrency(n int) Option {
	return func(s *Service) {
		if n <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = semaphore.NewWeighted(int64(n))
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{
		limiter: semaphore.NewWeighted(DefaultMaxConcurrency),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) MarkReady(h *model.Handle) error {
	if h == nil {
		return fmt.Errorf("nil model handle")
	}
	if !s.handle.CompareAndSwap(nil, h) {
		return ErrAlreadyReady
	}

	info := h.Info()
	metrics.ModelLoaded.WithLabelValues(info.Model, info.Backend).Set(1)
	slog.Info("Service is ready", "model", info.Model, "dimension", info.Dimension)
	return nil
}

func (s *Service) Loaded() bool {
	return s.handle.Load() != nil
}

// Healthy reports readiness for the readiness probe.
func (s *Service) Healthy(_ context.Context) bool {
	return s.Loaded()
}

func (s *Service) Info() (model.Info, error) {
	h := s.handle.Load()
	if h == nil {
		return model.Info{}, apperr.ErrNotReady
	}
	return h.Info(), nil
}

// Encode returns one vector per text, in input order. Texts are encoded one
// at a time and the first runtime failure aborts the batch.
func (s *Service) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	h := s.handle.Load()
	if h == nil {
		return nil, apperr.ErrNotReady
	}

	vectors := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vec, err := s.encodeOne(ctx, h, text)
		if err != nil {
			slog.Debug("Encode failed", "index", i, "error", err)
			return nil, apperr.NewInternal(err)
		}
		vectors = append(vectors, vec)
	}

	return vectors, nil
}

func (s *Service) encodeOne(ctx context.Context, h *model.Handle, text string) ([]float32, error) {
	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer s.limiter.Release(1)
	}

	metrics.InferencesInFlight.Inc()
	defer metrics.InferencesInFlight.Dec()

	name := h.Info().Model
	start := time.Now()
	vec, err := h.Encode(ctx, text)
	if err != nil {
		metrics.InferenceErrors.WithLabelValues(name).Inc()
		return nil, err
	}
	metrics.InferenceDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	return vec, nil
}

// Close releases the model runtime. Safe to call on an Unready service.
func (s *Service) Close() error {
	if h := s.handle.Load(); h != nil {
		return h.Close()
	}
	return nil
}

// Package modeltest provides deterministic in-memory encoders for tests.
package modeltest

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DjordjeVuckovic/embed-service/internal/model"
)

// HashEncoder derives a stable pseudo-embedding from the text bytes.
type HashEncoder struct {
	Dim int

	// FailOn makes Encode fail for the given text.
	FailOn string
	// RejectEmpty fails empty texts the way the TEI runtime answers them.
	RejectEmpty bool
	// Gate, when set, blocks every Encode until it is closed.
	Gate chan struct{}

	mu      sync.Mutex
	calls   []string
	running atomic.Int32
	peak    atomic.Int32
}

func (e *HashEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	n := e.running.Add(1)
	defer e.running.Add(-1)
	for {
		p := e.peak.Load()
		if n <= p || e.peak.CompareAndSwap(p, n) {
			break
		}
	}

	e.mu.Lock()
	e.calls = append(e.calls, text)
	e.mu.Unlock()

	if e.Gate != nil {
		select {
		case <-e.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if e.RejectEmpty && text == "" {
		return nil, errors.New("runtime returned status 422: `inputs` cannot be empty")
	}
	if e.FailOn != "" && text == e.FailOn {
		return nil, errors.New("runtime failure: sequence could not be processed")
	}

	vec := make([]float32, e.Dim)
	h := fnv.New32a()
	for i := range vec {
		h.Reset()
		_, _ = h.Write([]byte{byte(i), byte(i >> 8)})
		_, _ = h.Write([]byte(text))
		vec[i] = float32(h.Sum32()%2000)/1000 - 1
	}
	return vec, nil
}

func (e *HashEncoder) Close() error {
	return nil
}

// Calls returns the texts encoded so far, warm-up included.
func (e *HashEncoder) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// Peak returns the highest number of concurrent Encode calls observed.
func (e *HashEncoder) Peak() int {
	return int(e.peak.Load())
}

// NewHandle loads enc as a model handle named "test-bert".
func NewHandle(tb testing.TB, enc model.Encoder) *model.Handle {
	tb.Helper()

	h, err := model.New(context.Background(), "test-bert", "test", model.DefaultMaxTokens, enc)
	if err != nil {
		tb.Fatalf("failed to create model handle: %v", err)
	}
	return h
}

package llm

import (
	"context"
	"fmt"
)

// Chain tries an ordered list of backends in sequence: local first, remote
// fallback. Each backend is probed per call; a backend that reports
// unavailable or errors is skipped, never retried within the same call.
type Chain struct {
	backends []Backend
}

// NewChain creates a chain over the given backends, tried in order.
func NewChain(backends ...Backend) *Chain {
	return &Chain{backends: backends}
}

// Len returns the number of configured backends.
func (c *Chain) Len() int {
	return len(c.backends)
}

// Complete runs the request against the first backend that is reachable and
// serves it. Returns ErrNoBackend (wrapped with per-backend detail) when
// every backend is unavailable or fails.
func (c *Chain) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if len(c.backends) == 0 {
		return nil, ErrNoBackend
	}

	var lastErr error
	for _, backend := range c.backends {
		if !backend.IsAvailable(ctx) {
			lastErr = fmt.Errorf("backend %s unavailable", backend.Name())
			continue
		}

		resp, err := backend.Complete(ctx, req)
		if err != nil {
			lastErr = fmt.Errorf("backend %s: %w", backend.Name(), err)
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrNoBackend, lastErr)
}

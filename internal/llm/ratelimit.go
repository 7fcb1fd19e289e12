package llm

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

// RateLimitedProvider wraps a Provider with a client-side request rate limit
// so long planning loops stay under provider quotas.
type RateLimitedProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// NewRateLimitedProvider wraps inner with a limit of requestsPerMinute.
// A burst of 1 keeps requests evenly spaced.
func NewRateLimitedProvider(inner Provider, requestsPerMinute int) *RateLimitedProvider {
	return &RateLimitedProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

// Name returns the wrapped provider's name.
func (p *RateLimitedProvider) Name() string {
	return p.inner.Name()
}

// Models returns the wrapped provider's models.
func (p *RateLimitedProvider) Models() []ModelInfo {
	return p.inner.Models()
}

// Complete blocks until the limiter permits a request, then delegates.
func (p *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, types.WrapError(ErrTimeoutExceeded, "rate limiter wait interrupted", err)
	}
	return p.inner.Complete(ctx, req)
}

// Health delegates to the wrapped provider. Health checks are not limited.
func (p *RateLimitedProvider) Health(ctx context.Context) types.HealthStatus {
	return p.inner.Health(ctx)
}

package llm

import (
	"context"
	"fmt"

	"github.com/syllascan/syllascan/internal/model"
)

// Repairer wraps a Provider with the seed-fallback contract the pipeline
// relies on: any failure returns the heuristic items unchanged, together
// with the error, so repair can never make a result worse.
type Repairer struct {
	provider Provider
	config   Config
}

// NewRepairer builds a Repairer from configuration. An empty provider
// name yields a disabled Repairer, not an error.
func NewRepairer(config Config) (*Repairer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Repairer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured.
func (r *Repairer) IsEnabled() bool {
	return r != nil && r.provider != nil
}

// ProviderName returns the configured provider's name, or "" when disabled.
func (r *Repairer) ProviderName() string {
	if !r.IsEnabled() {
		return ""
	}
	return r.provider.Name()
}

// Repair asks the provider to clean the seed items against the raw text.
// The returned slice is always usable: the repaired list on success, the
// seeds on any failure.
func (r *Repairer) Repair(ctx context.Context, req RepairRequest) ([]model.Assignment, error) {
	if !r.IsEnabled() {
		return req.Items, fmt.Errorf("llm repair is not enabled")
	}

	resp, err := r.provider.Repair(ctx, req)
	if err != nil {
		return req.Items, fmt.Errorf("llm repair (%s): %w", r.provider.Name(), err)
	}
	return resp.Items, nil
}

package llm

import "context"

// Completer is the single text-completion contract the pipeline needs.
// Implementations must be safe for concurrent use.
type Completer interface {
	Complete(ctx context.Context, prompt, systemPrompt string, opts ...CallOption) (string, error)
}

// CallOptions are per-call settings for Complete.
type CallOptions struct {
	Tier ModelTier
	JSON bool
}

// CallOption mutates CallOptions.
type CallOption func(*CallOptions)

// WithTier selects the model tier. Default is TierStandard.
func WithTier(tier ModelTier) CallOption {
	return func(o *CallOptions) { o.Tier = tier }
}

// WithJSON asks the provider for a JSON response.
func WithJSON() CallOption {
	return func(o *CallOptions) { o.JSON = true }
}

// ResolveCallOptions applies opts over the defaults.
func ResolveCallOptions(opts ...CallOption) CallOptions {
	o := CallOptions{Tier: TierStandard}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

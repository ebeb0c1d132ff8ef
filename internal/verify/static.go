package verify

import "context"

// StaticProvider answers verification requests from a fixed function,
// without any network I/O. It backs offline runs and tests.
type StaticProvider struct {
	// Judge produces the decision for one request. When nil, every
	// request is accepted with a zero delta.
	Judge func(req Request) (*Decision, error)
}

// Name returns the provider name
func (p *StaticProvider) Name() string {
	return "static"
}

// IsAvailable always reports true
func (p *StaticProvider) IsAvailable(ctx context.Context) bool {
	return true
}

// Verify answers from the configured judge function
func (p *StaticProvider) Verify(ctx context.Context, req Request) (*Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Judge == nil {
		return &Decision{Accepted: true}, nil
	}
	return p.Judge(req)
}

package session

import "context"

type ctxKey struct{}

// WithContext stores the resolved session in ctx.
func WithContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session resolved for this request.
// A request that never went through the resolver reads as anonymous.
func FromContext(ctx context.Context) Session {
	if v := ctx.Value(ctxKey{}); v != nil {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return Anonymous()
}

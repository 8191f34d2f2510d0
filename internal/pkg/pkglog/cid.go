package pkglog

import "context"

type correlationKey struct{}

// CorrelationID returns the correlation ID carried by ctx, if any.
//
// The HTTP middleware stores it before any handler runs; usecases copy it into
// change events so downstream consumers can join logs across the bus.
func CorrelationID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	cid, ok := ctx.Value(correlationKey{}).(string)
	if !ok || cid == "" {
		return "", false
	}
	return cid, true
}

// WithCorrelationID returns a copy of ctx carrying cid. An empty cid leaves ctx
// unchanged.
func WithCorrelationID(ctx context.Context, cid string) context.Context {
	if cid == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, cid)
}

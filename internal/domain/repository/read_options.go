package repository

import "context"

type freshReadKey struct{}

// WithFreshReads marks ctx so that caching decorators read straight from the
// store. Use it for lookups that feed a write.
func WithFreshReads(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshReadKey{}, true)
}

// FreshReads reports whether ctx was marked by WithFreshReads.
func FreshReads(ctx context.Context) bool {
	v, _ := ctx.Value(freshReadKey{}).(bool)
	return v
}

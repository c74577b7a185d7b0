package core

import "context"

type requestMetaKey struct{}

// RequestMeta identifies the client that submitted an import. It is copied
// into the team_log entry of the batch.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// ContextWithRequestMeta stores meta in ctx.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext returns the metadata stored by ContextWithRequestMeta,
// or the zero value.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/roster/internal/core"
)

// withRequestMeta stores the client address and user agent for the audit
// row. RemoteAddr has already been rewritten by TrustedRealIP.
func withRequestMeta(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithRequestMeta(ctx, core.RequestMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
}

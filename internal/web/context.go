package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/tablesort/internal/core"
	"github.com/JonMunkholm/tablesort/internal/web/middleware"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx for load logging.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, middleware.ClientIP(r))
	ctx = core.ContextWithUserAgent(ctx, r.Header.Get("User-Agent"))
	return ctx
}

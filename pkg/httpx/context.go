package httpx

import (
	"context"

	"github.com/mcplanning/backend/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyClaims ctxKey = "claims"
)

// ClaimsFromContext returns the verified token claims attached by
// AuthnMiddleware, if any.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

func roleFromCtx(ctx context.Context) string {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return ""
	}
	return c.Role
}

func subjectFromCtx(ctx context.Context) string {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return ""
	}
	return c.Subject
}

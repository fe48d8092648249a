package internal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const (
	contextTenantKey ctxKey = "tenantID"
)

// TenantFromContext returns the tenant scope installed by the auth middleware.
// The zero UUID means the request carries no tenant scope.
func TenantFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if tenantID, ok := ctx.Value(contextTenantKey).(uuid.UUID); ok {
		return tenantID
	}
	return uuid.Nil
}

func ContextWithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, contextTenantKey, tenantID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}

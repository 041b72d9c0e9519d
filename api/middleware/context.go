package middleware

import "context"

type contextKey string

const (
	ctxAccountID       contextKey = "account_id"
	ctxBasketSessionID contextKey = "basket_session"
)

// AccountIDFromContext returns the signed-in account, or "" for anonymous callers.
func AccountIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccountID).(string); ok {
		return v
	}
	return ""
}

func BasketSessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxBasketSessionID).(string); ok {
		return v
	}
	return ""
}

// WithAccountID injects the account identifier into the context.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccountID, accountID)
}

// WithBasketSessionID injects the anonymous basket session for downstream handlers.
func WithBasketSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxBasketSessionID, sessionID)
}

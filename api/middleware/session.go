package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/api/responses"
	pkgAuth "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/auth"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/config"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/logger"
)

// BasketSessionHeader carries the anonymous basket session id in both directions.
const BasketSessionHeader = "X-Basket-Session"

// Session resolves who owns the basket for this request. The anonymous session id
// is minted when absent and echoed on the response. A bearer token is optional,
// but one that is present must verify.
func Session(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID := strings.TrimSpace(r.Header.Get(BasketSessionHeader))
			if sessionID == "" {
				sessionID = uuid.NewString()
			} else if _, err := uuid.Parse(sessionID); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid basket session").
					WithDetails(map[string]any{"header": BasketSessionHeader}))
				return
			}
			w.Header().Set(BasketSessionHeader, sessionID)

			ctx = WithBasketSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithBasketSession(ctx, sessionID)
			}

			if raw := strings.TrimSpace(r.Header.Get("Authorization")); raw != "" {
				token := raw
				if strings.HasPrefix(strings.ToLower(token), "bearer ") {
					token = strings.TrimSpace(token[7:])
				}
				if token == "" {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
					return
				}

				claims, err := pkgAuth.ParseAccessToken(cfg, token)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
					return
				}

				accountID := claims.AccountID.String()
				ctx = WithAccountID(ctx, accountID)
				if logg != nil {
					ctx = logg.WithAccountID(ctx, accountID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package basket

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/enums"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
)

// Session says which basket a request works against. Authenticated sessions
// use the durable account basket, anonymous ones the local cache.
type Session struct {
	Mode        enums.SessionMode
	AccountID   uuid.UUID
	AnonymousID string
}

// AnonymousSession builds a session bound to a local basket.
func AnonymousSession(anonymousID string) Session {
	return Session{Mode: enums.SessionModeAnonymous, AnonymousID: strings.TrimSpace(anonymousID)}
}

// AuthenticatedSession builds a session bound to an account basket. The
// anonymous id is kept so the login merge knows which cache to fold in.
func AuthenticatedSession(accountID uuid.UUID, anonymousID string) Session {
	return Session{Mode: enums.SessionModeAuthenticated, AccountID: accountID, AnonymousID: strings.TrimSpace(anonymousID)}
}

func (s Session) validate() error {
	switch s.Mode {
	case enums.SessionModeAuthenticated:
		if s.AccountID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "account id required")
		}
	case enums.SessionModeAnonymous:
		if s.AnonymousID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "basket session id required")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown session mode")
	}
	return nil
}

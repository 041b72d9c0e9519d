package basket

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/api/controllers/basket/dto"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/api/middleware"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/api/responses"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/api/validators"
	basketsvc "github.com/lukefryer1234/Oak-Structures-website-sub001/internal/basket"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/enums"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/logger"
)

// BasketFetch returns the caller's basket with line totals and subtotal.
func BasketFetch(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		session, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		basket, err := svc.List(r.Context(), session)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, basket)
	}
}

// BasketClear empties the caller's basket.
func BasketClear(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		session, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), session); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// BasketAddItem prices a configuration and adds it to the caller's basket.
func BasketAddItem(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		session, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload dto.AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Add(r.Context(), session, basketsvc.AddItemInput{
			ProductID:  payload.ProductID,
			Selections: payload.Selections,
			Quantity:   payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// BasketUpdateItem sets the quantity of one line and returns the updated basket.
func BasketUpdateItem(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		session, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload dto.UpdateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetQuantity(r.Context(), session, chi.URLParam(r, "itemKey"), *payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		basket, err := svc.List(r.Context(), session)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, basket)
	}
}

// BasketRemoveItem drops one line. Removing an absent line succeeds.
func BasketRemoveItem(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		session, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), session, chi.URLParam(r, "itemKey")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// BasketMerge folds the anonymous basket named by the session header into the
// signed-in account. A merge already running for the account answers 202.
func BasketMerge(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}

		session, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Merge(r.Context(), session)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if result.State == enums.MergeStateMerging {
			status = http.StatusAccepted
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}

func sessionFromRequest(r *http.Request) (basketsvc.Session, error) {
	if r == nil {
		return basketsvc.Session{}, pkgerrors.New(pkgerrors.CodeValidation, "basket session missing")
	}
	sessionID := middleware.BasketSessionIDFromContext(r.Context())

	raw := middleware.AccountIDFromContext(r.Context())
	if raw == "" {
		if sessionID == "" {
			return basketsvc.Session{}, pkgerrors.New(pkgerrors.CodeValidation, "basket session missing")
		}
		return basketsvc.AnonymousSession(sessionID), nil
	}

	accountID, err := uuid.Parse(raw)
	if err != nil {
		return basketsvc.Session{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid account id")
	}
	return basketsvc.AuthenticatedSession(accountID, sessionID), nil
}

package catalog

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/api/controllers/catalog/dto"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/api/responses"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/api/validators"
	catalogsvc "github.com/lukefryer1234/Oak-Structures-website-sub001/internal/catalog"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/pricing"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/enums"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/logger"
)

// Catalog is the read surface of the option catalog.
type Catalog interface {
	List() []catalogsvc.Product
	Get(productID string) (*catalogsvc.Product, error)
}

// Quoter prices a configuration.
type Quoter interface {
	Quote(ctx context.Context, productID string, selections []pricing.Selection) (pricing.Quote, error)
}

// ProductList returns every product, optionally filtered by ?category=.
func ProductList(c Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		var filter enums.ProductCategory
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
					WithDetails(map[string]any{"field": "category"}))
				return
			}
			filter = category
		}

		products := c.List()
		out := make([]dto.Product, 0, len(products))
		for _, p := range products {
			if filter != "" && p.Category != filter {
				continue
			}
			out = append(out, dto.NewProduct(p))
		}
		responses.WriteSuccess(w, out)
	}
}

// ProductDetail returns one product with its option definitions.
func ProductDetail(c Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		product, err := c.Get(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto.NewProduct(*product))
	}
}

// ProductQuote prices the submitted selections.
func ProductQuote(q Quoter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if q == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing unavailable"))
			return
		}

		var payload dto.QuoteRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		quote, err := q.Quote(r.Context(), chi.URLParam(r, "productID"), payload.Selections)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

package pricing

import (
	"fmt"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/catalog"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/enums"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
	"github.com/shopspring/decimal"
)

const pricePlaces = 2

// Engine resolves selections against the catalog and prices them. It holds
// no state and is safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Resolve validates selections and returns the canonical configuration.
// Options the caller omits stay omitted; pricing falls back to their defaults.
func (e *Engine) Resolve(product *catalog.Product, selections []Selection) (Configuration, error) {
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}

	cfg := make(Configuration, 0, len(selections))
	seen := make(map[string]struct{}, len(selections))
	for _, sel := range selections {
		opt, ok := product.Option(sel.OptionID)
		if !ok {
			return nil, unknownOption(product.ID, sel.OptionID)
		}
		if _, dup := seen[sel.OptionID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("option %q selected more than once", sel.OptionID)).
				WithDetails(map[string]any{"option_id": sel.OptionID})
		}
		seen[sel.OptionID] = struct{}{}

		value, err := opt.Normalize(sel.Value)
		if err != nil {
			return nil, invalidValue(opt.ID, sel.Value, err)
		}
		cfg = append(cfg, SelectedOption{
			OptionID:        opt.ID,
			Value:           value,
			PriceAdjustment: opt.Adjustment(value),
		})
	}
	return cfg, nil
}

// Price computes the unit price of cfg, re-validating every entry against
// the product. Adjustments carried in cfg are ignored in favour of the
// catalog's current values. The result is never negative and is rounded to
// two decimal places.
func (e *Engine) Price(product *catalog.Product, cfg Configuration) (decimal.Decimal, error) {
	if product == nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}

	values, err := effectiveValues(product, cfg)
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	if product.Category == enums.ProductCategoryGarage && product.GaragePricing != nil {
		total, err = garagePrice(product, values)
		if err != nil {
			return decimal.Zero, err
		}
	} else {
		total = product.BasePrice
		for i := range product.Options {
			opt := &product.Options[i]
			total = total.Add(opt.Adjustment(values[opt.ID]))
		}
	}

	if total.IsNegative() {
		total = decimal.Zero
	}
	return total.Round(pricePlaces), nil
}

// Quote resolves and prices in one step.
func (e *Engine) Quote(product *catalog.Product, selections []Selection) (Quote, error) {
	cfg, err := e.Resolve(product, selections)
	if err != nil {
		return Quote{}, err
	}
	price, err := e.Price(product, cfg)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		ProductID:     product.ID,
		ProductName:   product.Name,
		Configuration: cfg,
		UnitPrice:     price,
	}, nil
}

// effectiveValues maps every product option to its selected value, or its
// default when the configuration omits it.
func effectiveValues(product *catalog.Product, cfg Configuration) (map[string]string, error) {
	values := make(map[string]string, len(product.Options))
	for _, opt := range product.Options {
		values[opt.ID] = opt.Default
	}

	seen := make(map[string]struct{}, len(cfg))
	for _, sel := range cfg {
		opt, ok := product.Option(sel.OptionID)
		if !ok {
			return nil, unknownOption(product.ID, sel.OptionID)
		}
		if _, dup := seen[sel.OptionID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("option %q selected more than once", sel.OptionID))
		}
		seen[sel.OptionID] = struct{}{}

		value, err := opt.Normalize(sel.Value)
		if err != nil {
			return nil, invalidValue(opt.ID, sel.Value, err)
		}
		values[opt.ID] = value
	}
	return values, nil
}

func unknownOption(productID, optionID string) error {
	return pkgerrors.New(pkgerrors.CodeUnknownOption, fmt.Sprintf("product %q has no option %q", productID, optionID)).
		WithDetails(map[string]any{"product_id": productID, "option_id": optionID})
}

func invalidValue(optionID, value string, cause error) error {
	return pkgerrors.Wrap(pkgerrors.CodeInvalidOptionValue, cause, fmt.Sprintf("option %q: %v", optionID, cause)).
		WithDetails(map[string]any{"option_id": optionID, "value": value})
}

package pricing

import (
	"fmt"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/catalog"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
	"github.com/shopspring/decimal"
)

// garagePrice applies the bay formula:
//
//	bays × bayPrice × sizeMultiplier + truss + beam + (catSlide ? bays × catSlidePerBay : 0)
//
// Options outside the formula still contribute their own adjustments.
func garagePrice(product *catalog.Product, values map[string]string) (decimal.Decimal, error) {
	gp := product.GaragePricing
	b := gp.Bindings

	bays, err := decimal.NewFromString(values[b.BayCount])
	if err != nil || !bays.IsPositive() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("garage bay count %q is not usable", values[b.BayCount]))
	}

	multiplier, err := lookup("bay size", gp.BaySizeMultipliers, values[b.BaySize])
	if err != nil {
		return decimal.Zero, err
	}
	truss, err := lookup("truss", gp.TrussPrices, values[b.Truss])
	if err != nil {
		return decimal.Zero, err
	}
	beam, err := lookup("beam size", gp.BeamSizePrices, values[b.BeamSize])
	if err != nil {
		return decimal.Zero, err
	}

	total := bays.Mul(gp.BayPrice).Mul(multiplier).Add(truss).Add(beam)
	if values[b.CatSlide] == "true" {
		total = total.Add(bays.Mul(gp.CatSlidePricePerBay))
	}

	for i := range product.Options {
		opt := &product.Options[i]
		if b.Bound(opt.ID) {
			continue
		}
		total = total.Add(opt.Adjustment(values[opt.ID]))
	}
	return total, nil
}

func lookup(table string, prices map[string]decimal.Decimal, key string) (decimal.Decimal, error) {
	price, ok := prices[key]
	if !ok {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown %s pricing key %q", table, key)).
			WithDetails(map[string]any{"table": table, "key": key})
	}
	return price, nil
}

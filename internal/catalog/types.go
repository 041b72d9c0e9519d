package catalog

import (
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/enums"
	"github.com/shopspring/decimal"
)

// Product is an immutable catalog entry the pricing engine prices against.
type Product struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Category      enums.ProductCategory `json:"category"`
	BasePrice     decimal.Decimal       `json:"base_price"`
	Options       []Option              `json:"options"`
	GaragePricing *GaragePricing        `json:"garage_pricing,omitempty"`
}

// Option returns the option declared with id.
func (p *Product) Option(id string) (*Option, bool) {
	for i := range p.Options {
		if p.Options[i].ID == id {
			return &p.Options[i], true
		}
	}
	return nil, false
}

// Configurable reports whether the product exposes any option.
func (p *Product) Configurable() bool {
	return len(p.Options) > 0
}

// Option is one configurable dimension of a product.
type Option struct {
	ID      string           `json:"id"`
	Label   string           `json:"label"`
	Type    enums.OptionType `json:"type"`
	Default string           `json:"default"`
	Choices []Choice         `json:"choices,omitempty"`

	// Numeric options only.
	Min          decimal.Decimal `json:"min,omitempty"`
	Max          decimal.Decimal `json:"max,omitempty"`
	Step         decimal.Decimal `json:"step,omitempty"`
	PricePerUnit decimal.Decimal `json:"price_per_unit,omitempty"`
}

// Choice returns the permitted choice matching value.
func (o *Option) Choice(value string) (Choice, bool) {
	for _, choice := range o.Choices {
		if choice.Value == value {
			return choice, true
		}
	}
	return Choice{}, false
}

// Choice is one permitted value of an enumerated option.
type Choice struct {
	Value           string          `json:"value"`
	Label           string          `json:"label"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	MediaURL        string          `json:"media_url,omitempty"`
}

// GaragePricing holds the coefficients of the garage-family price formula.
type GaragePricing struct {
	BayPrice            decimal.Decimal            `json:"bay_price"`
	CatSlidePricePerBay decimal.Decimal            `json:"cat_slide_price_per_bay"`
	TrussPrices         map[string]decimal.Decimal `json:"truss_prices"`
	BeamSizePrices      map[string]decimal.Decimal `json:"beam_size_prices"`
	BaySizeMultipliers  map[string]decimal.Decimal `json:"bay_size_multipliers"`
	Bindings            GarageBindings             `json:"bindings"`
}

// GarageBindings names the product options that feed each formula term.
type GarageBindings struct {
	BayCount string `json:"bay_count"`
	BaySize  string `json:"bay_size"`
	Truss    string `json:"truss"`
	BeamSize string `json:"beam_size"`
	CatSlide string `json:"cat_slide"`
}

// Bound reports whether optionID feeds one of the formula terms.
func (b GarageBindings) Bound(optionID string) bool {
	switch optionID {
	case b.BayCount, b.BaySize, b.Truss, b.BeamSize, b.CatSlide:
		return true
	}
	return false
}

const (
	DefaultBayCountOption = "bayCount"
	DefaultBaySizeOption  = "baySize"
	DefaultTrussOption    = "trussType"
	DefaultBeamSizeOption = "beamSize"
	DefaultCatSlideOption = "catSlide"
)

func (b GarageBindings) withDefaults() GarageBindings {
	if b.BayCount == "" {
		b.BayCount = DefaultBayCountOption
	}
	if b.BaySize == "" {
		b.BaySize = DefaultBaySizeOption
	}
	if b.Truss == "" {
		b.Truss = DefaultTrussOption
	}
	if b.BeamSize == "" {
		b.BeamSize = DefaultBeamSizeOption
	}
	if b.CatSlide == "" {
		b.CatSlide = DefaultCatSlideOption
	}
	return b
}

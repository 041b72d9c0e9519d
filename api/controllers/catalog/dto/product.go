package dto

import (
	catalogsvc "github.com/lukefryer1234/Oak-Structures-website-sub001/internal/catalog"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/pricing"
	"github.com/shopspring/decimal"
)

// QuoteRequest prices a configuration without touching any basket.
type QuoteRequest struct {
	Selections []pricing.Selection `json:"selections" validate:"dive"`
}

type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Configurable bool            `json:"configurable"`
	Options      []Option        `json:"options"`
}

type Option struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Default string   `json:"default"`
	Choices []Choice `json:"choices,omitempty"`

	Min          *decimal.Decimal `json:"min,omitempty"`
	Max          *decimal.Decimal `json:"max,omitempty"`
	Step         *decimal.Decimal `json:"step,omitempty"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit,omitempty"`
}

type Choice struct {
	Value           string          `json:"value"`
	Label           string          `json:"label"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	MediaURL        string          `json:"media_url,omitempty"`
}

// NewProduct maps a catalog entry to its public shape. Garage formula
// coefficients stay server side.
func NewProduct(p catalogsvc.Product) Product {
	out := Product{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category.String(),
		BasePrice:    p.BasePrice,
		Configurable: p.Configurable(),
		Options:      make([]Option, 0, len(p.Options)),
	}
	for _, o := range p.Options {
		opt := Option{
			ID:      o.ID,
			Label:   o.Label,
			Type:    o.Type.String(),
			Default: o.Default,
		}
		if o.Type.IsNumeric() {
			min, max, step, ppu := o.Min, o.Max, o.Step, o.PricePerUnit
			opt.Min, opt.Max, opt.Step, opt.PricePerUnit = &min, &max, &step, &ppu
		}
		for _, c := range o.Choices {
			opt.Choices = append(opt.Choices, Choice{
				Value:           c.Value,
				Label:           c.Label,
				PriceAdjustment: c.PriceAdjustment,
				MediaURL:        c.MediaURL,
			})
		}
		out.Options = append(out.Options, opt)
	}
	return out
}

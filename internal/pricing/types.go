package pricing

import "github.com/shopspring/decimal"

// Selection is a raw option choice as submitted by a caller.
type Selection struct {
	OptionID string `json:"option_id" validate:"required"`
	Value    string `json:"value"`
}

// SelectedOption is a validated selection carrying its canonical value.
type SelectedOption struct {
	OptionID        string          `json:"option_id"`
	Value           string          `json:"value"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}

// Configuration is the resolved set of selections for one product, in the
// order they were submitted.
type Configuration []SelectedOption

// Value returns the selected value for optionID.
func (c Configuration) Value(optionID string) (string, bool) {
	for _, sel := range c {
		if sel.OptionID == optionID {
			return sel.Value, true
		}
	}
	return "", false
}

// Selections strips the configuration back to raw selections.
func (c Configuration) Selections() []Selection {
	out := make([]Selection, 0, len(c))
	for _, sel := range c {
		out = append(out, Selection{OptionID: sel.OptionID, Value: sel.Value})
	}
	return out
}

// Quote is a priced configuration.
type Quote struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Configuration Configuration   `json:"configuration"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
}

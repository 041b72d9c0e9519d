package basket

import (
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/pricing"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/db/models"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/enums"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/types"
	"github.com/shopspring/decimal"
)

// Snapshot carries the display fields stored with a line the first time its
// key is added.
type Snapshot struct {
	ProductID     string                `json:"product_id"`
	ProductName   string                `json:"product_name"`
	Configuration pricing.Configuration `json:"configuration"`
	UnitPrice     decimal.Decimal       `json:"unit_price"`
}

// LineItem is one consolidated basket entry.
type LineItem struct {
	Key      string `json:"item_key"`
	Quantity int    `json:"quantity"`
	Snapshot
}

// LineTotal returns unit price times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Basket is a priced view of every line in one basket.
type Basket struct {
	Mode     enums.SessionMode `json:"mode"`
	Items    []LineItemDTO     `json:"items"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Count    int               `json:"item_count"`
}

// LineItemDTO is the response shape of a line.
type LineItemDTO struct {
	LineItem
	LineTotal decimal.Decimal `json:"line_total"`
}

func newBasket(mode enums.SessionMode, items []LineItem) Basket {
	out := Basket{Mode: mode, Items: make([]LineItemDTO, 0, len(items)), Subtotal: decimal.Zero}
	for _, item := range items {
		total := item.LineTotal()
		out.Items = append(out.Items, LineItemDTO{LineItem: item, LineTotal: total})
		out.Subtotal = out.Subtotal.Add(total)
		out.Count += item.Quantity
	}
	return out
}

// MergeResult reports the outcome of folding an anonymous basket into an account.
type MergeResult struct {
	State   enums.MergeState `json:"state"`
	MergeID string           `json:"merge_id,omitempty"`
	Merged  int              `json:"merged"`
	Skipped int              `json:"skipped"`
	Dropped int              `json:"dropped"`
}

func toSnapshotModel(cfg pricing.Configuration) types.ConfigurationSnapshot {
	out := make(types.ConfigurationSnapshot, 0, len(cfg))
	for _, sel := range cfg {
		out = append(out, types.SelectedOption{
			OptionID:        sel.OptionID,
			Value:           sel.Value,
			PriceAdjustment: sel.PriceAdjustment,
		})
	}
	return out
}

func fromSnapshotModel(snapshot types.ConfigurationSnapshot) pricing.Configuration {
	out := make(pricing.Configuration, 0, len(snapshot))
	for _, sel := range snapshot {
		out = append(out, pricing.SelectedOption{
			OptionID:        sel.OptionID,
			Value:           sel.Value,
			PriceAdjustment: sel.PriceAdjustment,
		})
	}
	return out
}

func lineItemFromModel(m models.BasketItem) LineItem {
	return LineItem{
		Key:      m.ItemKey,
		Quantity: m.Quantity,
		Snapshot: Snapshot{
			ProductID:     m.ProductID,
			ProductName:   m.ProductName,
			Configuration: fromSnapshotModel(m.Configuration),
			UnitPrice:     m.UnitPrice,
		},
	}
}

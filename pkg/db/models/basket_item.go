package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/types"
)

// BasketItem is one consolidated line of an account's basket. The
// (account_id, item_key) pair is unique so concurrent adds of the same
// configuration land on a single row.
type BasketItem struct {
	AccountID     uuid.UUID                   `gorm:"column:account_id;type:uuid;primaryKey"`
	ItemKey       string                      `gorm:"column:item_key;primaryKey"`
	ProductID     string                      `gorm:"column:product_id;not null"`
	ProductName   string                      `gorm:"column:product_name;not null"`
	Configuration types.ConfigurationSnapshot `gorm:"column:configuration;type:jsonb;not null"`
	UnitPrice     decimal.Decimal             `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity      int                         `gorm:"column:quantity;not null"`
	CreatedAt     time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (BasketItem) TableName() string { return "basket_items" }

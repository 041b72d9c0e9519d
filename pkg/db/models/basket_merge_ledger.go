package models

import (
	"time"

	"github.com/google/uuid"
)

// BasketMergeEntry records how much of one anonymous line a merge has
// already folded into an account, so a retried merge only applies the rest.
type BasketMergeEntry struct {
	MergeID   string    `gorm:"column:merge_id;primaryKey"`
	SourceKey string    `gorm:"column:source_key;primaryKey"`
	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (BasketMergeEntry) TableName() string { return "basket_merge_ledger" }

package basket

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/repo"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/db/models"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultStoreTimeout = 3 * time.Second

// Repository persists account baskets. Every mutation is a single statement
// (or a single transaction for merges), so concurrent requests never lose
// an increment.
type Repository struct {
	repo.Base
}

// NewRepository constructs a basket repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB, timeout time.Duration) *Repository {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &Repository{Base: repo.NewBase(db, timeout)}
}

// GetAll returns every line of the account basket, oldest first.
func (r *Repository) GetAll(ctx context.Context, accountID uuid.UUID) ([]LineItem, error) {
	db, cancel := r.DB(ctx)
	defer cancel()

	var rows []models.BasketItem
	err := db.
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Order("item_key ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, storeError("list basket items", err)
	}

	items := make([]LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, lineItemFromModel(row))
	}
	return items, nil
}

// UpsertIncrement creates the line at key with quantity delta, or adds delta
// to the stored quantity when the line already exists.
func (r *Repository) UpsertIncrement(ctx context.Context, accountID uuid.UUID, key string, delta int, snapshot Snapshot) error {
	if err := validateIncrement(accountID, key, delta); err != nil {
		return err
	}

	db, cancel := r.DB(ctx)
	defer cancel()

	if err := upsertIncrement(db, accountID, key, delta, snapshot); err != nil {
		return storeError("upsert basket item", err)
	}
	return nil
}

// SetQuantity overwrites the quantity at key. A quantity of zero or less
// removes the line. Absent keys are left alone.
func (r *Repository) SetQuantity(ctx context.Context, accountID uuid.UUID, key string, qty int) error {
	if qty <= 0 {
		return r.Remove(ctx, accountID, key)
	}

	db, cancel := r.DB(ctx)
	defer cancel()

	err := db.
		Model(&models.BasketItem{}).
		Where("account_id = ? AND item_key = ?", accountID, key).
		Update("quantity", qty).
		Error
	if err != nil {
		return storeError("set basket quantity", err)
	}
	return nil
}

// Remove deletes the line at key if it exists.
func (r *Repository) Remove(ctx context.Context, accountID uuid.UUID, key string) error {
	db, cancel := r.DB(ctx)
	defer cancel()

	err := db.
		Where("account_id = ? AND item_key = ?", accountID, key).
		Delete(&models.BasketItem{}).
		Error
	if err != nil {
		return storeError("remove basket item", err)
	}
	return nil
}

// ClearAll deletes every line of the account in one statement.
func (r *Repository) ClearAll(ctx context.Context, accountID uuid.UUID) error {
	db, cancel := r.DB(ctx)
	defer cancel()

	err := db.
		Where("account_id = ?", accountID).
		Delete(&models.BasketItem{}).
		Error
	if err != nil {
		return storeError("clear basket", err)
	}
	return nil
}

// ApplyMergeIncrement folds one anonymous line into the account basket,
// recording how much of sourceKey this merge has applied. A retried merge
// only adds the quantity not yet recorded. Returns the quantity applied.
func (r *Repository) ApplyMergeIncrement(ctx context.Context, accountID uuid.UUID, mergeID, sourceKey string, item LineItem) (int, error) {
	if err := validateIncrement(accountID, item.Key, item.Quantity); err != nil {
		return 0, err
	}
	if mergeID == "" || sourceKey == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "merge id and source key are required")
	}

	db, cancel := r.DB(ctx)
	defer cancel()

	applied := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var entry models.BasketMergeEntry
		err := tx.Where("merge_id = ? AND source_key = ?", mergeID, sourceKey).Take(&entry).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry = models.BasketMergeEntry{
				MergeID:   mergeID,
				SourceKey: sourceKey,
				AccountID: accountID,
				Quantity:  item.Quantity,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			applied = item.Quantity
		case err != nil:
			return err
		default:
			if item.Quantity <= entry.Quantity {
				return nil
			}
			applied = item.Quantity - entry.Quantity
			if err := tx.Model(&entry).Update("quantity", item.Quantity).Error; err != nil {
				return err
			}
		}
		return upsertIncrement(tx, accountID, item.Key, applied, item.Snapshot)
	})
	if err != nil {
		return 0, storeError("apply merge increment", err)
	}
	return applied, nil
}

// ForgetMerge drops the ledger rows of a completed merge.
func (r *Repository) ForgetMerge(ctx context.Context, mergeID string) error {
	db, cancel := r.DB(ctx)
	defer cancel()

	err := db.
		Where("merge_id = ?", mergeID).
		Delete(&models.BasketMergeEntry{}).
		Error
	if err != nil {
		return storeError("forget merge ledger", err)
	}
	return nil
}

func upsertIncrement(tx *gorm.DB, accountID uuid.UUID, key string, delta int, snapshot Snapshot) error {
	row := models.BasketItem{
		AccountID:     accountID,
		ItemKey:       key,
		ProductID:     snapshot.ProductID,
		ProductName:   snapshot.ProductName,
		Configuration: toSnapshotModel(snapshot.Configuration),
		UnitPrice:     snapshot.UnitPrice,
		Quantity:      delta,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "item_key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("basket_items.quantity + excluded.quantity"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&row).Error
}

func validateIncrement(accountID uuid.UUID, key string, delta int) error {
	if accountID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item key is required")
	}
	if delta <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return nil
}

func storeError(op string, err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, op)
}

// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence/model"
)

// lockWaitDeadline bounds how long an atomic unit may wait for the owner's
// balance row before the operation is reported as a retryable conflict.
const lockWaitDeadline = 5 * time.Second

// ledgerRepository implements the adapter.LedgerRepository interface. Every
// mutation runs in a DB transaction that first locks the owner's balance row,
// so concurrent writers for the same owner serialize and the solvency check
// never reads a stale balance. The row lock uses SELECT ... FOR UPDATE on
// postgres; the sqlite dialect used in tests serializes writers on its single
// connection instead.
type ledgerRepository struct {
	db           *gorm.DB
	baseCurrency string
}

// NewLedgerRepository creates a new ledger repository instance.
func NewLedgerRepository(db *gorm.DB, baseCurrency string) adapter.LedgerRepository {
	return &ledgerRepository{
		db:           db,
		baseCurrency: baseCurrency,
	}
}

// GetOrCreateBalance returns the owner's balance, creating a zero row on
// first access.
func (r *ledgerRepository) GetOrCreateBalance(ctx context.Context, userID uuid.UUID) (*entity.Balance, error) {
	var balanceModel model.BalanceModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&balanceModel)
	if result.Error == nil {
		return balanceModel.ToEntity(), nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	fresh := entity.NewBalance(userID, r.baseCurrency)
	created := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model.BalanceFromEntity(fresh))
	if created.Error != nil {
		return nil, created.Error
	}
	if created.RowsAffected == 0 {
		// Lost the race against a concurrent first access.
		result = r.db.WithContext(ctx).Where("user_id = ?", userID).First(&balanceModel)
		if result.Error != nil {
			return nil, result.Error
		}
		return balanceModel.ToEntity(), nil
	}
	return fresh, nil
}

// CreateApplied persists the transaction and folds delta into the owner's
// balance in one unit.
func (r *ledgerRepository) CreateApplied(ctx context.Context, txn *entity.Transaction, delta decimal.Decimal) (*entity.Balance, error) {
	var balance *entity.Balance
	err := r.inLockedUnit(ctx, txn.UserID, func(tx *gorm.DB, balanceModel *model.BalanceModel) error {
		next := balanceModel.Amount.Add(delta)
		if next.IsNegative() {
			return domainerror.NewLedgerError(
				domainerror.ErrCodeInsufficientFunds,
				"expense exceeds the available balance",
				domainerror.ErrInsufficientFunds,
			)
		}

		if err := tx.Create(model.TransactionFromEntity(txn)).Error; err != nil {
			return err
		}
		if err := r.writeBalance(tx, balanceModel, next); err != nil {
			return err
		}
		balance = balanceModel.ToEntity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// UpdateApplied saves the modified transaction and shifts the balance by
// delta in one unit. The pre-image delta was derived from is re-verified
// under the lock, so a concurrent delete or update of the same row cannot
// slip a stale delta into the balance.
func (r *ledgerRepository) UpdateApplied(ctx context.Context, prev, txn *entity.Transaction, delta decimal.Decimal) (*entity.Balance, error) {
	var balance *entity.Balance
	err := r.inLockedUnit(ctx, txn.UserID, func(tx *gorm.DB, balanceModel *model.BalanceModel) error {
		if err := assertUnchanged(tx, prev); err != nil {
			return err
		}

		next := balanceModel.Amount.Add(delta)
		if next.IsNegative() {
			return domainerror.NewLedgerError(
				domainerror.ErrCodeInsufficientFunds,
				"update would drive the balance negative",
				domainerror.ErrInsufficientFunds,
			)
		}

		updated := model.TransactionFromEntity(txn)
		result := tx.Model(&model.TransactionModel{}).
			Where("id = ? AND user_id = ?", txn.ID, txn.UserID).
			Updates(map[string]interface{}{
				"type":          updated.Type,
				"amount":        updated.Amount,
				"currency_code": updated.CurrencyCode,
				"category_id":   updated.CategoryID,
				"title":         updated.Title,
				"updated_at":    updated.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.NewLedgerError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		if err := r.writeBalance(tx, balanceModel, next); err != nil {
			return err
		}
		balance = balanceModel.ToEntity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// DeleteApplied removes the transaction and reverts its effect. Deletions
// may drive the balance negative; no solvency check applies. As with
// UpdateApplied, the pre-image is re-verified under the lock before the
// externally derived revert delta is trusted.
func (r *ledgerRepository) DeleteApplied(ctx context.Context, prev *entity.Transaction, delta decimal.Decimal) (*entity.Balance, error) {
	var balance *entity.Balance
	err := r.inLockedUnit(ctx, prev.UserID, func(tx *gorm.DB, balanceModel *model.BalanceModel) error {
		if err := assertUnchanged(tx, prev); err != nil {
			return err
		}

		result := tx.Delete(&model.TransactionModel{}, "id = ? AND user_id = ?", prev.ID, prev.UserID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.NewLedgerError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		if err := r.writeBalance(tx, balanceModel, balanceModel.Amount.Add(delta)); err != nil {
			return err
		}
		balance = balanceModel.ToEntity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// assertUnchanged re-reads the transaction inside the locked unit and checks
// the fields its balance effect was derived from. A vanished row is not
// found; a row another writer changed in the meantime is a retryable
// conflict, since the caller's delta no longer describes it.
func assertUnchanged(tx *gorm.DB, prev *entity.Transaction) error {
	var current model.TransactionModel
	err := tx.Where("id = ? AND user_id = ?", prev.ID, prev.UserID).First(&current).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerror.NewLedgerError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return err
	}
	if current.Type != string(prev.Type) ||
		!current.Amount.Equal(prev.Amount) ||
		current.CurrencyCode != prev.CurrencyCode {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeOperationConflict,
			"transaction changed concurrently, retry",
			domainerror.ErrOperationConflict,
		)
	}
	return nil
}

// ResetOwner deletes all of the owner's transactions and categories and
// forces the balance to zero, in one unit.
func (r *ledgerRepository) ResetOwner(ctx context.Context, userID uuid.UUID) (*entity.Balance, error) {
	var balance *entity.Balance
	err := r.inLockedUnit(ctx, userID, func(tx *gorm.DB, balanceModel *model.BalanceModel) error {
		if err := tx.Delete(&model.TransactionModel{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.CategoryModel{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := r.writeBalance(tx, balanceModel, decimal.Zero); err != nil {
			return err
		}
		balance = balanceModel.ToEntity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// inLockedUnit runs fn inside a DB transaction holding the owner's balance
// row lock, creating the zero row first when absent. Lock-wait timeouts and
// serialization failures surface as a retryable conflict error.
func (r *ledgerRepository) inLockedUnit(ctx context.Context, userID uuid.UUID, fn func(tx *gorm.DB, balance *model.BalanceModel) error) error {
	if _, err := r.GetOrCreateBalance(ctx, userID); err != nil {
		return err
	}

	lockCtx, cancel := context.WithTimeout(ctx, lockWaitDeadline)
	defer cancel()

	err := r.db.WithContext(lockCtx).Transaction(func(tx *gorm.DB) error {
		var balanceModel model.BalanceModel
		query := tx.Where("user_id = ?", userID)
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&balanceModel).Error; err != nil {
			return err
		}
		return fn(tx, &balanceModel)
	})
	if err != nil && errors.Is(lockCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeOperationConflict,
			"a concurrent operation holds the balance, retry",
			domainerror.ErrOperationConflict,
		)
	}
	return err
}

// writeBalance persists the new amount and refreshes the model in place so
// callers can return the post-write state without a second read.
func (r *ledgerRepository) writeBalance(tx *gorm.DB, balanceModel *model.BalanceModel, amount decimal.Decimal) error {
	now := time.Now().UTC()
	result := tx.Model(&model.BalanceModel{}).
		Where("id = ?", balanceModel.ID).
		Updates(map[string]interface{}{
			"amount":     amount,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	balanceModel.Amount = amount
	balanceModel.UpdatedAt = now
	return nil
}

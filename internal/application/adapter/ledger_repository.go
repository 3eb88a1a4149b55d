// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
)

// LedgerRepository couples every transaction mutation with its balance effect
// inside a single per-owner atomic unit. Implementations must serialize the
// read-check-write sequence on the owner's balance row so that two concurrent
// expenses cannot both pass the solvency check against a stale balance.
//
// delta is the signed, base-converted effect of the mutation on the balance:
// positive for income, negative for expense.
type LedgerRepository interface {
	// GetOrCreateBalance returns the owner's balance, creating a zero row on
	// first access.
	GetOrCreateBalance(ctx context.Context, userID uuid.UUID) (*entity.Balance, error)

	// CreateApplied persists the transaction and folds delta into the
	// owner's balance in one unit. A negative delta that would drive the
	// balance below zero fails with ErrInsufficientFunds and persists
	// nothing.
	CreateApplied(ctx context.Context, txn *entity.Transaction, delta decimal.Decimal) (*entity.Balance, error)

	// UpdateApplied saves the modified transaction and shifts the balance by
	// delta (new signed effect minus old signed effect) in one unit. prev is
	// the pre-image the delta was derived from; implementations re-read the
	// row under the lock and fail with ErrTransactionNotFound when it is gone
	// or ErrOperationConflict when another writer changed it. A resulting
	// negative balance fails with ErrInsufficientFunds; the revert and
	// re-apply are all-or-nothing.
	UpdateApplied(ctx context.Context, prev, txn *entity.Transaction, delta decimal.Decimal) (*entity.Balance, error)

	// DeleteApplied removes the transaction and reverts its effect by
	// applying delta. prev is verified under the lock the same way as in
	// UpdateApplied. No solvency check is performed.
	DeleteApplied(ctx context.Context, prev *entity.Transaction, delta decimal.Decimal) (*entity.Balance, error)

	// ResetOwner deletes all of the owner's transactions and categories and
	// forces the balance to zero, in one unit.
	ResetOwner(ctx context.Context, userID uuid.UUID) (*entity.Balance, error)
}

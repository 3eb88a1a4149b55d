// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BlvckBrry/finance-tracker/internal/application/adapter"
	"github.com/BlvckBrry/finance-tracker/internal/domain/entity"
	domainerror "github.com/BlvckBrry/finance-tracker/internal/domain/error"
	"github.com/BlvckBrry/finance-tracker/internal/integration/persistence/model"
)

// currencyRepository implements the adapter.CurrencyRepository interface.
type currencyRepository struct {
	db *gorm.DB
}

// NewCurrencyRepository creates a new currency repository instance.
func NewCurrencyRepository(db *gorm.DB) adapter.CurrencyRepository {
	return &currencyRepository{
		db: db,
	}
}

// FindByCode retrieves a currency by its ISO code.
func (r *currencyRepository) FindByCode(ctx context.Context, code string) (*entity.Currency, error) {
	var currencyModel model.CurrencyModel
	result := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&currencyModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCurrencyNotFound
		}
		return nil, result.Error
	}
	return currencyModel.ToEntity(), nil
}

// List retrieves all currencies ordered by code.
func (r *currencyRepository) List(ctx context.Context) ([]*entity.Currency, error) {
	var models []model.CurrencyModel
	result := r.db.WithContext(ctx).Order("code ASC").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	currencies := make([]*entity.Currency, len(models))
	for i := range models {
		currencies[i] = models[i].ToEntity()
	}
	return currencies, nil
}

// Upsert inserts the currency or updates its rate and name in place.
func (r *currencyRepository) Upsert(ctx context.Context, currency *entity.Currency) error {
	currencyModel := model.CurrencyFromEntity(currency)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "rate_to_base", "updated_at"}),
		}).
		Create(currencyModel)
	return result.Error
}

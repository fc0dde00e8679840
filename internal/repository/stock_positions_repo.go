package repository

import (
	"context"
	"time"

	"stock-strategy/internal/model"

	"gorm.io/gorm"
)

type StockPositionsRepository interface {
	Create(ctx context.Context, position *model.StockPosition) error
	GetActive(ctx context.Context) ([]model.StockPosition, error)
	GetActiveBySymbol(ctx context.Context, symbol string) (*model.StockPosition, error)
	Close(ctx context.Context, id uint, exitPrice float64, exitDate time.Time, reasons string) error
	GetHistory(ctx context.Context, limit int) ([]model.StockPosition, error)
}

type stockPositionsRepository struct {
	db *gorm.DB
}

func NewStockPositionsRepository(db *gorm.DB) StockPositionsRepository {
	return &stockPositionsRepository{db: db}
}

func (r *stockPositionsRepository) Create(ctx context.Context, position *model.StockPosition) error {
	return r.db.WithContext(ctx).Create(position).Error
}

func (r *stockPositionsRepository) GetActive(ctx context.Context) ([]model.StockPosition, error) {
	var positions []model.StockPosition
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("entry_date ASC").
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *stockPositionsRepository) GetActiveBySymbol(ctx context.Context, symbol string) (*model.StockPosition, error) {
	var position model.StockPosition
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND is_active = ?", symbol, true).
		First(&position).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *stockPositionsRepository) Close(ctx context.Context, id uint, exitPrice float64, exitDate time.Time, reasons string) error {
	return r.db.WithContext(ctx).
		Model(&model.StockPosition{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":    false,
			"exit_price":   exitPrice,
			"exit_date":    exitDate,
			"exit_reasons": reasons,
		}).Error
}

func (r *stockPositionsRepository) GetHistory(ctx context.Context, limit int) ([]model.StockPosition, error) {
	var positions []model.StockPosition
	err := r.db.WithContext(ctx).
		Order("entry_date DESC").
		Limit(limit).
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}

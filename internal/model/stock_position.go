package model

import "time"

type StockPosition struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Symbol      string     `gorm:"not null;index" json:"symbol"`
	Sector      string     `json:"sector"`
	EntryPrice  float64    `gorm:"not null" json:"entry_price"`
	Shares      int64      `gorm:"not null" json:"shares"`
	EntryDate   time.Time  `gorm:"not null" json:"entry_date"`
	IsActive    *bool      `gorm:"not null" json:"is_active"`
	ExitPrice   *float64   `json:"exit_price"`
	ExitDate    *time.Time `json:"exit_date"`
	ExitReasons *string    `json:"exit_reasons"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StockPosition) TableName() string {
	return "stock_positions"
}

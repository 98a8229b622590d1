package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketPrice matches market_data: the quoted price for one credit type.
type MarketPrice struct {
	ID             int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreditName     string          `gorm:"column:credit_name" json:"credit_name"`
	MarketPriceINR decimal.Decimal `gorm:"column:market_price_inr;type:decimal(18,2);not null" json:"market_price_inr"`
	UpdatedAt      time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (MarketPrice) TableName() string {
	return "market_data"
}

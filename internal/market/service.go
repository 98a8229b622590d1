package market

import (
	"context"

	"carbonflow-backend/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fallbackPrice is quoted when market_data has no rows yet.
var fallbackPrice = decimal.NewFromInt(2340)

// Service reads the live credit market price.
type Service struct {
	DB *gorm.DB
}

type PriceQuote struct {
	CreditName     string          `json:"credit_name"`
	MarketPriceINR decimal.Decimal `json:"market_price_inr"`
}

// CurrentPrice returns the most recently updated market price, or the
// fallback quote when none is recorded.
func (s *Service) CurrentPrice(ctx context.Context) (*PriceQuote, error) {
	var row domain.MarketPrice
	err := s.DB.WithContext(ctx).Order("updated_at DESC").First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return &PriceQuote{CreditName: "Carbon Credit", MarketPriceINR: fallbackPrice}, nil
	}
	if err != nil {
		return nil, err
	}
	return &PriceQuote{CreditName: row.CreditName, MarketPriceINR: row.MarketPriceINR}, nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Listing matches the open_trades table: an open offer to sell a fixed number
// of credits at a fixed total price. A listing is never partially filled; a
// successful buy deletes the whole row.
type Listing struct {
	SellID             uuid.UUID       `gorm:"column:sell_id;type:uuid;primaryKey" json:"sell_id"`
	SellerID           uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	IndustryName       string          `gorm:"column:industry_name" json:"industry_name"`
	NoOfCredits        int64           `gorm:"column:no_of_credits;not null" json:"no_of_credits"`
	CurrentMarketPrice decimal.Decimal `gorm:"column:current_market_price;type:decimal(18,2);not null" json:"current_market_price"`
	TotalAmount        decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null" json:"total_amount"`
	CreatedAt          time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Listing) TableName() string {
	return "open_trades"
}

// BeforeCreate sets sell_id when the DB has no uuid default.
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.SellID == uuid.Nil {
		l.SellID = uuid.New()
	}
	return nil
}

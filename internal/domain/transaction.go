package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction matches the transactions table: the immutable record of one
// completed trade. Rows are inserted once per settlement and never updated.
type Transaction struct {
	TxID               uuid.UUID       `gorm:"column:tx_id;type:uuid;primaryKey" json:"tx_id"`
	BuyerID            uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer_id"`
	SellerID           uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	BuyerIndustryName  string          `gorm:"column:buyer_industry_name" json:"buyer_industry_name"`
	SellerIndustryName string          `gorm:"column:seller_industry_name" json:"seller_industry_name"`
	Credits            int64           `gorm:"column:credits;not null" json:"credits"`
	Amount             decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	CreatedAt          time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TxID == uuid.Nil {
		t.TxID = uuid.New()
	}
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile matches the profiles table: one row per user, owns the wallet.
type Profile struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	IndustryName        string          `gorm:"column:industry_name" json:"industry_name"`
	WalletBalance       decimal.Decimal `gorm:"column:wallet_balance;type:decimal(18,2);not null;default:0" json:"wallet_balance"`
	OnboardingCompleted bool            `gorm:"column:onboarding_completed;not null;default:false" json:"onboarding_completed"`
	CreatedAt           time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

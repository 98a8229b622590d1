package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metrics matches dashboard_metrics: per-user credit balance and emission totals.
// The row id is the owning user's id (one-to-one with profiles).
type Metrics struct {
	ID                     uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AvailableCredits       int64           `gorm:"column:available_credits;not null;default:0" json:"available_credits"`
	TotalGHGEmissions      decimal.Decimal `gorm:"column:total_ghg_emissions;type:decimal(18,2);not null;default:0" json:"total_ghg_emissions"`
	LastMonthGHGEmissions  decimal.Decimal `gorm:"column:last_month_ghg_emissions;type:decimal(18,2);not null;default:0" json:"last_month_ghg_emissions"`
	UpdatedAt              time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Metrics) TableName() string {
	return "dashboard_metrics"
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmissionLog matches emission_monitoring_logs: one sensor/meter reading.
type EmissionLog struct {
	ID                 int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID             uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Source             string          `gorm:"column:source;not null" json:"source"`
	EmissionValueTCO2e decimal.Decimal `gorm:"column:emission_value_tco2e;type:decimal(18,2);not null" json:"emission_value_tco2e"`
	CreatedAt          time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (EmissionLog) TableName() string {
	return "emission_monitoring_logs"
}

// MonthlyEmission matches monthly_emissions_history: one row per user per
// month, with the regulatory target for that month.
type MonthlyEmission struct {
	ID                   int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID               uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Month                time.Time       `gorm:"column:month;not null" json:"month"`
	CurrentYearEmissions decimal.Decimal `gorm:"column:current_year_emissions;type:decimal(18,2);not null;default:0" json:"current_year_emissions"`
	PreviousYearEmissions decimal.Decimal `gorm:"column:previous_year_emissions;type:decimal(18,2);not null;default:0" json:"previous_year_emissions"`
	TargetEmissions      decimal.Decimal `gorm:"column:target_emissions;type:decimal(18,2);not null;default:0" json:"target_emissions"`
	CreatedAt            time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (MonthlyEmission) TableName() string {
	return "monthly_emissions_history"
}

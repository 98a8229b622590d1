package emissions

import (
	"context"
	"fmt"

	"carbonflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Logs returns the user's emission monitoring readings, newest first.
func (s *Service) Logs(ctx context.Context, userID uuid.UUID) ([]domain.EmissionLog, error) {
	logs := []domain.EmissionLog{}
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// MonthlyHistory returns the user's monthly emission rows oldest first (chart order).
func (s *Service) MonthlyHistory(ctx context.Context, userID uuid.UUID) ([]domain.MonthlyEmission, error) {
	rows := []domain.MonthlyEmission{}
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("month ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Reduction is the month-over-month emission change.
type Reduction struct {
	PercentageChange decimal.Decimal `json:"percentage_change"`
	Status           string          `json:"status"` // "increase", "decrease" or "neutral"
}

// MonthlyReduction compares the two most recent months. With fewer than two
// months of data, or a zero previous month, the result is neutral.
func (s *Service) MonthlyReduction(ctx context.Context, userID uuid.UUID) (*Reduction, error) {
	var rows []domain.MonthlyEmission
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("month DESC").
		Limit(2).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) < 2 || !rows[1].CurrentYearEmissions.IsPositive() {
		return &Reduction{PercentageChange: decimal.Zero, Status: "neutral"}, nil
	}

	current := rows[0].CurrentYearEmissions
	previous := rows[1].CurrentYearEmissions
	change := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(1)

	status := "increase"
	if change.IsNegative() {
		status = "decrease"
	}
	return &Reduction{PercentageChange: change.Abs(), Status: status}, nil
}

// ComplianceStatus is the user-facing compliance verdict for the latest month.
type ComplianceStatus struct {
	Level   string `json:"level"` // "compliant", "warning" or "danger"
	Message string `json:"message"`
	Details string `json:"details"`
}

// warningBand is how far over target still counts as "at risk" rather than
// "action required" (10%).
var warningBand = decimal.NewFromInt(10)

// Status evaluates the latest month's emissions against its target.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (*ComplianceStatus, error) {
	var latest domain.MonthlyEmission
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("month DESC").
		First(&latest).Error
	if err == gorm.ErrRecordNotFound {
		return &ComplianceStatus{
			Level:   "compliant",
			Message: "Compliant",
			Details: "No emissions recorded yet.",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	if !latest.TargetEmissions.IsPositive() {
		return &ComplianceStatus{
			Level:   "compliant",
			Message: "Compliant",
			Details: "No emission target set for the latest month.",
		}, nil
	}

	if latest.CurrentYearEmissions.LessThanOrEqual(latest.TargetEmissions) {
		return &ComplianceStatus{
			Level:   "compliant",
			Message: "Compliant",
			Details: "Emissions are within regulatory limits.",
		}, nil
	}

	over := latest.CurrentYearEmissions.Sub(latest.TargetEmissions).
		Div(latest.TargetEmissions).
		Mul(decimal.NewFromInt(100)).Round(1)
	details := fmt.Sprintf("Emissions are %s%% over target.", over.StringFixed(1))

	if over.LessThanOrEqual(warningBand) {
		return &ComplianceStatus{Level: "warning", Message: "At Risk", Details: details}, nil
	}
	return &ComplianceStatus{Level: "danger", Message: "Action Required", Details: details}, nil
}

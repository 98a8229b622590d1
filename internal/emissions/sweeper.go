package emissions

import (
	"context"

	"carbonflow-backend/internal/domain"
	"carbonflow-backend/internal/emails"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// riskThreshold: a user is alerted once their latest month reaches 90% of
// its target.
var riskThreshold = decimal.NewFromFloat(0.9)

// Sweeper scans every user's latest monthly emissions and emails the ones
// approaching their target. Run from the admin compliance endpoint (the
// original scheduled this server-side).
type Sweeper struct {
	DB     *gorm.DB
	Sender emails.Sender
	Log    zerolog.Logger
}

// Run returns the number of alerts sent. Users without emission history,
// without a target, or without a login email are skipped. A failed send is
// logged and does not stop the sweep.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	var users []domain.User
	if err := s.DB.WithContext(ctx).Find(&users).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, u := range users {
		var latest domain.MonthlyEmission
		err := s.DB.WithContext(ctx).
			Where("user_id = ?", u.ID).
			Order("month DESC").
			First(&latest).Error
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return sent, err
		}
		if !latest.TargetEmissions.IsPositive() {
			continue
		}
		if latest.CurrentYearEmissions.LessThanOrEqual(latest.TargetEmissions.Mul(riskThreshold)) {
			continue
		}

		if s.Sender == nil {
			sent++
			continue
		}
		if err := s.Sender.SendComplianceAlert(ctx, u.Email, latest.CurrentYearEmissions, latest.TargetEmissions); err != nil {
			s.Log.Error().Str("user_id", u.ID.String()).Err(err).Msg("compliance alert send failed")
			continue
		}
		sent++
	}
	return sent, nil
}

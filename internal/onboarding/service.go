package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"carbonflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrUserRequired = errors.New("User ID is required")

const (
	baseCredits = 50
	// fallbackReasoning is used whenever the text-completion service is
	// unavailable or returns something unusable — the allocation numbers
	// are always computed locally, only the prose comes from the AI.
	fallbackReasoning = "Allocation is based on your submitted consumption data and standard industry benchmarks."
)

// emissionsPerCredit: estimated monthly tCO₂e per allocated credit.
var emissionsPerCredit = decimal.NewFromFloat(1.15)

// Consumption is the onboarding form payload.
type Consumption struct {
	ElectricityKWh float64 `json:"electricityKwh"`
	FuelLiters     float64 `json:"fuelLiters"`
}

// Result of an initial allocation.
type Result struct {
	InitialCredits     int64           `json:"initial_credits"`
	EstimatedEmissions decimal.Decimal `json:"estimated_emissions"`
	Reasoning          string          `json:"reasoning"`
}

type Service struct {
	DB        *gorm.DB
	Completer TextCompleter
	Log       zerolog.Logger
}

// CalculateInitialCredits allocates a new user's starting credits from their
// consumption data, records the submission, seeds dashboard metrics, and
// marks the profile onboarded. The credit formula is deterministic; the AI
// contributes only the reasoning sentence.
func (s *Service) CalculateInitialCredits(ctx context.Context, userID uuid.UUID, c Consumption) (*Result, error) {
	if userID == uuid.Nil {
		return nil, ErrUserRequired
	}

	credits := int64(math.Round(baseCredits + c.ElectricityKWh/1000 + c.FuelLiters/100))
	emissions := decimal.NewFromInt(credits).Mul(emissionsPerCredit).Round(2)
	reasoning := s.reasoningFor(ctx, c, credits, emissions)

	payload, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&domain.OnboardingSubmission{
			UserID:               userID,
			SubmissionData:       datatypes.JSON(payload),
			AIAllocatedCredits:   credits,
			AIEstimatedEmissions: emissions,
			AIReasoning:          reasoning,
		}).Error; err != nil {
			return err
		}

		metrics := domain.Metrics{
			ID:                    userID,
			AvailableCredits:      credits,
			TotalGHGEmissions:     emissions,
			LastMonthGHGEmissions: emissions,
		}
		if err := tx.Where("id = ?", userID).First(&domain.Metrics{}).Error; err == gorm.ErrRecordNotFound {
			if err := tx.Create(&metrics).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else if err := tx.Model(&domain.Metrics{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"available_credits":        credits,
			"total_ghg_emissions":      emissions,
			"last_month_ghg_emissions": emissions,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Profile{}).
			Where("id = ?", userID).
			Update("onboarding_completed", true).Error
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		InitialCredits:     credits,
		EstimatedEmissions: emissions,
		Reasoning:          reasoning,
	}, nil
}

func (s *Service) reasoningFor(ctx context.Context, c Consumption, credits int64, emissions decimal.Decimal) string {
	if s.Completer == nil {
		return fallbackReasoning
	}
	prompt := fmt.Sprintf(
		`An industrial facility's data resulted in an estimate of %s tCO₂e monthly emissions and an allocation of %d credits.
Briefly provide a one-sentence justification for this allocation to show the user.
User Data: {"electricityKwh": %.2f, "fuelLiters": %.2f}
Provide ONLY a valid JSON object with a single key: "reasoning" (string).`,
		emissions.StringFixed(1), credits, c.ElectricityKWh, c.FuelLiters)

	completion, err := s.Completer.Complete(ctx, prompt)
	if err != nil {
		s.Log.Warn().Err(err).Msg("reasoning completion failed; using fallback")
		return fallbackReasoning
	}
	if reasoning, ok := extractReasoning(completion); ok {
		return reasoning
	}
	return fallbackReasoning
}

package balances

import (
	"context"
	"errors"

	"carbonflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrNotAuthenticated — no identified user for the balance read.
var ErrNotAuthenticated = errors.New("Not authenticated")

// Snapshot is everything the marketplace and dashboard need about the
// calling user in one read.
type Snapshot struct {
	IndustryName        string          `json:"industry_name"`
	WalletBalance       decimal.Decimal `json:"wallet_balance"`
	AvailableCredits    int64           `json:"available_credits"`
	OnboardingCompleted bool            `json:"onboarding_completed"`
}

// Service reads user balances with create-on-read semantics: a brand new
// user with no profile or metrics row gets zeroed rows inserted instead of
// an error.
type Service struct {
	DB *gorm.DB
}

func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}

	var profile domain.Profile
	err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		profile = domain.Profile{ID: userID, IndustryName: "New Industry", WalletBalance: decimal.Zero}
		if err := s.DB.WithContext(ctx).Create(&profile).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	var metrics domain.Metrics
	err = s.DB.WithContext(ctx).Where("id = ?", userID).First(&metrics).Error
	if err == gorm.ErrRecordNotFound {
		metrics = domain.Metrics{ID: userID}
		if err := s.DB.WithContext(ctx).Create(&metrics).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return &Snapshot{
		IndustryName:        profile.IndustryName,
		WalletBalance:       profile.WalletBalance,
		AvailableCredits:    metrics.AvailableCredits,
		OnboardingCompleted: profile.OnboardingCompleted,
	}, nil
}

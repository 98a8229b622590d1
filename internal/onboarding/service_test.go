package onboarding

import (
	"context"
	"errors"
	"testing"

	"carbonflow-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCompleter struct {
	completion string
	err        error
}

func (f *fakeCompleter) Complete(context.Context, string) (string, error) {
	return f.completion, f.err
}

func setupOnboardingTest(t *testing.T, completer TextCompleter) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Profile{}, &domain.Metrics{}, &domain.OnboardingSubmission{},
	))
	return &Service{DB: db, Completer: completer, Log: zerolog.Nop()}, db
}

func TestCalculateInitialCredits_Formula(t *testing.T) {
	s, db := setupOnboardingTest(t, nil)
	user := uuid.New()
	require.NoError(t, db.Create(&domain.Profile{ID: user, IndustryName: "Acme"}).Error)

	// 50 + 12000/1000 + 800/100 = 70 credits, 70 × 1.15 = 80.5 tCO₂e.
	res, err := s.CalculateInitialCredits(context.Background(), user, Consumption{
		ElectricityKWh: 12000,
		FuelLiters:     800,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(70), res.InitialCredits)
	assert.True(t, res.EstimatedEmissions.Equal(decimal.RequireFromString("80.5")), "emissions = %s", res.EstimatedEmissions)
	assert.Equal(t, fallbackReasoning, res.Reasoning)

	var metrics domain.Metrics
	require.NoError(t, db.First(&metrics, "id = ?", user).Error)
	assert.Equal(t, int64(70), metrics.AvailableCredits)
	assert.True(t, metrics.LastMonthGHGEmissions.Equal(decimal.RequireFromString("80.5")))

	var profile domain.Profile
	require.NoError(t, db.First(&profile, "id = ?", user).Error)
	assert.True(t, profile.OnboardingCompleted)

	var submissions int64
	require.NoError(t, db.Model(&domain.OnboardingSubmission{}).Count(&submissions).Error)
	assert.Equal(t, int64(1), submissions)
}

func TestCalculateInitialCredits_RoundsToNearest(t *testing.T) {
	s, db := setupOnboardingTest(t, nil)
	user := uuid.New()
	require.NoError(t, db.Create(&domain.Profile{ID: user}).Error)

	// 50 + 450/1000 + 20/100 = 50.65 → 51
	res, err := s.CalculateInitialCredits(context.Background(), user, Consumption{
		ElectricityKWh: 450,
		FuelLiters:     20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(51), res.InitialCredits)
}

func TestCalculateInitialCredits_UserRequired(t *testing.T) {
	s, _ := setupOnboardingTest(t, nil)
	_, err := s.CalculateInitialCredits(context.Background(), uuid.Nil, Consumption{})
	assert.ErrorIs(t, err, ErrUserRequired)
}

func TestCalculateInitialCredits_ResubmitOverwritesMetrics(t *testing.T) {
	s, db := setupOnboardingTest(t, nil)
	user := uuid.New()
	require.NoError(t, db.Create(&domain.Profile{ID: user}).Error)
	require.NoError(t, db.Create(&domain.Metrics{ID: user, AvailableCredits: 5}).Error)

	res, err := s.CalculateInitialCredits(context.Background(), user, Consumption{
		ElectricityKWh: 50000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.InitialCredits)

	var metrics domain.Metrics
	require.NoError(t, db.First(&metrics, "id = ?", user).Error)
	assert.Equal(t, int64(100), metrics.AvailableCredits)
}

// The AI contributes only prose; the numbers are always local.
func TestReasoning_FromCompleter(t *testing.T) {
	completer := &fakeCompleter{completion: `Here you go: {"reasoning": "Based on moderate electricity use."}`}
	s, db := setupOnboardingTest(t, completer)
	user := uuid.New()
	require.NoError(t, db.Create(&domain.Profile{ID: user}).Error)

	res, err := s.CalculateInitialCredits(context.Background(), user, Consumption{})
	require.NoError(t, err)
	assert.Equal(t, "Based on moderate electricity use.", res.Reasoning)
	assert.Equal(t, int64(50), res.InitialCredits)
}

func TestReasoning_FallbackOnCompleterError(t *testing.T) {
	s, db := setupOnboardingTest(t, &fakeCompleter{err: errors.New("quota exceeded")})
	user := uuid.New()
	require.NoError(t, db.Create(&domain.Profile{ID: user}).Error)

	res, err := s.CalculateInitialCredits(context.Background(), user, Consumption{})
	require.NoError(t, err)
	assert.Equal(t, fallbackReasoning, res.Reasoning)
}

func TestExtractReasoning(t *testing.T) {
	got, ok := extractReasoning(`{"reasoning": "ok"}`)
	assert.True(t, ok)
	assert.Equal(t, "ok", got)

	got, ok = extractReasoning("```json\n{\"reasoning\": \"fenced\"}\n```")
	assert.True(t, ok)
	assert.Equal(t, "fenced", got)

	_, ok = extractReasoning("no json here")
	assert.False(t, ok)

	_, ok = extractReasoning(`{"other": "key"}`)
	assert.False(t, ok)
}

package emissions

import (
	"context"
	"testing"
	"time"

	"carbonflow-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupEmissionTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.EmissionLog{}, &domain.MonthlyEmission{}, &domain.User{},
	))
	return &Service{DB: db}, db
}

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func seedMonth(t *testing.T, db *gorm.DB, userID uuid.UUID, at time.Time, current, target string) {
	t.Helper()
	require.NoError(t, db.Create(&domain.MonthlyEmission{
		UserID:               userID,
		Month:                at,
		CurrentYearEmissions: decimal.RequireFromString(current),
		TargetEmissions:      decimal.RequireFromString(target),
	}).Error)
}

func TestMonthlyReduction_Decrease(t *testing.T) {
	s, db := setupEmissionTest(t)
	user := uuid.New()
	seedMonth(t, db, user, month(2026, time.June), "200", "0")
	seedMonth(t, db, user, month(2026, time.July), "150", "0")

	r, err := s.MonthlyReduction(context.Background(), user)
	require.NoError(t, err)
	// (150-200)/200 = -25%
	assert.Equal(t, "decrease", r.Status)
	assert.True(t, r.PercentageChange.Equal(decimal.NewFromInt(25)), "change = %s", r.PercentageChange)
}

func TestMonthlyReduction_Increase(t *testing.T) {
	s, db := setupEmissionTest(t)
	user := uuid.New()
	seedMonth(t, db, user, month(2026, time.June), "100", "0")
	seedMonth(t, db, user, month(2026, time.July), "112.5", "0")

	r, err := s.MonthlyReduction(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "increase", r.Status)
	assert.True(t, r.PercentageChange.Equal(decimal.RequireFromString("12.5")))
}

func TestMonthlyReduction_Neutral(t *testing.T) {
	s, db := setupEmissionTest(t)
	user := uuid.New()

	// No data at all.
	r, err := s.MonthlyReduction(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "neutral", r.Status)

	// One month only.
	seedMonth(t, db, user, month(2026, time.July), "100", "0")
	r, err = s.MonthlyReduction(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "neutral", r.Status)

	// Previous month is zero: no meaningful percentage.
	seedMonth(t, db, user, month(2026, time.August), "100", "0")
	other := uuid.New()
	seedMonth(t, db, other, month(2026, time.June), "0", "0")
	seedMonth(t, db, other, month(2026, time.July), "100", "0")
	r, err = s.MonthlyReduction(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, "neutral", r.Status)
}

func TestStatus_Compliant(t *testing.T) {
	s, db := setupEmissionTest(t)
	user := uuid.New()
	seedMonth(t, db, user, month(2026, time.July), "95", "100")

	st, err := s.Status(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "compliant", st.Level)
	assert.Equal(t, "Compliant", st.Message)
}

func TestStatus_WarningWithinTenPercent(t *testing.T) {
	s, db := setupEmissionTest(t)
	user := uuid.New()
	seedMonth(t, db, user, month(2026, time.July), "108", "100")

	st, err := s.Status(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "warning", st.Level)
	assert.Equal(t, "At Risk", st.Message)
	assert.Equal(t, "Emissions are 8.0% over target.", st.Details)
}

func TestStatus_DangerBeyondTenPercent(t *testing.T) {
	s, db := setupEmissionTest(t)
	user := uuid.New()
	seedMonth(t, db, user, month(2026, time.July), "125", "100")

	st, err := s.Status(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "danger", st.Level)
	assert.Equal(t, "Action Required", st.Message)
	assert.Equal(t, "Emissions are 25.0% over target.", st.Details)
}

func TestStatus_UsesLatestMonth(t *testing.T) {
	s, db := setupEmissionTest(t)
	user := uuid.New()
	seedMonth(t, db, user, month(2026, time.June), "500", "100")
	seedMonth(t, db, user, month(2026, time.July), "90", "100")

	st, err := s.Status(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "compliant", st.Level)
}

func TestStatus_NoDataOrNoTarget(t *testing.T) {
	s, db := setupEmissionTest(t)
	user := uuid.New()

	st, err := s.Status(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "compliant", st.Level)

	seedMonth(t, db, user, month(2026, time.July), "500", "0")
	st, err = s.Status(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "compliant", st.Level)
}

func TestLogs_NewestFirstAndScoped(t *testing.T) {
	s, db := setupEmissionTest(t)
	user := uuid.New()

	for i, src := range []string{"boiler", "furnace"} {
		require.NoError(t, db.Create(&domain.EmissionLog{
			UserID:             user,
			Source:             src,
			EmissionValueTCO2e: decimal.NewFromInt(int64(i + 1)),
			CreatedAt:          time.Now().Add(time.Duration(i) * time.Hour),
		}).Error)
	}
	require.NoError(t, db.Create(&domain.EmissionLog{
		UserID:             uuid.New(),
		Source:             "other",
		EmissionValueTCO2e: decimal.NewFromInt(9),
	}).Error)

	logs, err := s.Logs(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "furnace", logs[0].Source)
	assert.Equal(t, "boiler", logs[1].Source)
}

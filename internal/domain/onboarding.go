package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OnboardingSubmission matches onboarding_submissions: the raw consumption
// form a user submitted plus the allocation computed from it.
type OnboardingSubmission struct {
	ID                   int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID               uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	SubmissionData       datatypes.JSON  `gorm:"column:submission_data" json:"submission_data"`
	AIAllocatedCredits   int64           `gorm:"column:ai_allocated_credits" json:"ai_allocated_credits"`
	AIEstimatedEmissions decimal.Decimal `gorm:"column:ai_estimated_emissions;type:decimal(18,2)" json:"ai_estimated_emissions"`
	AIReasoning          string          `gorm:"column:ai_reasoning" json:"ai_reasoning"`
	CreatedAt            time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (OnboardingSubmission) TableName() string {
	return "onboarding_submissions"
}

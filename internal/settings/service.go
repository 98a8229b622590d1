package settings

import (
	"context"
	"errors"
	"strings"

	"carbonflow-backend/internal/domain"
	"carbonflow-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNameRequired    = errors.New("Industry name is required")
	ErrNameInvalid     = errors.New("Industry name contains invalid characters")
	ErrProfileNotFound = errors.New("Profile not found")
)

type Service struct {
	DB *gorm.DB
}

// UpdateIndustryName renames the user's industry (the display name shown on
// listings and transactions going forward; past records keep the old name).
func (s *Service) UpdateIndustryName(ctx context.Context, userID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if !validation.IsValidIndustryName(name) {
		return ErrNameInvalid
	}
	res := s.DB.WithContext(ctx).Model(&domain.Profile{}).
		Where("id = ?", userID).
		Update("industry_name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

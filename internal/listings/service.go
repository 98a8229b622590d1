package listings

import (
	"context"
	"errors"

	"carbonflow-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrListingNotFound = errors.New("Listing not found")

// Service is the read-only listing directory.
type Service struct {
	DB *gorm.DB
}

// ListOpen returns open listings newest first. When excludeSeller is set the
// caller's own listings are filtered out (marketplace view). An empty result
// is valid.
func (s *Service) ListOpen(ctx context.Context, excludeSeller *uuid.UUID) ([]domain.Listing, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	if excludeSeller != nil {
		q = q.Where("seller_id <> ?", *excludeSeller)
	}
	listings := []domain.Listing{}
	if err := q.Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// GetByID fetches one open listing for settlement.
func (s *Service) GetByID(ctx context.Context, sellID uuid.UUID) (*domain.Listing, error) {
	var l domain.Listing
	if err := s.DB.WithContext(ctx).Where("sell_id = ?", sellID).First(&l).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &l, nil
}

package settlement

import (
	"context"
	"errors"

	"carbonflow-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore implements Store against the profiles / dashboard_metrics /
// open_trades / transactions tables.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) ReadBalance(ctx context.Context, userID uuid.UUID) (Balance, error) {
	var profile domain.Profile
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Balance{}, ErrBalanceNotFound
		}
		return Balance{}, err
	}
	var metrics domain.Metrics
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&metrics).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Balance{}, ErrBalanceNotFound
		}
		return Balance{}, err
	}
	return Balance{
		AvailableCredits: metrics.AvailableCredits,
		WalletBalance:    profile.WalletBalance,
	}, nil
}

func (s *GormStore) WriteBalance(ctx context.Context, userID uuid.UUID, b Balance) error {
	if err := s.DB.WithContext(ctx).Model(&domain.Metrics{}).
		Where("id = ?", userID).
		Update("available_credits", b.AvailableCredits).Error; err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&domain.Profile{}).
		Where("id = ?", userID).
		Update("wallet_balance", b.WalletBalance).Error
}

func (s *GormStore) InsertListing(ctx context.Context, l *domain.Listing) error {
	return s.DB.WithContext(ctx).Create(l).Error
}

func (s *GormStore) DeleteListing(ctx context.Context, sellID uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).Where("sell_id = ?", sellID).Delete(&domain.Listing{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) InsertTransaction(ctx context.Context, t *domain.Transaction) error {
	return s.DB.WithContext(ctx).Create(t).Error
}

func (s *GormStore) RemoveTransaction(ctx context.Context, txID uuid.UUID) error {
	return s.DB.WithContext(ctx).Where("tx_id = ?", txID).Delete(&domain.Transaction{}).Error
}

func (s *GormStore) ListOpenListings(ctx context.Context, excludeSeller *uuid.UUID) ([]domain.Listing, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	if excludeSeller != nil {
		q = q.Where("seller_id <> ?", *excludeSeller)
	}
	var listings []domain.Listing
	if err := q.Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

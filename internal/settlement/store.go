package settlement

import (
	"context"

	"carbonflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is a user's tradeable position: credit count plus wallet funds.
type Balance struct {
	AvailableCredits int64
	WalletBalance    decimal.Decimal
}

// Store is the engine's boundary to the data store. Each call is one remote
// write or read; the store gives no multi-call transaction guarantee, which
// is why the engine pairs every write with a compensating write.
type Store interface {
	ReadBalance(ctx context.Context, userID uuid.UUID) (Balance, error)
	WriteBalance(ctx context.Context, userID uuid.UUID, b Balance) error
	InsertListing(ctx context.Context, l *domain.Listing) error
	// DeleteListing returns the number of rows removed. Zero means the
	// listing was already settled by a concurrent buyer.
	DeleteListing(ctx context.Context, sellID uuid.UUID) (int64, error)
	InsertTransaction(ctx context.Context, t *domain.Transaction) error
	// RemoveTransaction exists only for compensation: it undoes a record
	// inserted by a settlement attempt that later failed. Completed
	// settlements never delete their records.
	RemoveTransaction(ctx context.Context, txID uuid.UUID) error
	ListOpenListings(ctx context.Context, excludeSeller *uuid.UUID) ([]domain.Listing, error)
}

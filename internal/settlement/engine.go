package settlement

import (
	"context"
	"fmt"

	"carbonflow-backend/internal/domain"
	"carbonflow-backend/internal/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Engine executes credit trades against the Store. Every multi-write
// operation runs as a saga: preconditions are checked before the first
// write, and a failure after any write triggers reverse-order compensation
// of the writes already applied.
type Engine struct {
	Store Store
	Fees  money.FeeSchedule
	Log   zerolog.Logger
}

// Receipt summarizes one successful settlement.
type Receipt struct {
	TxID     uuid.UUID   `json:"tx_id"`
	SellID   uuid.UUID   `json:"sell_id"`
	BuyerID  uuid.UUID   `json:"buyer_id"`
	SellerID uuid.UUID   `json:"seller_id"`
	Credits  int64       `json:"credits"`
	Quote    money.Quote `json:"quote"`
}

// CreateSellListing takes quantity credits out of the seller's balance and
// publishes them as an open listing priced at quantity × unitPrice.
func (e *Engine) CreateSellListing(ctx context.Context, sellerID uuid.UUID, sellerName string, quantity int64, unitPrice decimal.Decimal) (*domain.Listing, error) {
	if sellerID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !unitPrice.IsPositive() {
		return nil, ErrInvalidPrice
	}

	original, err := e.Store.ReadBalance(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("read seller balance: %w", err)
	}
	if quantity > original.AvailableCredits {
		return nil, ErrInvalidQuantity
	}

	listing := &domain.Listing{
		SellerID:           sellerID,
		IndustryName:       sellerName,
		NoOfCredits:        quantity,
		CurrentMarketPrice: unitPrice.Round(2),
		TotalAmount:        unitPrice.Mul(decimal.NewFromInt(quantity)).Round(2),
	}

	err = runSaga(ctx, e.Log, "create_sell_listing", []step{
		{
			name: "debit seller credits",
			run: func(ctx context.Context) error {
				return e.Store.WriteBalance(ctx, sellerID, Balance{
					AvailableCredits: original.AvailableCredits - quantity,
					WalletBalance:    original.WalletBalance,
				})
			},
			compensate: func(ctx context.Context) error {
				return e.Store.WriteBalance(ctx, sellerID, original)
			},
		},
		{
			name: "insert listing",
			run: func(ctx context.Context) error {
				return e.Store.InsertListing(ctx, listing)
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// BuySettlement settles a buy order against an open listing: the buyer
// receives the listing's credits and pays the quoted total, the seller
// receives the proceeds, a transaction record is written, and the listing
// is removed. The listing delete is conditional — zero rows affected means
// a concurrent buyer won the listing, and everything this attempt wrote is
// compensated.
func (e *Engine) BuySettlement(ctx context.Context, buyerID uuid.UUID, buyerName string, listing domain.Listing) (*Receipt, error) {
	if buyerID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if buyerID == listing.SellerID {
		return nil, ErrOwnListing
	}

	quote := e.Fees.QuoteFor(listing.TotalAmount)

	buyerOriginal, err := e.Store.ReadBalance(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("read buyer balance: %w", err)
	}
	if buyerOriginal.WalletBalance.LessThan(quote.TotalPayable) {
		return nil, ErrInsufficientFunds
	}

	record := &domain.Transaction{
		BuyerID:            buyerID,
		SellerID:           listing.SellerID,
		BuyerIndustryName:  buyerName,
		SellerIndustryName: listing.IndustryName,
		Credits:            listing.NoOfCredits,
		Amount:             quote.TotalPayable,
	}
	var sellerOriginal Balance

	err = runSaga(ctx, e.Log, "buy_settlement", []step{
		{
			name: "credit buyer credits",
			run: func(ctx context.Context) error {
				return e.Store.WriteBalance(ctx, buyerID, Balance{
					AvailableCredits: buyerOriginal.AvailableCredits + listing.NoOfCredits,
					WalletBalance:    buyerOriginal.WalletBalance,
				})
			},
			compensate: func(ctx context.Context) error {
				return e.Store.WriteBalance(ctx, buyerID, buyerOriginal)
			},
		},
		{
			name: "debit buyer wallet",
			run: func(ctx context.Context) error {
				return e.Store.WriteBalance(ctx, buyerID, Balance{
					AvailableCredits: buyerOriginal.AvailableCredits + listing.NoOfCredits,
					WalletBalance:    buyerOriginal.WalletBalance.Sub(quote.TotalPayable),
				})
			},
			compensate: func(ctx context.Context) error {
				return e.Store.WriteBalance(ctx, buyerID, Balance{
					AvailableCredits: buyerOriginal.AvailableCredits + listing.NoOfCredits,
					WalletBalance:    buyerOriginal.WalletBalance,
				})
			},
		},
		{
			name: "credit seller wallet",
			run: func(ctx context.Context) error {
				var err error
				sellerOriginal, err = e.Store.ReadBalance(ctx, listing.SellerID)
				if err != nil {
					if err == ErrBalanceNotFound {
						return ErrSellerNotFound
					}
					return err
				}
				return e.Store.WriteBalance(ctx, listing.SellerID, Balance{
					AvailableCredits: sellerOriginal.AvailableCredits,
					WalletBalance:    sellerOriginal.WalletBalance.Add(quote.SellerProceeds),
				})
			},
			compensate: func(ctx context.Context) error {
				return e.Store.WriteBalance(ctx, listing.SellerID, sellerOriginal)
			},
		},
		{
			name: "insert transaction record",
			run: func(ctx context.Context) error {
				return e.Store.InsertTransaction(ctx, record)
			},
			compensate: func(ctx context.Context) error {
				return e.Store.RemoveTransaction(ctx, record.TxID)
			},
		},
		{
			name: "delete listing",
			run: func(ctx context.Context) error {
				rows, err := e.Store.DeleteListing(ctx, listing.SellID)
				if err != nil {
					return err
				}
				if rows == 0 {
					return ErrListingAlreadySettled
				}
				return nil
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return &Receipt{
		TxID:     record.TxID,
		SellID:   listing.SellID,
		BuyerID:  buyerID,
		SellerID: listing.SellerID,
		Credits:  listing.NoOfCredits,
		Quote:    quote,
	}, nil
}

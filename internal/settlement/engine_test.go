package settlement

import (
	"context"
	"errors"
	"testing"

	"carbonflow-backend/internal/domain"
	"carbonflow-backend/internal/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store with per-method failure injection.
type fakeStore struct {
	balances     map[uuid.UUID]Balance
	listings     map[uuid.UUID]domain.Listing
	transactions map[uuid.UUID]domain.Transaction
	failOn       map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		balances:     make(map[uuid.UUID]Balance),
		listings:     make(map[uuid.UUID]domain.Listing),
		transactions: make(map[uuid.UUID]domain.Transaction),
		failOn:       make(map[string]error),
	}
}

func (f *fakeStore) ReadBalance(_ context.Context, userID uuid.UUID) (Balance, error) {
	if err := f.failOn["ReadBalance"]; err != nil {
		return Balance{}, err
	}
	b, ok := f.balances[userID]
	if !ok {
		return Balance{}, ErrBalanceNotFound
	}
	return b, nil
}

func (f *fakeStore) WriteBalance(_ context.Context, userID uuid.UUID, b Balance) error {
	if err := f.failOn["WriteBalance"]; err != nil {
		return err
	}
	f.balances[userID] = b
	return nil
}

func (f *fakeStore) InsertListing(_ context.Context, l *domain.Listing) error {
	if err := f.failOn["InsertListing"]; err != nil {
		return err
	}
	if l.SellID == uuid.Nil {
		l.SellID = uuid.New()
	}
	f.listings[l.SellID] = *l
	return nil
}

func (f *fakeStore) DeleteListing(_ context.Context, sellID uuid.UUID) (int64, error) {
	if err := f.failOn["DeleteListing"]; err != nil {
		return 0, err
	}
	if _, ok := f.listings[sellID]; !ok {
		return 0, nil
	}
	delete(f.listings, sellID)
	return 1, nil
}

func (f *fakeStore) InsertTransaction(_ context.Context, t *domain.Transaction) error {
	if err := f.failOn["InsertTransaction"]; err != nil {
		return err
	}
	if t.TxID == uuid.Nil {
		t.TxID = uuid.New()
	}
	f.transactions[t.TxID] = *t
	return nil
}

func (f *fakeStore) RemoveTransaction(_ context.Context, txID uuid.UUID) error {
	if err := f.failOn["RemoveTransaction"]; err != nil {
		return err
	}
	delete(f.transactions, txID)
	return nil
}

func (f *fakeStore) ListOpenListings(_ context.Context, excludeSeller *uuid.UUID) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, l := range f.listings {
		if excludeSeller != nil && l.SellerID == *excludeSeller {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func newTestEngine(store Store) *Engine {
	return &Engine{
		Store: store,
		Fees:  money.DefaultSchedule(),
		Log:   zerolog.Nop(),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateSellListing_Success(t *testing.T) {
	store := newFakeStore()
	seller := uuid.New()
	store.balances[seller] = Balance{AvailableCredits: 100, WalletBalance: dec("500")}
	e := newTestEngine(store)

	listing, err := e.CreateSellListing(context.Background(), seller, "Acme Steel", 40, dec("2340"))
	require.NoError(t, err)

	assert.Equal(t, seller, listing.SellerID)
	assert.Equal(t, "Acme Steel", listing.IndustryName)
	assert.Equal(t, int64(40), listing.NoOfCredits)
	assert.True(t, listing.TotalAmount.Equal(dec("93600")), "total = %s", listing.TotalAmount)

	// Seller's credits were moved out of the balance; wallet untouched.
	assert.Equal(t, int64(60), store.balances[seller].AvailableCredits)
	assert.True(t, store.balances[seller].WalletBalance.Equal(dec("500")))
	assert.Len(t, store.listings, 1)
}

func TestCreateSellListing_InsufficientCredits(t *testing.T) {
	store := newFakeStore()
	seller := uuid.New()
	store.balances[seller] = Balance{AvailableCredits: 10, WalletBalance: dec("0")}
	e := newTestEngine(store)

	_, err := e.CreateSellListing(context.Background(), seller, "Acme", 11, dec("100"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// Nothing written.
	assert.Equal(t, int64(10), store.balances[seller].AvailableCredits)
	assert.Empty(t, store.listings)
}

func TestCreateSellListing_Validation(t *testing.T) {
	store := newFakeStore()
	seller := uuid.New()
	store.balances[seller] = Balance{AvailableCredits: 10}
	e := newTestEngine(store)
	ctx := context.Background()

	_, err := e.CreateSellListing(ctx, uuid.Nil, "Acme", 5, dec("100"))
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = e.CreateSellListing(ctx, seller, "Acme", 0, dec("100"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = e.CreateSellListing(ctx, seller, "Acme", -3, dec("100"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = e.CreateSellListing(ctx, seller, "Acme", 5, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestCreateSellListing_InsertFailureRestoresCredits(t *testing.T) {
	store := newFakeStore()
	seller := uuid.New()
	store.balances[seller] = Balance{AvailableCredits: 100, WalletBalance: dec("500")}
	boom := errors.New("insert failed")
	store.failOn["InsertListing"] = boom
	e := newTestEngine(store)

	_, err := e.CreateSellListing(context.Background(), seller, "Acme", 40, dec("100"))
	require.ErrorIs(t, err, boom)

	// The debit was compensated.
	assert.Equal(t, int64(100), store.balances[seller].AvailableCredits)
	assert.Empty(t, store.listings)
}

func buyFixture(t *testing.T) (*fakeStore, *Engine, uuid.UUID, uuid.UUID, domain.Listing) {
	t.Helper()
	store := newFakeStore()
	buyer, seller := uuid.New(), uuid.New()
	store.balances[buyer] = Balance{AvailableCredits: 5, WalletBalance: dec("20000")}
	store.balances[seller] = Balance{AvailableCredits: 0, WalletBalance: dec("1000")}
	listing := domain.Listing{
		SellID:             uuid.New(),
		SellerID:           seller,
		IndustryName:       "Seller Corp",
		NoOfCredits:        10,
		CurrentMarketPrice: dec("1000"),
		TotalAmount:        dec("10000"),
	}
	store.listings[listing.SellID] = listing
	return store, newTestEngine(store), buyer, seller, listing
}

func TestBuySettlement_Success(t *testing.T) {
	store, e, buyer, seller, listing := buyFixture(t)

	receipt, err := e.BuySettlement(context.Background(), buyer, "Buyer Corp", listing)
	require.NoError(t, err)

	// 10000 subtotal → 200 commission, 1224 tax, 11424 payable.
	assert.True(t, receipt.Quote.TotalPayable.Equal(dec("11424")))
	assert.Equal(t, int64(10), receipt.Credits)
	assert.Equal(t, listing.SellID, receipt.SellID)

	assert.Equal(t, int64(15), store.balances[buyer].AvailableCredits)
	assert.True(t, store.balances[buyer].WalletBalance.Equal(dec("8576")), "buyer wallet = %s", store.balances[buyer].WalletBalance)
	assert.True(t, store.balances[seller].WalletBalance.Equal(dec("11000")), "seller wallet = %s", store.balances[seller].WalletBalance)

	assert.Empty(t, store.listings, "listing removed after settlement")
	require.Len(t, store.transactions, 1)
	record := store.transactions[receipt.TxID]
	assert.Equal(t, buyer, record.BuyerID)
	assert.Equal(t, seller, record.SellerID)
	assert.Equal(t, "Buyer Corp", record.BuyerIndustryName)
	assert.Equal(t, "Seller Corp", record.SellerIndustryName)
	assert.True(t, record.Amount.Equal(dec("11424")))
}

func TestBuySettlement_InsufficientFunds(t *testing.T) {
	store, e, buyer, seller, listing := buyFixture(t)
	store.balances[buyer] = Balance{AvailableCredits: 5, WalletBalance: dec("11423.99")}

	_, err := e.BuySettlement(context.Background(), buyer, "Buyer Corp", listing)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Rejected before any write.
	assert.True(t, store.balances[buyer].WalletBalance.Equal(dec("11423.99")))
	assert.True(t, store.balances[seller].WalletBalance.Equal(dec("1000")))
	assert.Len(t, store.listings, 1)
	assert.Empty(t, store.transactions)
}

func TestBuySettlement_OwnListing(t *testing.T) {
	store, e, _, seller, listing := buyFixture(t)

	_, err := e.BuySettlement(context.Background(), seller, "Seller Corp", listing)
	assert.ErrorIs(t, err, ErrOwnListing)
	assert.Len(t, store.listings, 1)
}

func TestBuySettlement_SellerMissing(t *testing.T) {
	store, e, buyer, seller, listing := buyFixture(t)
	delete(store.balances, seller)

	_, err := e.BuySettlement(context.Background(), buyer, "Buyer Corp", listing)
	assert.ErrorIs(t, err, ErrSellerNotFound)

	// Buyer's credit grant and wallet debit were both rolled back.
	assert.Equal(t, int64(5), store.balances[buyer].AvailableCredits)
	assert.True(t, store.balances[buyer].WalletBalance.Equal(dec("20000")))
	assert.Len(t, store.listings, 1)
	assert.Empty(t, store.transactions)
}

func TestBuySettlement_RecordInsertFailureCompensates(t *testing.T) {
	store, e, buyer, seller, listing := buyFixture(t)
	boom := errors.New("insert failed")
	store.failOn["InsertTransaction"] = boom

	_, err := e.BuySettlement(context.Background(), buyer, "Buyer Corp", listing)
	require.ErrorIs(t, err, boom)

	// Every earlier write was undone and the listing is still open.
	assert.Equal(t, int64(5), store.balances[buyer].AvailableCredits)
	assert.True(t, store.balances[buyer].WalletBalance.Equal(dec("20000")))
	assert.True(t, store.balances[seller].WalletBalance.Equal(dec("1000")))
	assert.Len(t, store.listings, 1)
	assert.Empty(t, store.transactions)
}

// TestBuySettlement_LostRace replays a settlement against a listing another
// buyer already took: the conditional delete hits zero rows, the attempt is
// rejected and everything it wrote — including the tentative transaction
// record — is compensated.
func TestBuySettlement_LostRace(t *testing.T) {
	store, e, buyer, seller, listing := buyFixture(t)

	first, err := e.BuySettlement(context.Background(), buyer, "Buyer Corp", listing)
	require.NoError(t, err)

	second := uuid.New()
	store.balances[second] = Balance{AvailableCredits: 0, WalletBalance: dec("50000")}

	// Second buyer still holds the stale listing value.
	_, err = e.BuySettlement(context.Background(), second, "Late Corp", listing)
	assert.ErrorIs(t, err, ErrListingAlreadySettled)

	assert.Equal(t, int64(0), store.balances[second].AvailableCredits)
	assert.True(t, store.balances[second].WalletBalance.Equal(dec("50000")))
	assert.True(t, store.balances[seller].WalletBalance.Equal(dec("11000")), "seller keeps only the first settlement's proceeds")

	require.Len(t, store.transactions, 1, "losing attempt's record was removed")
	_, ok := store.transactions[first.TxID]
	assert.True(t, ok)
}

func TestBuySettlement_NotAuthenticated(t *testing.T) {
	_, e, _, _, listing := buyFixture(t)
	_, err := e.BuySettlement(context.Background(), uuid.Nil, "", listing)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

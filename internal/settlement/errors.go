package settlement

import "errors"

var (
	// ErrNotAuthenticated — the operation needs an identified user.
	ErrNotAuthenticated = errors.New("Not authenticated")

	// ErrInvalidQuantity — sell quantity is non-positive or exceeds the
	// seller's available credits. Rejected before any mutation.
	ErrInvalidQuantity = errors.New("Invalid quantity or insufficient credits")

	// ErrInvalidPrice — unit price must be positive.
	ErrInvalidPrice = errors.New("Invalid unit price")

	// ErrInsufficientFunds — buyer's wallet is below the total payable.
	// Rejected before any mutation.
	ErrInsufficientFunds = errors.New("Insufficient wallet balance")

	// ErrOwnListing — a user may not buy their own listing.
	ErrOwnListing = errors.New("Cannot buy your own listing")

	// ErrListingAlreadySettled — the conditional delete affected zero rows:
	// another buyer settled the listing first. All tentative mutations of
	// the losing attempt are compensated.
	ErrListingAlreadySettled = errors.New("Listing no longer available")

	// ErrSellerNotFound — the listing references a seller with no balance row.
	ErrSellerNotFound = errors.New("Could not find seller profile")

	// ErrBalanceNotFound is returned by Store.ReadBalance when the user has
	// no profile or metrics row. Create-on-read lives in the balances
	// package; the engine treats a missing row as a hard error.
	ErrBalanceNotFound = errors.New("balance not found")
)

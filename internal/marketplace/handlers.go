package marketplace

import (
	"errors"

	"carbonflow-backend/internal/balances"
	"carbonflow-backend/internal/listings"
	"carbonflow-backend/internal/market"
	"carbonflow-backend/internal/middleware"
	"carbonflow-backend/internal/pkg/response"
	"carbonflow-backend/internal/settlement"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Handlers exposes the marketplace: browse listings, sell, and buy.
type Handlers struct {
	Balances *balances.Service
	Listings *listings.Service
	Market   *market.Service
	Engine   *settlement.Engine
}

// Get GET /api/v1/marketplace — open listings (excluding the caller's own)
// plus the caller's balance snapshot and the current fee rates, so the
// frontend can quote a purchase before committing.
func (h *Handlers) Get(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	snapshot, err := h.Balances.GetBalance(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	open, err := h.Listings.ListOpen(c.Context(), &actor.UserID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}

	return response.Success(c, "Marketplace data", fiber.Map{
		"listings": open,
		"profile":  snapshot,
		"fees": fiber.Map{
			"commission_rate": h.Engine.Fees.CommissionRate,
			"tax_rate":        h.Engine.Fees.TaxRate,
		},
	})
}

// Quote GET /api/v1/marketplace/quote/:sell_id — itemized checkout quote
// for one listing (subtotal, commission, tax, total payable).
func (h *Handlers) Quote(c *fiber.Ctx) error {
	sellID, err := uuid.Parse(c.Params("sell_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for sell_id", fiber.StatusBadRequest)
	}
	listing, err := h.Listings.GetByID(c.Context(), sellID)
	if err != nil {
		if errors.Is(err, listings.ErrListingNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "Checkout quote", fiber.Map{
		"listing": listing,
		"quote":   h.Engine.Fees.QuoteFor(listing.TotalAmount),
	})
}

// Sell POST /api/v1/marketplace/sell-credits — create a sell listing. Unit
// price defaults to the live market price when the body omits it.
func (h *Handlers) Sell(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	var body struct {
		Quantity  int64   `json:"quantity"`
		UnitPrice *string `json:"unit_price"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest)
	}
	if body.Quantity == 0 {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest)
	}

	// Seller display name comes from the profile snapshot (create-on-read
	// for first-time sellers).
	snapshot, err := h.Balances.GetBalance(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}

	var unitPrice decimal.Decimal
	if body.UnitPrice != nil {
		unitPrice, err = decimal.NewFromString(*body.UnitPrice)
		if err != nil {
			return response.Error(c, "Invalid unit price", fiber.StatusBadRequest)
		}
	} else {
		quote, err := h.Market.CurrentPrice(c.Context())
		if err != nil {
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
		}
		unitPrice = quote.MarketPriceINR
	}

	listing, err := h.Engine.CreateSellListing(c.Context(), actor.UserID, snapshot.IndustryName, body.Quantity, unitPrice)
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrInvalidQuantity), errors.Is(err, settlement.ErrInvalidPrice):
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		case errors.Is(err, settlement.ErrNotAuthenticated):
			return response.Unauthorized(c, err.Error())
		default:
			return response.Error(c, "Failed to create sell listing. Changes reverted.", fiber.StatusInternalServerError)
		}
	}
	return response.SuccessCreated(c, "Sell listing created", fiber.Map{"listing": listing})
}

// Buy POST /api/v1/marketplace/buy-credits — settle a buy order against an
// open listing.
func (h *Handlers) Buy(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	var body struct {
		SellID string `json:"sell_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest)
	}
	sellID, err := uuid.Parse(body.SellID)
	if err != nil {
		return response.Error(c, "Invalid UUID format for sell_id", fiber.StatusBadRequest)
	}

	listing, err := h.Listings.GetByID(c.Context(), sellID)
	if err != nil {
		if errors.Is(err, listings.ErrListingNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}

	// Make sure the buyer's balance rows exist before settlement reads them.
	snapshot, err := h.Balances.GetBalance(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}

	receipt, err := h.Engine.BuySettlement(c.Context(), actor.UserID, snapshot.IndustryName, *listing)
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrInsufficientFunds):
			return response.Error(c, settlement.ErrInsufficientFunds.Error(), fiber.StatusPaymentRequired)
		case errors.Is(err, settlement.ErrOwnListing):
			return response.Error(c, settlement.ErrOwnListing.Error(), fiber.StatusForbidden)
		case errors.Is(err, settlement.ErrListingAlreadySettled):
			return response.Error(c, settlement.ErrListingAlreadySettled.Error(), fiber.StatusConflict)
		case errors.Is(err, settlement.ErrSellerNotFound):
			return response.Error(c, settlement.ErrSellerNotFound.Error(), fiber.StatusNotFound)
		case errors.Is(err, settlement.ErrNotAuthenticated):
			return response.Unauthorized(c, settlement.ErrNotAuthenticated.Error())
		default:
			return response.Error(c, "Failed to complete purchase. Changes reverted.", fiber.StatusInternalServerError)
		}
	}
	return response.Success(c, "Purchase successful", fiber.Map{"receipt": receipt})
}

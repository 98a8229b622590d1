package money

import "github.com/shopspring/decimal"

// FeeSchedule holds the platform's trade fee rates. Rates are fractions
// (0.02 = 2%). When NetProceeds is set the commission is deducted from the
// seller instead of charged to the buyer, and no tax applies — the historical
// alternate schedule kept behind a flag.
type FeeSchedule struct {
	CommissionRate decimal.Decimal
	TaxRate        decimal.Decimal
	NetProceeds    bool
}

// DefaultSchedule is 2% commission plus 12% tax on subtotal+commission,
// with the seller receiving the gross subtotal.
func DefaultSchedule() FeeSchedule {
	return FeeSchedule{
		CommissionRate: decimal.NewFromFloat(0.02),
		TaxRate:        decimal.NewFromFloat(0.12),
	}
}

// Quote is the itemized cost of buying one listing. All values are rounded
// to currency precision (2 decimal places) term by term, so the displayed
// breakdown always sums to the total.
type Quote struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	Commission     decimal.Decimal `json:"commission"`
	Tax            decimal.Decimal `json:"tax"`
	TotalPayable   decimal.Decimal `json:"total_payable"`
	SellerProceeds decimal.Decimal `json:"seller_proceeds"`
}

// QuoteFor computes the buyer's total and the seller's proceeds for a listing
// subtotal (the listing's total_amount).
func (f FeeSchedule) QuoteFor(subtotal decimal.Decimal) Quote {
	subtotal = subtotal.Round(2)

	if f.NetProceeds {
		commission := subtotal.Mul(f.CommissionRate).Round(2)
		return Quote{
			Subtotal:       subtotal,
			Commission:     commission,
			Tax:            decimal.Zero,
			TotalPayable:   subtotal,
			SellerProceeds: subtotal.Sub(commission),
		}
	}

	commission := subtotal.Mul(f.CommissionRate).Round(2)
	tax := subtotal.Add(commission).Mul(f.TaxRate).Round(2)
	return Quote{
		Subtotal:       subtotal,
		Commission:     commission,
		Tax:            tax,
		TotalPayable:   subtotal.Add(commission).Add(tax),
		SellerProceeds: subtotal,
	}
}

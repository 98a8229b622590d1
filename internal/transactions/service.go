package transactions

import (
	"context"

	"carbonflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// HistoryEntry is one trade from the caller's point of view.
type HistoryEntry struct {
	TxID         uuid.UUID       `json:"tx_id"`
	Role         string          `json:"role"` // "bought" or "sold"
	Counterparty string          `json:"counterparty"`
	Credits      int64           `json:"credits"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    interface{}     `json:"created_at"`
}

// History returns the user's completed trades, newest first, tagged with the
// side the user was on.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]HistoryEntry, error) {
	var txs []domain.Transaction
	if err := s.DB.WithContext(ctx).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}

	out := make([]HistoryEntry, len(txs))
	for i, tx := range txs {
		e := HistoryEntry{
			TxID:      tx.TxID,
			Credits:   tx.Credits,
			Amount:    tx.Amount,
			CreatedAt: tx.CreatedAt,
		}
		if tx.BuyerID == userID {
			e.Role = "bought"
			e.Counterparty = tx.SellerIndustryName
		} else {
			e.Role = "sold"
			e.Counterparty = tx.BuyerIndustryName
		}
		out[i] = e
	}
	return out, nil
}

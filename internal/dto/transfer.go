package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paywave/paywave_backend/internal/core/domain"
)

// CreateTransferRequest defines the data needed to initiate a transfer.
type CreateTransferRequest struct {
	ReceiverUPI string          `json:"receiverUpi" binding:"required,upi"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Note        string          `json:"note" binding:"max=200"`
}

// TransferResponse reports a completed transfer.
type TransferResponse struct {
	TransferID    string          `json:"transferID"`
	SenderBalance decimal.Decimal `json:"senderBalance"`
	ReceiverUPI   string          `json:"receiverUPI"`
	Amount        decimal.Decimal `json:"amount"`
	CompletedAt   time.Time       `json:"completedAt"`
}

// ToTransferResponse converts a domain.TransferResult to TransferResponse DTO
func ToTransferResponse(res *domain.TransferResult) TransferResponse {
	return TransferResponse{
		TransferID:    res.TransferID,
		SenderBalance: res.SenderBalance,
		ReceiverUPI:   res.ReceiverUPI,
		Amount:        res.Amount,
		CompletedAt:   res.CompletedAt,
	}
}

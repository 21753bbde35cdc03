package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRequest is the transient input to the transfer coordinator.
// It is never persisted.
type TransferRequest struct {
	SenderAccountID string
	ReceiverUPI     string
	Amount          decimal.Decimal
	Note            string
}

// TransferResult reports a completed transfer back to the caller.
type TransferResult struct {
	TransferID      string          `json:"transferID"`
	SenderBalance   decimal.Decimal `json:"senderBalance"`
	SenderRevision  int64           `json:"senderRevision"`
	ReceiverUPI     string          `json:"receiverUPI"`
	Amount          decimal.Decimal `json:"amount"`
	CompletedAt     time.Time       `json:"completedAt"`
	LedgerPersisted bool            `json:"-"` // false when the append was handed to the reconciler
}

// AccountSnapshot is the change-feed payload: the feed-visible state of
// one account at one revision. Delivery is at-least-once; consumers drop
// snapshots whose Revision is not greater than the last one applied.
type AccountSnapshot struct {
	AccountID  string          `json:"accountID"`
	Balance    decimal.Decimal `json:"balance"`
	CardStatus CardStatus      `json:"cardStatus"`
	KYCStatus  KYCStatus       `json:"kycStatus"`
	Banned     bool            `json:"banned"`
	Revision   int64           `json:"revision"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

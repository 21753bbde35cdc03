package mapping

import (
	"github.com/paywave/paywave_backend/internal/core/domain"
	"github.com/paywave/paywave_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		DisplayName:  d.DisplayName,
		UPIID:        d.UPIID,
		Balance:      d.Balance,
		CardNumber:   d.Card.Number,
		CardCVV:      d.Card.CVV,
		CardExpiry:   d.Card.Expiry,
		CardHolder:   d.Card.Holder,
		CardStatus:   string(d.Card.Status),
		KYCStatus:    string(d.KYCStatus),
		Banned:       d.Banned,
		Role:         string(d.Role),
		Revision:     d.Revision,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		DisplayName:  m.DisplayName,
		UPIID:        m.UPIID,
		Balance:      m.Balance,
		Card: domain.Card{
			Number: m.CardNumber,
			CVV:    m.CardCVV,
			Expiry: m.CardExpiry,
			Holder: m.CardHolder,
			Status: domain.CardStatus(m.CardStatus),
		},
		KYCStatus: domain.KYCStatus(m.KYCStatus),
		Banned:    m.Banned,
		Role:      domain.Role(m.Role),
		Revision:  m.Revision,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

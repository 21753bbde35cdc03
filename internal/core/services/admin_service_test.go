package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/paywave/paywave_backend/internal/apperrors"
	"github.com/paywave/paywave_backend/internal/core/domain"
	portssvc "github.com/paywave/paywave_backend/internal/core/ports/services"
	"github.com/paywave/paywave_backend/internal/core/services"
	"github.com/paywave/paywave_backend/internal/dto"
)

type AdminServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockLedgerRepo  *MockLedgerRepository
	mockFeed        *MockFeedPublisher
	mockBackfiller  *MockBackfiller
	service         portssvc.AdminSvcFacade
	admin           domain.Account
	target          domain.Account
}

func (suite *AdminServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockFeed = new(MockFeedPublisher)
	suite.mockBackfiller = new(MockBackfiller)
	suite.service = services.NewAdminService(suite.mockAccountRepo, suite.mockLedgerRepo, suite.mockFeed, suite.mockBackfiller)

	suite.admin = domain.Account{AccountID: uuid.NewString(), Role: domain.RoleAdmin}
	suite.target = domain.Account{
		AccountID: uuid.NewString(),
		UPIID:     "dave@paywave",
		Balance:   decimal.NewFromInt(10),
		Role:      domain.RoleUser,
		Revision:  2,
	}
}

func (suite *AdminServiceTestSuite) expectActor(account domain.Account) {
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, account.AccountID).Return(&account, nil).Once()
}

func (suite *AdminServiceTestSuite) TestNonAdminIsForbidden() {
	ctx := context.Background()
	user := domain.Account{AccountID: uuid.NewString(), Role: domain.RoleUser}
	suite.expectActor(user)

	_, err := suite.service.ListAccounts(ctx, user.AccountID, 50, 0)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AdminServiceTestSuite) TestListAccounts() {
	ctx := context.Background()
	suite.expectActor(suite.admin)
	suite.mockAccountRepo.On("ListAccounts", ctx, 50, 0).Return([]domain.Account{suite.target}, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, suite.admin.AccountID, 50, 0)

	suite.Require().NoError(err)
	suite.Len(accounts, 1)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AdminServiceTestSuite) TestInjectFunds() {
	ctx := context.Background()
	amount := decimal.NewFromInt(200)
	suite.expectActor(suite.admin)

	updated := suite.target
	updated.Balance = suite.target.Balance.Add(amount)
	updated.Revision = suite.target.Revision + 1

	suite.mockAccountRepo.On("WithSerializableTx", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", mock.Anything, mock.Anything, []string{suite.target.AccountID}).
		Return(map[string]domain.Account{suite.target.AccountID: suite.target}, nil).Once()
	suite.mockAccountRepo.On("ApplyBalanceChangesInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return len(changes) == 1 && changes[suite.target.AccountID].Equal(amount)
	}), suite.admin.AccountID, mock.Anything).
		Return(map[string]domain.Account{suite.target.AccountID: updated}, nil).Once()

	suite.mockLedgerRepo.On("AppendEntries", mock.Anything, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		return len(entries) == 1 &&
			entries[0].Direction == domain.Credit &&
			entries[0].AccountID == suite.target.AccountID &&
			entries[0].CounterpartyUPI == "treasury@paywave" &&
			entries[0].Amount.Equal(amount)
	})).Return(nil).Once()
	suite.mockFeed.On("Publish", mock.Anything, updated.Snapshot()).Return(nil).Once()

	account, err := suite.service.InjectFunds(ctx, suite.admin.AccountID, suite.target.AccountID, dto.InjectFundsRequest{Amount: amount, Note: "promo"})

	suite.Require().NoError(err)
	suite.True(account.Balance.Equal(decimal.NewFromInt(210)))
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockFeed.AssertExpectations(suite.T())
}

func (suite *AdminServiceTestSuite) TestInjectFunds_InvalidAmount() {
	ctx := context.Background()
	suite.expectActor(suite.admin)

	_, err := suite.service.InjectFunds(ctx, suite.admin.AccountID, suite.target.AccountID, dto.InjectFundsRequest{Amount: decimal.NewFromInt(-5)})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "WithSerializableTx", mock.Anything, mock.Anything)
}

func (suite *AdminServiceTestSuite) TestSetBanned_PublishesSnapshot() {
	ctx := context.Background()
	suite.expectActor(suite.admin)

	banned := suite.target
	banned.Banned = true
	banned.Revision = suite.target.Revision + 1

	suite.mockAccountRepo.On("UpdateBanned", ctx, suite.target.AccountID, true, suite.admin.AccountID, mock.Anything).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.target.AccountID).Return(&banned, nil).Once()
	suite.mockFeed.On("Publish", mock.Anything, banned.Snapshot()).Return(nil).Once()

	err := suite.service.SetBanned(ctx, suite.admin.AccountID, suite.target.AccountID, true)

	suite.Require().NoError(err)
	suite.mockFeed.AssertExpectations(suite.T())
}

func (suite *AdminServiceTestSuite) TestVerifyKYC() {
	ctx := context.Background()
	suite.expectActor(suite.admin)

	verified := suite.target
	verified.KYCStatus = domain.KYCVerified
	verified.Revision = suite.target.Revision + 1

	suite.mockAccountRepo.On("UpdateKYCStatus", ctx, suite.target.AccountID, domain.KYCVerified, suite.admin.AccountID, mock.Anything).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.target.AccountID).Return(&verified, nil).Once()
	suite.mockFeed.On("Publish", mock.Anything, verified.Snapshot()).Return(nil).Once()

	err := suite.service.VerifyKYC(ctx, suite.admin.AccountID, suite.target.AccountID)

	suite.Require().NoError(err)
}

func (suite *AdminServiceTestSuite) TestSetCardFrozen_TargetMissing() {
	ctx := context.Background()
	suite.expectActor(suite.admin)
	suite.mockAccountRepo.On("UpdateCardStatus", ctx, "missing", domain.CardFrozen, suite.admin.AccountID, mock.Anything).Return(apperrors.ErrNotFound).Once()

	err := suite.service.SetCardFrozen(ctx, suite.admin.AccountID, "missing", true)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockFeed.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func TestAdminServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}

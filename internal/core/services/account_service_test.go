package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/paywave/paywave_backend/internal/apperrors"
	"github.com/paywave/paywave_backend/internal/core/domain"
	portssvc "github.com/paywave/paywave_backend/internal/core/ports/services"
	"github.com/paywave/paywave_backend/internal/core/services"
	"github.com/paywave/paywave_backend/internal/dto"
	"github.com/paywave/paywave_backend/internal/utils"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockFeed        *MockFeedPublisher
	service         portssvc.AccountSvcFacade
	signupBonus     decimal.Decimal
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockFeed = new(MockFeedPublisher)
	suite.signupBonus = decimal.NewFromInt(50)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockFeed, suite.signupBonus)
}

func (suite *AccountServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Email:       "Alice@Example.com",
		Password:    "correcthorse",
		UPIID:       "alice@paywave",
		DisplayName: "Alice",
	}

	var saved domain.Account
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Account) }).
		Return(nil).Once()

	account, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal("alice@example.com", account.Email)
	suite.Equal("alice@paywave", account.UPIID)
	suite.True(account.Balance.Equal(suite.signupBonus))
	suite.Equal(domain.KYCPending, account.KYCStatus)
	suite.Equal(domain.RoleUser, account.Role)
	suite.False(account.Banned)
	suite.Equal(int64(1), account.Revision)

	// Provisioned card
	suite.Len(account.Card.Number, 16)
	suite.Len(account.Card.CVV, 3)
	suite.Regexp(`^\d{2}/\d{2}$`, account.Card.Expiry)
	suite.Equal("Alice", account.Card.Holder)
	suite.Equal(domain.CardActive, account.Card.Status)

	// Password is stored hashed, never verbatim
	suite.NotEqual(req.Password, account.PasswordHash)
	suite.True(utils.CheckPasswordHash(req.Password, account.PasswordHash))

	suite.Equal(account.AccountID, saved.AccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestRegister_DisplayNameDefaultsToEmailLocalPart() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Email:    "bob@example.com",
		Password: "correcthorse",
		UPIID:    "bob@paywave",
	}
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.Anything).Return(nil).Once()

	account, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Equal("bob", account.DisplayName)
}

func (suite *AccountServiceTestSuite) TestRegister_DuplicateUPI() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Email:    "carol@example.com",
		Password: "correcthorse",
		UPIID:    "taken@paywave",
	}
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestSetCardFrozen_PublishesSnapshot() {
	ctx := context.Background()
	account := domain.Account{
		AccountID: "acc-1",
		Card:      domain.Card{Status: domain.CardFrozen},
		Revision:  4,
	}

	suite.mockAccountRepo.On("UpdateCardStatus", ctx, "acc-1", domain.CardFrozen, "acc-1", mock.Anything).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, "acc-1").Return(&account, nil).Once()
	suite.mockFeed.On("Publish", ctx, account.Snapshot()).Return(nil).Once()

	updated, err := suite.service.SetCardFrozen(ctx, "acc-1", true)

	suite.Require().NoError(err)
	suite.Equal(domain.CardFrozen, updated.Card.Status)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockFeed.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestSetCardFrozen_Unfreeze() {
	ctx := context.Background()
	account := domain.Account{
		AccountID: "acc-1",
		Card:      domain.Card{Status: domain.CardActive},
		Revision:  5,
	}

	suite.mockAccountRepo.On("UpdateCardStatus", ctx, "acc-1", domain.CardActive, "acc-1", mock.Anything).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, "acc-1").Return(&account, nil).Once()
	suite.mockFeed.On("Publish", ctx, mock.Anything).Return(nil).Once()

	updated, err := suite.service.SetCardFrozen(ctx, "acc-1", false)

	suite.Require().NoError(err)
	suite.Equal(domain.CardActive, updated.Card.Status)
}

func (suite *AccountServiceTestSuite) TestSetCardFrozen_NotFound() {
	ctx := context.Background()
	suite.mockAccountRepo.On("UpdateCardStatus", ctx, "missing", domain.CardFrozen, "missing", mock.Anything).Return(apperrors.ErrNotFound).Once()

	_, err := suite.service.SetCardFrozen(ctx, "missing", true)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockFeed.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

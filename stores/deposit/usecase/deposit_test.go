package usecase

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/domain"
	"github.com/dropstation/marketapi/domain/deposit"
	dMocks "github.com/dropstation/marketapi/domain/deposit/mocks"
	lMocks "github.com/dropstation/marketapi/domain/listing/mocks"
	eMocks "github.com/dropstation/marketapi/domain/mocks"
	bMocks "github.com/dropstation/marketapi/service/bridge/mocks"
)

var account = domain.Address("0xaccount")

type depositUseCaseSuite struct {
	suite.Suite

	ctx         bCtx.Ctx
	depositRepo *dMocks.Repo
	listingRepo *lMocks.Repo
	bridge      *bMocks.Client
	uc          deposit.UseCase
}

func TestDepositUseCaseSuite(t *testing.T) {
	suite.Run(t, new(depositUseCaseSuite))
}

func (s *depositUseCaseSuite) SetupTest() {
	s.ctx = bCtx.Background()
	s.depositRepo = &dMocks.Repo{}
	s.listingRepo = &lMocks.Repo{}
	s.bridge = &bMocks.Client{}
	emitter := &eMocks.EventEmitter{}
	emitter.On("Emit", mock.Anything, mock.Anything, mock.Anything).Maybe()
	s.uc = New(&DepositUseCaseCfg{
		DepositRepo: s.depositRepo,
		ListingRepo: s.listingRepo,
		Bridge:      s.bridge,
		Emitter:     emitter,
		MinBalance:  "100",
	})
}

func (s *depositUseCaseSuite) TestDepositAccumulates() {
	s.depositRepo.On("Get", mock.Anything, account).Return(&deposit.Deposit{Account: account, Balance: "150"}, nil)
	s.depositRepo.On("Set", mock.Anything, account, "350").Return(nil)

	s.NoError(s.uc.Deposit(s.ctx, account, "", "200"))
	s.depositRepo.AssertExpectations(s.T())
}

func (s *depositUseCaseSuite) TestDepositToBeneficiary() {
	other := domain.Address("0xother")
	s.depositRepo.On("Get", mock.Anything, other).Return(nil, domain.ErrNotFound)
	s.depositRepo.On("Set", mock.Anything, other, "100").Return(nil)

	s.NoError(s.uc.Deposit(s.ctx, account, other, "100"))
	s.depositRepo.AssertExpectations(s.T())
}

func (s *depositUseCaseSuite) TestDepositBelowMinimum() {
	s.ErrorIs(s.uc.Deposit(s.ctx, account, "", "99"), domain.ErrInsufficientPayment)
}

func (s *depositUseCaseSuite) TestWithdrawKeepsLockedBalance() {
	s.depositRepo.On("Get", mock.Anything, account).Return(&deposit.Deposit{Account: account, Balance: "500"}, nil)
	s.listingRepo.On("Count", mock.Anything, mock.Anything).Return(2, nil)
	s.depositRepo.On("Set", mock.Anything, account, "200").Return(nil)
	s.bridge.On("Transfer", mock.Anything, account, "300").Return(nil)

	refund, err := s.uc.Withdraw(s.ctx, account, "1")
	s.NoError(err)
	s.Equal("300", refund)
	s.depositRepo.AssertExpectations(s.T())
	s.bridge.AssertExpectations(s.T())
}

func (s *depositUseCaseSuite) TestWithdrawEverything() {
	s.depositRepo.On("Get", mock.Anything, account).Return(&deposit.Deposit{Account: account, Balance: "500"}, nil)
	s.listingRepo.On("Count", mock.Anything, mock.Anything).Return(0, nil)
	s.depositRepo.On("Remove", mock.Anything, account).Return(nil)
	s.bridge.On("Transfer", mock.Anything, account, "500").Return(nil)

	refund, err := s.uc.Withdraw(s.ctx, account, "1")
	s.NoError(err)
	s.Equal("500", refund)
}

func (s *depositUseCaseSuite) TestWithdrawNothingDeposited() {
	s.depositRepo.On("Get", mock.Anything, account).Return(nil, domain.ErrNotFound)
	s.listingRepo.On("Count", mock.Anything, mock.Anything).Return(0, nil)

	refund, err := s.uc.Withdraw(s.ctx, account, "1")
	s.NoError(err)
	s.Equal("0", refund)
	s.bridge.AssertNotCalled(s.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything)
}

func (s *depositUseCaseSuite) TestWithdrawRequiresExactPayment() {
	_, err := s.uc.Withdraw(s.ctx, account, "0")
	s.ErrorIs(err, domain.ErrExactPaymentRequired)
}

func (s *depositUseCaseSuite) TestMinimumBalance() {
	s.Equal("100", s.uc.MinimumBalance(s.ctx))
}

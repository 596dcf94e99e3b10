package usecase

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/domain"
	"github.com/dropstation/marketapi/domain/marketplace"
	mMocks "github.com/dropstation/marketapi/domain/marketplace/mocks"
	eMocks "github.com/dropstation/marketapi/domain/mocks"
)

var (
	admin    = domain.Address("0xadmin")
	stranger = domain.Address("0xstranger")
)

type marketplaceUseCaseSuite struct {
	suite.Suite

	ctx     bCtx.Ctx
	repo    *mMocks.Repo
	emitter *eMocks.EventEmitter
	uc      marketplace.UseCase
}

func TestMarketplaceUseCaseSuite(t *testing.T) {
	suite.Run(t, new(marketplaceUseCaseSuite))
}

func (s *marketplaceUseCaseSuite) SetupTest() {
	s.ctx = bCtx.Background()
	s.repo = &mMocks.Repo{}
	s.emitter = &eMocks.EventEmitter{}
	s.emitter.On("Emit", mock.Anything, mock.Anything, mock.Anything).Maybe()
	s.uc = New(&MarketplaceUseCaseCfg{
		MarketplaceRepo: s.repo,
		Emitter:         s.emitter,
	})

	s.repo.On("Get", mock.Anything).Return(&marketplace.Config{
		Owner:             admin,
		Treasury:          "0xtreasury",
		FeeBps:            250,
		ApprovedContracts: []domain.Address{"0xnft"},
	}, nil)
}

func (s *marketplaceUseCaseSuite) TestOwnerGate() {
	s.ErrorIs(s.uc.SetFee(s.ctx, admin, 100, "2"), domain.ErrExactPaymentRequired)
	s.ErrorIs(s.uc.SetFee(s.ctx, stranger, 100, "1"), domain.ErrUnauthorized)
	s.ErrorIs(s.uc.TransferOwnership(s.ctx, stranger, stranger, "1"), domain.ErrUnauthorized)
}

func (s *marketplaceUseCaseSuite) TestSetFee() {
	fee := uint16(500)
	s.repo.On("Update", mock.Anything, &marketplace.ConfigPatch{FeeBps: &fee}).Return(nil)

	s.NoError(s.uc.SetFee(s.ctx, admin, 500, "1"))
	s.ErrorIs(s.uc.SetFee(s.ctx, admin, 10000, "1"), domain.ErrBadParamInput)
	s.repo.AssertExpectations(s.T())
}

func (s *marketplaceUseCaseSuite) TestSetTreasury() {
	treasury := domain.Address("0xnewtreasury")
	s.repo.On("Update", mock.Anything, &marketplace.ConfigPatch{Treasury: &treasury}).Return(nil)

	s.NoError(s.uc.SetTreasury(s.ctx, admin, "0xNewTreasury", "1"))
	s.ErrorIs(s.uc.SetTreasury(s.ctx, admin, "", "1"), domain.ErrInvalidAddress)
}

func (s *marketplaceUseCaseSuite) TestTransferOwnership() {
	newOwner := domain.Address("0xnewowner")
	s.repo.On("Update", mock.Anything, &marketplace.ConfigPatch{Owner: &newOwner}).Return(nil)

	s.NoError(s.uc.TransferOwnership(s.ctx, admin, newOwner, "1"))
}

func (s *marketplaceUseCaseSuite) TestAddApprovedContracts() {
	s.repo.On("Update", mock.Anything, mock.MatchedBy(func(p *marketplace.ConfigPatch) bool {
		return p.ApprovedContracts != nil && len(*p.ApprovedContracts) == 2
	})).Return(nil)

	// the already approved contract is not duplicated
	s.NoError(s.uc.AddApprovedContracts(s.ctx, admin, []domain.Address{"0xnft", "0xother"}, "1"))
	s.ErrorIs(s.uc.AddApprovedContracts(s.ctx, admin, nil, "1"), domain.ErrBadParamInput)
}

func (s *marketplaceUseCaseSuite) TestRemoveApprovedContracts() {
	s.repo.On("Update", mock.Anything, mock.MatchedBy(func(p *marketplace.ConfigPatch) bool {
		return p.ApprovedContracts != nil && len(*p.ApprovedContracts) == 0
	})).Return(nil)

	s.NoError(s.uc.RemoveApprovedContracts(s.ctx, admin, []domain.Address{"0xNFT"}, "1"))
}

package usecase

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/ptr"
	"github.com/dropstation/marketapi/domain"
	"github.com/dropstation/marketapi/domain/deposit"
	dMocks "github.com/dropstation/marketapi/domain/deposit/mocks"
	"github.com/dropstation/marketapi/domain/listing"
	lMocks "github.com/dropstation/marketapi/domain/listing/mocks"
	"github.com/dropstation/marketapi/domain/marketplace"
	mMocks "github.com/dropstation/marketapi/domain/marketplace/mocks"
	eMocks "github.com/dropstation/marketapi/domain/mocks"
	"github.com/dropstation/marketapi/service/bridge"
	bMocks "github.com/dropstation/marketapi/service/bridge/mocks"
)

var (
	seller   = domain.Address("0xseller")
	buyer    = domain.Address("0xbuyer")
	bidder   = domain.Address("0xbidder")
	admin    = domain.Address("0xadmin")
	treasury = domain.Address("0xtreasury")
	contract = domain.Address("0xnft")
	tokenId  = domain.TokenId("42")
)

type listingUseCaseSuite struct {
	suite.Suite

	ctx         bCtx.Ctx
	now         time.Time
	listingRepo *lMocks.Repo
	marketRepo  *mMocks.Repo
	depositRepo *dMocks.Repo
	bridge      *bMocks.Client
	emitter     *eMocks.EventEmitter
	uc          listing.UseCase
}

func TestListingUseCaseSuite(t *testing.T) {
	suite.Run(t, new(listingUseCaseSuite))
}

func (s *listingUseCaseSuite) SetupTest() {
	s.ctx = bCtx.Background()
	s.now = time.Unix(1700000000, 0).UTC()
	s.listingRepo = &lMocks.Repo{}
	s.marketRepo = &mMocks.Repo{}
	s.depositRepo = &dMocks.Repo{}
	s.bridge = &bMocks.Client{}
	s.emitter = &eMocks.EventEmitter{}
	s.emitter.On("Emit", mock.Anything, mock.Anything, mock.Anything).Maybe()
	s.uc = New(&ListingUseCaseCfg{
		ListingRepo:       s.listingRepo,
		MarketplaceRepo:   s.marketRepo,
		DepositRepo:       s.depositRepo,
		Bridge:            s.bridge,
		Emitter:           s.emitter,
		MarketAccount:     "0xmarket",
		MinDepositBalance: "100",
		PriceDecimals:     3,
		Spawn:             func(f func()) { f() },
		Now:               func() time.Time { return s.now },
	})
}

func (s *listingUseCaseSuite) marketConfig() *marketplace.Config {
	return &marketplace.Config{
		Owner:             admin,
		Treasury:          treasury,
		FeeBps:            250,
		ApprovedContracts: []domain.Address{contract},
	}
}

func (s *listingUseCaseSuite) fixedListing() *listing.Listing {
	started := s.now.Add(-time.Hour)
	return &listing.Listing{
		Seller:     seller,
		Contract:   contract,
		TokenId:    tokenId,
		ApprovalId: 7,
		Price:      "1000",
		StartedAt:  &started,
	}
}

func (s *listingUseCaseSuite) auctionListing() *listing.Listing {
	l := s.fixedListing()
	ended := s.now.Add(time.Hour)
	l.EndedAt = &ended
	l.IsAuction = ptr.Bool(true)
	l.Bids = []listing.Bid{}
	return l
}

func (s *listingUseCaseSuite) id() listing.Id {
	return listing.Id{Contract: contract, TokenId: tokenId}
}

func (s *listingUseCaseSuite) TestGetDutchDecay() {
	l := s.fixedListing()
	started := s.now.Add(-30 * time.Minute)
	ended := s.now.Add(30 * time.Minute)
	l.StartedAt = &started
	l.EndedAt = &ended
	l.IsAuction = ptr.Bool(true)
	l.EndPrice = ptr.String("500")
	l.Bids = []listing.Bid{}
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)

	info, err := s.uc.Get(s.ctx, s.id())
	s.NoError(err)
	// halfway between 1000 and 500
	s.Equal("750", info.CurrentPrice)
}

func (s *listingUseCaseSuite) TestGetFixedPrice() {
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(s.fixedListing(), nil)

	info, err := s.uc.Get(s.ctx, s.id())
	s.NoError(err)
	s.Equal("1000", info.CurrentPrice)
	s.Equal("1", info.DisplayPrice)
}

func (s *listingUseCaseSuite) TestBuySettlesWithPayout() {
	l := s.fixedListing()
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.listingRepo.On("Remove", mock.Anything, s.id()).Return(l, nil)
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)
	s.bridge.On("TransferPayout", mock.Anything, mock.Anything).Return(&bridge.TransferOutcome{
		Success: true,
		Payload: []byte(`{"0xseller":"900","0xroyalty":"100"}`),
	})
	// seller payout minus 2.5% fee of the full price
	s.bridge.On("Transfer", mock.Anything, seller, "875").Return(nil)
	s.bridge.On("Transfer", mock.Anything, treasury, "25").Return(nil)
	s.bridge.On("Transfer", mock.Anything, domain.Address("0xroyalty"), "100").Return(nil)

	s.NoError(s.uc.Buy(s.ctx, s.id(), buyer, "1000"))
	s.bridge.AssertExpectations(s.T())
	s.listingRepo.AssertCalled(s.T(), "Remove", mock.Anything, s.id())
}

func (s *listingUseCaseSuite) TestBuyFallbackOnBadPayout() {
	l := s.fixedListing()
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.listingRepo.On("Remove", mock.Anything, s.id()).Return(l, nil)
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)
	// assigned sum leaves more than the tolerated remainder
	s.bridge.On("TransferPayout", mock.Anything, mock.Anything).Return(&bridge.TransferOutcome{
		Success: true,
		Payload: []byte(`{"0xseller":"800"}`),
	})
	s.bridge.On("Transfer", mock.Anything, seller, "975").Return(nil)
	s.bridge.On("Transfer", mock.Anything, treasury, "25").Return(nil)

	s.NoError(s.uc.Buy(s.ctx, s.id(), buyer, "1000"))
	s.bridge.AssertExpectations(s.T())
}

func (s *listingUseCaseSuite) TestBuyRefundsOnFailedTransfer() {
	l := s.fixedListing()
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.listingRepo.On("Remove", mock.Anything, s.id()).Return(l, nil)
	s.bridge.On("TransferPayout", mock.Anything, mock.Anything).Return(&bridge.TransferOutcome{Success: false})
	s.bridge.On("Transfer", mock.Anything, buyer, "1000").Return(nil)

	s.NoError(s.uc.Buy(s.ctx, s.id(), buyer, "1000"))
	s.bridge.AssertExpectations(s.T())
	// the listing is not restored
	s.listingRepo.AssertNotCalled(s.T(), "Upsert", mock.Anything, mock.Anything)
}

func (s *listingUseCaseSuite) TestBuyPreconditions() {
	l := s.fixedListing()
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)

	s.ErrorIs(s.uc.Buy(s.ctx, s.id(), seller, "1000"), domain.ErrOwnSale)
	s.ErrorIs(s.uc.Buy(s.ctx, s.id(), buyer, "999"), domain.ErrPaymentMismatch)
	s.ErrorIs(s.uc.Buy(s.ctx, s.id(), buyer, "1001"), domain.ErrPaymentMismatch)
}

func (s *listingUseCaseSuite) TestBuyIgnoresSaleWindow() {
	l := s.fixedListing()
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.listingRepo.On("Remove", mock.Anything, s.id()).Return(l, nil)
	s.bridge.On("TransferPayout", mock.Anything, mock.Anything).Return(&bridge.TransferOutcome{Success: false})
	s.bridge.On("Transfer", mock.Anything, buyer, "1000").Return(nil)

	// a fixed price sale has no window, only bids do
	s.now = l.StartedAt.Add(-time.Minute)
	s.NoError(s.uc.Buy(s.ctx, s.id(), buyer, "1000"))
	s.listingRepo.AssertCalled(s.T(), "Remove", mock.Anything, s.id())
}

func (s *listingUseCaseSuite) TestAddBidFirstBid() {
	l := s.auctionListing()
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.listingRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	s.ErrorIs(s.uc.AddBid(s.ctx, s.id(), bidder, "999", "999"), domain.ErrBidTooLow)
	s.NoError(s.uc.AddBid(s.ctx, s.id(), bidder, "1000", "1000"))

	s.Len(l.Bids, 1)
	s.Equal(bidder, l.Bids[0].Bidder)
}

func (s *listingUseCaseSuite) TestAddBidIncrement() {
	l := s.auctionListing()
	l.Bids = []listing.Bid{{Bidder: "0xother", Price: "1000", Time: s.now}}
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.listingRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	// floor is 1000 + 1000/10
	s.ErrorIs(s.uc.AddBid(s.ctx, s.id(), bidder, "1099", "1099"), domain.ErrBidTooLow)
	s.NoError(s.uc.AddBid(s.ctx, s.id(), bidder, "1100", "1100"))
}

func (s *listingUseCaseSuite) TestAddBidReplacesOwnBid() {
	l := s.auctionListing()
	l.Bids = []listing.Bid{{Bidder: bidder, Price: "1000", Time: s.now}}
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.listingRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	s.bridge.On("Transfer", mock.Anything, bidder, "1000").Return(nil)

	s.NoError(s.uc.AddBid(s.ctx, s.id(), bidder, "1100", "1100"))
	s.bridge.AssertExpectations(s.T())
	s.Len(l.Bids, 1)
	s.Equal("1100", l.Bids[0].Price)
}

func (s *listingUseCaseSuite) TestAddBidAntiSnipe() {
	l := s.auctionListing()
	ended := s.now.Add(2 * time.Minute)
	l.EndedAt = &ended
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.listingRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	s.NoError(s.uc.AddBid(s.ctx, s.id(), bidder, "1000", "1000"))
	s.Equal(ended.Add(5*time.Minute), *l.EndedAt)
}

func (s *listingUseCaseSuite) TestAddBidEvictsOldestWhenFull() {
	l := s.auctionListing()
	oldest := listing.Bid{Bidder: domain.Address("0xoldest"), Price: "10", Time: s.now}
	l.Bids = append(l.Bids, oldest)
	for i := 1; i < 99; i++ {
		l.Bids = append(l.Bids, listing.Bid{Bidder: domain.Address("0xb"), Price: "1000", Time: s.now})
	}
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.listingRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	s.bridge.On("Transfer", mock.Anything, oldest.Bidder, "10").Return(nil)

	// the bid that fills the book pushes the oldest one out
	s.NoError(s.uc.AddBid(s.ctx, s.id(), bidder, "1100", "1100"))
	s.bridge.AssertExpectations(s.T())
	s.Len(l.Bids, 99)
	s.Equal(bidder, l.Bids[len(l.Bids)-1].Bidder)
}

func (s *listingUseCaseSuite) TestAddBidRejectsDutchAndFixed() {
	dutch := s.auctionListing()
	dutch.EndPrice = ptr.String("500")
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(dutch, nil).Once()
	s.ErrorIs(s.uc.AddBid(s.ctx, s.id(), bidder, "1100", "1100"), domain.ErrDutchAuction)

	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(s.fixedListing(), nil).Once()
	s.ErrorIs(s.uc.AddBid(s.ctx, s.id(), bidder, "1100", "1100"), domain.ErrNoBids)
}

func (s *listingUseCaseSuite) TestCancelBid() {
	l := s.auctionListing()
	l.Bids = []listing.Bid{{Bidder: bidder, Price: "1000", Time: s.now}}
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)
	s.listingRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	s.bridge.On("Transfer", mock.Anything, bidder, "1000").Return(nil)

	s.ErrorIs(s.uc.CancelBid(s.ctx, s.id(), bidder, bidder, "2"), domain.ErrExactPaymentRequired)
	s.ErrorIs(s.uc.CancelBid(s.ctx, s.id(), buyer, bidder, "1"), domain.ErrUnauthorized)
	s.NoError(s.uc.CancelBid(s.ctx, s.id(), bidder, bidder, "1"))
	s.Empty(l.Bids)
}

func (s *listingUseCaseSuite) TestCancelBidUnknownBidderIsNoop() {
	l := s.auctionListing()
	l.Bids = []listing.Bid{{Bidder: bidder, Price: "1000", Time: s.now}}
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)

	s.NoError(s.uc.CancelBid(s.ctx, s.id(), buyer, buyer, "1"))
	s.listingRepo.AssertNotCalled(s.T(), "Upsert", mock.Anything, mock.Anything)
}

func (s *listingUseCaseSuite) TestAcceptBidRefundsLosersAndSettles() {
	l := s.auctionListing()
	ended := s.now.Add(-time.Minute)
	l.EndedAt = &ended
	l.Bids = []listing.Bid{
		{Bidder: "0xloser", Price: "1000", Time: s.now},
		{Bidder: bidder, Price: "1100", Time: s.now},
	}
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)
	s.listingRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	s.listingRepo.On("Remove", mock.Anything, s.id()).Return(l, nil)
	s.bridge.On("Transfer", mock.Anything, domain.Address("0xloser"), "1000").Return(nil)
	s.bridge.On("TransferPayout", mock.Anything, mock.Anything).Return(&bridge.TransferOutcome{Success: false})
	s.bridge.On("Transfer", mock.Anything, bidder, "1100").Return(nil)

	s.NoError(s.uc.AcceptBid(s.ctx, s.id(), seller, "1"))
	s.bridge.AssertExpectations(s.T())
}

func (s *listingUseCaseSuite) TestAcceptBidWindow() {
	l := s.auctionListing()
	l.Bids = []listing.Bid{{Bidder: bidder, Price: "1100", Time: s.now}}
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)

	// auction still running
	s.ErrorIs(s.uc.AcceptBid(s.ctx, s.id(), seller, "1"), domain.ErrAuctionNotEnded)
	s.ErrorIs(s.uc.AcceptBid(s.ctx, s.id(), buyer, "1"), domain.ErrUnauthorized)

	// the market admin may settle early
	s.listingRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	s.listingRepo.On("Remove", mock.Anything, s.id()).Return(l, nil)
	s.bridge.On("TransferPayout", mock.Anything, mock.Anything).Return(&bridge.TransferOutcome{Success: false})
	s.bridge.On("Transfer", mock.Anything, bidder, "1100").Return(nil)
	s.NoError(s.uc.AcceptBid(s.ctx, s.id(), admin, "1"))
}

func (s *listingUseCaseSuite) TestDelist() {
	l := s.auctionListing()
	l.Bids = []listing.Bid{{Bidder: bidder, Price: "1000", Time: s.now}}
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)
	s.listingRepo.On("Remove", mock.Anything, s.id()).Return(l, nil)
	s.bridge.On("Transfer", mock.Anything, bidder, "1000").Return(nil)

	s.ErrorIs(s.uc.Delist(s.ctx, s.id(), buyer, "1"), domain.ErrUnauthorized)
	s.NoError(s.uc.Delist(s.ctx, s.id(), seller, "1"))
	s.bridge.AssertExpectations(s.T())
}

func (s *listingUseCaseSuite) TestDelistAdminWaitsOutAuction() {
	l := s.auctionListing()
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)

	s.ErrorIs(s.uc.Delist(s.ctx, s.id(), admin, "1"), domain.ErrAuctionNotEnded)

	s.now = l.EndedAt.Add(time.Minute)
	s.listingRepo.On("Remove", mock.Anything, s.id()).Return(l, nil)
	s.NoError(s.uc.Delist(s.ctx, s.id(), admin, "1"))
}

func (s *listingUseCaseSuite) TestAddBidKeepsFundsWhenWriteFails() {
	l := s.auctionListing()
	l.Bids = []listing.Bid{{Bidder: bidder, Price: "1000", Time: s.now}}
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.listingRepo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("write failed"))

	s.Error(s.uc.AddBid(s.ctx, s.id(), bidder, "1100", "1100"))
	s.bridge.AssertNotCalled(s.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything)
}

func (s *listingUseCaseSuite) TestAcceptBidKeepsFundsWhenWriteFails() {
	l := s.auctionListing()
	ended := s.now.Add(-time.Minute)
	l.EndedAt = &ended
	l.Bids = []listing.Bid{
		{Bidder: "0xloser", Price: "1000", Time: s.now},
		{Bidder: bidder, Price: "1100", Time: s.now},
	}
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)
	s.listingRepo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("write failed"))

	s.Error(s.uc.AcceptBid(s.ctx, s.id(), seller, "1"))
	s.bridge.AssertNotCalled(s.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything)
}

func (s *listingUseCaseSuite) TestDelistKeepsFundsWhenRemoveFails() {
	l := s.auctionListing()
	l.Bids = []listing.Bid{{Bidder: bidder, Price: "1000", Time: s.now}}
	s.listingRepo.On("FindOne", mock.Anything, s.id()).Return(l, nil)
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)
	s.listingRepo.On("Remove", mock.Anything, s.id()).Return(nil, errors.New("write failed"))

	s.Error(s.uc.Delist(s.ctx, s.id(), seller, "1"))
	s.bridge.AssertNotCalled(s.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything)
}

func (s *listingUseCaseSuite) approval(msg string) *listing.ApprovalNotification {
	return &listing.ApprovalNotification{
		Caller:     contract,
		Signer:     seller,
		OwnerId:    seller,
		TokenId:    tokenId,
		ApprovalId: 7,
		Msg:        msg,
	}
}

func (s *listingUseCaseSuite) TestHandleApprovalCreatesListing() {
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)
	s.depositRepo.On("Get", mock.Anything, seller).Return(&deposit.Deposit{Account: seller, Balance: "1000"}, nil)
	s.listingRepo.On("Count", mock.Anything, mock.Anything).Return(0, nil)
	s.listingRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(l *listing.Listing) bool {
		return l.Seller == seller && l.Price == "1000" && l.Bids == nil
	})).Return(nil)

	s.NoError(s.uc.HandleApproval(s.ctx, s.approval(`{"price":"1000"}`)))
	s.listingRepo.AssertExpectations(s.T())
}

func (s *listingUseCaseSuite) TestHandleApprovalAuction() {
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)
	s.depositRepo.On("Get", mock.Anything, seller).Return(&deposit.Deposit{Account: seller, Balance: "1000"}, nil)
	s.listingRepo.On("Count", mock.Anything, mock.Anything).Return(0, nil)
	s.listingRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(l *listing.Listing) bool {
		return l.IsAscendingAuction() && len(l.Bids) == 0
	})).Return(nil)

	ended := s.now.Add(time.Hour).Unix()
	msg := `{"price":"1000","is_auction":true,"ended_at":"` + timeStr(ended) + `"}`
	s.NoError(s.uc.HandleApproval(s.ctx, s.approval(msg)))

	// auctions without an end time are rejected
	s.ErrorIs(s.uc.HandleApproval(s.ctx, s.approval(`{"price":"1000","is_auction":true}`)), domain.ErrEndTimeRequired)
}

func (s *listingUseCaseSuite) TestHandleApprovalRejections() {
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)

	forged := s.approval(`{"price":"1000"}`)
	forged.Caller = "0xmarket"
	s.ErrorIs(s.uc.HandleApproval(s.ctx, forged), domain.ErrSelfCall)

	mismatch := s.approval(`{"price":"1000"}`)
	mismatch.Signer = buyer
	s.ErrorIs(s.uc.HandleApproval(s.ctx, mismatch), domain.ErrOwnerMismatch)

	unapproved := s.approval(`{"price":"1000"}`)
	unapproved.Caller = "0xunknown"
	s.ErrorIs(s.uc.HandleApproval(s.ctx, unapproved), domain.ErrContractNotApproved)

	s.ErrorIs(s.uc.HandleApproval(s.ctx, s.approval(`{}`)), domain.ErrPriceRequired)
	s.ErrorIs(s.uc.HandleApproval(s.ctx, s.approval(`not json`)), domain.ErrBadParamInput)
}

func (s *listingUseCaseSuite) TestHandleApprovalDutchValidation() {
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)
	s.depositRepo.On("Get", mock.Anything, seller).Return(&deposit.Deposit{Account: seller, Balance: "1000"}, nil)
	s.listingRepo.On("Count", mock.Anything, mock.Anything).Return(0, nil)

	ended := timeStr(s.now.Add(time.Hour).Unix())
	bad := `{"price":"1000","is_auction":true,"ended_at":"` + ended + `","end_price":"1000"}`
	s.ErrorIs(s.uc.HandleApproval(s.ctx, s.approval(bad)), domain.ErrInvalidEndPrice)

	// end price on a non-auction listing makes no sense
	s.ErrorIs(s.uc.HandleApproval(s.ctx, s.approval(`{"price":"1000","end_price":"500"}`)), domain.ErrBadParamInput)
}

func (s *listingUseCaseSuite) TestHandleApprovalInsufficientStorageIsDropped() {
	s.marketRepo.On("Get", mock.Anything).Return(s.marketConfig(), nil)
	s.depositRepo.On("Get", mock.Anything, seller).Return(&deposit.Deposit{Account: seller, Balance: "150"}, nil)
	s.listingRepo.On("Count", mock.Anything, mock.Anything).Return(1, nil)

	// 2 active listings would need 200 locked, only 150 deposited
	s.NoError(s.uc.HandleApproval(s.ctx, s.approval(`{"price":"1000"}`)))
	s.listingRepo.AssertNotCalled(s.T(), "Upsert", mock.Anything, mock.Anything)
}

func timeStr(v int64) string {
	return strconv.FormatInt(v, 10)
}

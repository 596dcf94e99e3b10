package usecase

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"github.com/viney-shih/goroutines"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/goroutine"
	"github.com/dropstation/marketapi/base/log"
	"github.com/dropstation/marketapi/domain"
	"github.com/dropstation/marketapi/domain/deposit"
	"github.com/dropstation/marketapi/domain/listing"
	"github.com/dropstation/marketapi/domain/marketplace"
	"github.com/dropstation/marketapi/domain/payout"
	"github.com/dropstation/marketapi/service/bridge"
)

const (
	defaultMaxBids         = 100
	defaultExtensionWindow = 5 * time.Minute
	defaultPriceDecimals   = 24
	refundWorkers          = 8
)

type ListingUseCaseCfg struct {
	ListingRepo     listing.Repo
	MarketplaceRepo marketplace.Repo
	DepositRepo     deposit.Repo
	Bridge          bridge.Client
	Emitter         domain.EventEmitter

	// MarketAccount is this market's own settlement account. Approval
	// notifications claiming to come from it are forged.
	MarketAccount domain.Address

	// MinDepositBalance is the storage balance one active listing
	// locks, in minor units.
	MinDepositBalance string

	PriceDecimals   int32
	MaxBids         int
	ExtensionWindow time.Duration

	// Spawn runs the settlement continuation. Defaults to a recoverable
	// goroutine; tests inject a synchronous runner.
	Spawn func(func())
	Now   func() time.Time
}

type impl struct {
	listingRepo     listing.Repo
	marketplaceRepo marketplace.Repo
	depositRepo     deposit.Repo
	bridge          bridge.Client
	emitter         domain.EventEmitter
	marketAccount   domain.Address
	minBalance      *big.Int
	priceDecimals   int32
	maxBids         int
	extensionWindow time.Duration
	spawn           func(func())
	now             func() time.Time
}

func New(cfg *ListingUseCaseCfg) listing.UseCase {
	minBalance := big.NewInt(0)
	if len(cfg.MinDepositBalance) > 0 {
		if v, err := domain.ParseAmount(cfg.MinDepositBalance); err == nil {
			minBalance = v
		}
	}
	im := &impl{
		listingRepo:     cfg.ListingRepo,
		marketplaceRepo: cfg.MarketplaceRepo,
		depositRepo:     cfg.DepositRepo,
		bridge:          cfg.Bridge,
		emitter:         cfg.Emitter,
		marketAccount:   cfg.MarketAccount.ToLower(),
		minBalance:      minBalance,
		priceDecimals:   cfg.PriceDecimals,
		maxBids:         cfg.MaxBids,
		extensionWindow: cfg.ExtensionWindow,
		spawn:           cfg.Spawn,
		now:             cfg.Now,
	}
	if im.priceDecimals == 0 {
		im.priceDecimals = defaultPriceDecimals
	}
	if im.maxBids == 0 {
		im.maxBids = defaultMaxBids
	}
	if im.extensionWindow == 0 {
		im.extensionWindow = defaultExtensionWindow
	}
	if im.spawn == nil {
		im.spawn = func(f func()) { goroutine.RecoverableGo(f) }
	}
	if im.now == nil {
		im.now = time.Now
	}
	return im
}

func (im *impl) Get(c bCtx.Ctx, id listing.Id) (*listing.Info, error) {
	l, err := im.listingRepo.FindOne(c, id)
	if err != nil {
		return nil, err
	}

	cur, err := l.CurrentPrice(im.now())
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("CurrentPrice failed")
		return nil, err
	}

	return &listing.Info{
		Listing:      l,
		CurrentPrice: cur.String(),
		DisplayPrice: decimal.NewFromBigInt(cur, -im.priceDecimals).String(),
	}, nil
}

func (im *impl) FindAll(c bCtx.Ctx, optFns ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	res, err := im.listingRepo.FindAll(c, optFns...)
	if err != nil {
		c.WithField("err", err).Error("listingRepo.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) CountBySeller(c bCtx.Ctx, seller domain.Address) (int, error) {
	cnt, err := im.listingRepo.Count(c, listing.WithSeller(seller))
	if err != nil {
		c.WithField("err", err).Error("listingRepo.Count failed")
		return 0, err
	}
	return cnt, nil
}

// HandleApproval admits a new listing after an asset contract reports
// an owner approval. A seller without enough pre-paid storage is
// dropped silently so the approval on the asset side stays usable.
func (im *impl) HandleApproval(c bCtx.Ctx, msg *listing.ApprovalNotification) error {
	caller := msg.Caller.ToLower()
	if caller.Equals(im.marketAccount) {
		return domain.ErrSelfCall
	}
	if !msg.OwnerId.Equals(msg.Signer) {
		return domain.ErrOwnerMismatch
	}

	cfg, err := im.marketplaceRepo.Get(c)
	if err != nil {
		c.WithField("err", err).Error("marketplaceRepo.Get failed")
		return err
	}
	if !cfg.IsApproved(caller) {
		return domain.ErrContractNotApproved
	}

	terms := listing.SaleTerms{}
	if err := json.Unmarshal([]byte(msg.Msg), &terms); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"msg": msg.Msg,
		}).Warn("unparsable sale terms")
		return domain.ErrBadParamInput
	}
	if terms.Price == nil {
		return domain.ErrPriceRequired
	}

	owner := msg.OwnerId.ToLower()
	if ok, err := im.hasStorageFor(c, owner); err != nil {
		return err
	} else if !ok {
		c.WithFields(log.Fields{
			"owner":    owner,
			"contract": caller,
			"tokenId":  msg.TokenId,
		}).Warn("insufficient storage deposit, dropping approval")
		return nil
	}

	l, err := im.buildListing(c, caller, owner, msg, &terms)
	if err != nil {
		return err
	}

	if err := im.listingRepo.Upsert(c, l); err != nil {
		return err
	}

	im.emitter.Emit(c, domain.EventListingCreated, listingParams(l))
	return nil
}

func (im *impl) hasStorageFor(c bCtx.Ctx, owner domain.Address) (bool, error) {
	if im.minBalance.Sign() == 0 {
		return true, nil
	}

	balance := big.NewInt(0)
	if dep, err := im.depositRepo.Get(c, owner); err == nil {
		if balance, err = domain.ParseAmount(dep.Balance); err != nil {
			return false, err
		}
	} else if err != domain.ErrNotFound {
		c.WithField("err", err).Error("depositRepo.Get failed")
		return false, err
	}

	active, err := im.listingRepo.Count(c, listing.WithSeller(owner))
	if err != nil {
		c.WithField("err", err).Error("listingRepo.Count failed")
		return false, err
	}

	required := new(big.Int).Mul(im.minBalance, big.NewInt(int64(active)+1))
	return balance.Cmp(required) >= 0, nil
}

func (im *impl) buildListing(c bCtx.Ctx, contract, owner domain.Address, msg *listing.ApprovalNotification, terms *listing.SaleTerms) (*listing.Listing, error) {
	price, err := domain.ParseAmount(*terms.Price)
	if err != nil {
		return nil, err
	}

	now := im.now()
	startedAt := now
	if terms.StartedAt != nil && time.Unix(*terms.StartedAt, 0).After(now) {
		startedAt = time.Unix(*terms.StartedAt, 0).UTC()
	}

	isAuction := terms.IsAuction != nil && *terms.IsAuction

	var endedAt *time.Time
	if terms.EndedAt != nil {
		t := time.Unix(*terms.EndedAt, 0).UTC()
		endedAt = &t
	}
	if isAuction && endedAt == nil {
		return nil, domain.ErrEndTimeRequired
	}
	if endedAt != nil {
		if !endedAt.After(startedAt) || endedAt.Before(now) {
			return nil, domain.ErrInvalidSaleWindow
		}
	}

	var endPrice *string
	if terms.EndPrice != nil {
		if !isAuction {
			return nil, domain.ErrBadParamInput
		}
		ep, err := domain.ParseAmount(*terms.EndPrice)
		if err != nil {
			return nil, err
		}
		if ep.Cmp(price) >= 0 {
			return nil, domain.ErrInvalidEndPrice
		}
		endPrice = terms.EndPrice
	}

	l := &listing.Listing{
		Seller:     owner,
		Contract:   contract,
		TokenId:    msg.TokenId,
		ApprovalId: msg.ApprovalId,
		Price:      price.String(),
		StartedAt:  &startedAt,
		EndedAt:    endedAt,
		EndPrice:   endPrice,
	}
	if isAuction {
		l.Bids = []listing.Bid{}
		l.IsAuction = terms.IsAuction
	}
	return l, nil
}

func (im *impl) Buy(c bCtx.Ctx, id listing.Id, buyer domain.Address, payment string) error {
	l, err := im.listingRepo.FindOne(c, id)
	if err != nil {
		return err
	}

	buyer = buyer.ToLower()
	if buyer.Equals(l.Seller) {
		return domain.ErrOwnSale
	}

	price, err := domain.ParseAmount(l.Price)
	if err != nil {
		return err
	}
	paid, err := domain.ParseAmount(payment)
	if err != nil {
		return err
	}
	if paid.Cmp(price) != 0 {
		return domain.ErrPaymentMismatch
	}

	return im.processPurchase(c, l, buyer, paid)
}

func (im *impl) checkSaleWindow(l *listing.Listing) error {
	now := im.now()
	if l.StartedAt != nil && now.Before(*l.StartedAt) {
		return domain.ErrSaleNotStarted
	}
	if l.EndedAt != nil && now.After(*l.EndedAt) {
		return domain.ErrSaleEnded
	}
	return nil
}

func (im *impl) AddBid(c bCtx.Ctx, id listing.Id, bidder domain.Address, amount, payment string) error {
	l, err := im.listingRepo.FindOne(c, id)
	if err != nil {
		return err
	}

	bidder = bidder.ToLower()
	if bidder.Equals(l.Seller) {
		return domain.ErrOwnSale
	}
	if !l.IsAscendingAuction() {
		return domain.ErrNoBids
	}
	if l.EndPrice != nil {
		return domain.ErrDutchAuction
	}
	if err := im.checkSaleWindow(l); err != nil {
		return err
	}

	amountV, err := domain.ParseAmount(amount)
	if err != nil {
		return err
	}
	paid, err := domain.ParseAmount(payment)
	if err != nil {
		return err
	}
	if paid.Cmp(amountV) < 0 {
		return domain.ErrInsufficientPayment
	}

	min, err := l.MinNextBid()
	if err != nil {
		return err
	}
	if amountV.Cmp(min) < 0 {
		return domain.ErrBidTooLow
	}

	now := im.now()

	// a bidder raising their own bid gets the standing one refunded
	var replaced *listing.Bid
	kept := l.Bids[:0]
	for _, b := range l.Bids {
		if replaced == nil && b.Bidder.Equals(bidder) {
			bb := b
			replaced = &bb
			continue
		}
		kept = append(kept, b)
	}
	l.Bids = append(kept, listing.Bid{Bidder: bidder, Price: amountV.String(), Time: now.UTC()})

	// last-moment bids push the close out so others can respond
	if l.EndedAt != nil && l.EndedAt.Sub(now) <= im.extensionWindow {
		extended := l.EndedAt.Add(im.extensionWindow)
		l.EndedAt = &extended
		im.emitter.Emit(c, domain.EventAuctionExtended, map[string]interface{}{
			"nft_contract_id": l.Contract,
			"token_id":        l.TokenId,
			"ended_at":        extended.Unix(),
		})
	}

	// the oldest standing bid makes room once the book fills up
	var evicted *listing.Bid
	if len(l.Bids) >= im.maxBids {
		bb := l.Bids[0]
		evicted = &bb
		l.Bids = l.Bids[1:]
	}

	// refunds go out only after the new book is durable, otherwise a
	// failed write lets a retry pay the same bids out twice
	if err := im.listingRepo.Upsert(c, l); err != nil {
		return err
	}

	if replaced != nil {
		im.refund(c, replaced.Bidder, replaced.Price)
	}
	if evicted != nil {
		im.refund(c, evicted.Bidder, evicted.Price)
		im.emitter.Emit(c, domain.EventBidCancelled, bidParams(l, evicted))
	}

	im.emitter.Emit(c, domain.EventBidAdded, bidParams(l, l.TopBid()))
	return nil
}

func (im *impl) CancelBid(c bCtx.Ctx, id listing.Id, caller, bidder domain.Address, payment string) error {
	if err := domain.AssertOneUnit(payment); err != nil {
		return err
	}

	l, err := im.listingRepo.FindOne(c, id)
	if err != nil {
		return err
	}
	if !l.IsAscendingAuction() || len(l.Bids) == 0 {
		return domain.ErrNoBids
	}

	cfg, err := im.marketplaceRepo.Get(c)
	if err != nil {
		c.WithField("err", err).Error("marketplaceRepo.Get failed")
		return err
	}

	caller = caller.ToLower()
	bidder = bidder.ToLower()

	var cancelled *listing.Bid
	kept := l.Bids[:0]
	for _, b := range l.Bids {
		if cancelled == nil && b.Bidder.Equals(bidder) {
			if !caller.Equals(b.Bidder) && !caller.Equals(cfg.Owner) {
				return domain.ErrUnauthorized
			}
			bb := b
			cancelled = &bb
			continue
		}
		kept = append(kept, b)
	}
	if cancelled == nil {
		// nothing to cancel, keep the call idempotent
		return nil
	}
	l.Bids = kept

	if err := im.listingRepo.Upsert(c, l); err != nil {
		return err
	}

	im.refund(c, cancelled.Bidder, cancelled.Price)
	im.emitter.Emit(c, domain.EventBidCancelled, bidParams(l, cancelled))
	return nil
}

func (im *impl) AcceptBid(c bCtx.Ctx, id listing.Id, caller domain.Address, payment string) error {
	if err := domain.AssertOneUnit(payment); err != nil {
		return err
	}

	l, err := im.listingRepo.FindOne(c, id)
	if err != nil {
		return err
	}
	if !l.IsAscendingAuction() || len(l.Bids) == 0 {
		return domain.ErrNoBids
	}
	if l.EndPrice != nil {
		return domain.ErrDutchAuction
	}

	cfg, err := im.marketplaceRepo.Get(c)
	if err != nil {
		c.WithField("err", err).Error("marketplaceRepo.Get failed")
		return err
	}

	selected := *l.TopBid()
	caller = caller.ToLower()
	if !caller.Equals(l.Seller) && !caller.Equals(cfg.Owner) && !caller.Equals(selected.Bidder) {
		return domain.ErrUnauthorized
	}
	// the admin may close early, everyone else waits the auction out
	if !caller.Equals(cfg.Owner) && l.EndedAt != nil && im.now().Before(*l.EndedAt) {
		return domain.ErrAuctionNotEnded
	}

	losing := append([]listing.Bid{}, l.Bids[:len(l.Bids)-1]...)
	l.Bids = []listing.Bid{}
	if err := im.listingRepo.Upsert(c, l); err != nil {
		return err
	}
	im.refundAll(c, losing)

	price, err := domain.ParseAmount(selected.Price)
	if err != nil {
		return err
	}
	return im.processPurchase(c, l, selected.Bidder, price)
}

func (im *impl) Delist(c bCtx.Ctx, id listing.Id, caller domain.Address, payment string) error {
	if err := domain.AssertOneUnit(payment); err != nil {
		return err
	}

	l, err := im.listingRepo.FindOne(c, id)
	if err != nil {
		return err
	}

	cfg, err := im.marketplaceRepo.Get(c)
	if err != nil {
		c.WithField("err", err).Error("marketplaceRepo.Get failed")
		return err
	}

	caller = caller.ToLower()
	if !caller.Equals(l.Seller) && !caller.Equals(cfg.Owner) {
		return domain.ErrUnauthorized
	}

	// the market admin cannot cut a running auction short
	if l.IsAuction != nil && *l.IsAuction && caller.Equals(cfg.Owner) {
		if l.EndedAt != nil && im.now().Before(*l.EndedAt) {
			return domain.ErrAuctionNotEnded
		}
	}

	removed, err := im.listingRepo.Remove(c, id)
	if err != nil {
		return err
	}
	im.refundAll(c, removed.Bids)

	im.emitter.Emit(c, domain.EventListingDeleted, listingParams(removed))
	return nil
}

// processPurchase starts settlement: the listing is removed first so no
// concurrent purchase can settle the same token, then the token
// transfer runs off the request path and resolvePurchase consumes its
// outcome exactly once.
func (im *impl) processPurchase(c bCtx.Ctx, l *listing.Listing, buyer domain.Address, price *big.Int) error {
	removed, err := im.listingRepo.Remove(c, l.ToId())
	if err != nil {
		return err
	}

	im.spawn(func() {
		bg := bCtx.WithValues(bCtx.Background(), map[string]interface{}{
			"contract": removed.Contract,
			"tokenId":  removed.TokenId,
			"buyer":    buyer,
		})
		outcome := im.bridge.TransferPayout(bg, &bridge.TransferPayoutReq{
			Contract:   removed.Contract,
			TokenId:    removed.TokenId,
			Receiver:   buyer,
			ApprovalId: removed.ApprovalId,
			Amount:     price.String(),
		})
		im.resolvePurchase(bg, removed, buyer, price, outcome)
	})
	return nil
}

// resolvePurchase settles funds after the token transfer finished. A
// failed transfer refunds the buyer and the listing stays gone; the
// seller relists with a fresh approval. A transfer that succeeded but
// returned an unusable payout table falls back to paying the seller
// alone.
func (im *impl) resolvePurchase(c bCtx.Ctx, l *listing.Listing, buyer domain.Address, price *big.Int, outcome *bridge.TransferOutcome) {
	if !outcome.Success {
		im.refund(c, buyer, price.String())
		im.emitter.Emit(c, domain.EventPurchaseFailed, purchaseParams(l, buyer, price))
		return
	}

	feeBps := uint16(0)
	treasury := domain.Address("")
	if cfg, err := im.marketplaceRepo.Get(c); err != nil {
		c.WithField("err", err).Error("marketplaceRepo.Get failed, settling without fee")
	} else {
		feeBps = cfg.FeeBps
		treasury = cfg.Treasury
	}

	table, err := payout.ParseResponse(outcome.Payload, price)
	if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"payload": string(outcome.Payload),
		}).Warn("unusable payout response, paying seller directly")
		fee, net := payout.Split(price, feeBps)
		im.refund(c, l.Seller, net.String())
		if fee.Sign() > 0 && !treasury.IsEmpty() {
			im.refund(c, treasury, fee.String())
		}
		im.emitter.Emit(c, domain.EventPurchaseResolved, purchaseParams(l, buyer, price))
		return
	}

	fee := payout.FeeOf(price, feeBps)
	for payee, amount := range table {
		if payee.Equals(l.Seller) {
			net := new(big.Int).Sub(amount, fee)
			if net.Sign() < 0 {
				net = big.NewInt(0)
			}
			im.refund(c, payee, net.String())
			if fee.Sign() > 0 && !treasury.IsEmpty() {
				im.refund(c, treasury, fee.String())
			}
		} else {
			im.refund(c, payee, amount.String())
		}
	}

	im.emitter.Emit(c, domain.EventPurchaseResolved, purchaseParams(l, buyer, price))
}

func (im *impl) refund(c bCtx.Ctx, to domain.Address, amount string) {
	if err := im.bridge.Transfer(c, to, amount); err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"to":     to,
			"amount": amount,
		}).Error("bridge.Transfer failed")
	}
}

func (im *impl) refundAll(c bCtx.Ctx, bids []listing.Bid) {
	if len(bids) == 0 {
		return
	}

	b := goroutines.NewBatch(refundWorkers, goroutines.WithBatchSize(len(bids)))
	defer b.Close()
	for i := 0; i < len(bids); i++ {
		idx := i
		b.Queue(func() (interface{}, error) {
			return nil, im.bridge.Transfer(c, bids[idx].Bidder, bids[idx].Price)
		})
	}
	b.QueueComplete()

	for ret := range b.Results() {
		if ret.Error() != nil {
			c.WithField("err", ret.Error()).Error("bid refund failed")
		}
	}
}

func listingParams(l *listing.Listing) map[string]interface{} {
	params := map[string]interface{}{
		"owner_id":        l.Seller,
		"approval_id":     l.ApprovalId,
		"nft_contract_id": l.Contract,
		"token_id":        l.TokenId,
		"price":           l.Price,
	}
	if l.StartedAt != nil {
		params["started_at"] = l.StartedAt.Unix()
	}
	if l.EndedAt != nil {
		params["ended_at"] = l.EndedAt.Unix()
	}
	if l.EndPrice != nil {
		params["end_price"] = *l.EndPrice
	}
	if l.IsAuction != nil {
		params["is_auction"] = *l.IsAuction
	}
	return params
}

func bidParams(l *listing.Listing, b *listing.Bid) map[string]interface{} {
	return map[string]interface{}{
		"bidder_id":       b.Bidder,
		"nft_contract_id": l.Contract,
		"token_id":        l.TokenId,
		"amount":          b.Price,
	}
}

func purchaseParams(l *listing.Listing, buyer domain.Address, price *big.Int) map[string]interface{} {
	return map[string]interface{}{
		"owner_id":        l.Seller,
		"nft_contract_id": l.Contract,
		"token_id":        l.TokenId,
		"price":           price.String(),
		"buyer_id":        buyer,
	}
}

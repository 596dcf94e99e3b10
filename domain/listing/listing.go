package listing

import (
	"fmt"
	"math/big"
	"time"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/domain"
)

// Delimiter joins an asset contract with a token id into a listing key.
const Delimiter = "||"

type Id struct {
	Contract domain.Address `json:"contract" bson:"contract"`
	TokenId  domain.TokenId `json:"tokenId" bson:"tokenId"`
}

func (id Id) Key() string {
	return fmt.Sprintf("%s%s%s", id.Contract.ToLower(), Delimiter, id.TokenId)
}

type Bid struct {
	Bidder domain.Address `json:"bidder" bson:"bidder"`
	Price  string         `json:"price" bson:"price"`
	Time   time.Time      `json:"time" bson:"time"`
}

// Listing is one token offered for sale. Bids is non-nil exactly when
// the listing runs in ascending-auction mode.
type Listing struct {
	Seller     domain.Address `json:"seller" bson:"seller"`
	Contract   domain.Address `json:"contract" bson:"contract"`
	TokenId    domain.TokenId `json:"tokenId" bson:"tokenId"`
	ApprovalId uint64         `json:"approvalId" bson:"approvalId"`
	Price      string         `json:"price" bson:"price"`
	Bids       []Bid          `json:"bids,omitempty" bson:"bids,omitempty"`
	StartedAt  *time.Time     `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	EndedAt    *time.Time     `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
	EndPrice   *string        `json:"endPrice,omitempty" bson:"endPrice,omitempty"`
	IsAuction  *bool          `json:"isAuction,omitempty" bson:"isAuction,omitempty"`
}

func (l *Listing) ToId() Id {
	return Id{Contract: l.Contract, TokenId: l.TokenId}
}

func (l *Listing) Key() string {
	return l.ToId().Key()
}

func (l *Listing) IsAscendingAuction() bool {
	return l.Bids != nil
}

func (l *Listing) IsDutchAuction() bool {
	return l.IsAuction != nil && *l.IsAuction && l.EndPrice != nil
}

func (l *Listing) TopBid() *Bid {
	if len(l.Bids) == 0 {
		return nil
	}
	return &l.Bids[len(l.Bids)-1]
}

// CurrentPrice returns the effective price at the given time. For a
// descending (dutch) auction the price decays linearly from Price to
// EndPrice over the sale window; other listings keep their stored price.
func (l *Listing) CurrentPrice(now time.Time) (*big.Int, error) {
	price, err := domain.ParseAmount(l.Price)
	if err != nil {
		return nil, err
	}
	if !l.IsDutchAuction() || l.StartedAt == nil || l.EndedAt == nil {
		return price, nil
	}
	endPrice, err := domain.ParseAmount(*l.EndPrice)
	if err != nil {
		return nil, err
	}
	if !now.After(*l.StartedAt) {
		return price, nil
	}
	if !now.Before(*l.EndedAt) {
		return endPrice, nil
	}
	elapsed := big.NewInt(now.Unix() - l.StartedAt.Unix())
	duration := big.NewInt(l.EndedAt.Unix() - l.StartedAt.Unix())
	if duration.Sign() <= 0 {
		return endPrice, nil
	}
	drop := new(big.Int).Sub(price, endPrice)
	drop.Mul(drop, elapsed)
	drop.Div(drop, duration)
	return price.Sub(price, drop), nil
}

// MinNextBid returns the lowest acceptable next bid. With standing bids
// the floor is the top bid plus one tenth of it, otherwise the listing
// price.
func (l *Listing) MinNextBid() (*big.Int, error) {
	top := l.TopBid()
	if top == nil {
		return domain.ParseAmount(l.Price)
	}
	last, err := domain.ParseAmount(top.Price)
	if err != nil {
		return nil, err
	}
	step := new(big.Int).Div(last, big.NewInt(10))
	return new(big.Int).Add(last, step), nil
}

// ApprovalNotification is the message an approved asset contract sends
// when an owner approves this market to transfer a token. Msg carries
// the sale terms as json.
type ApprovalNotification struct {
	Caller     domain.Address `json:"caller"`
	Signer     domain.Address `json:"signer"`
	TokenId    domain.TokenId `json:"tokenId"`
	OwnerId    domain.Address `json:"ownerId"`
	ApprovalId uint64         `json:"approvalId"`
	Msg        string         `json:"msg"`
}

type SaleTerms struct {
	Price     *string `json:"price"`
	StartedAt *int64  `json:"started_at,string,omitempty"`
	EndedAt   *int64  `json:"ended_at,string,omitempty"`
	EndPrice  *string `json:"end_price,omitempty"`
	IsAuction *bool   `json:"is_auction,omitempty"`
}

type Info struct {
	Listing      *Listing `json:"listing"`
	CurrentPrice string   `json:"currentPrice"`
	DisplayPrice string   `json:"displayPrice"`
}

type Repo interface {
	FindOne(c bCtx.Ctx, id Id) (*Listing, error)
	FindAll(c bCtx.Ctx, optFns ...FindAllOptionsFunc) ([]*Listing, error)
	Count(c bCtx.Ctx, optFns ...FindAllOptionsFunc) (int, error)
	Upsert(c bCtx.Ctx, l *Listing) error
	// Remove deletes the listing and returns the removed snapshot in a
	// single atomic step.
	Remove(c bCtx.Ctx, id Id) (*Listing, error)
}

type UseCase interface {
	Get(c bCtx.Ctx, id Id) (*Info, error)
	FindAll(c bCtx.Ctx, optFns ...FindAllOptionsFunc) ([]*Listing, error)
	CountBySeller(c bCtx.Ctx, seller domain.Address) (int, error)
	HandleApproval(c bCtx.Ctx, msg *ApprovalNotification) error
	Buy(c bCtx.Ctx, id Id, buyer domain.Address, payment string) error
	AddBid(c bCtx.Ctx, id Id, bidder domain.Address, amount, payment string) error
	CancelBid(c bCtx.Ctx, id Id, caller, bidder domain.Address, payment string) error
	AcceptBid(c bCtx.Ctx, id Id, caller domain.Address, payment string) error
	Delist(c bCtx.Ctx, id Id, caller domain.Address, payment string) error
}

type FindAllOptions struct {
	SortBy   *string
	SortDir  *int
	Offset   *int
	Limit    *int
	Seller   *domain.Address
	Contract *domain.Address
	Auction  *bool
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithSort(sortBy string, sortDir int) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SortBy = &sortBy
		options.SortDir = &sortDir
		return nil
	}
}

func WithPagination(offset, limit int) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		seller = seller.ToLower()
		options.Seller = &seller
		return nil
	}
}

func WithContract(contract domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		contract = contract.ToLower()
		options.Contract = &contract
		return nil
	}
}

func WithAuction(auction bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Auction = &auction
		return nil
	}
}

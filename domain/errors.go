package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")

	// marketplace preconditions
	ErrUnauthorized         = errors.New("caller is not allowed to perform this action")
	ErrExactPaymentRequired = errors.New("requires attached payment of exactly 1 unit")
	ErrInsufficientPayment  = errors.New("attached payment is less than required amount")
	ErrPaymentMismatch      = errors.New("attached payment must equal the sale price")
	ErrOwnSale              = errors.New("cannot buy or bid on your own sale")
	ErrSaleNotStarted       = errors.New("sale has not started yet")
	ErrSaleEnded            = errors.New("sale has ended")
	ErrAuctionNotEnded      = errors.New("auction has not ended yet")
	ErrBidTooLow            = errors.New("bid is below the minimum acceptable price")
	ErrNoBids               = errors.New("bids data does not exist")
	ErrDutchAuction         = errors.New("dutch auction does not accept bids")
	ErrContractNotApproved  = errors.New("asset contract is not approved")
	ErrEndTimeRequired      = errors.New("auction requires an end time")
	ErrInvalidEndPrice      = errors.New("end price must be less than starting price")
	ErrInvalidSaleWindow    = errors.New("invalid sale window")
	ErrPriceRequired        = errors.New("price not specified")
	ErrSelfCall             = errors.New("must be called via cross-contract call")
	ErrOwnerMismatch        = errors.New("declared owner must be the transaction signer")
)

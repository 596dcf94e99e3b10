package bridge

import (
	"errors"
	"net/http"
	"time"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/domain"
)

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
)

// TransferPayoutReq asks the asset contract to move a token to the
// receiver and report how the sale amount should be split.
type TransferPayoutReq struct {
	Contract   domain.Address `json:"contract"`
	TokenId    domain.TokenId `json:"tokenId"`
	Receiver   domain.Address `json:"receiverId"`
	ApprovalId uint64         `json:"approvalId"`
	Amount     string         `json:"balance"`
}

// TransferOutcome is the terminal result of a transfer-with-payout
// call. Payload holds the raw payout response body when Success is
// true; it is meaningless otherwise.
type TransferOutcome struct {
	Success bool
	Payload []byte
}

// Client executes fund and token transfers against the settlement
// layer. TransferPayout never returns a Go error: a failed call is a
// legitimate outcome the purchase flow has to settle, not an exception.
type Client interface {
	TransferPayout(c bCtx.Ctx, req *TransferPayoutReq) *TransferOutcome
	Transfer(c bCtx.Ctx, to domain.Address, amount string) error
}

type ClientCfg struct {
	HttpClient http.Client
	Timeout    time.Duration
	Endpoint   string
	Apikey     string
}

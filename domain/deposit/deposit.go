package deposit

import (
	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/domain"
)

// Deposit is the pre-paid storage balance one account keeps with the
// market. Every active listing locks MinimumBalance of it.
type Deposit struct {
	Account domain.Address `json:"account" bson:"account"`
	Balance string         `json:"balance" bson:"balance"`
}

type Repo interface {
	Get(c bCtx.Ctx, account domain.Address) (*Deposit, error)
	Set(c bCtx.Ctx, account domain.Address, balance string) error
	Remove(c bCtx.Ctx, account domain.Address) error
}

type UseCase interface {
	// Deposit credits payment to the beneficiary's balance. An empty
	// beneficiary credits the payer.
	Deposit(c bCtx.Ctx, payer, beneficiary domain.Address, payment string) error
	// Withdraw refunds everything above what the account's active
	// listings keep locked, and returns the refunded amount.
	Withdraw(c bCtx.Ctx, account domain.Address, payment string) (string, error)
	BalanceOf(c bCtx.Ctx, account domain.Address) (string, error)
	MinimumBalance(c bCtx.Ctx) string
}

package usecase

import (
	"math/big"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/log"
	"github.com/dropstation/marketapi/domain"
	"github.com/dropstation/marketapi/domain/deposit"
	"github.com/dropstation/marketapi/domain/listing"
	"github.com/dropstation/marketapi/service/bridge"
)

type DepositUseCaseCfg struct {
	DepositRepo deposit.Repo
	ListingRepo listing.Repo
	Bridge      bridge.Client
	Emitter     domain.EventEmitter

	// MinBalance is the storage cost of one active listing, in minor
	// units. A deposit below it is rejected and withdrawals keep it
	// locked per active listing.
	MinBalance string
}

type impl struct {
	depositRepo deposit.Repo
	listingRepo listing.Repo
	bridge      bridge.Client
	emitter     domain.EventEmitter
	minBalance  *big.Int
}

func New(cfg *DepositUseCaseCfg) deposit.UseCase {
	minBalance := big.NewInt(0)
	if len(cfg.MinBalance) > 0 {
		if v, err := domain.ParseAmount(cfg.MinBalance); err == nil {
			minBalance = v
		}
	}
	return &impl{
		depositRepo: cfg.DepositRepo,
		listingRepo: cfg.ListingRepo,
		bridge:      cfg.Bridge,
		emitter:     cfg.Emitter,
		minBalance:  minBalance,
	}
}

func (im *impl) balanceOf(c bCtx.Ctx, account domain.Address) (*big.Int, error) {
	dep, err := im.depositRepo.Get(c, account)
	if err == domain.ErrNotFound {
		return big.NewInt(0), nil
	} else if err != nil {
		return nil, err
	}
	return domain.ParseAmount(dep.Balance)
}

func (im *impl) Deposit(c bCtx.Ctx, payer, beneficiary domain.Address, payment string) error {
	account := payer.ToLower()
	if !beneficiary.IsEmpty() {
		account = beneficiary.ToLower()
	}

	paid, err := domain.ParseAmount(payment)
	if err != nil {
		return err
	}
	if paid.Cmp(im.minBalance) < 0 {
		return domain.ErrInsufficientPayment
	}

	balance, err := im.balanceOf(c, account)
	if err != nil {
		c.WithField("err", err).Error("balanceOf failed")
		return err
	}

	balance.Add(balance, paid)
	if err := im.depositRepo.Set(c, account, balance.String()); err != nil {
		return err
	}

	im.emitter.Emit(c, domain.EventStorageDeposited, map[string]interface{}{
		"account_id": account,
		"amount":     paid.String(),
		"balance":    balance.String(),
	})
	return nil
}

// Withdraw pays back everything the account's active listings do not
// keep locked.
func (im *impl) Withdraw(c bCtx.Ctx, account domain.Address, payment string) (string, error) {
	if err := domain.AssertOneUnit(payment); err != nil {
		return "", err
	}

	account = account.ToLower()
	balance, err := im.balanceOf(c, account)
	if err != nil {
		c.WithField("err", err).Error("balanceOf failed")
		return "", err
	}

	active, err := im.listingRepo.Count(c, listing.WithSeller(account))
	if err != nil {
		c.WithField("err", err).Error("listingRepo.Count failed")
		return "", err
	}

	locked := new(big.Int).Mul(im.minBalance, big.NewInt(int64(active)))
	refund := new(big.Int).Sub(balance, locked)
	if refund.Sign() < 0 {
		refund = big.NewInt(0)
		locked = balance
	}

	if locked.Sign() > 0 {
		if err := im.depositRepo.Set(c, account, locked.String()); err != nil {
			return "", err
		}
	} else if balance.Sign() > 0 {
		if err := im.depositRepo.Remove(c, account); err != nil && err != domain.ErrNotFound {
			return "", err
		}
	}

	if refund.Sign() > 0 {
		if err := im.bridge.Transfer(c, account, refund.String()); err != nil {
			c.WithFields(log.Fields{
				"err":     err,
				"account": account,
				"refund":  refund.String(),
			}).Error("bridge.Transfer failed")
			return "", err
		}
	}

	im.emitter.Emit(c, domain.EventStorageWithdrawn, map[string]interface{}{
		"account_id": account,
		"amount":     refund.String(),
		"locked":     locked.String(),
	})
	return refund.String(), nil
}

func (im *impl) BalanceOf(c bCtx.Ctx, account domain.Address) (string, error) {
	balance, err := im.balanceOf(c, account)
	if err != nil {
		return "", err
	}
	return balance.String(), nil
}

func (im *impl) MinimumBalance(c bCtx.Ctx) string {
	return im.minBalance.String()
}

package marketplace

import (
	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/domain"
)

// Config is the single governing record of the market: who administers
// it, where fees go, and which asset contracts may create listings.
type Config struct {
	Owner             domain.Address   `json:"owner" bson:"owner"`
	Treasury          domain.Address   `json:"treasury" bson:"treasury"`
	FeeBps            uint16           `json:"feeBps" bson:"feeBps"`
	ApprovedContracts []domain.Address `json:"approvedContracts" bson:"approvedContracts"`
}

func (cfg *Config) IsApproved(contract domain.Address) bool {
	contract = contract.ToLower()
	for _, c := range cfg.ApprovedContracts {
		if c.ToLower() == contract {
			return true
		}
	}
	return false
}

// ConfigPatch carries a partial config update. Nil fields are left
// untouched.
type ConfigPatch struct {
	Owner             *domain.Address   `bson:"owner,omitempty"`
	Treasury          *domain.Address   `bson:"treasury,omitempty"`
	FeeBps            *uint16           `bson:"feeBps,omitempty"`
	ApprovedContracts *[]domain.Address `bson:"approvedContracts,omitempty"`
}

type Repo interface {
	Get(c bCtx.Ctx) (*Config, error)
	Upsert(c bCtx.Ctx, cfg *Config) error
	Update(c bCtx.Ctx, patch *ConfigPatch) error
}

type UseCase interface {
	GetConfig(c bCtx.Ctx) (*Config, error)
	SetTreasury(c bCtx.Ctx, caller, treasury domain.Address, payment string) error
	SetFee(c bCtx.Ctx, caller domain.Address, feeBps uint16, payment string) error
	TransferOwnership(c bCtx.Ctx, caller, newOwner domain.Address, payment string) error
	AddApprovedContracts(c bCtx.Ctx, caller domain.Address, contracts []domain.Address, payment string) error
	RemoveApprovedContracts(c bCtx.Ctx, caller domain.Address, contracts []domain.Address, payment string) error
}

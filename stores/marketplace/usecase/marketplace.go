package usecase

import (
	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/log"
	"github.com/dropstation/marketapi/domain"
	"github.com/dropstation/marketapi/domain/marketplace"
)

// fee is expressed in basis points
const maxFeeBps = 10_000

type MarketplaceUseCaseCfg struct {
	MarketplaceRepo marketplace.Repo
	Emitter         domain.EventEmitter
}

type impl struct {
	marketplaceRepo marketplace.Repo
	emitter         domain.EventEmitter
}

func New(cfg *MarketplaceUseCaseCfg) marketplace.UseCase {
	return &impl{
		marketplaceRepo: cfg.MarketplaceRepo,
		emitter:         cfg.Emitter,
	}
}

func (im *impl) GetConfig(c bCtx.Ctx) (*marketplace.Config, error) {
	cfg, err := im.marketplaceRepo.Get(c)
	if err != nil {
		c.WithField("err", err).Error("marketplaceRepo.Get failed")
		return nil, err
	}
	return cfg, nil
}

// assertOwner gates every mutating admin call behind the exact 1-unit
// payment and the configured owner identity.
func (im *impl) assertOwner(c bCtx.Ctx, caller domain.Address, payment string) error {
	if err := domain.AssertOneUnit(payment); err != nil {
		return err
	}
	cfg, err := im.marketplaceRepo.Get(c)
	if err != nil {
		c.WithField("err", err).Error("marketplaceRepo.Get failed")
		return err
	}
	if !caller.Equals(cfg.Owner) {
		return domain.ErrUnauthorized
	}
	return nil
}

func (im *impl) SetTreasury(c bCtx.Ctx, caller, treasury domain.Address, payment string) error {
	if err := im.assertOwner(c, caller, payment); err != nil {
		return err
	}
	if treasury.IsEmpty() {
		return domain.ErrInvalidAddress
	}

	treasury = treasury.ToLower()
	if err := im.marketplaceRepo.Update(c, &marketplace.ConfigPatch{Treasury: &treasury}); err != nil {
		return err
	}

	im.emitter.Emit(c, domain.EventConfigUpdated, map[string]interface{}{
		"treasury_id": treasury,
	})
	return nil
}

func (im *impl) SetFee(c bCtx.Ctx, caller domain.Address, feeBps uint16, payment string) error {
	if err := im.assertOwner(c, caller, payment); err != nil {
		return err
	}
	if feeBps >= maxFeeBps {
		return domain.ErrBadParamInput
	}

	if err := im.marketplaceRepo.Update(c, &marketplace.ConfigPatch{FeeBps: &feeBps}); err != nil {
		return err
	}

	im.emitter.Emit(c, domain.EventConfigUpdated, map[string]interface{}{
		"transaction_fee": feeBps,
	})
	return nil
}

func (im *impl) TransferOwnership(c bCtx.Ctx, caller, newOwner domain.Address, payment string) error {
	if err := im.assertOwner(c, caller, payment); err != nil {
		return err
	}
	if newOwner.IsEmpty() {
		return domain.ErrInvalidAddress
	}

	newOwner = newOwner.ToLower()
	if err := im.marketplaceRepo.Update(c, &marketplace.ConfigPatch{Owner: &newOwner}); err != nil {
		return err
	}

	im.emitter.Emit(c, domain.EventOwnershipTransfer, map[string]interface{}{
		"owner_id": newOwner,
	})
	return nil
}

func (im *impl) AddApprovedContracts(c bCtx.Ctx, caller domain.Address, contracts []domain.Address, payment string) error {
	if err := im.assertOwner(c, caller, payment); err != nil {
		return err
	}
	if len(contracts) == 0 {
		return domain.ErrBadParamInput
	}

	cfg, err := im.marketplaceRepo.Get(c)
	if err != nil {
		return err
	}

	approved := cfg.ApprovedContracts
	added := map[domain.Address]bool{}
	for _, contract := range contracts {
		if contract.IsEmpty() {
			return domain.ErrInvalidAddress
		}
		contract = contract.ToLower()
		if !cfg.IsApproved(contract) && !added[contract] {
			approved = append(approved, contract)
			added[contract] = true
		}
	}

	if err := im.marketplaceRepo.Update(c, &marketplace.ConfigPatch{ApprovedContracts: &approved}); err != nil {
		return err
	}

	im.emitter.Emit(c, domain.EventContractApproved, map[string]interface{}{
		"nft_contract_ids": contracts,
	})
	return nil
}

func (im *impl) RemoveApprovedContracts(c bCtx.Ctx, caller domain.Address, contracts []domain.Address, payment string) error {
	if err := im.assertOwner(c, caller, payment); err != nil {
		return err
	}
	if len(contracts) == 0 {
		return domain.ErrBadParamInput
	}

	cfg, err := im.marketplaceRepo.Get(c)
	if err != nil {
		return err
	}

	removing := map[domain.Address]bool{}
	for _, contract := range contracts {
		removing[contract.ToLower()] = true
	}

	approved := []domain.Address{}
	for _, contract := range cfg.ApprovedContracts {
		if !removing[contract.ToLower()] {
			approved = append(approved, contract)
		}
	}

	if err := im.marketplaceRepo.Update(c, &marketplace.ConfigPatch{ApprovedContracts: &approved}); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"contracts": contracts,
		}).Error("marketplaceRepo.Update failed")
		return err
	}

	im.emitter.Emit(c, domain.EventContractUnapproved, map[string]interface{}{
		"nft_contract_ids": contracts,
	})
	return nil
}

package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/log"
	"github.com/dropstation/marketapi/domain"
	"github.com/dropstation/marketapi/domain/deposit"
	"github.com/dropstation/marketapi/service/query"
)

type depositRepo struct {
	q query.Mongo
}

func NewDepositRepo(q query.Mongo) deposit.Repo {
	return &depositRepo{q}
}

func (im *depositRepo) selector(account domain.Address) bson.M {
	return bson.M{"account": account.ToLower()}
}

func (im *depositRepo) Get(c bCtx.Ctx, account domain.Address) (*deposit.Deposit, error) {
	res := &deposit.Deposit{}
	if err := im.q.FindOne(c, domain.TableStorageDeposits, im.selector(account), res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"account": account,
		}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *depositRepo) Set(c bCtx.Ctx, account domain.Address, balance string) error {
	account = account.ToLower()
	doc := &deposit.Deposit{Account: account, Balance: balance}
	if err := im.q.Upsert(c, domain.TableStorageDeposits, im.selector(account), doc); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"account": account,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *depositRepo) Remove(c bCtx.Ctx, account domain.Address) error {
	if err := im.q.Remove(c, domain.TableStorageDeposits, im.selector(account)); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"account": account,
		}).Error("q.Remove failed")
		return err
	}
	return nil
}

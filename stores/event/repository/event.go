package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/log"
	"github.com/dropstation/marketapi/domain"
	"github.com/dropstation/marketapi/service/query"
)

type eventRepo struct {
	q query.Mongo
}

func NewEventRepo(q query.Mongo) domain.EventRepo {
	return &eventRepo{q}
}

func (im *eventRepo) Insert(c bCtx.Ctx, event *domain.Event) error {
	if err := im.q.Insert(c, domain.TableMarketEvents, event); err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"event": event,
		}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *eventRepo) FindAll(c bCtx.Ctx, optFns ...domain.EventFindAllOptionsFunc) ([]*domain.Event, error) {
	opts, err := domain.GetEventFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("GetEventFindAllOptions failed")
		return nil, err
	}

	offset := 0
	limit := 100
	if opts.Offset != nil {
		offset = *opts.Offset
	}
	if opts.Limit != nil {
		limit = *opts.Limit
	}

	qry := bson.M{}
	if opts.Type != nil {
		qry["type"] = *opts.Type
	}

	res := []*domain.Event{}
	if err := im.q.Search(c, domain.TableMarketEvents, offset, limit, "-time", qry, &res); err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/log"
	"github.com/dropstation/marketapi/domain"
	"github.com/dropstation/marketapi/domain/listing"
	"github.com/dropstation/marketapi/service/cache"
	"github.com/dropstation/marketapi/service/query"
)

type listingRepo struct {
	q     query.Mongo
	cache cache.Service
}

// NewListingRepo builds the listing registry on mongo. Single-token
// reads go through the cache; every write invalidates the cached entry
// before touching the collection.
func NewListingRepo(q query.Mongo, cache cache.Service) listing.Repo {
	return &listingRepo{q, cache}
}

func (im *listingRepo) selector(id listing.Id) bson.M {
	return bson.M{
		"contract": id.Contract.ToLower(),
		"tokenId":  id.TokenId,
	}
}

func (im *listingRepo) makeQuery(c bCtx.Ctx, optFns ...listing.FindAllOptionsFunc) (bson.M, string, error) {
	opts, err := listing.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("GetFindAllOptions failed")
		return nil, "", err
	}

	qry := bson.M{}
	if opts.Seller != nil {
		qry["seller"] = *opts.Seller
	}
	if opts.Contract != nil {
		qry["contract"] = *opts.Contract
	}
	if opts.Auction != nil {
		if *opts.Auction {
			qry["isAuction"] = true
		} else {
			qry["isAuction"] = bson.M{"$ne": true}
		}
	}

	sort := ""
	if opts.SortBy != nil {
		sort = *opts.SortBy
		if opts.SortDir != nil && *opts.SortDir < 0 {
			sort = "-" + sort
		}
	}
	return qry, sort, nil
}

func (im *listingRepo) FindOne(c bCtx.Ctx, id listing.Id) (*listing.Listing, error) {
	res := &listing.Listing{}
	if err := im.cache.GetByFunc(c, id.Key(), res, func() (interface{}, error) {
		l := &listing.Listing{}
		if err := im.q.FindOne(c, domain.TableListings, im.selector(id), l); err == query.ErrNotFound {
			return nil, domain.ErrNotFound
		} else if err != nil {
			c.WithFields(log.Fields{
				"err": err,
				"id":  id,
			}).Error("q.FindOne failed")
			return nil, err
		}
		return l, nil
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (im *listingRepo) FindAll(c bCtx.Ctx, optFns ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	opts, err := listing.GetFindAllOptions(optFns...)
	if err != nil {
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

	qry, sort, err := im.makeQuery(c, optFns...)
	if err != nil {
		return nil, err
	}

	res := []*listing.Listing{}
	if err := im.q.Search(c, domain.TableListings, offset, limit, sort, qry, &res); err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *listingRepo) Count(c bCtx.Ctx, optFns ...listing.FindAllOptionsFunc) (int, error) {
	qry, _, err := im.makeQuery(c, optFns...)
	if err != nil {
		return 0, err
	}

	cnt, err := im.q.Count(c, domain.TableListings, qry)
	if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("q.Count failed")
		return 0, err
	}
	return cnt, nil
}

func (im *listingRepo) Upsert(c bCtx.Ctx, l *listing.Listing) error {
	if err := im.cache.Del(c, l.Key()); err != nil {
		c.WithField("err", err).Warn("cache.Del failed")
	}
	if err := im.q.Upsert(c, domain.TableListings, im.selector(l.ToId()), l); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  l.ToId(),
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *listingRepo) Remove(c bCtx.Ctx, id listing.Id) (*listing.Listing, error) {
	if err := im.cache.Del(c, id.Key()); err != nil {
		c.WithField("err", err).Warn("cache.Del failed")
	}
	removed := &listing.Listing{}
	if err := im.q.FindOneAndRemove(c, domain.TableListings, im.selector(id), removed); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("q.FindOneAndRemove failed")
		return nil, err
	}
	return removed, nil
}

package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/database/mongoclient"
	"github.com/dropstation/marketapi/base/log"
	"github.com/dropstation/marketapi/domain"
	"github.com/dropstation/marketapi/domain/marketplace"
	"github.com/dropstation/marketapi/service/cache"
	"github.com/dropstation/marketapi/service/query"
)

// the config is a singleton document
const configKey = "market"

const cacheKey = "config"

type marketplaceRepo struct {
	q     query.Mongo
	cache cache.Service
}

// NewMarketplaceRepo builds the market config store. The config is read
// on every admitted listing and every settlement, so reads come from an
// in-process cache and every write invalidates it.
func NewMarketplaceRepo(q query.Mongo, cache cache.Service) marketplace.Repo {
	return &marketplaceRepo{q, cache}
}

func (im *marketplaceRepo) selector() bson.M {
	return bson.M{"_id": configKey}
}

func (im *marketplaceRepo) Get(c bCtx.Ctx) (*marketplace.Config, error) {
	res := &marketplace.Config{}
	if err := im.cache.GetByFunc(c, cacheKey, res, func() (interface{}, error) {
		cfg := &marketplace.Config{}
		if err := im.q.FindOne(c, domain.TableMarketConfigs, im.selector(), cfg); err == query.ErrNotFound {
			return nil, domain.ErrNotFound
		} else if err != nil {
			c.WithField("err", err).Error("q.FindOne failed")
			return nil, err
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (im *marketplaceRepo) Upsert(c bCtx.Ctx, cfg *marketplace.Config) error {
	if err := im.cache.Del(c, cacheKey); err != nil {
		c.WithField("err", err).Warn("cache.Del failed")
	}
	if err := im.q.Upsert(c, domain.TableMarketConfigs, im.selector(), cfg); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"cfg": cfg,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (im *marketplaceRepo) Update(c bCtx.Ctx, patch *marketplace.ConfigPatch) error {
	update, err := mongoclient.MakeBsonM(patch)
	if err != nil {
		c.WithField("err", err).Error("MakeBsonM failed")
		return err
	}

	if err := im.cache.Del(c, cacheKey); err != nil {
		c.WithField("err", err).Warn("cache.Del failed")
	}
	if err := im.q.Patch(c, domain.TableMarketConfigs, im.selector(), update); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"patch": patch,
		}).Error("q.Patch failed")
		return err
	}
	return nil
}

package repository

import (
	"time"

	redigo "github.com/gomodule/redigo/redis"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/database/mongoclient"
	hcdomain "github.com/dropstation/marketapi/domain/healthcheck"
	"github.com/dropstation/marketapi/domain/keys"
)

type impl struct {
	mgoClient *mongoclient.Client
	redisPool *redigo.Pool
}

// New creates new healthCheckRepo object representation of HealthCheckRepo interface
func New(
	mgoClient *mongoclient.Client,
	redisPool *redigo.Pool,
) hcdomain.HealthCheckRepo {
	return &impl{
		mgoClient: mgoClient,
		redisPool: redisPool,
	}
}

func (im *impl) PingDB(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, 2*time.Second)
	defer cancel()
	if err := im.mgoClient.Ping(ctx, readpref.Primary()); err != nil {
		context.WithField("err", err).Error("ping mongo error")
		return err
	}

	conn, err := im.redisPool.GetContext(ctx)
	if err != nil {
		context.WithField("err", err).Error("get redis conn failed")
		return err
	}
	defer conn.Close()
	if _, err := conn.Do("SETEX", keys.RedisKey(keys.PfxHealthCheck, "testset"), 30, "1"); err != nil {
		context.WithField("err", err).Error("test redis set failed")
		return err
	}
	return nil
}

package redis

import (
	"time"

	redigo "github.com/gomodule/redigo/redis"

	"github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/service/cache/provider"
)

type impl struct {
	pool *redigo.Pool
}

func NewRedis(pool *redigo.Pool) provider.Provider {
	return &impl{pool}
}

func (im *impl) do(c ctx.Ctx, cmd string, args ...interface{}) (interface{}, error) {
	conn, err := im.pool.GetContext(c)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return conn.Do(cmd, args...)
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, err := redigo.Bytes(im.do(c, "GET", key))
	if err != nil {
		if err == redigo.ErrNil {
			return nil, time.Duration(0), provider.ErrNotFound
		}
		c.WithField("err", err).WithField("key", key).Error("redis.Get failed")
		return nil, time.Duration(0), err
	}
	ttl, err := redigo.Int(im.do(c, "TTL", key))
	if err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.TTL failed")
		return nil, time.Duration(0), err
	}
	return val, time.Duration(ttl) * time.Second, nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	if _, err := im.do(c, "SETEX", key, int(ttl.Seconds()), value); err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	if _, err := im.do(c, "DEL", key); err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.Del failed")
		return err
	}
	return nil
}

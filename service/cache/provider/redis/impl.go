package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/service/cache/provider"
)

// ConnGetter is satisfied by *redis.Pool
type ConnGetter interface {
	Get() redis.Conn
}

type impl struct {
	pool ConnGetter
}

func NewRedis(pool ConnGetter) provider.Provider {
	return &impl{pool}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	conn := im.pool.Get()
	defer conn.Close()

	val, err := redis.Bytes(conn.Do("GET", key))
	if err == redis.ErrNil {
		return nil, 0, provider.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("redis GET failed")
		return nil, 0, err
	}

	ms, err := redis.Int64(conn.Do("PTTL", key))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("redis PTTL failed")
		return nil, 0, err
	}
	if ms < 0 {
		// -1 means no expiry
		return val, 0, nil
	}
	return val, time.Duration(ms) * time.Millisecond, nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	conn := im.pool.Get()
	defer conn.Close()

	args := redis.Args{}.Add(key, value)
	if ttl > 0 {
		args = args.Add("PX", ttl.Milliseconds())
	}
	if _, err := conn.Do("SET", args...); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("redis SET failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	conn := im.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("DEL", key); err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("redis DEL failed")
		return err
	}
	return nil
}

package repository

import (
	"time"

	"github.com/gomodule/redigo/redis"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/database/mongoclient"
	hcdomain "github.com/x-xyz/editionmarket/domain/healthcheck"
	"github.com/x-xyz/editionmarket/domain/keys"
)

const pingTimeout = 2 * time.Second

type ConnGetter interface {
	Get() redis.Conn
}

type impl struct {
	mgoClient *mongoclient.Client
	redis     ConnGetter
}

// New takes nil for a store that is not configured
func New(mgoClient *mongoclient.Client, redis ConnGetter) hcdomain.HealthCheckRepo {
	return &impl{
		mgoClient: mgoClient,
		redis:     redis,
	}
}

func (im *impl) PingDB(context ctx.Ctx) error {
	if im.mgoClient != nil {
		ctx, cancel := ctx.WithTimeout(context, pingTimeout)
		defer cancel()
		if err := im.mgoClient.Ping(ctx, readpref.Primary()); err != nil {
			context.WithField("err", err).Error("ping mongo error")
			return err
		}
	}

	if im.redis != nil {
		conn := im.redis.Get()
		defer conn.Close()
		if _, err := redis.DoWithTimeout(conn, pingTimeout, "SET", keys.RedisKey(keys.PfxHealthCheck, "testset"), "1", "EX", 30); err != nil {
			context.WithField("err", err).Error("test redis set failed")
			return err
		}
	}
	return nil
}

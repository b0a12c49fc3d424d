package redisclient

import (
	"context"
	"runtime"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/editionmarket/base/backoff"
	"github.com/x-xyz/editionmarket/base/log"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 1500 * time.Millisecond
	writeTimeout = 1500 * time.Millisecond

	dialAttempts = 4
)

// Config is read from the redis section of the config file
type Config struct {
	URI      string `mapstructure:"uri"`
	Password string `mapstructure:"password"`
	// pool size per cpu, 0 keeps the fixed defaults
	PoolMultiplier float64 `mapstructure:"pool_multiplier"`
	// Retry dials again with a backoff, tests leave it off
	Retry bool `mapstructure:"retry"`
}

// MustConnectRedis panics if the connection fails
func MustConnectRedis(cfg Config) *redis.Pool {
	p, err := ConnectRedis(cfg)
	if err != nil {
		log.Log().WithFields(log.Fields{"redisURI": cfg.URI, "err": err}).Panic("fail to dial Redis")
	}
	return p
}

func ConnectRedis(cfg Config) (*redis.Pool, error) {
	p := newPool(cfg)

	attempts := 1
	if cfg.Retry {
		attempts = dialAttempts
	}

	err := backoff.Retry(context.Background(), backoff.NewExponential(time.Second, 4*time.Second), attempts, func() error {
		c := p.Get()
		defer c.Close()
		if _, err := c.Do("PING"); err != nil {
			log.Log().WithFields(log.Fields{"redisURI": cfg.URI, "err": err}).Error("fail to ping Redis")
			return err
		}
		return nil
	})
	if err != nil {
		p.Close()
		return nil, err
	}

	log.Log().WithField("redisURI", cfg.URI).Info("redis connected")
	return p, nil
}

func newPool(cfg Config) *redis.Pool {
	maxIdle := 200
	maxActive := 1024
	if cfg.PoolMultiplier > 0 {
		cpu := float64(runtime.NumCPU())
		// allowing 25% idle connection
		maxIdle = int(cpu * cfg.PoolMultiplier / 4)
		maxActive = int(cpu * cfg.PoolMultiplier)
	}

	opts := []redis.DialOption{
		redis.DialConnectTimeout(dialTimeout),
		redis.DialReadTimeout(readTimeout),
		redis.DialWriteTimeout(writeTimeout),
	}
	if cfg.Password != "" {
		opts = append(opts, redis.DialPassword(cfg.Password))
	}

	return &redis.Pool{
		MaxIdle:     maxIdle,
		MaxActive:   maxActive,
		Wait:        true,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", cfg.URI, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			// recycled less than 1 sec ago
			if time.Since(t) < time.Second {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

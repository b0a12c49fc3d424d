package ctx

import (
	"context"
	"time"

	log "github.com/x-xyz/editionmarket/base/log"
)

// Ctx is passed as the first argument of every usecase, repository and adapter call.
// Fields attached with WithValue also end up on the logger.
type Ctx struct {
	context.Context
	log.Logger
}

type key string

func Background() Ctx {
	return Ctx{
		Context: context.Background(),
		Logger:  log.Log(),
	}
}

// From lifts a plain context, e.g. a request context, keeping its deadline and cancellation
func From(parent context.Context) Ctx {
	return Ctx{
		Context: parent,
		Logger:  log.Log(),
	}
}

func WithValue(parent Ctx, k string, val interface{}) Ctx {
	return Ctx{
		Context: context.WithValue(parent.Context, key(k), val),
		Logger:  parent.Logger.WithField(k, val),
	}
}

func WithValues(parent Ctx, kvs map[string]interface{}) Ctx {
	c := parent
	for k, v := range kvs {
		c = WithValue(c, k, v)
	}
	return c
}

// Get reads a value stored by WithValue
func (c Ctx) Get(k string) interface{} {
	return c.Context.Value(key(k))
}

func WithCancel(parent Ctx) (Ctx, context.CancelFunc) {
	c, cancel := context.WithCancel(parent.Context)
	return Ctx{
		Context: c,
		Logger:  parent.Logger,
	}, cancel
}

func WithTimeout(parent Ctx, timeout time.Duration) (Ctx, context.CancelFunc) {
	c, cancel := context.WithTimeout(parent.Context, timeout)
	return Ctx{
		Context: c,
		Logger:  parent.Logger,
	}, cancel
}

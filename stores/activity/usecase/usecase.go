package usecase

import (
	"sync"
	"time"

	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/editionmarket/base/backoff"
	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/base/metrics"
	"github.com/x-xyz/editionmarket/domain/activity"
	"github.com/x-xyz/editionmarket/domain/market"
)

const (
	defaultWorkers  = 8
	defaultAttempts = 3
	retryStart      = 100 * time.Millisecond
	retryLimit      = 2 * time.Second
)

type ActivityUseCaseCfg struct {
	Repo    activity.Repo
	Workers int
	// Attempts bounds the inserts tried per event
	Attempts int
}

type impl struct {
	repo     activity.Repo
	attempts int
	pool     *goroutines.Pool
	wg       sync.WaitGroup
	met      metrics.Service
}

func New(cfg *ActivityUseCaseCfg) activity.UseCase {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	return &impl{
		repo:     cfg.Repo,
		attempts: attempts,
		pool:     goroutines.NewPool(workers),
		met:      metrics.New("activity"),
	}
}

func (im *impl) Handle(c ctx.Ctx, evt market.Event) {
	a := activity.FromEvent(evt)
	// the request that produced evt may be cancelled before the record lands
	rc := ctx.WithValues(ctx.Background(), log.Fields{"eventId": evt.Id, "type": evt.Type})

	im.wg.Add(1)
	if err := im.pool.Schedule(func() {
		defer im.wg.Done()
		im.record(rc, a)
	}); err != nil {
		im.wg.Done()
		rc.WithField("err", err).Error("pool.Schedule failed")
		im.met.BumpSum("record.err", 1)
	}
}

func (im *impl) record(c ctx.Ctx, a *activity.Activity) {
	err := backoff.Retry(c, backoff.NewExponential(retryStart, retryLimit), im.attempts, func() error {
		return im.repo.Insert(c, a)
	})
	if err != nil {
		c.WithFields(log.Fields{"err": err, "attempts": im.attempts}).Error("repo.Insert failed, activity dropped")
		im.met.BumpSum("record.err", 1)
		return
	}
	im.met.BumpSum("record.count", 1, "type", string(a.Type))
}

func (im *impl) FindAll(c ctx.Ctx, opts ...activity.FindAllOptionsFunc) ([]*activity.Activity, error) {
	res, err := im.repo.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Count(c ctx.Ctx, opts ...activity.FindAllOptionsFunc) (int, error) {
	cnt, err := im.repo.Count(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("repo.Count failed")
		return 0, err
	}
	return cnt, nil
}

func (im *impl) Close() {
	im.wg.Wait()
	im.pool.Release()
}

package usecase

import (
	"github.com/x-xyz/editionmarket/base/ctx"
	hcdomain "github.com/x-xyz/editionmarket/domain/healthcheck"
	"github.com/x-xyz/editionmarket/domain/market"
)

type impl struct {
	repo   hcdomain.HealthCheckRepo
	market market.UseCase
}

func New(repo hcdomain.HealthCheckRepo, market market.UseCase) hcdomain.HealthCheckUsecase {
	return &impl{
		repo:   repo,
		market: market,
	}
}

// Check fails when a backing store is down. A paused market is still healthy.
func (im *impl) Check(context ctx.Ctx) (*hcdomain.Status, error) {
	if err := im.repo.PingDB(context); err != nil {
		return nil, err
	}
	return &hcdomain.Status{
		Healthy: "ok",
		Paused:  im.market.Paused(context),
	}, nil
}

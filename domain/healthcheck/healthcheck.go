package healthcheck

import (
	"github.com/x-xyz/editionmarket/base/ctx"
)

type Status struct {
	Healthy string `json:"healthy"`
	Paused  bool   `json:"paused"`
}

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(context ctx.Ctx) (*Status, error)
}

// HealthCheckRepo pings the backing stores that are configured
type HealthCheckRepo interface {
	PingDB(context ctx.Ctx) error
}

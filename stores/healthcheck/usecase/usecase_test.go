package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain/market"
)

type fakeRepo struct {
	err error
}

func (f *fakeRepo) PingDB(ctx.Ctx) error {
	return f.err
}

// pausedMarket only answers Paused
type pausedMarket struct {
	market.UseCase
}

func (pausedMarket) Paused(ctx.Ctx) bool {
	return true
}

func TestCheck(t *testing.T) {
	var uc market.UseCase = &pausedMarket{}
	hc := New(&fakeRepo{}, uc)

	status, err := hc.Check(ctx.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", status.Healthy)
	require.True(t, status.Paused)

	_, err = New(&fakeRepo{err: errors.New("mongo down")}, uc).Check(ctx.Background())
	require.EqualError(t, err, "mongo down")
}

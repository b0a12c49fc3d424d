package usecase

import (
	"errors"
	"math/big"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
)

func (im *impl) GetListing(c ctx.Ctx, key market.Key) (*market.Listing, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	l, err := im.store.GetListing(c, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, market.ErrNoListingFound
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("store.GetListing failed")
		return nil, err
	}
	return l, nil
}

func (im *impl) GetOffer(c ctx.Ctx, key market.Key) (*market.Offer, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	o, err := im.store.GetOffer(c, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, market.ErrNoOpenBid
	} else if err != nil {
		c.WithFields(log.Fields{"err": err, "key": key}).Error("store.GetOffer failed")
		return nil, err
	}
	return o, nil
}

// GetReceiverCommissionOverride returns domain.ErrNotFound when none was ever set
func (im *impl) GetReceiverCommissionOverride(c ctx.Ctx, receiver domain.Address) (*market.Override, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.store.GetReceiverOverride(c, receiver)
}

func (im *impl) GetEditionCommissionOverride(c ctx.Ctx, editionId *big.Int) (*market.Override, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.store.GetEditionOverride(c, editionId)
}

func (im *impl) ResolveCommissionRate(c ctx.Ctx, receiver domain.Address, editionId *big.Int, primary bool) (market.Rate, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	tx := newTxn(c, im.store, im.clock.Now(), im.params)
	return im.resolveRate(tx, receiver, editionId, primary)
}

func (im *impl) Params(c ctx.Ctx) market.Params {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.params.Clone()
}

func (im *impl) Paused(c ctx.Ctx) bool {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.paused
}

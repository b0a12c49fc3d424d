package repository

import (
	"math/big"
	"sync"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
)

// memoryRepoImpl keeps the engine state in owned maps. Values are copied on the way in and out.
type memoryRepoImpl struct {
	mu                sync.RWMutex
	listings          map[market.Key]*market.Listing
	offers            map[market.Key]*market.Offer
	progress          map[string]*market.EditionProgress
	receiverOverrides map[domain.Address]market.Override
	editionOverrides  map[string]market.Override
}

func NewMemoryRepo() market.Store {
	return &memoryRepoImpl{
		listings:          map[market.Key]*market.Listing{},
		offers:            map[market.Key]*market.Offer{},
		progress:          map[string]*market.EditionProgress{},
		receiverOverrides: map[domain.Address]market.Override{},
		editionOverrides:  map[string]market.Override{},
	}
}

func (im *memoryRepoImpl) GetListing(ctx ctx.Ctx, key market.Key) (*market.Listing, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	l, ok := im.listings[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return l.Clone(), nil
}

func (im *memoryRepoImpl) PutListing(ctx ctx.Ctx, listing *market.Listing) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.listings[listing.Key] = listing.Clone()
	return nil
}

func (im *memoryRepoImpl) DeleteListing(ctx ctx.Ctx, key market.Key) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.listings, key)
	return nil
}

func (im *memoryRepoImpl) GetOffer(ctx ctx.Ctx, key market.Key) (*market.Offer, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	o, ok := im.offers[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o.Clone(), nil
}

func (im *memoryRepoImpl) PutOffer(ctx ctx.Ctx, offer *market.Offer) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.offers[offer.Key] = offer.Clone()
	return nil
}

func (im *memoryRepoImpl) DeleteOffer(ctx ctx.Ctx, key market.Key) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.offers, key)
	return nil
}

func (im *memoryRepoImpl) GetProgress(ctx ctx.Ctx, editionId *big.Int) (*market.EditionProgress, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	p, ok := im.progress[editionId.String()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (im *memoryRepoImpl) PutProgress(ctx ctx.Ctx, progress *market.EditionProgress) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.progress[progress.EditionId] = progress.Clone()
	return nil
}

func (im *memoryRepoImpl) GetReceiverOverride(ctx ctx.Ctx, receiver domain.Address) (*market.Override, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	ov, ok := im.receiverOverrides[receiver.ToLower()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ov, nil
}

func (im *memoryRepoImpl) PutReceiverOverride(ctx ctx.Ctx, receiver domain.Address, ov market.Override) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.receiverOverrides[receiver.ToLower()] = ov
	return nil
}

func (im *memoryRepoImpl) GetEditionOverride(ctx ctx.Ctx, editionId *big.Int) (*market.Override, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	ov, ok := im.editionOverrides[editionId.String()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ov, nil
}

func (im *memoryRepoImpl) PutEditionOverride(ctx ctx.Ctx, editionId *big.Int, ov market.Override) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.editionOverrides[editionId.String()] = ov
	return nil
}

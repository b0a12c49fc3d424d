package royalty

import (
	"math/big"
	"sync"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/asset"
	"github.com/x-xyz/editionmarket/domain/market"
)

type entry struct {
	receiver domain.Address
	rate     market.Rate
}

// Memory registers one royalty per edition, applying to every token minted from it
type Memory struct {
	mu       sync.RWMutex
	editions map[string]entry
}

func NewMemory() *Memory {
	return &Memory{editions: map[string]entry{}}
}

func (m *Memory) SetEditionRoyalty(editionId *big.Int, receiver domain.Address, rate market.Rate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editions[editionId.String()] = entry{receiver: receiver, rate: rate}
}

func (m *Memory) HasRoyalties(c ctx.Ctx, tokenId *big.Int) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.editions[asset.EditionOf(tokenId).String()]
	return ok && e.rate > 0, nil
}

func (m *Memory) RoyaltyInfo(c ctx.Ctx, tokenId *big.Int, salePrice *big.Int) (domain.Address, *big.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.editions[asset.EditionOf(tokenId).String()]
	if !ok {
		return "", new(big.Int), nil
	}
	return e.receiver, market.Split(salePrice, e.rate), nil
}

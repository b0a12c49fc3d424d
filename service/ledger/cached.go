package ledger

import (
	"math/big"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain/asset"
	"github.com/x-xyz/editionmarket/domain/keys"
	"github.com/x-xyz/editionmarket/service/cache"
)

type cachedImpl struct {
	asset.Ledger
	cache cache.Service
}

// NewCached memoises EditionSizeOf, edition sizes never change once minted.
// Ownership and approvals always go to the wrapped ledger.
func NewCached(ledger asset.Ledger, cache cache.Service) asset.Ledger {
	return &cachedImpl{Ledger: ledger, cache: cache}
}

func (im *cachedImpl) EditionSizeOf(c ctx.Ctx, editionId *big.Int) (uint64, error) {
	var size uint64
	err := im.cache.GetByFunc(c, keys.RedisKey(keys.PfxEditionSize, editionId.String()), &size, func() (interface{}, error) {
		s, err := im.Ledger.EditionSizeOf(c, editionId)
		if err != nil {
			return nil, err
		}
		return &s, nil
	})
	if err != nil {
		return 0, err
	}
	return size, nil
}

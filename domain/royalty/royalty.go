package royalty

import (
	"math/big"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
)

// Registry answers who gets paid a creator royalty for a secondary sale
type Registry interface {
	HasRoyalties(ctx ctx.Ctx, tokenId *big.Int) (bool, error)
	// RoyaltyInfo returns the payee and the amount owed out of salePrice
	RoyaltyInfo(ctx ctx.Ctx, tokenId *big.Int, salePrice *big.Int) (domain.Address, *big.Int, error)
}

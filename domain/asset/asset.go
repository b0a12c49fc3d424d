package asset

import (
	"math/big"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
)

// MaxEditionSize is the token id stride between two editions
const MaxEditionSize = 1000

var bigMaxEditionSize = big.NewInt(MaxEditionSize)

// EditionOf maps a token id to the id of the edition it was minted from
func EditionOf(tokenId *big.Int) *big.Int {
	rem := new(big.Int).Mod(tokenId, bigMaxEditionSize)
	return new(big.Int).Sub(tokenId, rem)
}

// IsEditionId tells whether id is the first token id of an edition
func IsEditionId(id *big.Int) bool {
	return id.Sign() >= 0 && new(big.Int).Mod(id, bigMaxEditionSize).Sign() == 0
}

// TokenOf returns the token at index within an edition
func TokenOf(editionId *big.Int, index uint64) *big.Int {
	return new(big.Int).Add(editionId, new(big.Int).SetUint64(index))
}

// Ledger is the external registry of who owns which token
type Ledger interface {
	OwnerOf(ctx ctx.Ctx, tokenId *big.Int) (domain.Address, error)
	Transfer(ctx ctx.Ctx, from, to domain.Address, tokenId *big.Int) error
	IsApprovedForAll(ctx ctx.Ctx, owner, operator domain.Address) (bool, error)
	EditionSizeOf(ctx ctx.Ctx, editionId *big.Int) (uint64, error)
}

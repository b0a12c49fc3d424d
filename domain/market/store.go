package market

import (
	"math/big"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
)

// Store holds the engine state. Getters return domain.ErrNotFound for absent entries
// and hand out copies, callers write back with Put.
type Store interface {
	GetListing(ctx ctx.Ctx, key Key) (*Listing, error)
	PutListing(ctx ctx.Ctx, listing *Listing) error
	DeleteListing(ctx ctx.Ctx, key Key) error

	GetOffer(ctx ctx.Ctx, key Key) (*Offer, error)
	PutOffer(ctx ctx.Ctx, offer *Offer) error
	DeleteOffer(ctx ctx.Ctx, key Key) error

	GetProgress(ctx ctx.Ctx, editionId *big.Int) (*EditionProgress, error)
	PutProgress(ctx ctx.Ctx, progress *EditionProgress) error

	GetReceiverOverride(ctx ctx.Ctx, receiver domain.Address) (*Override, error)
	PutReceiverOverride(ctx ctx.Ctx, receiver domain.Address, ov Override) error
	GetEditionOverride(ctx ctx.Ctx, editionId *big.Int) (*Override, error)
	PutEditionOverride(ctx ctx.Ctx, editionId *big.Int, ov Override) error
}

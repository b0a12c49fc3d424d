package market

import (
	"math/big"
	"time"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
)

// UseCase is the marketplace engine. Every call runs to completion before the next one
// is observed and either succeeds or leaves the state untouched.
//
// A zero startTime means now.
type UseCase interface {
	// listing
	ListBuyNow(ctx ctx.Ctx, seller domain.Address, key Key, price *big.Int, startTime time.Time) error
	ListReserveAuction(ctx ctx.Ctx, seller domain.Address, key Key, reservePrice *big.Int, startTime time.Time) error
	ListStepped(ctx ctx.Ctx, seller domain.Address, key Key, basePrice, stepPrice *big.Int, startTime time.Time) error
	ListOffers(ctx ctx.Ctx, seller domain.Address, key Key, startTime time.Time) error
	ClearListing(ctx ctx.Ctx, caller domain.Address, key Key) error

	// reserve auction bids
	PlaceReserveBid(ctx ctx.Ctx, bidder domain.Address, key Key, amount *big.Int) error
	WithdrawReserveBid(ctx ctx.Ctx, bidder domain.Address, key Key) error
	ResultReserveAuction(ctx ctx.Ctx, caller domain.Address, key Key) error

	// offers
	PlaceOffer(ctx ctx.Ctx, bidder domain.Address, key Key, amount *big.Int) error
	WithdrawOffer(ctx ctx.Ctx, bidder domain.Address, key Key) error
	RejectOffer(ctx ctx.Ctx, caller domain.Address, key Key) error
	AcceptOffer(ctx ctx.Ctx, caller domain.Address, key Key, expectedAmount *big.Int) error
	AcceptEditionOfferForToken(ctx ctx.Ctx, caller domain.Address, editionId, tokenId *big.Int, expectedAmount *big.Int) error

	// purchases
	BuyNow(ctx ctx.Ctx, buyer domain.Address, key Key, payment *big.Int) error
	BuyNextStep(ctx ctx.Ctx, buyer domain.Address, key Key, payment *big.Int) error

	// mode conversions
	ConvertBuyNowToOffers(ctx ctx.Ctx, seller domain.Address, key Key, startTime time.Time) error
	ConvertOffersToBuyNow(ctx ctx.Ctx, seller domain.Address, key Key, price *big.Int, startTime time.Time) error
	ConvertReserveAuctionToBuyNow(ctx ctx.Ctx, seller domain.Address, key Key, price *big.Int, startTime time.Time) error
	ConvertReserveAuctionToOffers(ctx ctx.Ctx, seller domain.Address, key Key, startTime time.Time) error
	ConvertSteppedToBuyNow(ctx ctx.Ctx, seller domain.Address, key Key, price *big.Int, startTime time.Time) error
	ConvertSteppedToOffers(ctx ctx.Ctx, seller domain.Address, key Key, startTime time.Time) error

	// admin
	AdminRejectBid(ctx ctx.Ctx, admin domain.Address, key Key) error
	EmergencyExitBid(ctx ctx.Ctx, admin domain.Address, key Key) error
	Pause(ctx ctx.Ctx, admin domain.Address) error
	Unpause(ctx ctx.Ctx, admin domain.Address) error
	UpdateParams(ctx ctx.Ctx, admin domain.Address, params Params) error
	SetReceiverCommissionOverride(ctx ctx.Ctx, admin domain.Address, receiver domain.Address, rate Rate) error
	ClearReceiverCommissionOverride(ctx ctx.Ctx, admin domain.Address, receiver domain.Address) error
	SetEditionCommissionOverride(ctx ctx.Ctx, admin domain.Address, editionId *big.Int, rate Rate) error
	ClearEditionCommissionOverride(ctx ctx.Ctx, admin domain.Address, editionId *big.Int) error

	// queries
	GetListing(ctx ctx.Ctx, key Key) (*Listing, error)
	GetOffer(ctx ctx.Ctx, key Key) (*Offer, error)
	GetReceiverCommissionOverride(ctx ctx.Ctx, receiver domain.Address) (*Override, error)
	GetEditionCommissionOverride(ctx ctx.Ctx, editionId *big.Int) (*Override, error)
	ResolveCommissionRate(ctx ctx.Ctx, receiver domain.Address, editionId *big.Int, primary bool) (Rate, error)
	Params(ctx ctx.Ctx) Params
	Paused(ctx ctx.Ctx) bool
}

package market

import (
	"math/big"
	"time"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
)

type EventType string

const (
	EventListingCreated            EventType = "ListingCreated"
	EventListingCleared            EventType = "ListingCleared"
	EventBidPlaced                 EventType = "BidPlaced"
	EventBidWithdrawn              EventType = "BidWithdrawn"
	EventBidRejected               EventType = "BidRejected"
	EventBidRefunded               EventType = "BidRefunded"
	EventOfferPlaced               EventType = "OfferPlaced"
	EventOfferWithdrawn            EventType = "OfferWithdrawn"
	EventOfferRejected             EventType = "OfferRejected"
	EventOfferAccepted             EventType = "OfferAccepted"
	EventBuyNowPurchased           EventType = "BuyNowPurchased"
	EventAuctionResulted           EventType = "AuctionResulted"
	EventModeConverted             EventType = "ModeConverted"
	EventCommissionOverrideChanged EventType = "CommissionOverrideChanged"
	EventParamsUpdated             EventType = "ParamsUpdated"
	EventPaused                    EventType = "Paused"
	EventUnpaused                  EventType = "Unpaused"
)

// Event is emitted after a call succeeded. Only the fields relevant to Type are set.
type Event struct {
	Id       string    `json:"id"`
	Type     EventType `json:"type"`
	Key      Key       `json:"key"`
	TokenId  string    `json:"tokenId,omitempty"`
	Mode     Mode      `json:"mode,omitempty"`
	FromMode Mode      `json:"fromMode,omitempty"`

	Seller domain.Address `json:"seller,omitempty"`
	Bidder domain.Address `json:"bidder,omitempty"`
	Buyer  domain.Address `json:"buyer,omitempty"`
	Caller domain.Address `json:"caller,omitempty"`

	Amount       *big.Int       `json:"amount,omitempty"`
	Commission   *big.Int       `json:"commission,omitempty"`
	Royalty      *big.Int       `json:"royalty,omitempty"`
	Proceeds     *big.Int       `json:"proceeds,omitempty"`
	RoyaltyPayee domain.Address `json:"royaltyPayee,omitempty"`

	BiddingEnd time.Time `json:"biddingEnd,omitempty"`

	Receiver domain.Address `json:"receiver,omitempty"`
	Rate     Rate           `json:"rate,omitempty"`
	Active   bool           `json:"active,omitempty"`

	Time time.Time `json:"time"`
}

// Publisher fans events out to observers
type Publisher interface {
	Publish(ctx ctx.Ctx, evt Event)
}

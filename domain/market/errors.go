package market

import "errors"

var (
	// ErrOwnerMismatch will throw if the listing seller no longer owns the asset
	ErrOwnerMismatch = errors.New("owner mismatch")

	// authorization
	ErrNotSeller     = errors.New("caller is not the seller")
	ErrNotAdmin      = errors.New("caller is not an admin")
	ErrNotBidder     = errors.New("caller is not the bidder")
	ErrNotAuthorized = errors.New("caller is not authorized")
	ErrNotOwner      = errors.New("caller does not own the asset")

	// missing state
	ErrNoOpenBid      = errors.New("no open bid")
	ErrNoListingFound = errors.New("no listing found")

	// state machine guards
	ErrBidTooLow              = errors.New("bid too low")
	ErrReserveMet             = errors.New("reserve met")
	ErrReserveNotMet          = errors.New("reserve not met")
	ErrAuctionInFlight        = errors.New("auction in flight")
	ErrAuctionNotEnded        = errors.New("auction not ended")
	ErrNotSingleton           = errors.New("edition is not a singleton")
	ErrBiddingClosed          = errors.New("bidding closed")
	ErrBiddingNotStarted      = errors.New("bidding not started")
	ErrTokenIsListed          = errors.New("token is listed")
	ErrMarketplaceNotApproved = errors.New("marketplace not approved")
	ErrListingStillValid      = errors.New("listing still valid")
	ErrPaused                 = errors.New("marketplace paused")

	ErrLockupNotElapsed       = errors.New("lockup not elapsed")
	ErrPrimaryMarketExhausted = errors.New("primary market exhausted")

	// value mismatch
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrOfferPriceChanged   = errors.New("offer price changed")

	ErrInvalidParam = errors.New("invalid param")
)

package http

import (
	"time"

	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
)

// amounts are rendered in ether, rates in percent

type listingView struct {
	Key       market.Key     `json:"key"`
	Mode      market.Mode    `json:"mode"`
	Seller    domain.Address `json:"seller"`
	StartTime time.Time      `json:"startTime"`

	Price string `json:"price,omitempty"`

	ReservePrice string         `json:"reservePrice,omitempty"`
	Bidder       domain.Address `json:"bidder,omitempty"`
	Bid          string         `json:"bid,omitempty"`
	BiddingEnd   *time.Time     `json:"biddingEnd,omitempty"`
	Extensions   uint32         `json:"extensions,omitempty"`

	BasePrice   string `json:"basePrice,omitempty"`
	StepPrice   string `json:"stepPrice,omitempty"`
	CurrentStep uint64 `json:"currentStep,omitempty"`
}

func toListingView(l *market.Listing) *listingView {
	v := &listingView{
		Key:       l.Key,
		Mode:      l.Mode,
		Seller:    l.Seller,
		StartTime: l.StartTime,
	}
	if p := l.Price(); p != nil {
		v.Price = domain.FormatEther(p)
	}
	if r := l.Reserve; r != nil {
		v.ReservePrice = domain.FormatEther(r.ReservePrice)
		if r.HasBid() {
			v.Bidder = r.Bidder
			v.Bid = domain.FormatEther(r.Bid)
		}
		if !r.BiddingEnd.IsZero() {
			end := r.BiddingEnd
			v.BiddingEnd = &end
		}
		v.Extensions = r.Extensions
	}
	if s := l.Stepped; s != nil {
		v.BasePrice = domain.FormatEther(s.BasePrice)
		v.StepPrice = domain.FormatEther(s.StepPrice)
		v.CurrentStep = s.CurrentStep
	}
	return v
}

type offerView struct {
	Key      market.Key     `json:"key"`
	Bidder   domain.Address `json:"bidder"`
	Amount   string         `json:"amount"`
	PlacedAt time.Time      `json:"placedAt"`
	UnlockAt time.Time      `json:"unlockAt"`
}

func toOfferView(o *market.Offer, lockup time.Duration) *offerView {
	return &offerView{
		Key:      o.Key,
		Bidder:   o.Bidder,
		Amount:   domain.FormatEther(o.Amount),
		PlacedAt: o.PlacedAt,
		UnlockAt: o.UnlockAt(lockup),
	}
}

type paramsView struct {
	MinBidAmount                       string         `json:"minBidAmount"`
	MinIncrement                       string         `json:"minIncrement"`
	BidLockupPeriod                    string         `json:"bidLockupPeriod"`
	ReserveAuctionBidExtensionWindow   string         `json:"reserveAuctionBidExtensionWindow"`
	ReserveAuctionLengthOnceReserveMet string         `json:"reserveAuctionLengthOnceReserveMet"`
	MaxBidExtensions                   uint32         `json:"maxBidExtensions"`
	PlatformAccount                    domain.Address `json:"platformAccount"`
	PrimaryCommission                  string         `json:"primaryCommission"`
	SecondaryCommission                string         `json:"secondaryCommission"`
	Paused                             bool           `json:"paused"`
}

func toParamsView(p market.Params, paused bool) *paramsView {
	return &paramsView{
		MinBidAmount:                       domain.FormatEther(p.MinBidAmount),
		MinIncrement:                       domain.FormatEther(p.MinIncrement),
		BidLockupPeriod:                    p.BidLockupPeriod.String(),
		ReserveAuctionBidExtensionWindow:   p.ReserveAuctionBidExtensionWindow.String(),
		ReserveAuctionLengthOnceReserveMet: p.ReserveAuctionLengthOnceReserveMet.String(),
		MaxBidExtensions:                   p.MaxBidExtensions,
		PlatformAccount:                    p.PlatformAccount,
		PrimaryCommission:                  p.PrimaryCommission.Percent().String(),
		SecondaryCommission:                p.SecondaryCommission.Percent().String(),
		Paused:                             paused,
	}
}

type overrideView struct {
	Active  bool   `json:"active"`
	Percent string `json:"percent"`
}

func toOverrideView(o *market.Override) *overrideView {
	return &overrideView{
		Active:  o.Active,
		Percent: o.Rate.Percent().String(),
	}
}

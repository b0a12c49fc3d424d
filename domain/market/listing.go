package market

import (
	"math/big"
	"time"

	"github.com/x-xyz/editionmarket/domain"
)

type Mode string

const (
	ModeNone           Mode = "none"
	ModeBuyNow         Mode = "buyNow"
	ModeReserveAuction Mode = "reserveAuction"
	ModeStepped        Mode = "stepped"
	ModeOffers         Mode = "offers"
)

type BuyNow struct {
	Price *big.Int `json:"price" bson:"price"`
}

// ReserveAuction has no deadline until a bid first meets the reserve
type ReserveAuction struct {
	ReservePrice *big.Int       `json:"reservePrice" bson:"reservePrice"`
	Bidder       domain.Address `json:"bidder,omitempty" bson:"bidder,omitempty"`
	Bid          *big.Int       `json:"bid,omitempty" bson:"bid,omitempty"`
	BidPlacedAt  time.Time      `json:"bidPlacedAt,omitempty" bson:"bidPlacedAt,omitempty"`
	BiddingEnd   time.Time      `json:"biddingEnd,omitempty" bson:"biddingEnd,omitempty"`
	Extensions   uint32         `json:"extensions" bson:"extensions"`
}

func (r *ReserveAuction) HasBid() bool {
	return !r.Bidder.IsEmpty() && r.Bid != nil && r.Bid.Sign() > 0
}

func (r *ReserveAuction) ReserveMet() bool {
	return r.HasBid() && r.Bid.Cmp(r.ReservePrice) >= 0
}

// ClearBid empties the bid slot
func (r *ReserveAuction) ClearBid() {
	r.Bidder = ""
	r.Bid = nil
	r.BidPlacedAt = time.Time{}
}

type SteppedAuction struct {
	BasePrice   *big.Int `json:"basePrice" bson:"basePrice"`
	StepPrice   *big.Int `json:"stepPrice" bson:"stepPrice"`
	CurrentStep uint64   `json:"currentStep" bson:"currentStep"`
}

// NextPrice is basePrice + stepPrice * currentStep
func (s *SteppedAuction) NextPrice() *big.Int {
	p := new(big.Int).Mul(s.StepPrice, new(big.Int).SetUint64(s.CurrentStep))
	return p.Add(p, s.BasePrice)
}

// Listing is a tagged union: exactly the payload matching Mode is set.
// Offers mode carries no payload, only the start time of the offers channel.
type Listing struct {
	Key       Key             `json:"key" bson:"key"`
	Mode      Mode            `json:"mode" bson:"mode"`
	Seller    domain.Address  `json:"seller" bson:"seller"`
	StartTime time.Time       `json:"startTime" bson:"startTime"`
	BuyNow    *BuyNow         `json:"buyNow,omitempty" bson:"buyNow,omitempty"`
	Reserve   *ReserveAuction `json:"reserve,omitempty" bson:"reserve,omitempty"`
	Stepped   *SteppedAuction `json:"stepped,omitempty" bson:"stepped,omitempty"`
}

// HasLiveBid is true for a reserve auction holding a bid
func (l *Listing) HasLiveBid() bool {
	return l != nil && l.Mode == ModeReserveAuction && l.Reserve != nil && l.Reserve.HasBid()
}

func (l *Listing) Started(now time.Time) bool {
	return !now.Before(l.StartTime)
}

// Price is what a buyer pays right now in fixed price modes
func (l *Listing) Price() *big.Int {
	switch l.Mode {
	case ModeBuyNow:
		return l.BuyNow.Price
	case ModeStepped:
		return l.Stepped.NextPrice()
	}
	return nil
}

func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	c := *l
	if l.BuyNow != nil {
		b := BuyNow{Price: cloneInt(l.BuyNow.Price)}
		c.BuyNow = &b
	}
	if l.Reserve != nil {
		r := *l.Reserve
		r.ReservePrice = cloneInt(l.Reserve.ReservePrice)
		r.Bid = cloneInt(l.Reserve.Bid)
		c.Reserve = &r
	}
	if l.Stepped != nil {
		s := *l.Stepped
		s.BasePrice = cloneInt(l.Stepped.BasePrice)
		s.StepPrice = cloneInt(l.Stepped.StepPrice)
		c.Stepped = &s
	}
	return &c
}

func NewBuyNowListing(key Key, seller domain.Address, price *big.Int, start time.Time) *Listing {
	return &Listing{
		Key:       key,
		Mode:      ModeBuyNow,
		Seller:    seller,
		StartTime: start,
		BuyNow:    &BuyNow{Price: cloneInt(price)},
	}
}

func NewReserveListing(key Key, seller domain.Address, reservePrice *big.Int, start time.Time) *Listing {
	return &Listing{
		Key:       key,
		Mode:      ModeReserveAuction,
		Seller:    seller,
		StartTime: start,
		Reserve:   &ReserveAuction{ReservePrice: cloneInt(reservePrice)},
	}
}

func NewSteppedListing(key Key, seller domain.Address, basePrice, stepPrice *big.Int, start time.Time) *Listing {
	return &Listing{
		Key:       key,
		Mode:      ModeStepped,
		Seller:    seller,
		StartTime: start,
		Stepped:   &SteppedAuction{BasePrice: cloneInt(basePrice), StepPrice: cloneInt(stepPrice)},
	}
}

func NewOffersListing(key Key, seller domain.Address, start time.Time) *Listing {
	return &Listing{
		Key:       key,
		Mode:      ModeOffers,
		Seller:    seller,
		StartTime: start,
	}
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

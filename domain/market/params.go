package market

import (
	"math/big"
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/domain"
)

// Params are the tunables of the engine, admins may replace them at runtime
type Params struct {
	MinBidAmount *big.Int `json:"minBidAmount"`
	MinIncrement *big.Int `json:"minIncrement"`

	BidLockupPeriod                    time.Duration `json:"bidLockupPeriod"`
	ReserveAuctionBidExtensionWindow   time.Duration `json:"reserveAuctionBidExtensionWindow"`
	ReserveAuctionLengthOnceReserveMet time.Duration `json:"reserveAuctionLengthOnceReserveMet"`
	// 0 means unbounded
	MaxBidExtensions uint32 `json:"maxBidExtensions"`

	PlatformAccount     domain.Address `json:"platformAccount"`
	PrimaryCommission   Rate           `json:"primaryCommission"`
	SecondaryCommission Rate           `json:"secondaryCommission"`
}

func DefaultParams() Params {
	return Params{
		MinBidAmount:                       domain.MustParseEther("0.01"),
		MinIncrement:                       domain.MustParseEther("0.01"),
		BidLockupPeriod:                    6 * time.Hour,
		ReserveAuctionBidExtensionWindow:   15 * time.Minute,
		ReserveAuctionLengthOnceReserveMet: 24 * time.Hour,
		PrimaryCommission:                  1_500_000,
		SecondaryCommission:                250_000,
	}
}

func (p Params) Validate() error {
	switch {
	case p.MinBidAmount == nil || p.MinBidAmount.Sign() <= 0:
		return xerrors.Errorf("minBidAmount must be positive: %w", ErrInvalidParam)
	case p.MinIncrement == nil || p.MinIncrement.Sign() <= 0:
		return xerrors.Errorf("minIncrement must be positive: %w", ErrInvalidParam)
	case p.BidLockupPeriod < 0:
		return xerrors.Errorf("bidLockupPeriod is negative: %w", ErrInvalidParam)
	case p.ReserveAuctionBidExtensionWindow < 0:
		return xerrors.Errorf("reserveAuctionBidExtensionWindow is negative: %w", ErrInvalidParam)
	case p.ReserveAuctionLengthOnceReserveMet <= 0:
		return xerrors.Errorf("reserveAuctionLengthOnceReserveMet must be positive: %w", ErrInvalidParam)
	case p.PlatformAccount.IsEmpty():
		return xerrors.Errorf("platformAccount missing: %w", ErrInvalidParam)
	case !p.PrimaryCommission.Valid() || !p.SecondaryCommission.Valid():
		return xerrors.Errorf("commission above 100%%: %w", ErrInvalidParam)
	}
	return nil
}

func (p Params) Clone() Params {
	c := p
	c.MinBidAmount = cloneInt(p.MinBidAmount)
	c.MinIncrement = cloneInt(p.MinIncrement)
	return c
}

// DefaultCommission is the rate used when no override applies
func (p Params) DefaultCommission(primary bool) Rate {
	if primary {
		return p.PrimaryCommission
	}
	return p.SecondaryCommission
}

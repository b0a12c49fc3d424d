package usecase

import (
	"math/big"
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
)

// Conversions swap the mode of a listing in place. Offers on the key are left alone.

func (im *impl) ConvertBuyNowToOffers(c ctx.Ctx, seller domain.Address, key market.Key, startTime time.Time) error {
	return im.convert(c, "convertBuyNowToOffers", seller, key, market.ModeBuyNow, func(tx *txn, l *market.Listing) (*market.Listing, error) {
		return market.NewOffersListing(key, l.Seller, startOrNow(tx, startTime)), nil
	})
}

func (im *impl) ConvertOffersToBuyNow(c ctx.Ctx, seller domain.Address, key market.Key, price *big.Int, startTime time.Time) error {
	return im.convert(c, "convertOffersToBuyNow", seller, key, market.ModeOffers, func(tx *txn, l *market.Listing) (*market.Listing, error) {
		if err := im.checkPrice(tx, price); err != nil {
			return nil, err
		}
		return market.NewBuyNowListing(key, l.Seller, price, startOrNow(tx, startTime)), nil
	})
}

func (im *impl) ConvertReserveAuctionToBuyNow(c ctx.Ctx, seller domain.Address, key market.Key, price *big.Int, startTime time.Time) error {
	return im.convert(c, "convertReserveAuctionToBuyNow", seller, key, market.ModeReserveAuction, func(tx *txn, l *market.Listing) (*market.Listing, error) {
		if l.Reserve.ReserveMet() {
			return nil, market.ErrReserveMet
		}
		if err := im.checkPrice(tx, price); err != nil {
			return nil, err
		}
		return market.NewBuyNowListing(key, l.Seller, price, startOrNow(tx, startTime)), nil
	})
}

func (im *impl) ConvertReserveAuctionToOffers(c ctx.Ctx, seller domain.Address, key market.Key, startTime time.Time) error {
	return im.convert(c, "convertReserveAuctionToOffers", seller, key, market.ModeReserveAuction, func(tx *txn, l *market.Listing) (*market.Listing, error) {
		if l.Reserve.ReserveMet() {
			return nil, market.ErrReserveMet
		}
		return market.NewOffersListing(key, l.Seller, startOrNow(tx, startTime)), nil
	})
}

func (im *impl) ConvertSteppedToBuyNow(c ctx.Ctx, seller domain.Address, key market.Key, price *big.Int, startTime time.Time) error {
	return im.convert(c, "convertSteppedToBuyNow", seller, key, market.ModeStepped, func(tx *txn, l *market.Listing) (*market.Listing, error) {
		if err := im.checkPrice(tx, price); err != nil {
			return nil, err
		}
		return market.NewBuyNowListing(key, l.Seller, price, startOrNow(tx, startTime)), nil
	})
}

func (im *impl) ConvertSteppedToOffers(c ctx.Ctx, seller domain.Address, key market.Key, startTime time.Time) error {
	return im.convert(c, "convertSteppedToOffers", seller, key, market.ModeStepped, func(tx *txn, l *market.Listing) (*market.Listing, error) {
		return market.NewOffersListing(key, l.Seller, startOrNow(tx, startTime)), nil
	})
}

type converter func(tx *txn, from *market.Listing) (*market.Listing, error)

// convert replaces a listing in mode from. A sub-reserve bid on a converted auction is refunded.
func (im *impl) convert(c ctx.Ctx, op string, caller domain.Address, key market.Key, from market.Mode, to converter) error {
	return im.run(c, op, func(tx *txn) error {
		if err := im.requireNotPaused(tx); err != nil {
			return err
		}
		l, err := tx.listing(key)
		if err != nil {
			return err
		}
		if l == nil {
			return market.ErrNoListingFound
		}
		if l.Mode != from {
			return xerrors.Errorf("%s is listed as %s: %w", key, l.Mode, market.ErrNoListingFound)
		}
		if err := im.requireSeller(tx, l, caller); err != nil {
			return err
		}

		next, err := to(tx, l)
		if err != nil {
			return err
		}
		if err := tx.putListing(next); err != nil {
			return err
		}

		if l.HasLiveBid() {
			r := l.Reserve
			if err := im.refund(tx, r.Bidder, r.Bid); err != nil {
				return err
			}
			tx.emit(market.Event{Type: market.EventBidRefunded, Key: key, Mode: from, Bidder: r.Bidder, Amount: r.Bid})
		}
		tx.emit(market.Event{
			Type:     market.EventModeConverted,
			Key:      key,
			FromMode: from,
			Mode:     next.Mode,
			Seller:   next.Seller,
			Caller:   caller,
			Amount:   listingAmount(next),
		})
		return nil
	})
}

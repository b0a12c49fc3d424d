package usecase

import (
	"math/big"
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
)

func (im *impl) ListBuyNow(c ctx.Ctx, seller domain.Address, key market.Key, price *big.Int, startTime time.Time) error {
	return im.run(c, "listBuyNow", func(tx *txn) error {
		if err := im.checkPrice(tx, price); err != nil {
			return err
		}
		if err := im.prepareListing(tx, seller, key); err != nil {
			return err
		}
		return im.createListing(tx, market.NewBuyNowListing(key, seller, price, startOrNow(tx, startTime)))
	})
}

func (im *impl) ListReserveAuction(c ctx.Ctx, seller domain.Address, key market.Key, reservePrice *big.Int, startTime time.Time) error {
	return im.run(c, "listReserveAuction", func(tx *txn) error {
		if err := im.checkPrice(tx, reservePrice); err != nil {
			return err
		}
		if err := im.prepareListing(tx, seller, key); err != nil {
			return err
		}
		if key.IsEdition() {
			size, err := im.editionSize(tx, key.IdInt())
			if err != nil {
				return err
			}
			if size != 1 {
				return market.ErrNotSingleton
			}
		}
		return im.createListing(tx, market.NewReserveListing(key, seller, reservePrice, startOrNow(tx, startTime)))
	})
}

func (im *impl) ListStepped(c ctx.Ctx, seller domain.Address, key market.Key, basePrice, stepPrice *big.Int, startTime time.Time) error {
	return im.run(c, "listStepped", func(tx *txn) error {
		if !key.IsEdition() {
			return xerrors.Errorf("stepped auctions sell editions: %w", market.ErrInvalidParam)
		}
		if err := im.checkPrice(tx, basePrice); err != nil {
			return err
		}
		if stepPrice == nil || stepPrice.Sign() < 0 {
			return xerrors.Errorf("step price %v: %w", stepPrice, market.ErrInvalidParam)
		}
		if err := im.prepareListing(tx, seller, key); err != nil {
			return err
		}
		return im.createListing(tx, market.NewSteppedListing(key, seller, basePrice, stepPrice, startOrNow(tx, startTime)))
	})
}

func (im *impl) ListOffers(c ctx.Ctx, seller domain.Address, key market.Key, startTime time.Time) error {
	return im.run(c, "listOffers", func(tx *txn) error {
		if err := im.prepareListing(tx, seller, key); err != nil {
			return err
		}
		return im.createListing(tx, market.NewOffersListing(key, seller, startOrNow(tx, startTime)))
	})
}

func (im *impl) ClearListing(c ctx.Ctx, caller domain.Address, key market.Key) error {
	return im.run(c, "clearListing", func(tx *txn) error {
		l, err := tx.listing(key)
		if err != nil {
			return err
		}
		if l == nil {
			return market.ErrNoListingFound
		}
		if err := im.requireSeller(tx, l, caller); err != nil {
			return err
		}
		if l.HasLiveBid() {
			return market.ErrAuctionInFlight
		}
		if err := tx.deleteListing(key); err != nil {
			return err
		}
		tx.emit(market.Event{Type: market.EventListingCleared, Key: key, Mode: l.Mode, Seller: l.Seller, Caller: caller})
		return nil
	})
}

func (im *impl) checkPrice(tx *txn, price *big.Int) error {
	if price == nil || price.Cmp(tx.params.MinBidAmount) < 0 {
		return market.ErrBidTooLow
	}
	return nil
}

// prepareListing holds the preconditions every new listing shares
func (im *impl) prepareListing(tx *txn, seller domain.Address, key market.Key) error {
	if err := im.requireNotPaused(tx); err != nil {
		return err
	}
	if !key.Valid() {
		return xerrors.Errorf("key %s: %w", key, market.ErrInvalidParam)
	}

	existing, err := tx.listing(key)
	if err != nil {
		return err
	}
	if existing.HasLiveBid() {
		return market.ErrAuctionInFlight
	}

	if key.IsEdition() {
		if done, err := im.exhausted(tx, key.IdInt()); err != nil {
			return err
		} else if done {
			return market.ErrPrimaryMarketExhausted
		}
	} else if err := im.editionAuctionInFlight(tx, key.IdInt()); err != nil {
		return err
	}
	if ok, err := im.owns(tx, key, seller); err != nil {
		return err
	} else if !ok {
		return market.ErrNotOwner
	}
	if ok, err := im.approved(tx, seller); err != nil {
		return err
	} else if !ok {
		return market.ErrMarketplaceNotApproved
	}
	return nil
}

func (im *impl) createListing(tx *txn, l *market.Listing) error {
	if err := tx.putListing(l); err != nil {
		return err
	}
	tx.emit(market.Event{
		Type:   market.EventListingCreated,
		Key:    l.Key,
		Mode:   l.Mode,
		Seller: l.Seller,
		Amount: listingAmount(l),
	})
	return nil
}

func listingAmount(l *market.Listing) *big.Int {
	switch l.Mode {
	case market.ModeBuyNow, market.ModeStepped:
		return l.Price()
	case market.ModeReserveAuction:
		return new(big.Int).Set(l.Reserve.ReservePrice)
	}
	return nil
}

func startOrNow(tx *txn, start time.Time) time.Time {
	if start.IsZero() {
		return tx.now
	}
	return start
}

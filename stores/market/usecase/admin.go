package usecase

import (
	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
)

// AdminRejectBid refunds the offer held for key regardless of its lockup
func (im *impl) AdminRejectBid(c ctx.Ctx, admin domain.Address, key market.Key) error {
	return im.run(c, "adminRejectBid", func(tx *txn) error {
		if err := im.requireAdmin(tx, admin, market.ErrNotAdmin); err != nil {
			return err
		}
		o, err := tx.offer(key)
		if err != nil {
			return err
		}
		if o == nil {
			return market.ErrNoOpenBid
		}
		return im.dropOffer(tx, o, market.EventBidRejected, admin)
	})
}

// EmergencyExitBid releases the bidder of a reserve auction that can no longer settle
// because the seller moved the asset or revoked the marketplace approval.
func (im *impl) EmergencyExitBid(c ctx.Ctx, admin domain.Address, key market.Key) error {
	return im.run(c, "emergencyExitBid", func(tx *txn) error {
		if err := im.requireAdmin(tx, admin, market.ErrNotAdmin); err != nil {
			return err
		}
		l, err := tx.listing(key)
		if err != nil {
			return err
		}
		if !l.HasLiveBid() {
			return market.ErrNoOpenBid
		}

		stillOwned, err := im.owns(tx, key, l.Seller)
		if err != nil {
			return err
		}
		stillApproved, err := im.approved(tx, l.Seller)
		if err != nil {
			return err
		}
		if stillOwned && stillApproved {
			return market.ErrListingStillValid
		}

		r := l.Reserve
		if err := tx.deleteListing(key); err != nil {
			return err
		}
		if err := im.refund(tx, r.Bidder, r.Bid); err != nil {
			return err
		}
		tx.emit(market.Event{Type: market.EventBidRejected, Key: key, Mode: l.Mode, Seller: l.Seller, Bidder: r.Bidder, Amount: r.Bid, Caller: admin})
		tx.emit(market.Event{Type: market.EventListingCleared, Key: key, Mode: l.Mode, Seller: l.Seller, Caller: admin})
		return nil
	})
}

func (im *impl) Pause(c ctx.Ctx, admin domain.Address) error {
	return im.setPaused(c, "pause", admin, true)
}

func (im *impl) Unpause(c ctx.Ctx, admin domain.Address) error {
	return im.setPaused(c, "unpause", admin, false)
}

func (im *impl) setPaused(c ctx.Ctx, op string, admin domain.Address, paused bool) error {
	return im.run(c, op, func(tx *txn) error {
		if err := im.requireAdmin(tx, admin, market.ErrNotAdmin); err != nil {
			return err
		}
		if im.paused == paused {
			return nil
		}
		im.paused = paused
		typ := market.EventUnpaused
		if paused {
			typ = market.EventPaused
		}
		tx.emit(market.Event{Type: typ, Caller: admin})
		return nil
	})
}

func (im *impl) UpdateParams(c ctx.Ctx, admin domain.Address, params market.Params) error {
	return im.run(c, "updateParams", func(tx *txn) error {
		if err := im.requireAdmin(tx, admin, market.ErrNotAdmin); err != nil {
			return err
		}
		if err := params.Validate(); err != nil {
			return xerrors.Errorf("update params: %w", err)
		}
		im.params = params.Clone()
		tx.emit(market.Event{Type: market.EventParamsUpdated, Caller: admin, Receiver: params.PlatformAccount})
		return nil
	})
}

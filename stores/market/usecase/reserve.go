package usecase

import (
	"math/big"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
)

func (im *impl) PlaceReserveBid(c ctx.Ctx, bidder domain.Address, key market.Key, amount *big.Int) error {
	return im.run(c, "placeReserveBid", func(tx *txn) error {
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
		if l.Mode != market.ModeReserveAuction {
			return market.ErrTokenIsListed
		}
		if !l.Started(tx.now) {
			return market.ErrBiddingNotStarted
		}
		r := l.Reserve
		if !r.BiddingEnd.IsZero() && !tx.now.Before(r.BiddingEnd) {
			return market.ErrBiddingClosed
		}
		if _, err := im.saleToken(tx, l); err != nil {
			return err
		}

		floor := tx.params.MinBidAmount
		if r.HasBid() {
			floor = new(big.Int).Add(r.Bid, tx.params.MinIncrement)
		}
		if amount == nil || amount.Cmp(floor) < 0 {
			return market.ErrBidTooLow
		}

		prevBidder, prevBid := r.Bidder, r.Bid
		hadDeadline := !r.BiddingEnd.IsZero()
		r.Bidder = bidder
		r.Bid = new(big.Int).Set(amount)
		r.BidPlacedAt = tx.now
		switch {
		case !hadDeadline && r.ReserveMet():
			r.BiddingEnd = tx.now.Add(tx.params.ReserveAuctionLengthOnceReserveMet)
		case hadDeadline && r.BiddingEnd.Sub(tx.now) <= tx.params.ReserveAuctionBidExtensionWindow:
			if tx.params.MaxBidExtensions == 0 || r.Extensions < tx.params.MaxBidExtensions {
				r.BiddingEnd = r.BiddingEnd.Add(tx.params.ReserveAuctionBidExtensionWindow)
				r.Extensions++
			}
		}
		if err := tx.putListing(l); err != nil {
			return err
		}

		if err := im.collect(tx, bidder, amount); err != nil {
			return err
		}
		if !prevBidder.IsEmpty() {
			if err := im.refund(tx, prevBidder, prevBid); err != nil {
				return err
			}
			tx.emit(market.Event{Type: market.EventBidRefunded, Key: key, Mode: l.Mode, Bidder: prevBidder, Amount: prevBid})
		}
		tx.emit(market.Event{
			Type:       market.EventBidPlaced,
			Key:        key,
			Mode:       l.Mode,
			Seller:     l.Seller,
			Bidder:     bidder,
			Amount:     new(big.Int).Set(amount),
			BiddingEnd: r.BiddingEnd,
		})
		return nil
	})
}

func (im *impl) WithdrawReserveBid(c ctx.Ctx, bidder domain.Address, key market.Key) error {
	return im.run(c, "withdrawReserveBid", func(tx *txn) error {
		l, err := tx.listing(key)
		if err != nil {
			return err
		}
		if !l.HasLiveBid() {
			return market.ErrNoOpenBid
		}
		r := l.Reserve
		if !r.Bidder.Equals(bidder) {
			return market.ErrNotBidder
		}
		if r.ReserveMet() {
			return market.ErrReserveMet
		}

		amount := r.Bid
		r.ClearBid()
		if err := tx.putListing(l); err != nil {
			return err
		}
		if err := im.refund(tx, bidder, amount); err != nil {
			return err
		}
		tx.emit(market.Event{Type: market.EventBidWithdrawn, Key: key, Mode: l.Mode, Bidder: bidder, Amount: amount})
		return nil
	})
}

func (im *impl) ResultReserveAuction(c ctx.Ctx, caller domain.Address, key market.Key) error {
	return im.run(c, "resultReserveAuction", func(tx *txn) error {
		if err := im.requireNotPaused(tx); err != nil {
			return err
		}
		l, err := tx.listing(key)
		if err != nil {
			return err
		}
		if !l.HasLiveBid() {
			return market.ErrNoOpenBid
		}
		r := l.Reserve

		allowed := r.Bidder.Equals(caller)
		if !allowed {
			if allowed, err = im.actsFor(tx, l.Seller, caller); err != nil {
				return err
			}
		}
		if !allowed {
			if allowed, err = im.isAdmin(tx, caller); err != nil {
				return err
			}
		}
		if !allowed {
			return market.ErrNotAuthorized
		}

		if !r.ReserveMet() {
			return market.ErrReserveNotMet
		}
		if tx.now.Before(r.BiddingEnd) {
			return market.ErrAuctionNotEnded
		}

		tokenId, err := im.saleToken(tx, l)
		if err != nil {
			return err
		}
		if err := tx.deleteListing(key); err != nil {
			return err
		}
		if key.IsEdition() {
			if _, err := im.recordPrimarySale(tx, key.IdInt(), tokenId); err != nil {
				return err
			}
		}

		s := sale{
			key:     key,
			mode:    market.ModeReserveAuction,
			tokenId: tokenId,
			seller:  l.Seller,
			buyer:   r.Bidder,
			amount:  r.Bid,
			primary: key.IsEdition(),
		}
		rc, err := im.settle(tx, s)
		if err != nil {
			return err
		}
		evt := saleEvent(market.EventAuctionResulted, s, rc)
		evt.Caller = caller
		tx.emit(evt)
		return nil
	})
}

package usecase

import (
	"math/big"

	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/asset"
	"github.com/x-xyz/editionmarket/domain/market"
)

func (im *impl) PlaceOffer(c ctx.Ctx, bidder domain.Address, key market.Key, amount *big.Int) error {
	return im.run(c, "placeOffer", func(tx *txn) error {
		if err := im.requireNotPaused(tx); err != nil {
			return err
		}
		if !key.Valid() {
			return xerrors.Errorf("key %s: %w", key, market.ErrInvalidParam)
		}

		l, err := tx.listing(key)
		if err != nil {
			return err
		}
		if l != nil {
			switch l.Mode {
			case market.ModeBuyNow:
				return market.ErrTokenIsListed
			case market.ModeReserveAuction:
				if l.HasLiveBid() {
					return market.ErrTokenIsListed
				}
			case market.ModeOffers:
				if !l.Started(tx.now) {
					return market.ErrBiddingNotStarted
				}
			}
		}

		if key.IsEdition() {
			if done, err := im.exhausted(tx, key.IdInt()); err != nil {
				return err
			} else if done {
				return market.ErrPrimaryMarketExhausted
			}
		} else if _, err := im.ownerOf(tx, key.IdInt()); err != nil {
			return err
		}

		prev, err := tx.offer(key)
		if err != nil {
			return err
		}
		floor := tx.params.MinBidAmount
		if prev != nil {
			floor = new(big.Int).Add(prev.Amount, tx.params.MinIncrement)
		}
		if amount == nil || amount.Cmp(floor) < 0 {
			return market.ErrBidTooLow
		}

		o := &market.Offer{Key: key, Bidder: bidder, Amount: new(big.Int).Set(amount), PlacedAt: tx.now}
		if err := tx.putOffer(o); err != nil {
			return err
		}
		if err := im.collect(tx, bidder, amount); err != nil {
			return err
		}
		if prev != nil {
			if err := im.refund(tx, prev.Bidder, prev.Amount); err != nil {
				return err
			}
			tx.emit(market.Event{Type: market.EventBidRefunded, Key: key, Mode: market.ModeOffers, Bidder: prev.Bidder, Amount: prev.Amount})
		}
		tx.emit(market.Event{Type: market.EventOfferPlaced, Key: key, Mode: market.ModeOffers, Bidder: bidder, Amount: o.Amount})
		return nil
	})
}

func (im *impl) WithdrawOffer(c ctx.Ctx, bidder domain.Address, key market.Key) error {
	return im.run(c, "withdrawOffer", func(tx *txn) error {
		o, err := tx.offer(key)
		if err != nil {
			return err
		}
		if o == nil {
			return market.ErrNoOpenBid
		}
		if !o.Bidder.Equals(bidder) {
			return market.ErrNotBidder
		}
		if tx.now.Before(o.UnlockAt(tx.params.BidLockupPeriod)) {
			return market.ErrLockupNotElapsed
		}
		return im.dropOffer(tx, o, market.EventOfferWithdrawn, bidder)
	})
}

func (im *impl) RejectOffer(c ctx.Ctx, caller domain.Address, key market.Key) error {
	return im.run(c, "rejectOffer", func(tx *txn) error {
		o, err := tx.offer(key)
		if err != nil {
			return err
		}
		if o == nil {
			return market.ErrNoOpenBid
		}

		l, err := tx.listing(key)
		if err != nil {
			return err
		}
		var ok bool
		if l != nil {
			ok, err = im.actsFor(tx, l.Seller, caller)
		} else {
			ok, err = im.owns(tx, key, caller)
		}
		if err != nil {
			return err
		}
		if !ok {
			return market.ErrNotSeller
		}
		return im.dropOffer(tx, o, market.EventOfferRejected, caller)
	})
}

// dropOffer clears the slot and refunds the bidder
func (im *impl) dropOffer(tx *txn, o *market.Offer, typ market.EventType, caller domain.Address) error {
	if err := tx.deleteOffer(o.Key); err != nil {
		return err
	}
	if err := im.refund(tx, o.Bidder, o.Amount); err != nil {
		return err
	}
	tx.emit(market.Event{Type: typ, Key: o.Key, Mode: market.ModeOffers, Bidder: o.Bidder, Amount: o.Amount, Caller: caller})
	return nil
}

func (im *impl) AcceptOffer(c ctx.Ctx, caller domain.Address, key market.Key, expectedAmount *big.Int) error {
	return im.run(c, "acceptOffer", func(tx *txn) error {
		if err := im.requireNotPaused(tx); err != nil {
			return err
		}
		o, err := im.expectOffer(tx, key, expectedAmount)
		if err != nil {
			return err
		}
		l, err := tx.listing(key)
		if err != nil {
			return err
		}
		if l.HasLiveBid() {
			return market.ErrAuctionInFlight
		}

		s := sale{
			key:     key,
			mode:    market.ModeOffers,
			buyer:   o.Bidder,
			amount:  o.Amount,
			primary: key.IsEdition(),
		}
		if key.IsEdition() {
			if err := im.primaryOfferSale(tx, l, caller, &s); err != nil {
				return err
			}
		} else {
			if err := im.secondaryOfferSale(tx, l, caller, &s); err != nil {
				return err
			}
		}
		if err := tx.deleteOffer(key); err != nil {
			return err
		}

		rc, err := im.settle(tx, s)
		if err != nil {
			return err
		}
		evt := saleEvent(market.EventOfferAccepted, s, rc)
		evt.Bidder = o.Bidder
		evt.Caller = caller
		tx.emit(evt)
		return nil
	})
}

// primaryOfferSale sells the next token of an edition. Without a listing the caller
// sells on its own behalf.
func (im *impl) primaryOfferSale(tx *txn, l *market.Listing, caller domain.Address, s *sale) error {
	editionId := s.key.IdInt()
	listed := l != nil
	if !listed {
		if done, err := im.exhausted(tx, editionId); err != nil {
			return err
		} else if done {
			return market.ErrPrimaryMarketExhausted
		}
		if ok, err := im.owns(tx, s.key, caller); err != nil {
			return err
		} else if !ok {
			return market.ErrNotSeller
		}
		l = &market.Listing{Key: s.key, Seller: caller}
	} else if err := im.requireSeller(tx, l, caller); err != nil {
		return err
	}

	tokenId, err := im.saleToken(tx, l)
	if err != nil {
		return err
	}
	soldOut, err := im.recordPrimarySale(tx, editionId, tokenId)
	if err != nil {
		return err
	}
	if soldOut && listed {
		if err := tx.deleteListing(s.key); err != nil {
			return err
		}
	}
	s.seller = l.Seller
	s.tokenId = tokenId
	return nil
}

func (im *impl) secondaryOfferSale(tx *txn, l *market.Listing, caller domain.Address, s *sale) error {
	tokenId := s.key.IdInt()
	owner, err := im.ownerOf(tx, tokenId)
	if err != nil {
		return err
	}
	if ok, err := im.actsFor(tx, owner, caller); err != nil {
		return err
	} else if !ok {
		return market.ErrNotSeller
	}
	if err := im.editionAuctionInFlight(tx, tokenId); err != nil {
		return err
	}
	if l != nil {
		if err := tx.deleteListing(s.key); err != nil {
			return err
		}
	}
	s.seller = owner
	s.tokenId = tokenId
	return nil
}

func (im *impl) AcceptEditionOfferForToken(c ctx.Ctx, caller domain.Address, editionId, tokenId *big.Int, expectedAmount *big.Int) error {
	return im.run(c, "acceptEditionOfferForToken", func(tx *txn) error {
		if err := im.requireNotPaused(tx); err != nil {
			return err
		}
		if editionId == nil || tokenId == nil || asset.EditionOf(tokenId).Cmp(editionId) != 0 {
			return xerrors.Errorf("token %v not in edition %v: %w", tokenId, editionId, market.ErrInvalidParam)
		}
		key := market.EditionKey(editionId)
		o, err := im.expectOffer(tx, key, expectedAmount)
		if err != nil {
			return err
		}

		owner, err := im.ownerOf(tx, tokenId)
		if err != nil {
			return err
		}
		if ok, err := im.actsFor(tx, owner, caller); err != nil {
			return err
		} else if !ok {
			return market.ErrNotSeller
		}
		if l, err := tx.listing(market.TokenKey(tokenId)); err != nil {
			return err
		} else if l != nil {
			return market.ErrTokenIsListed
		}
		if err := im.editionAuctionInFlight(tx, tokenId); err != nil {
			return err
		}

		if err := tx.deleteOffer(key); err != nil {
			return err
		}
		s := sale{
			key:     key,
			mode:    market.ModeOffers,
			tokenId: tokenId,
			seller:  owner,
			buyer:   o.Bidder,
			amount:  o.Amount,
		}

		// a token still in primary stock leaves it through this sale
		p, err := tx.editionProgress(editionId)
		if err != nil {
			return err
		}
		if !p.IsSold(tokenId) {
			soldOut, err := im.recordPrimarySale(tx, editionId, tokenId)
			if err != nil {
				return err
			}
			if soldOut {
				if err := tx.deleteListing(key); err != nil {
					return err
				}
			}
			s.primary = true
		}
		rc, err := im.settle(tx, s)
		if err != nil {
			return err
		}
		evt := saleEvent(market.EventOfferAccepted, s, rc)
		evt.Bidder = o.Bidder
		evt.Caller = caller
		tx.emit(evt)
		return nil
	})
}

func (im *impl) expectOffer(tx *txn, key market.Key, expected *big.Int) (*market.Offer, error) {
	o, err := tx.offer(key)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, market.ErrNoOpenBid
	}
	if expected == nil || o.Amount.Cmp(expected) != 0 {
		return nil, market.ErrOfferPriceChanged
	}
	return o, nil
}

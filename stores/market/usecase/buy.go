package usecase

import (
	"math/big"

	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
)

func (im *impl) BuyNow(c ctx.Ctx, buyer domain.Address, key market.Key, payment *big.Int) error {
	return im.run(c, "buyNow", func(tx *txn) error {
		return im.buy(tx, buyer, key, market.ModeBuyNow, payment)
	})
}

func (im *impl) BuyNextStep(c ctx.Ctx, buyer domain.Address, key market.Key, payment *big.Int) error {
	return im.run(c, "buyNextStep", func(tx *txn) error {
		if !key.IsEdition() {
			return xerrors.Errorf("stepped auctions sell editions: %w", market.ErrInvalidParam)
		}
		return im.buy(tx, buyer, key, market.ModeStepped, payment)
	})
}

// buy fills a fixed price listing. Overpayment is kept as part of the sale amount.
func (im *impl) buy(tx *txn, buyer domain.Address, key market.Key, mode market.Mode, payment *big.Int) error {
	if err := im.requireNotPaused(tx); err != nil {
		return err
	}
	if key.IsEdition() {
		if done, err := im.exhausted(tx, key.IdInt()); err != nil {
			return err
		} else if done {
			return market.ErrPrimaryMarketExhausted
		}
	}

	l, err := tx.listing(key)
	if err != nil {
		return err
	}
	if l == nil {
		return market.ErrNoListingFound
	}
	if l.Mode != mode {
		return xerrors.Errorf("%s is listed as %s: %w", key, l.Mode, market.ErrNoListingFound)
	}
	if !l.Started(tx.now) {
		return market.ErrBiddingNotStarted
	}
	price := l.Price()
	if payment == nil || payment.Cmp(price) < 0 {
		return market.ErrInsufficientPayment
	}

	tokenId, err := im.saleToken(tx, l)
	if err != nil {
		return err
	}
	if key.IsEdition() {
		soldOut, err := im.recordPrimarySale(tx, key.IdInt(), tokenId)
		if err != nil {
			return err
		}
		if soldOut {
			err = tx.deleteListing(key)
		} else {
			if l.Mode == market.ModeStepped {
				l.Stepped.CurrentStep++
			}
			err = tx.putListing(l)
		}
		if err != nil {
			return err
		}
	} else if err := tx.deleteListing(key); err != nil {
		return err
	}

	s := sale{
		key:     key,
		mode:    mode,
		tokenId: tokenId,
		seller:  l.Seller,
		buyer:   buyer,
		amount:  new(big.Int).Set(payment),
		primary: key.IsEdition(),
		collect: true,
	}
	rc, err := im.settle(tx, s)
	if err != nil {
		return err
	}
	tx.emit(saleEvent(market.EventBuyNowPurchased, s, rc))
	return nil
}

package usecase

import (
	"math/big"

	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/asset"
	"github.com/x-xyz/editionmarket/domain/market"
	"github.com/x-xyz/editionmarket/domain/payment"
)

type sale struct {
	key     market.Key
	mode    market.Mode
	tokenId *big.Int
	seller  domain.Address
	buyer   domain.Address
	amount  *big.Int
	primary bool
	// collect is set when the buyer pays now, bids and offers are already escrowed
	collect bool
}

type receipt struct {
	commission   *big.Int
	royalty      *big.Int
	royaltyPayee domain.Address
	proceeds     *big.Int
}

// settle runs after the caller has applied every store mutation of the sale.
// The asset moves before the payouts so that a failed payout can be compensated
// by moving it back.
func (im *impl) settle(tx *txn, s sale) (*receipt, error) {
	owner, err := im.ownerOf(tx, s.tokenId)
	if err != nil {
		return nil, err
	}
	if !owner.Equals(s.seller) {
		return nil, market.ErrOwnerMismatch
	}
	if ok, err := im.approved(tx, s.seller); err != nil {
		return nil, err
	} else if !ok {
		return nil, market.ErrMarketplaceNotApproved
	}

	rate, err := im.resolveRate(tx, s.seller, asset.EditionOf(s.tokenId), s.primary)
	if err != nil {
		return nil, err
	}
	r := &receipt{
		commission: market.Split(s.amount, rate),
		royalty:    new(big.Int),
	}
	rest := new(big.Int).Sub(s.amount, r.commission)

	if !s.primary {
		if err := im.royaltyOf(tx, s, r); err != nil {
			return nil, err
		}
		if r.royalty.Cmp(rest) > 0 {
			tx.WithFields(log.Fields{"tokenId": s.tokenId, "royalty": r.royalty, "rest": rest}).Warn("royalty exceeds seller share")
			return nil, xerrors.Errorf("royalty %s above %s: %w", r.royalty, rest, market.ErrInvalidParam)
		}
	}
	r.proceeds = rest.Sub(rest, r.royalty)

	if !s.primary {
		if err := im.retireStock(tx, s.tokenId); err != nil {
			return nil, err
		}
	}

	if s.collect {
		if err := im.collect(tx, s.buyer, s.amount); err != nil {
			return nil, err
		}
	}

	if err := im.ledger.Transfer(tx.Ctx, s.seller, s.buyer, s.tokenId); err != nil {
		tx.WithFields(log.Fields{"err": err, "tokenId": s.tokenId, "from": s.seller, "to": s.buyer}).Error("ledger.Transfer failed")
		return nil, xerrors.Errorf("transfer %s: %w", s.tokenId, err)
	}
	tx.onRollback(func(c ctx.Ctx) error {
		return im.ledger.Transfer(c, s.buyer, s.seller, s.tokenId)
	})

	payouts := make([]payment.Payout, 0, 3)
	if r.commission.Sign() > 0 {
		payouts = append(payouts, payment.Payout{To: tx.params.PlatformAccount, Amount: r.commission, Reason: payment.ReasonCommission})
	}
	if r.royalty.Sign() > 0 {
		payouts = append(payouts, payment.Payout{To: r.royaltyPayee, Amount: r.royalty, Reason: payment.ReasonRoyalty})
	}
	if r.proceeds.Sign() > 0 {
		payouts = append(payouts, payment.Payout{To: s.seller, Amount: r.proceeds, Reason: payment.ReasonProceeds})
	}
	if err := im.treasury.Pay(tx.Ctx, payouts...); err != nil {
		tx.WithFields(log.Fields{"err": err, "tokenId": s.tokenId, "amount": s.amount}).Error("treasury.Pay failed")
		return nil, xerrors.Errorf("pay out sale of %s: %w", s.tokenId, err)
	}

	im.metrics.BumpSum("sale.count", 1, "mode", string(s.mode), "scope", string(s.key.Scope))
	return r, nil
}

// retireStock takes a token out of primary stock the first time the market sells it,
// whatever the scope of the sale
func (im *impl) retireStock(tx *txn, tokenId *big.Int) error {
	p, err := tx.editionProgress(asset.EditionOf(tokenId))
	if err != nil {
		return err
	}
	if p.IsSold(tokenId) {
		return nil
	}
	p.MarkSold(tokenId)
	return tx.putProgress(p)
}

func (im *impl) royaltyOf(tx *txn, s sale, r *receipt) error {
	has, err := im.royalty.HasRoyalties(tx.Ctx, s.tokenId)
	if err != nil {
		tx.WithFields(log.Fields{"err": err, "tokenId": s.tokenId}).Error("royalty.HasRoyalties failed")
		return xerrors.Errorf("royalty lookup: %w", err)
	}
	if !has {
		return nil
	}
	payee, amount, err := im.royalty.RoyaltyInfo(tx.Ctx, s.tokenId, s.amount)
	if err != nil {
		tx.WithFields(log.Fields{"err": err, "tokenId": s.tokenId}).Error("royalty.RoyaltyInfo failed")
		return xerrors.Errorf("royalty lookup: %w", err)
	}
	if payee.IsEmpty() || amount == nil || amount.Sign() <= 0 {
		return nil
	}
	r.royalty = new(big.Int).Set(amount)
	r.royaltyPayee = payee
	return nil
}

func saleEvent(typ market.EventType, s sale, r *receipt) market.Event {
	return market.Event{
		Type:         typ,
		Key:          s.key,
		TokenId:      s.tokenId.String(),
		Mode:         s.mode,
		Seller:       s.seller,
		Buyer:        s.buyer,
		Amount:       new(big.Int).Set(s.amount),
		Commission:   r.commission,
		Royalty:      r.royalty,
		RoyaltyPayee: r.royaltyPayee,
		Proceeds:     r.proceeds,
	}
}

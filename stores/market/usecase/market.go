package usecase

import (
	"errors"
	"math/big"
	"sync"

	"github.com/benbjohnson/clock"
	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/base/metrics"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/access"
	"github.com/x-xyz/editionmarket/domain/asset"
	"github.com/x-xyz/editionmarket/domain/market"
	"github.com/x-xyz/editionmarket/domain/payment"
	"github.com/x-xyz/editionmarket/domain/royalty"
)

type MarketUseCaseCfg struct {
	// MarketAccount is the operator sellers approve and the owner of the escrow
	MarketAccount domain.Address
	Params        market.Params
	Store         market.Store
	Ledger        asset.Ledger
	Royalty       royalty.Registry
	Treasury      payment.Treasury
	Access        access.Controls
	Publisher     market.Publisher
	Clock         clock.Clock
	Metrics       metrics.Service
}

// impl serializes every call behind mu. Collaborators are invoked while mu is held
// and must not call back into the engine.
type impl struct {
	mu     sync.Mutex
	params market.Params
	paused bool

	marketAccount domain.Address
	store         market.Store
	ledger        asset.Ledger
	royalty       royalty.Registry
	treasury      payment.Treasury
	access        access.Controls
	publisher     market.Publisher
	clock         clock.Clock
	metrics       metrics.Service
}

func New(cfg *MarketUseCaseCfg) market.UseCase {
	im := &impl{
		params:        cfg.Params.Clone(),
		marketAccount: cfg.MarketAccount,
		store:         cfg.Store,
		ledger:        cfg.Ledger,
		royalty:       cfg.Royalty,
		treasury:      cfg.Treasury,
		access:        cfg.Access,
		publisher:     cfg.Publisher,
		clock:         cfg.Clock,
		metrics:       cfg.Metrics,
	}
	if im.clock == nil {
		im.clock = clock.New()
	}
	if im.metrics == nil {
		im.metrics = metrics.New("market")
	}
	return im
}

var guardErrors = []error{
	market.ErrOwnerMismatch, market.ErrNotSeller, market.ErrNotAdmin, market.ErrNotBidder,
	market.ErrNotAuthorized, market.ErrNotOwner, market.ErrNoOpenBid, market.ErrNoListingFound,
	market.ErrBidTooLow, market.ErrReserveMet, market.ErrReserveNotMet, market.ErrAuctionInFlight,
	market.ErrAuctionNotEnded, market.ErrNotSingleton, market.ErrBiddingClosed,
	market.ErrBiddingNotStarted, market.ErrTokenIsListed, market.ErrMarketplaceNotApproved,
	market.ErrListingStillValid, market.ErrPaused, market.ErrLockupNotElapsed,
	market.ErrPrimaryMarketExhausted, market.ErrInsufficientPayment, market.ErrOfferPriceChanged,
	market.ErrInvalidParam,
}

func isGuard(err error) bool {
	for _, g := range guardErrors {
		if errors.Is(err, g) {
			return true
		}
	}
	return false
}

// run executes fn as one atomic call. A failed fn leaves the store and the
// collaborators as they were; events are published only after success.
func (im *impl) run(c ctx.Ctx, op string, fn func(tx *txn) error) error {
	defer im.metrics.BumpTime("op.time", "op", op).End()

	im.mu.Lock()
	tx := newTxn(ctx.WithValue(c, "op", op), im.store, im.clock.Now(), im.params.Clone())
	err := fn(tx)
	if err != nil {
		tx.rollback()
	}
	im.mu.Unlock()

	if err != nil {
		if isGuard(err) {
			tx.WithField("err", err).Info("call rejected")
			im.metrics.BumpSum("op.rejected", 1, "op", op)
		} else {
			tx.WithField("err", err).Error("call failed")
			im.metrics.BumpSum("op.err", 1, "op", op)
		}
		return err
	}

	if im.publisher != nil {
		for _, evt := range tx.events {
			im.publisher.Publish(c, evt)
		}
	}
	return nil
}

func (im *impl) requireNotPaused(tx *txn) error {
	if im.paused {
		return market.ErrPaused
	}
	return nil
}

func (im *impl) isAdmin(tx *txn, addr domain.Address) (bool, error) {
	ok, err := im.access.HasAdminRole(tx.Ctx, addr)
	if err != nil {
		tx.WithFields(log.Fields{"err": err, "addr": addr}).Error("access.HasAdminRole failed")
		return false, err
	}
	return ok, nil
}

// requireAdmin fails with deny for non admins
func (im *impl) requireAdmin(tx *txn, addr domain.Address, deny error) error {
	ok, err := im.isAdmin(tx, addr)
	if err != nil {
		return err
	}
	if !ok {
		return deny
	}
	return nil
}

func (im *impl) actsFor(tx *txn, seller, caller domain.Address) (bool, error) {
	if seller.Equals(caller) {
		return true, nil
	}
	ok, err := im.access.IsProxyFor(tx.Ctx, seller, caller)
	if err != nil {
		tx.WithFields(log.Fields{"err": err, "seller": seller, "caller": caller}).Error("access.IsProxyFor failed")
		return false, err
	}
	return ok, nil
}

func (im *impl) requireSeller(tx *txn, l *market.Listing, caller domain.Address) error {
	ok, err := im.actsFor(tx, l.Seller, caller)
	if err != nil {
		return err
	}
	if !ok {
		return market.ErrNotSeller
	}
	return nil
}

func (im *impl) ownerOf(tx *txn, tokenId *big.Int) (domain.Address, error) {
	owner, err := im.ledger.OwnerOf(tx.Ctx, tokenId)
	if err != nil {
		tx.WithFields(log.Fields{"err": err, "tokenId": tokenId}).Error("ledger.OwnerOf failed")
		return "", err
	}
	return owner, nil
}

func (im *impl) editionSize(tx *txn, editionId *big.Int) (uint64, error) {
	size, err := im.ledger.EditionSizeOf(tx.Ctx, editionId)
	if err != nil {
		tx.WithFields(log.Fields{"err": err, "editionId": editionId}).Error("ledger.EditionSizeOf failed")
		return 0, err
	}
	return size, nil
}

func (im *impl) approved(tx *txn, owner domain.Address) (bool, error) {
	ok, err := im.ledger.IsApprovedForAll(tx.Ctx, owner, im.marketAccount)
	if err != nil {
		tx.WithFields(log.Fields{"err": err, "owner": owner}).Error("ledger.IsApprovedForAll failed")
		return false, err
	}
	return ok, nil
}

func (im *impl) exhausted(tx *txn, editionId *big.Int) (bool, error) {
	size, err := im.editionSize(tx, editionId)
	if err != nil {
		return false, err
	}
	p, err := tx.editionProgress(editionId)
	if err != nil {
		return false, err
	}
	return p.Sold >= size, nil
}

// nextPrimaryToken returns the lowest token of the edition held by owner that was never
// sold through the market and has no listing of its own, nil if none. listed reports
// whether owner holds primary stock that is only held back by its own listing.
func (im *impl) nextPrimaryToken(tx *txn, editionId *big.Int, owner domain.Address) (tokenId *big.Int, listed bool, err error) {
	size, err := im.editionSize(tx, editionId)
	if err != nil {
		return nil, false, err
	}
	p, err := tx.editionProgress(editionId)
	if err != nil {
		return nil, false, err
	}
	for i := uint64(0); i < size; i++ {
		id := asset.TokenOf(editionId, i)
		if p.IsSold(id) {
			continue
		}
		holder, err := im.ownerOf(tx, id)
		if err != nil {
			return nil, false, err
		}
		if !holder.Equals(owner) {
			continue
		}
		l, err := tx.listing(market.TokenKey(id))
		if err != nil {
			return nil, false, err
		}
		if l != nil {
			listed = true
			continue
		}
		return id, listed, nil
	}
	return nil, listed, nil
}

// owns tells whether addr holds the token, or primary stock of the edition
func (im *impl) owns(tx *txn, key market.Key, addr domain.Address) (bool, error) {
	if key.IsEdition() {
		tokenId, listed, err := im.nextPrimaryToken(tx, key.IdInt(), addr)
		if err != nil {
			return false, err
		}
		return tokenId != nil || listed, nil
	}
	owner, err := im.ownerOf(tx, key.IdInt())
	if err != nil {
		return false, err
	}
	return owner.Equals(addr), nil
}

// saleToken picks the token a buyer-facing action on l would move and checks the
// listing is not stale.
func (im *impl) saleToken(tx *txn, l *market.Listing) (*big.Int, error) {
	if l.Key.IsEdition() {
		editionId := l.Key.IdInt()
		if done, err := im.exhausted(tx, editionId); err != nil {
			return nil, err
		} else if done {
			return nil, market.ErrPrimaryMarketExhausted
		}
		tokenId, listed, err := im.nextPrimaryToken(tx, editionId, l.Seller)
		if err != nil {
			return nil, err
		}
		if tokenId == nil && listed {
			return nil, market.ErrTokenIsListed
		} else if tokenId == nil {
			return nil, market.ErrOwnerMismatch
		}
		return tokenId, nil
	}

	tokenId := l.Key.IdInt()
	owner, err := im.ownerOf(tx, tokenId)
	if err != nil {
		return nil, err
	}
	if !owner.Equals(l.Seller) {
		return nil, market.ErrOwnerMismatch
	}
	return tokenId, nil
}

// editionAuctionInFlight fails when the edition of tokenId is in a reserve auction holding
// a live bid. Such an edition is a singleton, so tokenId is the lot being auctioned.
func (im *impl) editionAuctionInFlight(tx *txn, tokenId *big.Int) error {
	l, err := tx.listing(market.EditionKey(asset.EditionOf(tokenId)))
	if err != nil {
		return err
	}
	if l.HasLiveBid() {
		return market.ErrAuctionInFlight
	}
	return nil
}

// recordPrimarySale takes tokenId out of primary stock and reports whether the edition
// is now sold out
func (im *impl) recordPrimarySale(tx *txn, editionId, tokenId *big.Int) (bool, error) {
	size, err := im.editionSize(tx, editionId)
	if err != nil {
		return false, err
	}
	p, err := tx.editionProgress(editionId)
	if err != nil {
		return false, err
	}
	p.MarkSold(tokenId)
	if err := tx.putProgress(p); err != nil {
		return false, err
	}
	return p.Sold >= size, nil
}

func (im *impl) collect(tx *txn, from domain.Address, amount *big.Int) error {
	if err := im.treasury.Collect(tx.Ctx, from, amount); err != nil {
		tx.WithFields(log.Fields{"err": err, "from": from, "amount": amount}).Error("treasury.Collect failed")
		return xerrors.Errorf("collect from %s: %w", from, err)
	}
	refund := new(big.Int).Set(amount)
	tx.onRollback(func(c ctx.Ctx) error {
		return im.treasury.Pay(c, payment.Payout{To: from, Amount: refund, Reason: payment.ReasonRefund})
	})
	return nil
}

// refund must be the last interaction of a call, it has no compensation
func (im *impl) refund(tx *txn, to domain.Address, amount *big.Int) error {
	if err := im.treasury.Pay(tx.Ctx, payment.Payout{To: to, Amount: amount, Reason: payment.ReasonRefund}); err != nil {
		tx.WithFields(log.Fields{"err": err, "to": to, "amount": amount}).Error("treasury.Pay refund failed")
		return xerrors.Errorf("refund %s: %w", to, err)
	}
	return nil
}

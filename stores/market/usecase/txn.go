package usecase

import (
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
)

// txn scopes one engine call. It journals the first read of every store entry it mutates,
// keeps compensations for external interactions and buffers events until commit.
type txn struct {
	ctx.Ctx
	store  market.Store
	now    time.Time
	params market.Params

	listings map[market.Key]*market.Listing
	offers   map[market.Key]*market.Offer
	progress map[string]*market.EditionProgress

	undo   []func(ctx.Ctx) error
	events []market.Event
}

func newTxn(c ctx.Ctx, store market.Store, now time.Time, params market.Params) *txn {
	return &txn{
		Ctx:      c,
		store:    store,
		now:      now,
		params:   params,
		listings: map[market.Key]*market.Listing{},
		offers:   map[market.Key]*market.Offer{},
		progress: map[string]*market.EditionProgress{},
	}
}

// listing returns nil when the key is not listed
func (tx *txn) listing(key market.Key) (*market.Listing, error) {
	l, err := tx.store.GetListing(tx.Ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		tx.WithFields(log.Fields{"err": err, "key": key}).Error("store.GetListing failed")
		return nil, err
	}
	return l, nil
}

func (tx *txn) touchListing(key market.Key) error {
	if _, ok := tx.listings[key]; ok {
		return nil
	}
	orig, err := tx.listing(key)
	if err != nil {
		return err
	}
	tx.listings[key] = orig
	return nil
}

func (tx *txn) putListing(l *market.Listing) error {
	if err := tx.touchListing(l.Key); err != nil {
		return err
	}
	if err := tx.store.PutListing(tx.Ctx, l); err != nil {
		tx.WithFields(log.Fields{"err": err, "key": l.Key}).Error("store.PutListing failed")
		return err
	}
	return nil
}

func (tx *txn) deleteListing(key market.Key) error {
	if err := tx.touchListing(key); err != nil {
		return err
	}
	if err := tx.store.DeleteListing(tx.Ctx, key); err != nil {
		tx.WithFields(log.Fields{"err": err, "key": key}).Error("store.DeleteListing failed")
		return err
	}
	return nil
}

// offer returns nil when the slot is empty
func (tx *txn) offer(key market.Key) (*market.Offer, error) {
	o, err := tx.store.GetOffer(tx.Ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		tx.WithFields(log.Fields{"err": err, "key": key}).Error("store.GetOffer failed")
		return nil, err
	}
	return o, nil
}

func (tx *txn) touchOffer(key market.Key) error {
	if _, ok := tx.offers[key]; ok {
		return nil
	}
	orig, err := tx.offer(key)
	if err != nil {
		return err
	}
	tx.offers[key] = orig
	return nil
}

func (tx *txn) putOffer(o *market.Offer) error {
	if err := tx.touchOffer(o.Key); err != nil {
		return err
	}
	if err := tx.store.PutOffer(tx.Ctx, o); err != nil {
		tx.WithFields(log.Fields{"err": err, "key": o.Key}).Error("store.PutOffer failed")
		return err
	}
	return nil
}

func (tx *txn) deleteOffer(key market.Key) error {
	if err := tx.touchOffer(key); err != nil {
		return err
	}
	if err := tx.store.DeleteOffer(tx.Ctx, key); err != nil {
		tx.WithFields(log.Fields{"err": err, "key": key}).Error("store.DeleteOffer failed")
		return err
	}
	return nil
}

// editionProgress never returns nil, an edition without sales has Sold 0
func (tx *txn) editionProgress(editionId *big.Int) (*market.EditionProgress, error) {
	p, err := tx.store.GetProgress(tx.Ctx, editionId)
	if errors.Is(err, domain.ErrNotFound) {
		return &market.EditionProgress{EditionId: editionId.String()}, nil
	} else if err != nil {
		tx.WithFields(log.Fields{"err": err, "editionId": editionId}).Error("store.GetProgress failed")
		return nil, err
	}
	return p, nil
}

func (tx *txn) putProgress(p *market.EditionProgress) error {
	if _, ok := tx.progress[p.EditionId]; !ok {
		orig, err := tx.store.GetProgress(tx.Ctx, editionIdOf(p))
		if errors.Is(err, domain.ErrNotFound) {
			orig = nil
		} else if err != nil {
			tx.WithFields(log.Fields{"err": err, "editionId": p.EditionId}).Error("store.GetProgress failed")
			return err
		}
		tx.progress[p.EditionId] = orig
	}
	if err := tx.store.PutProgress(tx.Ctx, p); err != nil {
		tx.WithFields(log.Fields{"err": err, "editionId": p.EditionId}).Error("store.PutProgress failed")
		return err
	}
	return nil
}

// onRollback registers the compensation of an interaction that already happened
func (tx *txn) onRollback(fn func(ctx.Ctx) error) {
	tx.undo = append(tx.undo, fn)
}

func (tx *txn) emit(evt market.Event) {
	evt.Id = uuid.NewString()
	evt.Time = tx.now
	tx.events = append(tx.events, evt)
}

// rollback compensates interactions newest first, then restores every journaled entry
func (tx *txn) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		if err := tx.undo[i](tx.Ctx); err != nil {
			tx.WithFields(log.Fields{"err": err, "step": i}).Error("compensation failed")
		}
	}

	for key, orig := range tx.listings {
		var err error
		if orig == nil {
			err = tx.store.DeleteListing(tx.Ctx, key)
		} else {
			err = tx.store.PutListing(tx.Ctx, orig)
		}
		if err != nil {
			tx.WithFields(log.Fields{"err": err, "key": key}).Error("restore listing failed")
		}
	}
	for key, orig := range tx.offers {
		var err error
		if orig == nil {
			err = tx.store.DeleteOffer(tx.Ctx, key)
		} else {
			err = tx.store.PutOffer(tx.Ctx, orig)
		}
		if err != nil {
			tx.WithFields(log.Fields{"err": err, "key": key}).Error("restore offer failed")
		}
	}
	for id, orig := range tx.progress {
		if orig == nil {
			orig = &market.EditionProgress{EditionId: id}
		}
		if err := tx.store.PutProgress(tx.Ctx, orig); err != nil {
			tx.WithFields(log.Fields{"err": err, "editionId": id}).Error("restore progress failed")
		}
	}
	tx.events = nil
}

func editionIdOf(p *market.EditionProgress) *big.Int {
	v, ok := new(big.Int).SetString(p.EditionId, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

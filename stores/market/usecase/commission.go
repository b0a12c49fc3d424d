package usecase

import (
	"errors"
	"math/big"

	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/asset"
	"github.com/x-xyz/editionmarket/domain/market"
)

func (im *impl) receiverOverride(tx *txn, receiver domain.Address) (*market.Override, error) {
	ov, err := im.store.GetReceiverOverride(tx.Ctx, receiver)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		tx.WithFields(log.Fields{"err": err, "receiver": receiver}).Error("store.GetReceiverOverride failed")
		return nil, err
	}
	return ov, nil
}

func (im *impl) editionOverride(tx *txn, editionId *big.Int) (*market.Override, error) {
	ov, err := im.store.GetEditionOverride(tx.Ctx, editionId)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		tx.WithFields(log.Fields{"err": err, "editionId": editionId}).Error("store.GetEditionOverride failed")
		return nil, err
	}
	return ov, nil
}

func (im *impl) resolveRate(tx *txn, receiver domain.Address, editionId *big.Int, primary bool) (market.Rate, error) {
	edition, err := im.editionOverride(tx, editionId)
	if err != nil {
		return 0, err
	}
	recv, err := im.receiverOverride(tx, receiver)
	if err != nil {
		return 0, err
	}
	return market.ResolveRate(edition, recv, tx.params.DefaultCommission(primary)), nil
}

func (im *impl) SetReceiverCommissionOverride(c ctx.Ctx, admin domain.Address, receiver domain.Address, rate market.Rate) error {
	return im.setReceiverOverride(c, "setReceiverCommissionOverride", admin, receiver, market.Override{Active: true, Rate: rate})
}

func (im *impl) ClearReceiverCommissionOverride(c ctx.Ctx, admin domain.Address, receiver domain.Address) error {
	return im.setReceiverOverride(c, "clearReceiverCommissionOverride", admin, receiver, market.Override{})
}

func (im *impl) SetEditionCommissionOverride(c ctx.Ctx, admin domain.Address, editionId *big.Int, rate market.Rate) error {
	return im.setEditionOverride(c, "setEditionCommissionOverride", admin, editionId, market.Override{Active: true, Rate: rate})
}

func (im *impl) ClearEditionCommissionOverride(c ctx.Ctx, admin domain.Address, editionId *big.Int) error {
	return im.setEditionOverride(c, "clearEditionCommissionOverride", admin, editionId, market.Override{})
}

func (im *impl) setReceiverOverride(c ctx.Ctx, op string, admin, receiver domain.Address, ov market.Override) error {
	return im.run(c, op, func(tx *txn) error {
		if err := im.requireAdmin(tx, admin, market.ErrNotAuthorized); err != nil {
			return err
		}
		if !ov.Rate.Valid() {
			return xerrors.Errorf("rate %d: %w", ov.Rate, market.ErrInvalidParam)
		}
		if receiver.IsEmpty() {
			return xerrors.Errorf("receiver missing: %w", market.ErrInvalidParam)
		}
		if err := im.store.PutReceiverOverride(tx.Ctx, receiver, ov); err != nil {
			tx.WithFields(log.Fields{"err": err, "receiver": receiver}).Error("store.PutReceiverOverride failed")
			return err
		}
		tx.emit(market.Event{
			Type:     market.EventCommissionOverrideChanged,
			Caller:   admin,
			Receiver: receiver,
			Rate:     ov.Rate,
			Active:   ov.Active,
		})
		return nil
	})
}

func (im *impl) setEditionOverride(c ctx.Ctx, op string, admin domain.Address, editionId *big.Int, ov market.Override) error {
	return im.run(c, op, func(tx *txn) error {
		if err := im.requireAdmin(tx, admin, market.ErrNotAuthorized); err != nil {
			return err
		}
		if !ov.Rate.Valid() {
			return xerrors.Errorf("rate %d: %w", ov.Rate, market.ErrInvalidParam)
		}
		if editionId == nil || !asset.IsEditionId(editionId) {
			return xerrors.Errorf("edition id %v: %w", editionId, market.ErrInvalidParam)
		}
		if err := im.store.PutEditionOverride(tx.Ctx, editionId, ov); err != nil {
			tx.WithFields(log.Fields{"err": err, "editionId": editionId}).Error("store.PutEditionOverride failed")
			return err
		}
		tx.emit(market.Event{
			Type:   market.EventCommissionOverrideChanged,
			Caller: admin,
			Key:    market.EditionKey(editionId),
			Rate:   ov.Rate,
			Active: ov.Active,
		})
		return nil
	})
}

package payment

import (
	"errors"
	"math/big"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

type Reason string

const (
	ReasonCommission Reason = "commission"
	ReasonRoyalty    Reason = "royalty"
	ReasonProceeds   Reason = "proceeds"
	ReasonRefund     Reason = "refund"
)

type Payout struct {
	To     domain.Address
	Amount *big.Int
	Reason Reason
}

// Treasury moves currency in and out of the marketplace escrow.
//
// Collect pulls amount from an account into escrow. Pay pushes a batch out of escrow
// and either applies every payout or none of them.
type Treasury interface {
	Collect(ctx ctx.Ctx, from domain.Address, amount *big.Int) error
	Pay(ctx ctx.Ctx, payouts ...Payout) error
}

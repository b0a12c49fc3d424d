package treasury

import (
	"math/big"
	"sync"

	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/payment"
)

// Memory keeps balances in process. Collected funds sit in the escrow account until paid out.
type Memory struct {
	mu       sync.Mutex
	escrow   domain.Address
	balances map[domain.Address]*big.Int
}

func NewMemory(escrow domain.Address) *Memory {
	return &Memory{
		escrow:   escrow.ToLower(),
		balances: map[domain.Address]*big.Int{},
	}
}

func (m *Memory) Deposit(c ctx.Ctx, to domain.Address, amount *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(to, amount)
}

func (m *Memory) BalanceOf(addr domain.Address) *big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return new(big.Int).Set(m.balance(addr))
}

// Escrow is the balance held on behalf of bidders and buyers
func (m *Memory) Escrow() *big.Int {
	return m.BalanceOf(m.escrow)
}

func (m *Memory) Collect(c ctx.Ctx, from domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return xerrors.Errorf("collect %v: %w", amount, domain.ErrBadParamInput)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balance(from).Cmp(amount) < 0 {
		c.WithFields(log.Fields{"from": from, "amount": amount, "balance": m.balance(from)}).Info("collect rejected")
		return xerrors.Errorf("%s holds %s: %w", from, m.balance(from), payment.ErrInsufficientFunds)
	}
	m.add(from, new(big.Int).Neg(amount))
	m.add(m.escrow, amount)
	return nil
}

func (m *Memory) Pay(c ctx.Ctx, payouts ...payment.Payout) error {
	total := new(big.Int)
	for _, p := range payouts {
		if p.Amount == nil || p.Amount.Sign() < 0 || p.To.IsEmpty() {
			return xerrors.Errorf("payout %+v: %w", p, domain.ErrBadParamInput)
		}
		total.Add(total, p.Amount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balance(m.escrow).Cmp(total) < 0 {
		return xerrors.Errorf("escrow holds %s, owes %s: %w", m.balance(m.escrow), total, payment.ErrInsufficientFunds)
	}
	for _, p := range payouts {
		m.add(m.escrow, new(big.Int).Neg(p.Amount))
		m.add(p.To, p.Amount)
	}
	return nil
}

func (m *Memory) balance(addr domain.Address) *big.Int {
	if b, ok := m.balances[addr.ToLower()]; ok {
		return b
	}
	return new(big.Int)
}

func (m *Memory) add(addr domain.Address, delta *big.Int) {
	b := new(big.Int).Add(m.balance(addr), delta)
	m.balances[addr.ToLower()] = b
}

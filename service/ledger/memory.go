package ledger

import (
	"errors"
	"math/big"
	"sync"

	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/asset"
)

var (
	ErrTokenNotMinted = errors.New("token not minted")
	ErrNotTokenOwner  = errors.New("from is not the token owner")
	ErrEditionExists  = errors.New("edition already minted")
)

// Memory is a process local asset.Ledger. Editions are minted whole to their creator.
type Memory struct {
	mu        sync.RWMutex
	owners    map[string]domain.Address
	sizes     map[string]uint64
	approvals map[domain.Address]map[domain.Address]bool
}

func NewMemory() *Memory {
	return &Memory{
		owners:    map[string]domain.Address{},
		sizes:     map[string]uint64{},
		approvals: map[domain.Address]map[domain.Address]bool{},
	}
}

func (m *Memory) MintEdition(c ctx.Ctx, editionId *big.Int, size uint64, creator domain.Address) error {
	if !asset.IsEditionId(editionId) || size == 0 || size > asset.MaxEditionSize {
		return xerrors.Errorf("edition %s of size %d: %w", editionId, size, domain.ErrBadParamInput)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sizes[editionId.String()]; ok {
		return xerrors.Errorf("edition %s: %w", editionId, ErrEditionExists)
	}
	m.sizes[editionId.String()] = size
	for i := uint64(0); i < size; i++ {
		m.owners[asset.TokenOf(editionId, i).String()] = creator.ToLower()
	}
	c.WithFields(log.Fields{"editionId": editionId, "size": size, "creator": creator}).Debug("edition minted")
	return nil
}

func (m *Memory) SetApprovalForAll(c ctx.Ctx, owner, operator domain.Address, approved bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ops, ok := m.approvals[owner.ToLower()]
	if !ok {
		ops = map[domain.Address]bool{}
		m.approvals[owner.ToLower()] = ops
	}
	ops[operator.ToLower()] = approved
}

func (m *Memory) OwnerOf(c ctx.Ctx, tokenId *big.Int) (domain.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	owner, ok := m.owners[tokenId.String()]
	if !ok {
		return "", xerrors.Errorf("token %s: %w", tokenId, ErrTokenNotMinted)
	}
	return owner, nil
}

func (m *Memory) Transfer(c ctx.Ctx, from, to domain.Address, tokenId *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.owners[tokenId.String()]
	if !ok {
		return xerrors.Errorf("token %s: %w", tokenId, ErrTokenNotMinted)
	}
	if !owner.Equals(from) {
		return xerrors.Errorf("token %s owned by %s: %w", tokenId, owner, ErrNotTokenOwner)
	}
	m.owners[tokenId.String()] = to.ToLower()
	return nil
}

func (m *Memory) IsApprovedForAll(c ctx.Ctx, owner, operator domain.Address) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.approvals[owner.ToLower()][operator.ToLower()], nil
}

// EditionSizeOf returns 0 for unknown editions
func (m *Memory) EditionSizeOf(c ctx.Ctx, editionId *big.Int) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sizes[editionId.String()], nil
}

package access

import (
	"sync"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
)

// Static serves roles loaded from configuration. Proxies can be granted at runtime.
type Static struct {
	mu      sync.RWMutex
	admins  map[domain.Address]bool
	proxies map[domain.Address]map[domain.Address]bool
}

func NewStatic(admins ...domain.Address) *Static {
	s := &Static{
		admins:  map[domain.Address]bool{},
		proxies: map[domain.Address]map[domain.Address]bool{},
	}
	for _, a := range admins {
		s.admins[a.ToLower()] = true
	}
	return s
}

func (s *Static) GrantProxy(seller, operator domain.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ops, ok := s.proxies[seller.ToLower()]
	if !ok {
		ops = map[domain.Address]bool{}
		s.proxies[seller.ToLower()] = ops
	}
	ops[operator.ToLower()] = true
}

func (s *Static) HasAdminRole(c ctx.Ctx, addr domain.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admins[addr.ToLower()], nil
}

func (s *Static) IsProxyFor(c ctx.Ctx, seller, operator domain.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.proxies[seller.ToLower()][operator.ToLower()], nil
}

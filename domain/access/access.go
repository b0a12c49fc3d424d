package access

import (
	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
)

type Controls interface {
	HasAdminRole(ctx ctx.Ctx, addr domain.Address) (bool, error)
	// IsProxyFor tells whether operator may act on behalf of seller
	IsProxyFor(ctx ctx.Ctx, seller, operator domain.Address) (bool, error)
}

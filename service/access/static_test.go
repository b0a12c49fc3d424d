package access

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/editionmarket/base/ctx"
)

func TestStatic(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()
	s := NewStatic("0xADMIN")

	ok, err := s.HasAdminRole(c, "0xadmin")
	req.NoError(err)
	req.True(ok)
	ok, _ = s.HasAdminRole(c, "0xother")
	req.False(ok)

	ok, _ = s.IsProxyFor(c, "0xseller", "0xop")
	req.False(ok)
	s.GrantProxy("0xSeller", "0xOp")
	ok, err = s.IsProxyFor(c, "0xseller", "0xop")
	req.NoError(err)
	req.True(ok)
}

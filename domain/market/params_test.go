package market

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/editionmarket/domain"
)

func TestParamsValidate(t *testing.T) {
	req := require.New(t)

	p := DefaultParams()
	req.True(errors.Is(p.Validate(), ErrInvalidParam), "platform account is required")

	p.PlatformAccount = "0x00000000000000000000000000000000000000aa"
	req.NoError(p.Validate())
	req.Equal(6*time.Hour, p.BidLockupPeriod)
	req.Equal("10000000000000000", p.MinBidAmount.String())
	req.Equal(domain.FormatEther(p.MinIncrement), "0.01")

	bad := p.Clone()
	bad.PrimaryCommission = RateModulo + 1
	req.True(errors.Is(bad.Validate(), ErrInvalidParam))

	bad = p.Clone()
	bad.MinIncrement.SetInt64(0)
	req.True(errors.Is(bad.Validate(), ErrInvalidParam))
	req.Equal(1, p.MinIncrement.Sign(), "clone must not share big ints")

	req.Equal(p.PrimaryCommission, p.DefaultCommission(true))
	req.Equal(p.SecondaryCommission, p.DefaultCommission(false))
}

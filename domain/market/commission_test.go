package market

import (
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestResolveRate(t *testing.T) {
	req := require.New(t)
	def := Rate(1_500_000)
	receiver := &Override{Active: true, Rate: 4_000_000}
	edition := &Override{Active: true, Rate: 8_000_000}

	req.Equal(def, ResolveRate(nil, nil, def))
	req.Equal(Rate(4_000_000), ResolveRate(nil, receiver, def))
	req.Equal(Rate(8_000_000), ResolveRate(edition, receiver, def))
	req.Equal(Rate(4_000_000), ResolveRate(&Override{Active: false, Rate: 1}, receiver, def))
	req.Equal(def, ResolveRate(nil, &Override{Active: false, Rate: 1}, def))
}

func TestSplitKeepsRemainderWithSeller(t *testing.T) {
	req := require.New(t)

	c := Split(big.NewInt(999), 1_500_000)
	req.Equal(int64(149), c.Int64())

	c = Split(big.NewInt(1_000_000_000), RateModulo)
	req.Equal(int64(1_000_000_000), c.Int64())

	c = Split(big.NewInt(7), 0)
	req.Zero(c.Sign())
}

func TestRatePercent(t *testing.T) {
	req := require.New(t)

	r, err := ParsePercent("2.5")
	req.NoError(err)
	req.Equal(Rate(250_000), r)
	req.True(r.Percent().Equal(decimal.RequireFromString("2.5")))

	_, err = ParsePercent("101")
	req.True(errors.Is(err, ErrInvalidParam))

	_, err = ParsePercent("0.000001")
	req.True(errors.Is(err, ErrInvalidParam))

	_, err = ParsePercent("x")
	req.True(errors.Is(err, ErrInvalidParam))

	req.True(RateModulo.Valid())
	req.False((RateModulo + 1).Valid())
}

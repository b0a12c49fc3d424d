package market

import (
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"
)

// Rate is expressed in parts per RateModulo
type Rate uint64

// RateModulo is 100% expressed as a Rate, 100000 is 1%
const RateModulo Rate = 10_000_000

var bigRateModulo = new(big.Int).SetUint64(uint64(RateModulo))

func (r Rate) Valid() bool {
	return r <= RateModulo
}

// Percent renders the rate as a percentage, e.g. 2.5
func (r Rate) Percent() decimal.Decimal {
	return decimal.New(int64(r), 0).Div(decimal.New(int64(RateModulo)/100, 0))
}

// RateFromPercent converts 12.5 into 1_250_000
func RateFromPercent(pct decimal.Decimal) (Rate, error) {
	if pct.IsNegative() || pct.GreaterThan(decimal.New(100, 0)) {
		return 0, xerrors.Errorf("percent %s out of range: %w", pct, ErrInvalidParam)
	}
	r := pct.Mul(decimal.New(int64(RateModulo)/100, 0))
	if !r.Equal(r.Truncate(0)) {
		return 0, xerrors.Errorf("percent %s too precise: %w", pct, ErrInvalidParam)
	}
	return Rate(r.IntPart()), nil
}

func ParsePercent(s string) (Rate, error) {
	pct, err := decimal.NewFromString(s)
	if err != nil {
		return 0, xerrors.Errorf("percent %s: %w", s, ErrInvalidParam)
	}
	return RateFromPercent(pct)
}

// Override replaces the default commission for a receiver or an edition while Active
type Override struct {
	Active bool `json:"active" bson:"active"`
	Rate   Rate `json:"rate" bson:"rate"`
}

// ResolveRate applies edition override > receiver override > default
func ResolveRate(edition, receiver *Override, def Rate) Rate {
	if edition != nil && edition.Active {
		return edition.Rate
	}
	if receiver != nil && receiver.Active {
		return receiver.Rate
	}
	return def
}

// Split returns the commission taken out of amount. The division remainder belongs to the seller.
func Split(amount *big.Int, rate Rate) *big.Int {
	c := new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(rate)))
	return c.Quo(c, bigRateModulo)
}

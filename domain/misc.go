package domain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"
)

var (
	Big0 = big.NewInt(0)
	Big1 = big.NewInt(1)
)

// EtherDecimals is the number of decimals between ether and wei
const EtherDecimals = 18

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0 || a.Equals(EmptyAddress)
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

func (a Address) String() string {
	return string(a)
}

// NormalizeAddress validates a hex address and returns its lower case form
func NormalizeAddress(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return "", xerrors.Errorf("%s: %w", s, ErrInvalidAddress)
	}
	return Address(strings.ToLower(common.HexToAddress(s).Hex())), nil
}

// ParseEther converts a decimal ether string, e.g. "0.5", into wei
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", s, ErrInvalidNumberFormat)
	}
	wei := d.Shift(EtherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, xerrors.Errorf("%s has more than %d decimals: %w", s, EtherDecimals, ErrInvalidNumberFormat)
	}
	return wei.BigInt(), nil
}

// MustParseEther is ParseEther for constants
func MustParseEther(s string) *big.Int {
	v, err := ParseEther(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FormatEther renders wei as a decimal ether string
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals).String()
}

// ParseWei accepts a base 10 integer string
func ParseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, xerrors.Errorf("%s: %w", s, ErrInvalidNumberFormat)
	}
	return v, nil
}

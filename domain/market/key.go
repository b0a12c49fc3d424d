package market

import (
	"fmt"
	"math/big"

	"github.com/x-xyz/editionmarket/domain/asset"
)

type Scope string

const (
	// ScopeEdition addresses the primary market of a whole edition
	ScopeEdition Scope = "edition"
	// ScopeToken addresses a single token on the secondary market
	ScopeToken Scope = "token"
)

func ToScope(name string) (Scope, bool) {
	switch name {
	case string(ScopeEdition):
		return ScopeEdition, true
	case string(ScopeToken):
		return ScopeToken, true
	}
	return "", false
}

// Key identifies one listing slot and one offer slot. Id is a base 10 integer.
type Key struct {
	Scope Scope  `json:"scope" bson:"scope"`
	Id    string `json:"id" bson:"id"`
}

func EditionKey(editionId *big.Int) Key {
	return Key{Scope: ScopeEdition, Id: editionId.String()}
}

func TokenKey(tokenId *big.Int) Key {
	return Key{Scope: ScopeToken, Id: tokenId.String()}
}

func (k Key) IsEdition() bool {
	return k.Scope == ScopeEdition
}

func (k Key) IdInt() *big.Int {
	v, ok := new(big.Int).SetString(k.Id, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

// EditionId is the edition the key belongs to, for tokens the edition it was minted from
func (k Key) EditionId() *big.Int {
	if k.IsEdition() {
		return k.IdInt()
	}
	return asset.EditionOf(k.IdInt())
}

// Valid checks the id is a non negative integer and edition keys point at an edition boundary
func (k Key) Valid() bool {
	v, ok := new(big.Int).SetString(k.Id, 10)
	if !ok || v.Sign() < 0 {
		return false
	}
	switch k.Scope {
	case ScopeEdition:
		return asset.IsEditionId(v)
	case ScopeToken:
		return true
	}
	return false
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Scope, k.Id)
}

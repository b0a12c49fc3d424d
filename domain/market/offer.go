package market

import (
	"math/big"
	"time"

	"github.com/x-xyz/editionmarket/domain"
)

// Offer is the single unconditional bid held for a key
type Offer struct {
	Key      Key            `json:"key" bson:"key"`
	Bidder   domain.Address `json:"bidder" bson:"bidder"`
	Amount   *big.Int       `json:"amount" bson:"amount"`
	PlacedAt time.Time      `json:"placedAt" bson:"placedAt"`
}

func (o *Offer) Clone() *Offer {
	if o == nil {
		return nil
	}
	c := *o
	c.Amount = cloneInt(o.Amount)
	return &c
}

// UnlockAt is the first instant the bidder may withdraw
func (o *Offer) UnlockAt(lockup time.Duration) time.Time {
	return o.PlacedAt.Add(lockup)
}

// EditionProgress tracks the primary stock of an edition. SoldTokens holds the base 10 ids
// of the tokens the market has sold at least once, they never return to primary stock.
// Sold is their count.
type EditionProgress struct {
	EditionId  string   `json:"editionId" bson:"editionId"`
	Sold       uint64   `json:"sold" bson:"sold"`
	SoldTokens []string `json:"soldTokens" bson:"soldTokens"`
}

func (p *EditionProgress) Clone() *EditionProgress {
	if p == nil {
		return nil
	}
	c := *p
	c.SoldTokens = append([]string(nil), p.SoldTokens...)
	return &c
}

// IsSold tells whether tokenId already left primary stock
func (p *EditionProgress) IsSold(tokenId *big.Int) bool {
	id := tokenId.String()
	for _, sold := range p.SoldTokens {
		if sold == id {
			return true
		}
	}
	return false
}

func (p *EditionProgress) MarkSold(tokenId *big.Int) {
	p.SoldTokens = append(p.SoldTokens, tokenId.String())
	p.Sold++
}

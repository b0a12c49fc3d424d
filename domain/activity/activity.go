package activity

import (
	"math/big"
	"time"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
)

// Activity is the persisted form of a market event. Amounts are wei in base 10.
type Activity struct {
	Id       string           `json:"id" bson:"_id"`
	Type     market.EventType `json:"type" bson:"type"`
	Scope    market.Scope     `json:"scope,omitempty" bson:"scope,omitempty"`
	KeyId    string           `json:"keyId,omitempty" bson:"keyId,omitempty"`
	TokenId  string           `json:"tokenId,omitempty" bson:"tokenId,omitempty"`
	Mode     market.Mode      `json:"mode,omitempty" bson:"mode,omitempty"`
	FromMode market.Mode      `json:"fromMode,omitempty" bson:"fromMode,omitempty"`

	Seller domain.Address `json:"seller,omitempty" bson:"seller,omitempty"`
	Bidder domain.Address `json:"bidder,omitempty" bson:"bidder,omitempty"`
	Buyer  domain.Address `json:"buyer,omitempty" bson:"buyer,omitempty"`
	Caller domain.Address `json:"caller,omitempty" bson:"caller,omitempty"`
	// Accounts holds every address above, it backs the per account index
	Accounts []domain.Address `json:"-" bson:"accounts"`

	Amount       string         `json:"amount,omitempty" bson:"amount,omitempty"`
	Commission   string         `json:"commission,omitempty" bson:"commission,omitempty"`
	Royalty      string         `json:"royalty,omitempty" bson:"royalty,omitempty"`
	Proceeds     string         `json:"proceeds,omitempty" bson:"proceeds,omitempty"`
	RoyaltyPayee domain.Address `json:"royaltyPayee,omitempty" bson:"royaltyPayee,omitempty"`

	BiddingEnd *time.Time     `json:"biddingEnd,omitempty" bson:"biddingEnd,omitempty"`
	Receiver   domain.Address `json:"receiver,omitempty" bson:"receiver,omitempty"`
	Rate       market.Rate    `json:"rate,omitempty" bson:"rate,omitempty"`
	Active     bool           `json:"active,omitempty" bson:"active,omitempty"`

	Time time.Time `json:"time" bson:"time"`
}

func FromEvent(evt market.Event) *Activity {
	a := &Activity{
		Id:           evt.Id,
		Type:         evt.Type,
		Scope:        evt.Key.Scope,
		KeyId:        evt.Key.Id,
		TokenId:      evt.TokenId,
		Mode:         evt.Mode,
		FromMode:     evt.FromMode,
		Seller:       evt.Seller.ToLower(),
		Bidder:       evt.Bidder.ToLower(),
		Buyer:        evt.Buyer.ToLower(),
		Caller:       evt.Caller.ToLower(),
		Amount:       weiString(evt.Amount),
		Commission:   weiString(evt.Commission),
		Royalty:      weiString(evt.Royalty),
		Proceeds:     weiString(evt.Proceeds),
		RoyaltyPayee: evt.RoyaltyPayee.ToLower(),
		Receiver:     evt.Receiver.ToLower(),
		Rate:         evt.Rate,
		Active:       evt.Active,
		Time:         evt.Time,
	}
	if !evt.BiddingEnd.IsZero() {
		end := evt.BiddingEnd
		a.BiddingEnd = &end
	}

	seen := map[domain.Address]bool{}
	for _, addr := range []domain.Address{a.Seller, a.Bidder, a.Buyer, a.Caller, a.RoyaltyPayee, a.Receiver} {
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		a.Accounts = append(a.Accounts, addr)
	}
	return a
}

func weiString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}

type FindAllOptions struct {
	Types   []market.EventType
	Key     *market.Key
	TokenId *string
	Account *domain.Address
	Offset  *int
	Limit   *int
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithTypes(types ...market.EventType) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Types = types
		return nil
	}
}

func WithKey(key market.Key) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Key = &key
		return nil
	}
}

func WithTokenId(tokenId string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.TokenId = &tokenId
		return nil
	}
}

func WithAccount(addr domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		lower := addr.ToLower()
		options.Account = &lower
		return nil
	}
}

func WithPagination(offset, limit int) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		if offset < 0 || limit < 0 {
			return domain.ErrBadParamInput
		}
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

// Repo is newest first
type Repo interface {
	// Insert ignores an activity whose id is already stored
	Insert(ctx ctx.Ctx, a *Activity) error
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Activity, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
}

type UseCase interface {
	// Handle records evt in the background, its signature fits an event bus subscription
	Handle(ctx ctx.Ctx, evt market.Event)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Activity, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	// Close waits for pending records
	Close()
}

package activity

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
)

func TestFromEvent(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seller := domain.Address("0x00000000000000000000000000000000000000AB")
	evt := market.Event{
		Id:         "id-1",
		Type:       market.EventAuctionResulted,
		Key:        market.EditionKey(big.NewInt(2000)),
		TokenId:    "2000",
		Seller:     seller,
		Buyer:      "0x00000000000000000000000000000000000000cd",
		Caller:     seller,
		Amount:     domain.MustParseEther("1"),
		Commission: domain.MustParseEther("0.15"),
		Royalty:    new(big.Int),
		Proceeds:   domain.MustParseEther("0.85"),
		Time:       now,
	}

	a := FromEvent(evt)
	require.Equal(t, "id-1", a.Id)
	require.Equal(t, market.ScopeEdition, a.Scope)
	require.Equal(t, "2000", a.KeyId)
	require.Equal(t, "1000000000000000000", a.Amount)
	require.Equal(t, "0", a.Royalty)
	require.Equal(t, domain.Address("0x00000000000000000000000000000000000000ab"), a.Seller)
	require.Equal(t, []domain.Address{
		"0x00000000000000000000000000000000000000ab",
		"0x00000000000000000000000000000000000000cd",
	}, a.Accounts)
	require.Nil(t, a.BiddingEnd)
	require.Equal(t, now, a.Time)
}

func TestFindAllOptions(t *testing.T) {
	opts, err := GetFindAllOptions(
		WithTypes(market.EventBidPlaced, market.EventOfferPlaced),
		WithAccount("0x00000000000000000000000000000000000000AB"),
		WithPagination(10, 5),
	)
	require.NoError(t, err)
	require.Len(t, opts.Types, 2)
	require.Equal(t, domain.Address("0x00000000000000000000000000000000000000ab"), *opts.Account)
	require.Equal(t, 10, *opts.Offset)
	require.Equal(t, 5, *opts.Limit)

	_, err = GetFindAllOptions(WithPagination(-1, 5))
	require.ErrorIs(t, err, domain.ErrBadParamInput)
}

package usecase

import (
	"errors"
	"math/big"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
	"github.com/x-xyz/editionmarket/domain/payment"
	paymentmocks "github.com/x-xyz/editionmarket/domain/payment/mocks"
	royaltymocks "github.com/x-xyz/editionmarket/domain/royalty/mocks"
)

func (s *MarketTestSuite) TestCommissionOverridePrecedence() {
	req := s.Require()
	ed := market.EditionKey(edition3)

	req.ErrorIs(s.uc.SetReceiverCommissionOverride(s.ctx, alice, creator, 4_000_000), market.ErrNotAuthorized)
	req.ErrorIs(s.uc.SetEditionCommissionOverride(s.ctx, admin, edition3, market.RateModulo+1), market.ErrInvalidParam)
	req.ErrorIs(s.uc.SetEditionCommissionOverride(s.ctx, admin, big.NewInt(1001), 1), market.ErrInvalidParam)

	req.NoError(s.uc.SetReceiverCommissionOverride(s.ctx, admin, creator, 4_000_000))
	req.NoError(s.uc.SetEditionCommissionOverride(s.ctx, admin, edition3, 8_000_000))
	rate, err := s.uc.ResolveCommissionRate(s.ctx, creator, edition3, true)
	req.NoError(err)
	req.Equal(market.Rate(8_000_000), rate)

	req.NoError(s.uc.ListBuyNow(s.ctx, creator, ed, eth("1"), time.Time{}))
	req.NoError(s.uc.BuyNow(s.ctx, alice, ed, eth("1")))
	s.requireBalance(platform, "0.8")
	s.requireBalance(creator, "0.2")

	req.NoError(s.uc.ClearEditionCommissionOverride(s.ctx, admin, edition3))
	rate, err = s.uc.ResolveCommissionRate(s.ctx, creator, edition3, true)
	req.NoError(err)
	req.Equal(market.Rate(4_000_000), rate)

	req.NoError(s.uc.BuyNow(s.ctx, bob, ed, eth("1")))
	s.requireBalance(platform, "1.2")
	s.requireBalance(creator, "0.8")

	req.NoError(s.uc.ClearReceiverCommissionOverride(s.ctx, admin, creator))
	rate, err = s.uc.ResolveCommissionRate(s.ctx, creator, edition3, false)
	req.NoError(err)
	req.Equal(market.Rate(250_000), rate)

	ov, err := s.uc.GetReceiverCommissionOverride(s.ctx, creator)
	req.NoError(err)
	req.False(ov.Active)
	req.Len(s.eventsOf(market.EventCommissionOverrideChanged), 4)
}

func (s *MarketTestSuite) TestSecondarySaleWithRoyalty() {
	req := s.Require()
	s.royalty.SetEditionRoyalty(edition3, artist, 1_000_000)
	ed := market.EditionKey(edition3)

	req.NoError(s.uc.ListBuyNow(s.ctx, creator, ed, eth("1"), time.Time{}))
	req.NoError(s.uc.BuyNow(s.ctx, alice, ed, eth("1")))
	// no royalty on primary sales
	s.requireBalance(artist, "0")

	req.NoError(s.uc.ListBuyNow(s.ctx, alice, tokenKey(1000), eth("2"), time.Time{}))
	req.NoError(s.uc.BuyNow(s.ctx, bob, tokenKey(1000), eth("2")))
	s.requireOwner(1000, bob)
	s.requireBalance(artist, "0.2")
	s.requireBalance(platform, "0.2")
	s.requireBalance(alice, "100.75")
	s.requireBalance(bob, "98")

	sold := s.eventsOf(market.EventBuyNowPurchased)
	req.Len(sold, 2)
	req.True(sold[1].RoyaltyPayee.Equals(artist))
	req.Equal("0.2", domain.FormatEther(sold[1].Royalty))
	req.Equal("1.75", domain.FormatEther(sold[1].Proceeds))
}

func (s *MarketTestSuite) TestSettlementConservesValue() {
	req := s.Require()
	s.royalty.SetEditionRoyalty(edition5, artist, 333_333)
	accounts := []domain.Address{alice, bob, carol, creator, platform, artist, marketAccount}
	total := func() *big.Int {
		sum := new(big.Int)
		for _, a := range accounts {
			sum.Add(sum, s.treasury.BalanceOf(a))
		}
		return sum
	}
	before := total()

	amounts := []string{"1000000000000000007", "33333333333333333", "10000000000000001", "123456789012345678", "999999999999999999"}
	for i, raw := range amounts {
		amount, err := domain.ParseWei(raw)
		req.NoError(err)
		key := tokenKey(3000 + int64(i))
		req.NoError(s.uc.PlaceOffer(s.ctx, alice, key, amount))
		req.NoError(s.uc.AcceptOffer(s.ctx, creator, key, amount))
		s.requireBalance(marketAccount, "0")
	}

	accepted := s.eventsOf(market.EventOfferAccepted)
	req.Len(accepted, len(amounts))
	for _, e := range accepted {
		sum := new(big.Int).Add(e.Commission, e.Royalty)
		sum.Add(sum, e.Proceeds)
		req.Equal(e.Amount.String(), sum.String())
		req.Positive(e.Royalty.Sign())
	}
	req.Equal(before.String(), total().String())
}

func (s *MarketTestSuite) TestRoyaltyAboveSellerShare() {
	req := s.Require()
	registry := &royaltymocks.Registry{}
	registry.On("HasRoyalties", mock.Anything, mock.Anything).Return(true, nil)
	registry.On("RoyaltyInfo", mock.Anything, mock.Anything, mock.Anything).Return(artist, eth("0.99"), nil)
	uc := s.newEngine(func(cfg *MarketUseCaseCfg) {
		cfg.Royalty = registry
	})

	key := tokenKey(3000)
	req.NoError(uc.ListBuyNow(s.ctx, creator, key, eth("1"), time.Time{}))
	req.ErrorIs(uc.BuyNow(s.ctx, alice, key, eth("1")), market.ErrInvalidParam)

	s.requireOwner(3000, creator)
	s.requireBalance(alice, "100")
	s.requireBalance(marketAccount, "0")
	s.requireMode(key, market.ModeBuyNow)
	registry.AssertExpectations(s.T())
}

func (s *MarketTestSuite) TestFailedPayoutRollsBack() {
	req := s.Require()
	bankDown := errors.New("bank down")
	bank := &paymentmocks.Treasury{}
	bank.On("Collect", mock.Anything, alice, mock.Anything).Return(nil)
	// commission and proceeds of the first sale fail, later sales go through
	bank.On("Pay", mock.Anything, mock.Anything, mock.Anything).Return(bankDown).Once()
	bank.On("Pay", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	bank.On("Pay", mock.Anything, mock.MatchedBy(func(p payment.Payout) bool {
		return p.Reason == payment.ReasonRefund && p.To.Equals(alice) && p.Amount.Cmp(eth("1")) == 0
	})).Return(nil).Once()
	uc := s.newEngine(func(cfg *MarketUseCaseCfg) {
		cfg.Treasury = bank
	})

	ed := market.EditionKey(edition3)
	req.NoError(uc.ListBuyNow(s.ctx, creator, ed, eth("1"), time.Time{}))
	published := len(s.events)

	err := uc.BuyNow(s.ctx, alice, ed, eth("1"))
	req.ErrorIs(err, bankDown)
	req.Len(s.events, published)
	s.requireOwner(1000, creator)
	s.requireMode(ed, market.ModeBuyNow)

	// the failed sale did not count toward the edition
	for i := 0; i < 3; i++ {
		req.NoError(uc.BuyNow(s.ctx, alice, ed, eth("1")))
	}
	req.ErrorIs(uc.BuyNow(s.ctx, alice, ed, eth("1")), market.ErrPrimaryMarketExhausted)
	s.requireOwner(1002, alice)
	bank.AssertExpectations(s.T())
}

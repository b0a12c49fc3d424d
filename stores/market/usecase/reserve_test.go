package usecase

import (
	"math/big"
	"time"

	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
)

func (s *MarketTestSuite) TestOutbidRefund() {
	req := s.Require()
	key := market.EditionKey(singleton)
	req.NoError(s.uc.ListReserveAuction(s.ctx, creator, key, eth("0.5"), time.Time{}))

	req.ErrorIs(s.uc.PlaceReserveBid(s.ctx, alice, key, eth("0.005")), market.ErrBidTooLow)
	req.NoError(s.uc.PlaceReserveBid(s.ctx, alice, key, eth("0.2")))
	s.requireBalance(alice, "99.8")
	s.requireBalance(marketAccount, "0.2")

	req.ErrorIs(s.uc.PlaceReserveBid(s.ctx, bob, key, eth("0.205")), market.ErrBidTooLow)
	req.NoError(s.uc.PlaceReserveBid(s.ctx, bob, key, eth("0.21")))
	s.requireBalance(alice, "100")
	s.requireBalance(bob, "99.79")
	s.requireBalance(marketAccount, "0.21")

	l := s.requireMode(key, market.ModeReserveAuction)
	req.True(l.Reserve.Bidder.Equals(bob))
	req.True(l.Reserve.BiddingEnd.IsZero())

	refunded := s.eventsOf(market.EventBidRefunded)
	req.Len(refunded, 1)
	req.True(refunded[0].Bidder.Equals(alice))
	req.Equal("0.2", domain.FormatEther(refunded[0].Amount))
}

func (s *MarketTestSuite) TestReserveAuctionLifecycle() {
	req := s.Require()
	key := market.EditionKey(singleton)
	t0 := s.clock.Now()
	req.NoError(s.uc.ListReserveAuction(s.ctx, creator, key, eth("0.5"), time.Time{}))

	req.NoError(s.uc.PlaceReserveBid(s.ctx, alice, key, eth("0.5")))
	l := s.requireMode(key, market.ModeReserveAuction)
	req.True(l.Reserve.BiddingEnd.Equal(t0.Add(24 * time.Hour)))
	req.ErrorIs(s.uc.ResultReserveAuction(s.ctx, creator, key), market.ErrAuctionNotEnded)
	req.ErrorIs(s.uc.WithdrawReserveBid(s.ctx, alice, key), market.ErrReserveMet)
	req.ErrorIs(s.uc.ConvertReserveAuctionToBuyNow(s.ctx, creator, key, eth("1"), time.Time{}), market.ErrReserveMet)

	// a bid inside the window pushes the end
	s.clock.Set(t0.Add(24*time.Hour - 5*time.Minute))
	req.NoError(s.uc.PlaceReserveBid(s.ctx, bob, key, eth("0.51")))
	l = s.requireMode(key, market.ModeReserveAuction)
	req.True(l.Reserve.BiddingEnd.Equal(t0.Add(24*time.Hour + 15*time.Minute)))
	req.Equal(uint32(1), l.Reserve.Extensions)
	s.requireBalance(alice, "100")

	s.clock.Set(l.Reserve.BiddingEnd)
	req.ErrorIs(s.uc.PlaceReserveBid(s.ctx, alice, key, eth("0.6")), market.ErrBiddingClosed)
	req.ErrorIs(s.uc.ResultReserveAuction(s.ctx, carol, key), market.ErrNotAuthorized)

	req.NoError(s.uc.ResultReserveAuction(s.ctx, bob, key))
	s.requireOwner(2000, bob)
	s.requireBalance(bob, "99.49")
	s.requireBalance(platform, "0.0765")
	s.requireBalance(creator, "0.4335")
	s.requireBalance(marketAccount, "0")

	_, err := s.uc.GetListing(s.ctx, key)
	req.ErrorIs(err, market.ErrNoListingFound)
	req.ErrorIs(s.uc.ResultReserveAuction(s.ctx, bob, key), market.ErrNoOpenBid)

	resulted := s.eventsOf(market.EventAuctionResulted)
	req.Len(resulted, 1)
	req.Equal("2000", resulted[0].TokenId)
	req.True(resulted[0].Caller.Equals(bob))
}

func (s *MarketTestSuite) TestResultBySellerOrAdmin() {
	req := s.Require()
	key := tokenKey(3000)
	req.NoError(s.uc.ListReserveAuction(s.ctx, creator, key, eth("0.5"), time.Time{}))
	req.NoError(s.uc.PlaceReserveBid(s.ctx, alice, key, eth("1")))
	s.clock.Add(24 * time.Hour)

	req.NoError(s.uc.ResultReserveAuction(s.ctx, admin, key))
	s.requireOwner(3000, alice)
	// token scope pays the secondary rate
	s.requireBalance(platform, "0.025")
	s.requireBalance(creator, "0.975")
}

func (s *MarketTestSuite) TestExtensionCap() {
	req := s.Require()
	params := s.uc.Params(s.ctx)
	params.MaxBidExtensions = 1
	req.NoError(s.uc.UpdateParams(s.ctx, admin, params))

	key := market.EditionKey(singleton)
	t0 := s.clock.Now()
	end := t0.Add(24 * time.Hour)
	req.NoError(s.uc.ListReserveAuction(s.ctx, creator, key, eth("0.5"), time.Time{}))
	req.NoError(s.uc.PlaceReserveBid(s.ctx, alice, key, eth("0.5")))

	s.clock.Set(end.Add(-time.Minute))
	req.NoError(s.uc.PlaceReserveBid(s.ctx, bob, key, eth("0.51")))
	end = end.Add(15 * time.Minute)

	s.clock.Set(end.Add(-time.Minute))
	req.NoError(s.uc.PlaceReserveBid(s.ctx, alice, key, eth("0.52")))
	l := s.requireMode(key, market.ModeReserveAuction)
	req.True(l.Reserve.BiddingEnd.Equal(end))
	req.Equal(uint32(1), l.Reserve.Extensions)

	s.clock.Set(end)
	req.ErrorIs(s.uc.PlaceReserveBid(s.ctx, bob, key, eth("0.6")), market.ErrBiddingClosed)
	req.NoError(s.uc.ResultReserveAuction(s.ctx, creator, key))
	s.requireOwner(2000, alice)
}

func (s *MarketTestSuite) TestBidOutsideWindowDoesNotExtend() {
	req := s.Require()
	key := market.EditionKey(singleton)
	t0 := s.clock.Now()
	req.NoError(s.uc.ListReserveAuction(s.ctx, creator, key, eth("0.5"), time.Time{}))
	req.NoError(s.uc.PlaceReserveBid(s.ctx, alice, key, eth("0.5")))

	s.clock.Set(t0.Add(24*time.Hour - 16*time.Minute))
	req.NoError(s.uc.PlaceReserveBid(s.ctx, bob, key, eth("0.6")))
	l := s.requireMode(key, market.ModeReserveAuction)
	req.True(l.Reserve.BiddingEnd.Equal(t0.Add(24 * time.Hour)))
	req.Zero(l.Reserve.Extensions)
}

func (s *MarketTestSuite) TestWithdrawReserveBid() {
	req := s.Require()
	key := market.EditionKey(singleton)

	req.ErrorIs(s.uc.WithdrawReserveBid(s.ctx, alice, key), market.ErrNoOpenBid)
	req.NoError(s.uc.ListReserveAuction(s.ctx, creator, key, eth("0.5"), time.Time{}))
	req.ErrorIs(s.uc.WithdrawReserveBid(s.ctx, alice, key), market.ErrNoOpenBid)

	req.NoError(s.uc.PlaceReserveBid(s.ctx, alice, key, eth("0.2")))
	req.ErrorIs(s.uc.WithdrawReserveBid(s.ctx, bob, key), market.ErrNotBidder)
	req.NoError(s.uc.WithdrawReserveBid(s.ctx, alice, key))
	s.requireBalance(alice, "100")
	s.requireBalance(marketAccount, "0")

	l := s.requireMode(key, market.ModeReserveAuction)
	req.False(l.Reserve.HasBid())
	req.Len(s.eventsOf(market.EventBidWithdrawn), 1)

	// after a withdrawal the floor is the minimum bid again
	req.NoError(s.uc.PlaceReserveBid(s.ctx, bob, key, eth("0.01")))
}

// reserve 0.5, bid 0.2, convert to buy now at 0.1, buyer takes it
func (s *MarketTestSuite) TestReserveUnmetScenario() {
	req := s.Require()
	key := market.EditionKey(singleton)
	req.NoError(s.uc.ListReserveAuction(s.ctx, creator, key, eth("0.5"), time.Time{}))
	req.NoError(s.uc.PlaceReserveBid(s.ctx, alice, key, eth("0.2")))

	s.clock.Add(48 * time.Hour)
	req.ErrorIs(s.uc.ResultReserveAuction(s.ctx, creator, key), market.ErrReserveNotMet)

	req.NoError(s.uc.ConvertReserveAuctionToBuyNow(s.ctx, creator, key, eth("0.1"), time.Time{}))
	s.requireBalance(alice, "100")
	s.requireMode(key, market.ModeBuyNow)

	req.NoError(s.uc.BuyNow(s.ctx, bob, key, eth("0.1")))
	s.requireOwner(2000, bob)
	s.requireBalance(bob, "99.9")
	s.requireBalance(marketAccount, "0")
}

func (s *MarketTestSuite) TestConvertReserveToOffersKeepsExistingOffer() {
	req := s.Require()
	key := tokenKey(3000)
	req.NoError(s.uc.ListReserveAuction(s.ctx, creator, key, eth("0.5"), time.Time{}))
	req.NoError(s.uc.PlaceOffer(s.ctx, bob, key, eth("0.3")))
	req.NoError(s.uc.PlaceReserveBid(s.ctx, alice, key, eth("0.2")))

	req.NoError(s.uc.ConvertReserveAuctionToOffers(s.ctx, creator, key, time.Time{}))
	s.requireMode(key, market.ModeOffers)
	s.requireBalance(alice, "100")

	o, err := s.uc.GetOffer(s.ctx, key)
	req.NoError(err)
	req.True(o.Bidder.Equals(bob))
	req.NoError(s.uc.AcceptOffer(s.ctx, creator, key, eth("0.3")))
	s.requireOwner(3000, bob)
}

func (s *MarketTestSuite) TestReserveSellerMovedAsset() {
	req := s.Require()
	key := market.EditionKey(singleton)
	req.NoError(s.uc.ListReserveAuction(s.ctx, creator, key, eth("0.5"), time.Time{}))
	req.NoError(s.uc.PlaceReserveBid(s.ctx, alice, key, eth("0.5")))
	req.NoError(s.ledger.Transfer(s.ctx, creator, collector, big.NewInt(2000)))

	s.clock.Add(24 * time.Hour)
	req.ErrorIs(s.uc.ResultReserveAuction(s.ctx, alice, key), market.ErrOwnerMismatch)
	s.requireBalance(alice, "99.5")
	s.requireMode(key, market.ModeReserveAuction)

	req.NoError(s.uc.EmergencyExitBid(s.ctx, admin, key))
	s.requireBalance(alice, "100")
	_, err := s.uc.GetListing(s.ctx, key)
	req.ErrorIs(err, market.ErrNoListingFound)
}

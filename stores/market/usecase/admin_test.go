package usecase

import (
	"time"

	"github.com/x-xyz/editionmarket/domain/market"
)

func (s *MarketTestSuite) TestAdminRejectBid() {
	req := s.Require()
	key := tokenKey(3000)
	req.NoError(s.uc.PlaceOffer(s.ctx, bob, key, eth("0.2")))

	req.ErrorIs(s.uc.AdminRejectBid(s.ctx, alice, key), market.ErrNotAdmin)
	req.NoError(s.uc.AdminRejectBid(s.ctx, admin, key))
	s.requireBalance(bob, "100")
	req.ErrorIs(s.uc.AdminRejectBid(s.ctx, admin, key), market.ErrNoOpenBid)

	rejected := s.eventsOf(market.EventBidRejected)
	req.Len(rejected, 1)
	req.True(rejected[0].Caller.Equals(admin))
}

func (s *MarketTestSuite) TestEmergencyExitBid() {
	req := s.Require()
	key := market.EditionKey(singleton)
	req.ErrorIs(s.uc.EmergencyExitBid(s.ctx, admin, key), market.ErrNoOpenBid)

	req.NoError(s.uc.ListReserveAuction(s.ctx, creator, key, eth("0.5"), time.Time{}))
	req.NoError(s.uc.PlaceReserveBid(s.ctx, alice, key, eth("0.6")))
	req.ErrorIs(s.uc.EmergencyExitBid(s.ctx, alice, key), market.ErrNotAdmin)
	req.ErrorIs(s.uc.EmergencyExitBid(s.ctx, admin, key), market.ErrListingStillValid)

	s.ledger.SetApprovalForAll(s.ctx, creator, marketAccount, false)
	s.clock.Add(24 * time.Hour)
	req.ErrorIs(s.uc.ResultReserveAuction(s.ctx, alice, key), market.ErrMarketplaceNotApproved)
	s.requireOwner(2000, creator)
	s.requireBalance(alice, "99.4")

	req.NoError(s.uc.EmergencyExitBid(s.ctx, admin, key))
	s.requireBalance(alice, "100")
	s.requireBalance(marketAccount, "0")
	_, err := s.uc.GetListing(s.ctx, key)
	req.ErrorIs(err, market.ErrNoListingFound)
}

func (s *MarketTestSuite) TestPause() {
	req := s.Require()
	ed := market.EditionKey(edition3)
	req.NoError(s.uc.PlaceOffer(s.ctx, bob, tokenKey(3000), eth("0.2")))
	req.NoError(s.uc.ListBuyNow(s.ctx, creator, ed, eth("1"), time.Time{}))

	req.ErrorIs(s.uc.Pause(s.ctx, alice), market.ErrNotAdmin)
	req.NoError(s.uc.Pause(s.ctx, admin))
	req.True(s.uc.Paused(s.ctx))
	req.NoError(s.uc.Pause(s.ctx, admin))
	req.Len(s.eventsOf(market.EventPaused), 1)

	req.ErrorIs(s.uc.ListBuyNow(s.ctx, creator, tokenKey(3001), eth("1"), time.Time{}), market.ErrPaused)
	req.ErrorIs(s.uc.BuyNow(s.ctx, alice, ed, eth("1")), market.ErrPaused)
	req.ErrorIs(s.uc.PlaceOffer(s.ctx, alice, tokenKey(3001), eth("1")), market.ErrPaused)
	req.ErrorIs(s.uc.ConvertBuyNowToOffers(s.ctx, creator, ed, time.Time{}), market.ErrPaused)
	req.ErrorIs(s.uc.AcceptOffer(s.ctx, creator, tokenKey(3000), eth("0.2")), market.ErrPaused)

	// funds can always leave
	s.clock.Add(6 * time.Hour)
	req.NoError(s.uc.WithdrawOffer(s.ctx, bob, tokenKey(3000)))
	s.requireBalance(bob, "100")
	req.NoError(s.uc.ClearListing(s.ctx, creator, ed))

	req.NoError(s.uc.Unpause(s.ctx, admin))
	req.False(s.uc.Paused(s.ctx))
	req.NoError(s.uc.ListBuyNow(s.ctx, creator, ed, eth("1"), time.Time{}))
}

func (s *MarketTestSuite) TestUpdateParams() {
	req := s.Require()
	params := s.uc.Params(s.ctx)
	params.BidLockupPeriod = time.Hour
	params.MinBidAmount = eth("0.5")

	req.ErrorIs(s.uc.UpdateParams(s.ctx, alice, params), market.ErrNotAdmin)
	bad := params.Clone()
	bad.PlatformAccount = ""
	req.ErrorIs(s.uc.UpdateParams(s.ctx, admin, bad), market.ErrInvalidParam)

	req.NoError(s.uc.UpdateParams(s.ctx, admin, params))
	got := s.uc.Params(s.ctx)
	req.Equal(time.Hour, got.BidLockupPeriod)
	req.Equal(0, got.MinBidAmount.Cmp(eth("0.5")))

	key := tokenKey(3000)
	req.ErrorIs(s.uc.PlaceOffer(s.ctx, bob, key, eth("0.4")), market.ErrBidTooLow)
	req.NoError(s.uc.PlaceOffer(s.ctx, bob, key, eth("0.5")))
	s.clock.Add(time.Hour)
	req.NoError(s.uc.WithdrawOffer(s.ctx, bob, key))

	// callers cannot mutate the engine through the returned copy
	got.MinBidAmount.SetInt64(1)
	req.Equal(0, s.uc.Params(s.ctx).MinBidAmount.Cmp(eth("0.5")))
}

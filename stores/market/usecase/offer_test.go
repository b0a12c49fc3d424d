package usecase

import (
	"math/big"
	"time"

	"github.com/x-xyz/editionmarket/domain/market"
)

func (s *MarketTestSuite) TestPlaceOfferOutbidAndReject() {
	req := s.Require()
	key := market.EditionKey(edition3)

	req.ErrorIs(s.uc.PlaceOffer(s.ctx, alice, key, eth("0.005")), market.ErrBidTooLow)
	req.NoError(s.uc.PlaceOffer(s.ctx, alice, key, eth("0.1")))
	req.ErrorIs(s.uc.PlaceOffer(s.ctx, bob, key, eth("0.105")), market.ErrBidTooLow)
	req.NoError(s.uc.PlaceOffer(s.ctx, bob, key, eth("0.11")))
	s.requireBalance(alice, "100")
	s.requireBalance(bob, "99.89")

	req.ErrorIs(s.uc.RejectOffer(s.ctx, carol, key), market.ErrNotSeller)
	req.NoError(s.uc.RejectOffer(s.ctx, creator, key))
	s.requireBalance(bob, "100")
	s.requireBalance(marketAccount, "0")
	req.ErrorIs(s.uc.RejectOffer(s.ctx, creator, key), market.ErrNoOpenBid)

	_, err := s.uc.GetOffer(s.ctx, key)
	req.ErrorIs(err, market.ErrNoOpenBid)
	req.Len(s.eventsOf(market.EventOfferRejected), 1)
}

func (s *MarketTestSuite) TestPlaceOfferInsufficientFunds() {
	req := s.Require()
	key := tokenKey(3000)
	req.Error(s.uc.PlaceOffer(s.ctx, dave, key, eth("1")))

	_, err := s.uc.GetOffer(s.ctx, key)
	req.ErrorIs(err, market.ErrNoOpenBid)
	req.Empty(s.events)
}

func (s *MarketTestSuite) TestOfferLockupBoundary() {
	req := s.Require()
	key := tokenKey(1000)
	placed := s.clock.Now()
	req.NoError(s.uc.PlaceOffer(s.ctx, bob, key, eth("0.2")))

	req.ErrorIs(s.uc.WithdrawOffer(s.ctx, alice, key), market.ErrNotBidder)
	s.clock.Set(placed.Add(6*time.Hour - time.Second))
	req.ErrorIs(s.uc.WithdrawOffer(s.ctx, bob, key), market.ErrLockupNotElapsed)

	s.clock.Set(placed.Add(6 * time.Hour))
	req.NoError(s.uc.WithdrawOffer(s.ctx, bob, key))
	s.requireBalance(bob, "100")
	req.ErrorIs(s.uc.WithdrawOffer(s.ctx, bob, key), market.ErrNoOpenBid)
}

func (s *MarketTestSuite) TestOffersListingNotStarted() {
	req := s.Require()
	key := market.EditionKey(edition3)
	req.NoError(s.uc.ListOffers(s.ctx, creator, key, s.clock.Now().Add(time.Hour)))

	req.ErrorIs(s.uc.PlaceOffer(s.ctx, alice, key, eth("0.1")), market.ErrBiddingNotStarted)
	s.clock.Add(time.Hour)
	req.NoError(s.uc.PlaceOffer(s.ctx, alice, key, eth("0.1")))
}

func (s *MarketTestSuite) TestAcceptOfferGuards() {
	req := s.Require()
	key := tokenKey(3001)
	req.NoError(s.uc.PlaceOffer(s.ctx, alice, key, eth("0.2")))

	req.ErrorIs(s.uc.AcceptOffer(s.ctx, creator, key, eth("0.3")), market.ErrOfferPriceChanged)
	req.ErrorIs(s.uc.AcceptOffer(s.ctx, bob, key, eth("0.2")), market.ErrNotSeller)
	req.ErrorIs(s.uc.AcceptOffer(s.ctx, creator, tokenKey(3002), eth("0.2")), market.ErrNoOpenBid)

	req.NoError(s.uc.AcceptOffer(s.ctx, creator, key, eth("0.2")))
	s.requireOwner(3001, alice)
	s.requireBalance(platform, "0.005")
	s.requireBalance(creator, "0.195")
	s.requireBalance(alice, "99.8")

	accepted := s.eventsOf(market.EventOfferAccepted)
	req.Len(accepted, 1)
	req.True(accepted[0].Bidder.Equals(alice))
	req.True(accepted[0].Seller.Equals(creator))
}

func (s *MarketTestSuite) TestAcceptEditionOfferWithoutListing() {
	req := s.Require()
	key := market.EditionKey(edition3)
	req.NoError(s.uc.PlaceOffer(s.ctx, bob, key, eth("0.4")))

	req.ErrorIs(s.uc.AcceptOffer(s.ctx, carol, key, eth("0.4")), market.ErrNotSeller)
	req.NoError(s.uc.AcceptOffer(s.ctx, creator, key, eth("0.4")))
	s.requireOwner(1000, bob)
	s.requireBalance(platform, "0.06")
}

func (s *MarketTestSuite) TestAcceptEditionOfferForToken() {
	req := s.Require()
	ed := market.EditionKey(edition3)
	req.NoError(s.uc.ListBuyNow(s.ctx, creator, ed, eth("1"), time.Time{}))
	req.NoError(s.uc.BuyNow(s.ctx, alice, ed, eth("1")))
	req.ErrorIs(s.uc.PlaceOffer(s.ctx, bob, ed, eth("0.3")), market.ErrTokenIsListed)
	req.NoError(s.uc.ClearListing(s.ctx, creator, ed))
	req.NoError(s.uc.PlaceOffer(s.ctx, bob, ed, eth("0.3")))

	token := big.NewInt(1000)
	req.NoError(s.uc.ListBuyNow(s.ctx, alice, tokenKey(1000), eth("2"), time.Time{}))
	req.ErrorIs(s.uc.AcceptEditionOfferForToken(s.ctx, alice, edition3, token, eth("0.3")), market.ErrTokenIsListed)
	req.NoError(s.uc.ClearListing(s.ctx, alice, tokenKey(1000)))

	req.ErrorIs(s.uc.AcceptEditionOfferForToken(s.ctx, alice, edition3, big.NewInt(2000), eth("0.3")), market.ErrInvalidParam)
	req.ErrorIs(s.uc.AcceptEditionOfferForToken(s.ctx, carol, edition3, token, eth("0.3")), market.ErrNotSeller)
	req.ErrorIs(s.uc.AcceptEditionOfferForToken(s.ctx, alice, edition3, token, eth("0.31")), market.ErrOfferPriceChanged)

	req.NoError(s.uc.AcceptEditionOfferForToken(s.ctx, alice, edition3, token, eth("0.3")))
	s.requireOwner(1000, bob)
	s.requireBalance(platform, "0.1575")
	s.requireBalance(alice, "99.2925")
	s.requireBalance(marketAccount, "0")

	_, err := s.uc.GetOffer(s.ctx, ed)
	req.ErrorIs(err, market.ErrNoOpenBid)
}

func (s *MarketTestSuite) TestEditionOfferOnSoldOutEdition() {
	req := s.Require()
	key := market.EditionKey(singleton)
	req.NoError(s.uc.ListBuyNow(s.ctx, creator, key, eth("1"), time.Time{}))
	req.NoError(s.uc.BuyNow(s.ctx, alice, key, eth("1")))

	req.ErrorIs(s.uc.PlaceOffer(s.ctx, bob, key, eth("0.5")), market.ErrPrimaryMarketExhausted)
	// the token itself still trades
	req.NoError(s.uc.PlaceOffer(s.ctx, bob, tokenKey(2000), eth("0.5")))
}

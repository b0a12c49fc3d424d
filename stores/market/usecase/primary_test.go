package usecase

import (
	"math/big"
	"time"

	"github.com/x-xyz/editionmarket/domain/market"
)

func (s *MarketTestSuite) TestEditionSaleSkipsListedTokens() {
	req := s.Require()
	ed := market.EditionKey(edition3)
	req.NoError(s.uc.ListBuyNow(s.ctx, creator, tokenKey(1000), eth("2"), time.Time{}))

	req.NoError(s.uc.PlaceOffer(s.ctx, bob, ed, eth("0.5")))
	req.NoError(s.uc.AcceptOffer(s.ctx, creator, ed, eth("0.5")))
	s.requireOwner(1001, bob)
	s.requireOwner(1000, creator)
	s.requireMode(tokenKey(1000), market.ModeBuyNow)

	// the only stock left is listed on its own
	req.NoError(s.uc.ListBuyNow(s.ctx, creator, tokenKey(1002), eth("2"), time.Time{}))
	req.NoError(s.uc.PlaceOffer(s.ctx, carol, ed, eth("0.5")))
	req.ErrorIs(s.uc.AcceptOffer(s.ctx, creator, ed, eth("0.5")), market.ErrTokenIsListed)
	s.requireOwner(1002, creator)
	s.requireBalance(carol, "99.5")
	o, err := s.uc.GetOffer(s.ctx, ed)
	req.NoError(err)
	req.True(o.Bidder.Equals(carol))

	req.NoError(s.uc.ListBuyNow(s.ctx, creator, ed, eth("1"), time.Time{}))
	req.ErrorIs(s.uc.BuyNow(s.ctx, alice, ed, eth("1")), market.ErrTokenIsListed)
	s.requireBalance(alice, "100")

	req.NoError(s.uc.ClearListing(s.ctx, creator, tokenKey(1002)))
	req.NoError(s.uc.BuyNow(s.ctx, alice, ed, eth("1")))
	s.requireOwner(1002, alice)
}

func (s *MarketTestSuite) TestEditionSaleLeavesAuctionedTokenAlone() {
	req := s.Require()
	ed := market.EditionKey(edition3)
	req.NoError(s.uc.ListReserveAuction(s.ctx, creator, tokenKey(1000), eth("1"), time.Time{}))
	req.NoError(s.uc.PlaceReserveBid(s.ctx, alice, tokenKey(1000), eth("2")))

	req.NoError(s.uc.ListBuyNow(s.ctx, creator, ed, eth("1"), time.Time{}))
	req.NoError(s.uc.BuyNow(s.ctx, bob, ed, eth("1")))
	s.requireOwner(1001, bob)
	s.requireOwner(1000, creator)

	s.clock.Add(24 * time.Hour)
	req.NoError(s.uc.ResultReserveAuction(s.ctx, alice, tokenKey(1000)))
	s.requireOwner(1000, alice)
	s.requireBalance(alice, "98")
	s.requireBalance(marketAccount, "0")
}

func (s *MarketTestSuite) TestTokenOfLiveEditionAuctionCannotBeSoldAside() {
	req := s.Require()
	ed := market.EditionKey(singleton)
	req.NoError(s.uc.ListReserveAuction(s.ctx, creator, ed, eth("1"), time.Time{}))
	req.NoError(s.uc.PlaceReserveBid(s.ctx, alice, ed, eth("1")))

	req.ErrorIs(s.uc.ListBuyNow(s.ctx, creator, tokenKey(2000), eth("5"), time.Time{}), market.ErrAuctionInFlight)
	req.NoError(s.uc.PlaceOffer(s.ctx, bob, tokenKey(2000), eth("5")))
	req.ErrorIs(s.uc.AcceptOffer(s.ctx, creator, tokenKey(2000), eth("5")), market.ErrAuctionInFlight)
	s.requireOwner(2000, creator)

	s.clock.Add(24 * time.Hour)
	req.NoError(s.uc.ResultReserveAuction(s.ctx, creator, ed))
	s.requireOwner(2000, alice)
}

func (s *MarketTestSuite) TestSecondaryHolderCannotSellPrimary() {
	req := s.Require()
	ed := market.EditionKey(edition3)
	s.royalty.SetEditionRoyalty(edition3, artist, 1_000_000)

	req.NoError(s.uc.ListBuyNow(s.ctx, creator, ed, eth("1"), time.Time{}))
	req.NoError(s.uc.BuyNow(s.ctx, alice, ed, eth("1")))
	s.requireOwner(1000, alice)
	req.NoError(s.uc.ClearListing(s.ctx, creator, ed))

	req.NoError(s.uc.PlaceOffer(s.ctx, bob, ed, eth("1")))
	req.ErrorIs(s.uc.AcceptOffer(s.ctx, alice, ed, eth("1")), market.ErrNotSeller)
	req.ErrorIs(s.uc.ListBuyNow(s.ctx, alice, ed, eth("1"), time.Time{}), market.ErrNotOwner)

	// the holder fills the edition offer as a secondary sale and the royalty is paid
	req.NoError(s.uc.AcceptEditionOfferForToken(s.ctx, alice, edition3, big.NewInt(1000), eth("1")))
	s.requireOwner(1000, bob)
	s.requireBalance(artist, "0.1")
	s.requireBalance(alice, "99.875")

	// the creator still sells the rest of the edition
	req.NoError(s.uc.ListBuyNow(s.ctx, creator, ed, eth("1"), time.Time{}))
	req.NoError(s.uc.BuyNow(s.ctx, carol, ed, eth("1")))
	req.NoError(s.uc.BuyNow(s.ctx, carol, ed, eth("1")))
	s.requireOwner(1001, carol)
	s.requireOwner(1002, carol)
	req.ErrorIs(s.uc.BuyNow(s.ctx, carol, ed, eth("1")), market.ErrPrimaryMarketExhausted)
	s.requireBalance(artist, "0.1")
}

func (s *MarketTestSuite) TestTokenSaleRetiresPrimaryStock() {
	req := s.Require()
	ed := market.EditionKey(edition3)

	req.NoError(s.uc.ListBuyNow(s.ctx, creator, tokenKey(1000), eth("1"), time.Time{}))
	req.NoError(s.uc.BuyNow(s.ctx, alice, tokenKey(1000), eth("1")))
	s.requireOwner(1000, alice)

	req.ErrorIs(s.uc.ListBuyNow(s.ctx, alice, ed, eth("1"), time.Time{}), market.ErrNotOwner)
	req.NoError(s.uc.ListBuyNow(s.ctx, creator, ed, eth("1"), time.Time{}))
	req.NoError(s.uc.BuyNow(s.ctx, bob, ed, eth("1")))
	req.NoError(s.uc.BuyNow(s.ctx, bob, ed, eth("1")))
	req.ErrorIs(s.uc.BuyNow(s.ctx, bob, ed, eth("1")), market.ErrPrimaryMarketExhausted)
}

func (s *MarketTestSuite) TestEditionOfferFilledFromPrimaryStock() {
	req := s.Require()
	ed := market.EditionKey(edition3)
	s.royalty.SetEditionRoyalty(edition3, artist, 1_000_000)

	req.NoError(s.uc.PlaceOffer(s.ctx, bob, ed, eth("1")))
	req.NoError(s.uc.AcceptEditionOfferForToken(s.ctx, creator, edition3, big.NewInt(1001), eth("1")))
	s.requireOwner(1001, bob)
	s.requireBalance(platform, "0.15")
	s.requireBalance(creator, "0.85")
	s.requireBalance(artist, "0")

	accepted := s.eventsOf(market.EventOfferAccepted)
	req.Len(accepted, 1)
	req.Equal("1001", accepted[0].TokenId)

	req.NoError(s.uc.ListBuyNow(s.ctx, creator, ed, eth("1"), time.Time{}))
	req.NoError(s.uc.BuyNow(s.ctx, alice, ed, eth("1")))
	s.requireOwner(1000, alice)
	req.NoError(s.uc.BuyNow(s.ctx, alice, ed, eth("1")))
	s.requireOwner(1002, alice)
	req.ErrorIs(s.uc.BuyNow(s.ctx, alice, ed, eth("1")), market.ErrPrimaryMarketExhausted)
}

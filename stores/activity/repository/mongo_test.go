package repository

import (
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/database/mongoclient"
	"github.com/x-xyz/editionmarket/base/ptr"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/activity"
	"github.com/x-xyz/editionmarket/domain/market"
	"github.com/x-xyz/editionmarket/service/query"
)

func TestMakeFindQuery(t *testing.T) {
	key := market.EditionKey(big.NewInt(1000))
	acc := domain.Address("0xab")
	qry, err := makeFindQuery(activity.FindAllOptions{
		Types:   []market.EventType{market.EventBidPlaced, market.EventBidRefunded},
		Key:     &key,
		Account: &acc,
	})
	require.NoError(t, err)
	require.Equal(t, bson.M{
		"type":     bson.M{"$in": []market.EventType{market.EventBidPlaced, market.EventBidRefunded}},
		"scope":    market.ScopeEdition,
		"keyId":    "1000",
		"accounts": acc,
	}, qry)

	qry, err = makeFindQuery(activity.FindAllOptions{Types: []market.EventType{market.EventPaused}})
	require.NoError(t, err)
	require.Equal(t, bson.M{"type": market.EventPaused}, qry)

	qry, err = makeFindQuery(activity.FindAllOptions{TokenId: ptr.String("1002")})
	require.NoError(t, err)
	require.Equal(t, bson.M{"tokenId": "1002"}, qry)
}

// activitySuite needs a live server, set TEST_MONGO_URI to run it
type activitySuite struct {
	suite.Suite
	client *mongoclient.Client
	repo   activity.Repo
}

func TestActivitySuite(t *testing.T) {
	if os.Getenv("TEST_MONGO_URI") == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	suite.Run(t, new(activitySuite))
}

func (s *activitySuite) SetupSuite() {
	s.client = mongoclient.MustConnectMongoClient(mongoclient.Config{
		URI:    os.Getenv("TEST_MONGO_URI"),
		AuthDB: "admin",
		DbName: "test",
	})
	s.repo = NewActivityRepo(query.New(s.client, false))
}

func (s *activitySuite) TearDownSuite() {
	s.client.Close()
}

func (s *activitySuite) SetupTest() {
	c := ctx.Background()
	s.Require().NoError(s.client.Database("test").Collection(string(domain.TableActivities)).Drop(c))
}

func (s *activitySuite) TestInsertAndFind() {
	c := ctx.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	key := market.TokenKey(big.NewInt(1001))
	for i, typ := range []market.EventType{market.EventOfferPlaced, market.EventOfferAccepted, market.EventListingCreated} {
		a := activity.FromEvent(market.Event{
			Id:     string(rune('a' + i)),
			Type:   typ,
			Key:    key,
			Bidder: "0x00000000000000000000000000000000000000b1",
			Time:   base.Add(time.Duration(i) * time.Minute),
		})
		s.Require().NoError(s.repo.Insert(c, a))
	}
	// replays are ignored
	s.Require().NoError(s.repo.Insert(c, &activity.Activity{Id: "a", Type: market.EventOfferPlaced}))

	res, err := s.repo.FindAll(c, activity.WithKey(key), activity.WithPagination(0, 2))
	s.Require().NoError(err)
	s.Require().Len(res, 2)
	s.Equal("c", res[0].Id)
	s.Equal("b", res[1].Id)

	cnt, err := s.repo.Count(c, activity.WithAccount("0x00000000000000000000000000000000000000B1"))
	s.Require().NoError(err)
	s.Equal(3, cnt)

	cnt, err = s.repo.Count(c, activity.WithTypes(market.EventOfferAccepted))
	s.Require().NoError(err)
	s.Equal(1, cnt)
}

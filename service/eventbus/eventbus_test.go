package eventbus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain/market"
)

type busSuite struct {
	suite.Suite
	bus Bus
}

func TestBus(t *testing.T) {
	suite.Run(t, new(busSuite))
}

func (s *busSuite) SetupTest() {
	s.bus = New()
}

func (s *busSuite) TestTopics() {
	var typed, all []market.EventType
	s.Require().NoError(s.bus.Subscribe(Topic(market.EventBidPlaced), func(c ctx.Ctx, evt market.Event) {
		typed = append(typed, evt.Type)
	}))
	s.Require().NoError(s.bus.Subscribe(TopicAll, func(c ctx.Ctx, evt market.Event) {
		all = append(all, evt.Type)
	}))

	s.bus.Publish(ctx.Background(), market.Event{Type: market.EventBidPlaced})
	s.bus.Publish(ctx.Background(), market.Event{Type: market.EventOfferPlaced})

	s.Equal([]market.EventType{market.EventBidPlaced}, typed)
	s.Equal([]market.EventType{market.EventBidPlaced, market.EventOfferPlaced}, all)
}

func (s *busSuite) TestAsync() {
	mu := sync.Mutex{}
	ids := []string{}
	s.Require().NoError(s.bus.SubscribeAsync(TopicAll, func(c ctx.Ctx, evt market.Event) {
		mu.Lock()
		defer mu.Unlock()
		ids = append(ids, evt.Id)
	}))

	for _, id := range []string{"a", "b", "c"} {
		s.bus.Publish(ctx.Background(), market.Event{Id: id, Type: market.EventListingCreated})
	}
	s.bus.WaitAsync()

	mu.Lock()
	defer mu.Unlock()
	s.Equal([]string{"a", "b", "c"}, ids)
}

func (s *busSuite) TestUnsubscribe() {
	calls := 0
	h := Handler(func(c ctx.Ctx, evt market.Event) { calls++ })
	s.Require().NoError(s.bus.Subscribe(TopicAll, h))
	s.bus.Publish(ctx.Background(), market.Event{Type: market.EventPaused})
	s.Require().NoError(s.bus.Unsubscribe(TopicAll, h))
	s.bus.Publish(ctx.Background(), market.Event{Type: market.EventPaused})
	s.Equal(1, calls)
}

package eventbus

import (
	evbus "github.com/asaskevich/EventBus"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/domain/market"
)

// TopicAll receives every market event
const TopicAll = "market:*"

// Topic is the topic a single event type is published on
func Topic(typ market.EventType) string {
	return "market:" + string(typ)
}

type Handler func(c ctx.Ctx, evt market.Event)

// Bus fans market events out to in-process subscribers.
type Bus interface {
	market.Publisher
	Subscribe(topic string, h Handler) error
	// SubscribeAsync runs h off the publishing goroutine, one event at a time
	SubscribeAsync(topic string, h Handler) error
	Unsubscribe(topic string, h Handler) error
	// WaitAsync blocks until async handlers drained what was published so far
	WaitAsync()
}

type impl struct {
	bus evbus.Bus
}

func New() Bus {
	return &impl{bus: evbus.New()}
}

func (im *impl) Publish(c ctx.Ctx, evt market.Event) {
	im.bus.Publish(Topic(evt.Type), c, evt)
	im.bus.Publish(TopicAll, c, evt)
}

func (im *impl) Subscribe(topic string, h Handler) error {
	if err := im.bus.Subscribe(topic, h); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "topic": topic}).Error("bus.Subscribe failed")
		return err
	}
	return nil
}

func (im *impl) SubscribeAsync(topic string, h Handler) error {
	if err := im.bus.SubscribeAsync(topic, h, true); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "topic": topic}).Error("bus.SubscribeAsync failed")
		return err
	}
	return nil
}

func (im *impl) Unsubscribe(topic string, h Handler) error {
	return im.bus.Unsubscribe(topic, h)
}

func (im *impl) WaitAsync() {
	im.bus.WaitAsync()
}

package event_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"lexiquiz/internal/event"
)

func TestBus_PublishSubscribe(t *testing.T) {
	type (
		inputs struct {
			published   []event.Event
			subscribers []subscriber
		}

		outputs struct {
			received map[string][]event.Event
		}
	)

	tests := map[string]struct {
		arrange func() inputs
		assert  func(t *testing.T, out outputs)
	}{
		"a subscriber only receives the events it subscribed to": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						eventWithName("challenge.started"),
						eventWithName("challenge.finished"),
					},
					subscribers: []subscriber{
						{name: "s1", subscribeTo: []string{"challenge.started"}},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.ElementsMatch(t, []event.Event{eventWithName("challenge.started")}, out.received["s1"])
			},
		},

		"repeated events are all delivered": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						eventWithName("challenge.started"),
						eventWithName("challenge.started"),
					},
					subscribers: []subscriber{
						{name: "s1", subscribeTo: []string{"challenge.started"}},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.Len(t, out.received["s1"], 2)
			},
		},

		"an event fans out to every subscriber": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						eventWithName("challenge.finished"),
					},
					subscribers: []subscriber{
						{name: "s1", subscribeTo: []string{"challenge.finished"}},
						{name: "s2", subscribeTo: []string{"challenge.finished"}},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.ElementsMatch(t, []event.Event{eventWithName("challenge.finished")}, out.received["s1"])
				assert.ElementsMatch(t, []event.Event{eventWithName("challenge.finished")}, out.received["s2"])
			},
		},

		"mixed subscriptions are routed independently": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						eventWithName("challenge.started"),
						eventWithName("challenge.finished"),
						eventWithName("challenge.started"),
					},
					subscribers: []subscriber{
						{name: "s1", subscribeTo: []string{"challenge.started"}},
						{name: "s2", subscribeTo: []string{"challenge.started", "challenge.finished"}},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.Len(t, out.received["s1"], 2)
				assert.Len(t, out.received["s2"], 3)
			},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in := tt.arrange()
			mu := sync.Mutex{}
			out := outputs{received: make(map[string][]event.Event)}

			b := event.NewBus()
			for _, s := range in.subscribers {
				for _, e := range s.subscribeTo {
					b.Subscribe(e, func(ctx context.Context, e event.Event) error {
						mu.Lock()
						out.received[s.name] = append(out.received[s.name], e)
						mu.Unlock()
						return nil
					})
				}
			}

			for _, e := range in.published {
				b.Publish(context.Background(), e)
			}
			b.Stop()

			tt.assert(t, out)
		})
	}
}

func TestBus_HandlerFailuresAreIsolated(t *testing.T) {
	t.Parallel()

	b := event.NewBus()

	var mu sync.Mutex
	var delivered int
	b.Subscribe("e1", func(context.Context, event.Event) error {
		return errors.New("boom")
	})
	b.Subscribe("e1", func(context.Context, event.Event) error {
		panic("boom")
	})
	b.Subscribe("e1", func(context.Context, event.Event) error {
		mu.Lock()
		delivered++
		mu.Unlock()
		return nil
	})

	b.Publish(context.Background(), eventWithName("e1"))
	b.Stop()

	assert.Equal(t, 1, delivered, "a failing handler must not affect the others")
}

type eventWithName string

func (e eventWithName) Name() string {
	return string(e)
}

type subscriber struct {
	name        string
	subscribeTo []string
}

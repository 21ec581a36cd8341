package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type testEvent struct{ payload string }

func (testEvent) Name() string { return "test.event" }

type testKey struct{}

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := New(zap.NewNop())

	var mu sync.Mutex
	var got []string
	bus.Subscribe("test.event", func(_ context.Context, ev Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev.(testEvent).payload)
		return nil
	})

	bus.Publish(context.Background(), testEvent{payload: "hello"})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0] == "hello"
	}, time.Second, 10*time.Millisecond)
}

func TestPublishPropagatesContextValues(t *testing.T) {
	bus := New(zap.NewNop())

	var mu sync.Mutex
	var seen string
	bus.Subscribe("test.event", func(ctx context.Context, _ Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen, _ = ctx.Value(testKey{}).(string)
		return nil
	})

	ctx := context.WithValue(context.Background(), testKey{}, "operator-7")
	bus.Publish(ctx, testEvent{})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen == "operator-7"
	}, time.Second, 10*time.Millisecond)
}

func TestPublishSurvivesCallerCancellation(t *testing.T) {
	bus := New(zap.NewNop())

	var mu sync.Mutex
	var delivered, cancelled bool
	bus.Subscribe("test.event", func(ctx context.Context, _ Event) error {
		mu.Lock()
		defer mu.Unlock()
		delivered = true
		cancelled = ctx.Err() != nil
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, testEvent{})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return delivered
	}, time.Second, 10*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, cancelled)
}

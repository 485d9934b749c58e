package channels_test

import (
	"context"
	"testing"
	"time"

	"github.com/alkime/fader/pkg/channels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOut_RequiresSubscribers(t *testing.T) {
	t.Parallel()

	f := channels.NewFanOut[int]()

	_, err := f.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no subscribers")
}

func TestFanOut_BroadcastsToAllSubscribers(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := make(chan []byte, 4)
	b := make(chan []byte, 4)

	f := channels.NewFanOut[[]byte]()
	f.Subscribe(a)
	f.Subscribe(b)

	input, err := f.Run(ctx)
	require.NoError(t, err)

	input <- []byte{1, 2}

	for _, sub := range []chan []byte{a, b} {
		select {
		case got := <-sub:
			assert.Equal(t, []byte{1, 2}, got)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the message")
		}
	}
}

func TestFanOut_DropsWhenSubscriberFull(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	full := make(chan int) // unbuffered, nobody reading
	ok := make(chan int, 8)

	f := channels.NewFanOut[int]()
	f.Subscribe(full)
	f.Subscribe(ok)

	input, err := f.Run(ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		input <- i
	}

	cancel()
	f.Wait()

	// The healthy subscriber got everything despite the stuck one.
	assert.Len(t, ok, 3)
}

func TestFanOut_CannotRunTwice(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := channels.NewFanOut[int]()
	f.Subscribe(make(chan int, 1))

	_, err := f.Run(ctx)
	require.NoError(t, err)

	_, err = f.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already started")
}

package observable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReplaysCurrentValue(t *testing.T) {
	v := New(7)

	var got []int
	dispose := v.Subscribe(func(n int) { got = append(got, n) })
	defer dispose()

	assert.Equal(t, []int{7}, got)
	assert.Equal(t, 7, v.Get())
}

func TestSetDeliversInSubscriptionOrder(t *testing.T) {
	v := New("a")

	var order []string
	v.Subscribe(func(s string) { order = append(order, "first:"+s) })
	v.Subscribe(func(s string) { order = append(order, "second:"+s) })

	order = nil
	v.Set("b")

	assert.Equal(t, []string{"first:b", "second:b"}, order)
	assert.Equal(t, "b", v.Get())
}

func TestDisposerIsIdempotent(t *testing.T) {
	v := New(0)

	calls := 0
	dispose := v.Subscribe(func(int) { calls++ })
	require.Equal(t, 1, v.Subscribers())

	dispose()
	dispose()
	v.Set(1)

	assert.Equal(t, 1, calls, "only the replay should have been delivered")
	assert.Equal(t, 0, v.Subscribers())
}

func TestDisposeDuringDeliveryStopsLaterSubscriber(t *testing.T) {
	v := New(0)

	var second Disposer
	secondCalls := 0
	v.Subscribe(func(n int) {
		if n == 1 && second != nil {
			second()
		}
	})
	second = v.Subscribe(func(int) { secondCalls++ })
	require.Equal(t, 1, secondCalls)

	v.Set(1)

	assert.Equal(t, 1, secondCalls, "disposed subscriber must not see the value being delivered")
	assert.Equal(t, 1, v.Subscribers())
}

func TestNestedSetIsDeliveredSynchronously(t *testing.T) {
	v := New(0)

	var seen []int
	v.Subscribe(func(n int) {
		seen = append(seen, n)
		if n == 1 {
			v.Set(2)
		}
	})

	seen = nil
	v.Set(1)

	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 2, v.Get())
}

func TestSubscribeDuringDeliveryOnlyGetsReplay(t *testing.T) {
	v := New(0)

	var late []int
	subscribed := false
	v.Subscribe(func(n int) {
		if n == 1 && !subscribed {
			subscribed = true
			v.Subscribe(func(m int) { late = append(late, m) })
		}
	})

	v.Set(1)
	assert.Equal(t, []int{1}, late)

	v.Set(3)
	assert.Equal(t, []int{1, 3}, late)
}

func TestChainedValuesCascadeWithinOneCall(t *testing.T) {
	position := New(1)
	derived := New(0)

	position.Subscribe(func(p int) { derived.Set(p * 10) })

	var rendered []int
	derived.Subscribe(func(d int) { rendered = append(rendered, d) })

	position.Set(4)

	assert.Equal(t, 40, derived.Get())
	assert.Equal(t, []int{10, 40}, rendered)
}

func TestBagReleasesEverythingOnce(t *testing.T) {
	a := New(0)
	b := New("")

	var bag Bag
	bag.Add(a.Subscribe(func(int) {}))
	bag.Add(b.Subscribe(func(string) {}))
	bag.Add(nil)
	require.Equal(t, 2, bag.Len())

	bag.Release()
	bag.Release()

	assert.Equal(t, 0, a.Subscribers())
	assert.Equal(t, 0, b.Subscribers())
	assert.Equal(t, 0, bag.Len())
}

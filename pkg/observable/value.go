// Package observable provides a push-based mutable cell with replay semantics.
//
// A Value holds a current value. Set overwrites it and delivers the new value
// to every active subscriber before returning, in subscription order.
// Subscribe delivers the current value to the new subscriber immediately and
// then registers it for future updates.
//
// Delivery is synchronous and happens on the caller's goroutine. Handlers may
// call Set (on this or any other Value), Subscribe, or dispose subscriptions
// while a delivery is in progress:
//   - a nested Set is delivered immediately, before the outer delivery resumes;
//   - a subscriber disposed during delivery receives nothing further, not even
//     the remainder of the value currently being delivered;
//   - a subscriber added during delivery only sees its replay and later sets.
//
// Values are not safe for concurrent use. Callers that share a Value between
// goroutines must serialize access themselves (pkg/engine does this for the
// whole path graph).
package observable

// Disposer releases a subscription. Calling it more than once is a no-op.
type Disposer func()

type subscriber[T any] struct {
	fn     func(T)
	active bool
}

// Value is a single observable, mutable value.
type Value[T any] struct {
	current T
	subs    []*subscriber[T]
}

// New creates a Value holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the current value without side effects.
func (v *Value[T]) Get() T {
	return v.current
}

// Set overwrites the current value and delivers it to every active subscriber.
func (v *Value[T]) Set(val T) {
	v.current = val

	// Iterate over a copy so that subscriptions added or removed by a handler
	// do not disturb this delivery pass.
	snapshot := make([]*subscriber[T], len(v.subs))
	copy(snapshot, v.subs)

	for _, s := range snapshot {
		if !s.active {
			continue
		}
		s.fn(val)
	}
}

// Subscribe invokes fn with the current value, registers it for future
// updates and returns a Disposer that unregisters it.
func (v *Value[T]) Subscribe(fn func(T)) Disposer {
	s := &subscriber[T]{fn: fn, active: true}
	v.subs = append(v.subs, s)

	fn(v.current)

	return func() {
		if !s.active {
			return
		}
		s.active = false
		v.remove(s)
	}
}

// Subscribers returns the number of active subscriptions.
func (v *Value[T]) Subscribers() int {
	return len(v.subs)
}

func (v *Value[T]) remove(target *subscriber[T]) {
	for i, s := range v.subs {
		if s == target {
			v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
			return
		}
	}
}

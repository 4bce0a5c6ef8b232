package observable

// Bag collects the disposers of an owner so they can be released together.
// The zero value is ready to use.
type Bag struct {
	disposers []Disposer
}

// Add stores d in the bag.
func (b *Bag) Add(d Disposer) {
	if d == nil {
		return
	}
	b.disposers = append(b.disposers, d)
}

// Len returns the number of disposers held.
func (b *Bag) Len() int {
	return len(b.disposers)
}

// Release calls every stored disposer in reverse order and empties the bag.
// Releasing an empty bag does nothing.
func (b *Bag) Release() {
	ds := b.disposers
	b.disposers = nil
	for i := len(ds) - 1; i >= 0; i-- {
		ds[i]()
	}
}

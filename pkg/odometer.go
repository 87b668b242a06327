// Package pkg is a package that provides utilities for gridpatch.
package pkg

// Odometer is a generic multi-counter over a list of wheels. It enumerates
// every combination of one element per wheel, with the LAST wheel varying
// fastest, like the rightmost digit of a car odometer.
//
// Zero wheels produce exactly one combination (the empty one). A wheel with
// zero elements produces no combinations at all.
type Odometer[T any] struct {
	wheels   [][]T
	counters []int
	done     bool
}

// NewOdometer creates an Odometer positioned at the first combination.
func NewOdometer[T any](wheels [][]T) *Odometer[T] {
	o := &Odometer[T]{
		wheels:   wheels,
		counters: make([]int, len(wheels)),
	}

	for _, wheel := range wheels {
		if len(wheel) == 0 {
			o.done = true
		}
	}

	return o
}

// Len returns the total number of combinations: the product of the wheel
// sizes, or 1 when there are no wheels.
func (o *Odometer[T]) Len() uint64 {
	total := uint64(1)
	for _, wheel := range o.wheels {
		total *= uint64(len(wheel))
	}

	return total
}

// Next returns the current combination and advances, or (nil, false) once
// every combination has been produced. The returned slice is freshly
// allocated on each call.
func (o *Odometer[T]) Next() ([]T, bool) {
	if o.done {
		return nil, false
	}

	combo := make([]T, len(o.wheels))
	for i, wheel := range o.wheels {
		combo[i] = wheel[o.counters[i]]
	}

	// Advance with carry, last wheel fastest.
	i := len(o.counters) - 1
	for ; i >= 0; i-- {
		o.counters[i]++
		if o.counters[i] < len(o.wheels[i]) {
			break
		}

		o.counters[i] = 0
	}

	if i < 0 {
		o.done = true
	}

	return combo, true
}

// Reset rewinds the odometer to the first combination.
func (o *Odometer[T]) Reset() {
	for i := range o.counters {
		o.counters[i] = 0
	}

	o.done = false

	for _, wheel := range o.wheels {
		if len(wheel) == 0 {
			o.done = true
		}
	}
}

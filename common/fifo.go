package common

// Fifo is a first-in first-out container backed by a slice.
// It is not safe for concurrent use.
type Fifo[T any] struct {
	data []T
}

func (f *Fifo[T]) Push(element T) {
	f.data = append(f.data, element)
}

func (f *Fifo[T]) Pop() (T, bool) {
	var zero T
	if f.isEmpty() {
		return zero, false
	}
	element := f.data[0]
	f.data[0] = zero
	f.data = f.data[1:]
	if f.isEmpty() {
		f.data = nil // drop the backing array once drained
	}
	return element, true
}

func (f *Fifo[T]) Peek() (T, bool) {
	if f.isEmpty() {
		var zero T
		return zero, false
	}
	return f.data[0], true
}

func (f *Fifo[T]) isEmpty() bool {
	return f.Size() == 0
}

func (f *Fifo[T]) Size() int {
	return len(f.data)
}

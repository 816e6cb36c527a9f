package concurrency

// Operation names the blocking side of the queue.
type Operation string

const (
	OpPut  Operation = "put"
	OpTake Operation = "take"
)

// Observer is notified of queue activity from inside the queue's critical
// section. Implementations must not call back into the queue.
type Observer interface {
	OrderPut(length, capacity int)
	OrderTaken(length, capacity int)
	Blocked(op Operation)
	Cancelled(op Operation)
}

type noopObserver struct{}

func (noopObserver) OrderPut(int, int)   {}
func (noopObserver) OrderTaken(int, int) {}
func (noopObserver) Blocked(Operation)   {}
func (noopObserver) Cancelled(Operation) {}

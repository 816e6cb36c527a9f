package concurrency

import (
	"context"
	"fmt"
	"sync"

	"training.pl/warehouse/common"
)

// QueueStats is a point-in-time snapshot of a BoundedOrderQueue.
type QueueStats struct {
	Capacity       int   `json:"capacity"`
	Length         int   `json:"length"`
	Puts           int64 `json:"puts"`
	Takes          int64 `json:"takes"`
	BlockedPuts    int64 `json:"blocked_puts"`
	BlockedTakes   int64 `json:"blocked_takes"`
	CancelledPuts  int64 `json:"cancelled_puts"`
	CancelledTakes int64 `json:"cancelled_takes"`
	OrdersIssued   int64 `json:"orders_issued"`
}

// BoundedOrderQueue is a FIFO of orders with a fixed capacity. Put blocks
// while the queue is full and Take blocks while it is empty.
//
// A single mutex serializes every producer and consumer. notFull and
// notEmpty share that mutex.
type BoundedOrderQueue struct {
	mutex     sync.Mutex
	notFull   *sync.Cond
	notEmpty  *sync.Cond
	storage   common.Fifo[Order]
	capacity  int
	generator *OrderGenerator
	observer  Observer
	stats     QueueStats
}

type QueueOption func(*BoundedOrderQueue)

// WithGenerator shares an id generator between queues.
func WithGenerator(generator *OrderGenerator) QueueOption {
	return func(q *BoundedOrderQueue) {
		q.generator = generator
	}
}

func WithObserver(observer Observer) QueueOption {
	return func(q *BoundedOrderQueue) {
		if observer != nil {
			q.observer = observer
		}
	}
}

func NewBoundedOrderQueue(capacity int, options ...QueueOption) (*BoundedOrderQueue, error) {
	if capacity <= 0 {
		return nil, common.NewError(common.ErrValidation, fmt.Sprintf("queue capacity must be positive, got %d", capacity)).
			WithDetail("capacity", capacity)
	}
	q := &BoundedOrderQueue{
		capacity: capacity,
		observer: noopObserver{},
	}
	q.notFull = sync.NewCond(&q.mutex)
	q.notEmpty = sync.NewCond(&q.mutex)
	for _, option := range options {
		option(q)
	}
	if q.generator == nil {
		q.generator = NewOrderGenerator()
	}
	return q, nil
}

// wakeOnDone wakes every waiter once ctx is done so blocked callers can
// notice the cancellation. The returned func must be called to release it.
func (q *BoundedOrderQueue) wakeOnDone(ctx context.Context) func() bool {
	return context.AfterFunc(ctx, func() {
		q.mutex.Lock()
		q.notFull.Broadcast()
		q.notEmpty.Broadcast()
		q.mutex.Unlock()
	})
}

// Put appends order to the tail, waiting while the queue is full. When ctx
// is done first the queue is left untouched and a cancellation error is returned.
func (q *BoundedOrderQueue) Put(ctx context.Context, order Order) error {
	stop := q.wakeOnDone(ctx)
	defer stop()

	q.mutex.Lock()
	defer q.mutex.Unlock()

	blocked := false
	for q.storage.Size() >= q.capacity {
		if err := ctx.Err(); err != nil {
			return q.cancelled(OpPut, err)
		}
		if !blocked {
			blocked = true
			q.stats.BlockedPuts++
			q.observer.Blocked(OpPut)
		}
		q.notFull.Wait()
	}
	if err := ctx.Err(); err != nil {
		return q.cancelled(OpPut, err)
	}

	q.storage.Push(order)
	q.stats.Puts++
	q.observer.OrderPut(q.storage.Size(), q.capacity)
	q.notEmpty.Broadcast()
	return nil
}

// Take removes the oldest order, waiting while the queue is empty.
func (q *BoundedOrderQueue) Take(ctx context.Context) (Order, error) {
	stop := q.wakeOnDone(ctx)
	defer stop()

	q.mutex.Lock()
	defer q.mutex.Unlock()

	blocked := false
	for q.storage.Size() == 0 {
		if err := ctx.Err(); err != nil {
			return Order{}, q.cancelled(OpTake, err)
		}
		if !blocked {
			blocked = true
			q.stats.BlockedTakes++
			q.observer.Blocked(OpTake)
		}
		q.notEmpty.Wait()
	}
	if err := ctx.Err(); err != nil {
		return Order{}, q.cancelled(OpTake, err)
	}

	order, _ := q.storage.Pop()
	q.stats.Takes++
	q.observer.OrderTaken(q.storage.Size(), q.capacity)
	q.notFull.Broadcast()
	return order, nil
}

// cancelled must be called with the mutex held.
func (q *BoundedOrderQueue) cancelled(op Operation, cause error) error {
	if op == OpPut {
		q.stats.CancelledPuts++
	} else {
		q.stats.CancelledTakes++
	}
	q.observer.Cancelled(op)
	return common.Cancelled(string(op), cause)
}

// GenerateRandomOrder creates an order with a fresh id. It does not enqueue it.
func (q *BoundedOrderQueue) GenerateRandomOrder() Order {
	return q.generator.Next()
}

func (q *BoundedOrderQueue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return q.storage.Size()
}

func (q *BoundedOrderQueue) Cap() int {
	return q.capacity
}

func (q *BoundedOrderQueue) Stats() QueueStats {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	stats := q.stats
	stats.Capacity = q.capacity
	stats.Length = q.storage.Size()
	stats.OrdersIssued = q.generator.Issued()
	return stats
}

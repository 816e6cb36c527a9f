package concurrency

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"golang.org/x/time/rate"

	"training.pl/warehouse/common"
)

// WorkerSpec is the number of queue operations one worker performs.
type WorkerSpec struct {
	Count int
}

// Report summarizes a finished harness run.
type Report struct {
	RunID            string        `json:"run_id"`
	Produced         int           `json:"produced"`
	Consumed         int           `json:"consumed"`
	Remaining        int           `json:"remaining"`
	CancelledWorkers int           `json:"cancelled_workers"`
	Duration         time.Duration `json:"duration"`
}

var (
	producerColor = color.New(color.FgGreen)
	consumerColor = color.New(color.FgCyan)
	waitColor     = color.New(color.FgYellow)
)

// narrator writes whole lines to the console so concurrent workers never interleave mid-line.
type narrator struct {
	mu  sync.Mutex
	out io.Writer
}

func (n *narrator) say(c *color.Color, format string, args ...interface{}) {
	if n == nil || n.out == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	c.Fprintf(n.out, format+"\n", args...)
}

// narratingObserver reports waits on the console and forwards everything else.
type narratingObserver struct {
	Observer
	narrator *narrator
}

func (o narratingObserver) Blocked(op Operation) {
	o.Observer.Blocked(op)
	if op == OpPut {
		o.narrator.say(waitColor, "Producer waiting - warehouse is full")
	} else {
		o.narrator.say(waitColor, "Consumer waiting - warehouse is empty")
	}
}

// Pacer pauses a worker between operations. A nil Pacer never pauses.
type Pacer struct {
	limiter *rate.Limiter
}

func NewPacer(pace time.Duration) *Pacer {
	if pace <= 0 {
		return nil
	}
	limiter := rate.NewLimiter(rate.Every(pace), 1)
	limiter.Allow() // drain the initial token so the first pause is a full one
	return &Pacer{limiter: limiter}
}

func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		if err := ctx.Err(); err != nil {
			return common.Cancelled("pause", err)
		}
		return nil
	}
	if err := p.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return common.Cancelled("pause", ctx.Err())
		}
		// deadline falls inside the pause
		return common.Cancelled("pause", context.DeadlineExceeded)
	}
	return nil
}

// RunProducer puts count random orders into q, pausing between them.
// It returns how many orders were put and, when stopped early, the cancellation error.
func RunProducer(ctx context.Context, q *BoundedOrderQueue, count int, pacer *Pacer) (int, error) {
	return runProducer(ctx, nil, 0, q, count, pacer)
}

// RunConsumer takes count orders from q, pausing between them.
func RunConsumer(ctx context.Context, q *BoundedOrderQueue, count int, pacer *Pacer) (int, error) {
	return runConsumer(ctx, nil, 0, q, count, pacer)
}

func runProducer(ctx context.Context, n *narrator, id int, q *BoundedOrderQueue, count int, pacer *Pacer) (int, error) {
	produced := 0
	for i := range count {
		order := q.GenerateRandomOrder()
		if err := q.Put(ctx, order); err != nil {
			return produced, err
		}
		produced++
		n.say(producerColor, "Producer %d: stored %s", id, order)
		common.Debug("producer %d put %s", id, order)
		if i == count-1 {
			break
		}
		if err := pacer.Wait(ctx); err != nil {
			return produced, err
		}
	}
	return produced, nil
}

func runConsumer(ctx context.Context, n *narrator, id int, q *BoundedOrderQueue, count int, pacer *Pacer) (int, error) {
	consumed := 0
	for i := range count {
		order, err := q.Take(ctx)
		if err != nil {
			return consumed, err
		}
		consumed++
		n.say(consumerColor, "Consumer %d: shipped %s", id, order)
		common.Debug("consumer %d took %s", id, order)
		if i == count-1 {
			break
		}
		if err := pacer.Wait(ctx); err != nil {
			return consumed, err
		}
	}
	return consumed, nil
}

// Harness runs a population of producers and consumers against one queue.
type Harness struct {
	producerPace time.Duration
	consumerPace time.Duration
	observer     Observer
	narrator     *narrator
	generator    *OrderGenerator
	current      atomic.Pointer[BoundedOrderQueue]
	runID        atomic.Value
}

type HarnessOption func(*Harness)

func WithPacing(producerPace, consumerPace time.Duration) HarnessOption {
	return func(h *Harness) {
		h.producerPace = producerPace
		h.consumerPace = consumerPace
	}
}

// WithNarration writes colored per-worker progress lines to out.
func WithNarration(out io.Writer) HarnessOption {
	return func(h *Harness) {
		h.narrator = &narrator{out: out}
	}
}

func WithHarnessObserver(observer Observer) HarnessOption {
	return func(h *Harness) {
		h.observer = observer
	}
}

// WithOrderGenerator makes every run draw ids from generator.
func WithOrderGenerator(generator *OrderGenerator) HarnessOption {
	return func(h *Harness) {
		h.generator = generator
	}
}

func NewHarness(options ...HarnessOption) *Harness {
	h := &Harness{
		producerPace: common.DefaultProducerPace,
		consumerPace: common.DefaultConsumerPace,
		observer:     noopObserver{},
	}
	for _, option := range options {
		option(h)
	}
	if h.observer == nil {
		h.observer = noopObserver{}
	}
	return h
}

// Run starts every producer and consumer against a fresh queue and returns
// once all of them have finished, cancelled workers included.
func (h *Harness) Run(ctx context.Context, capacity int, producers, consumers []WorkerSpec) (Report, error) {
	var observer Observer = h.observer
	if h.narrator != nil {
		observer = narratingObserver{Observer: observer, narrator: h.narrator}
	}
	options := []QueueOption{WithObserver(observer)}
	if h.generator != nil {
		options = append(options, WithGenerator(h.generator))
	}
	q, err := NewBoundedOrderQueue(capacity, options...)
	if err != nil {
		return Report{}, err
	}

	report := Report{RunID: common.GenerateRunID()}
	h.current.Store(q)
	h.runID.Store(report.RunID)
	started := time.Now()
	common.Info("run %s: %d producers, %d consumers, capacity %d", report.RunID, len(producers), len(consumers), capacity)

	var (
		wg        sync.WaitGroup
		produced  atomic.Int64
		consumed  atomic.Int64
		cancelled atomic.Int64
	)
	finish := func(role string, id, done int, err error, total *atomic.Int64) {
		total.Add(int64(done))
		if err == nil {
			common.Debug("%s %d finished after %d orders", role, id, done)
			return
		}
		cancelled.Add(1)
		common.Warn("%s %d stopped after %d orders: %v", role, id, done, err)
	}

	wg.Add(len(producers) + len(consumers))
	for i, spec := range producers {
		go func(id int, spec WorkerSpec) {
			defer wg.Done()
			done, err := runProducer(ctx, h.narrator, id, q, spec.Count, NewPacer(h.producerPace))
			finish("producer", id, done, err, &produced)
		}(i+1, spec)
	}
	for i, spec := range consumers {
		go func(id int, spec WorkerSpec) {
			defer wg.Done()
			done, err := runConsumer(ctx, h.narrator, id, q, spec.Count, NewPacer(h.consumerPace))
			finish("consumer", id, done, err, &consumed)
		}(i+1, spec)
	}
	wg.Wait()

	report.Produced = int(produced.Load())
	report.Consumed = int(consumed.Load())
	report.CancelledWorkers = int(cancelled.Load())
	report.Remaining = q.Len()
	report.Duration = time.Since(started)
	common.Info("run %s: produced %d, consumed %d, %d left in warehouse, %d workers cancelled (%s)",
		report.RunID, report.Produced, report.Consumed, report.Remaining, report.CancelledWorkers, report.Duration)
	return report, nil
}

// Stats returns the queue stats of the current or last run.
func (h *Harness) Stats() (QueueStats, bool) {
	q := h.current.Load()
	if q == nil {
		return QueueStats{}, false
	}
	return q.Stats(), true
}

func (h *Harness) RunID() string {
	id, _ := h.runID.Load().(string)
	return id
}

func (r Report) String() string {
	return fmt.Sprintf("produced=%d consumed=%d remaining=%d cancelled=%d duration=%s",
		r.Produced, r.Consumed, r.Remaining, r.CancelledWorkers, r.Duration.Round(time.Millisecond))
}

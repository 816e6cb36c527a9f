package concurrency

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"training.pl/warehouse/common"
)

// Catalog lists the product types an order can carry.
var Catalog = []string{"Laptop", "Smartphone", "Tablet", "Headphones", "Monitor"}

// Order is one unit of work flowing through the queue. It is never mutated after creation.
type Order struct {
	ID          int64  `json:"id"`
	ProductType string `json:"product_type"`
	Quantity    int    `json:"quantity"`
}

func (o Order) String() string {
	return fmt.Sprintf("order #%d (%s x%d)", o.ID, o.ProductType, o.Quantity)
}

// OrderGenerator assigns ids from a shared counter and picks random contents.
type OrderGenerator struct {
	counter atomic.Int64
	mu      sync.Mutex
	rand    *rand.Rand
}

func NewOrderGenerator() *OrderGenerator {
	return NewSeededOrderGenerator(time.Now().UnixNano())
}

func NewSeededOrderGenerator(seed int64) *OrderGenerator {
	return &OrderGenerator{rand: rand.New(rand.NewSource(seed))}
}

// Next returns a fresh order. Ids start at 1 and are never reused.
func (g *OrderGenerator) Next() Order {
	g.mu.Lock()
	product := Catalog[g.rand.Intn(len(Catalog))]
	quantity := common.MinOrderQuantity + g.rand.Intn(common.MaxOrderQuantity-common.MinOrderQuantity+1)
	g.mu.Unlock()

	return Order{
		ID:          g.counter.Add(1),
		ProductType: product,
		Quantity:    quantity,
	}
}

// Issued returns how many orders the generator has created.
func (g *OrderGenerator) Issued() int64 {
	return g.counter.Load()
}

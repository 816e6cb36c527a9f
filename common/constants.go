package common

import "time"

// Harness defaults
const (
	DefaultProducerCount     = 1
	DefaultOrdersPerProducer = 20
	DefaultConsumerCount     = 3
	DefaultOrdersPerConsumer = 5
	DefaultQueueCapacity     = 10
)

// Pacing
const (
	DefaultProducerPace = 100 * time.Millisecond
	DefaultConsumerPace = 150 * time.Millisecond
)

// Orders
const (
	MinOrderQuantity = 1
	MaxOrderQuantity = 5
)

// Parity demo
const DefaultParityLimit = 10

// Monitor
const (
	MonitorReadTimeout     = 5 * time.Second
	MonitorShutdownTimeout = 5 * time.Second
)

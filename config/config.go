package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"training.pl/warehouse/common"
	"training.pl/warehouse/concurrency"
)

// Modes select what the command runs.
const (
	ModeWarehouse = "warehouse"
	ModeThreads   = "threads"
	ModeAll       = "all"
)

// Config holds the harness parameters. Values are fixed once a run starts.
type Config struct {
	ProducerCount     int           `yaml:"producer_count"`
	OrdersPerProducer int           `yaml:"orders_per_producer"`
	ConsumerCount     int           `yaml:"consumer_count"`
	OrdersPerConsumer int           `yaml:"orders_per_consumer"`
	QueueCapacity     int           `yaml:"queue_capacity"`
	ProducerPace      time.Duration `yaml:"producer_pace"`
	ConsumerPace      time.Duration `yaml:"consumer_pace"`
	LogLevel          string        `yaml:"log_level"`
	LogFile           string        `yaml:"log_file"`
	MonitorAddr       string        `yaml:"monitor_addr"`
	Mode              string        `yaml:"mode"`
}

func Default() Config {
	return Config{
		ProducerCount:     common.DefaultProducerCount,
		OrdersPerProducer: common.DefaultOrdersPerProducer,
		ConsumerCount:     common.DefaultConsumerCount,
		OrdersPerConsumer: common.DefaultOrdersPerConsumer,
		QueueCapacity:     common.DefaultQueueCapacity,
		ProducerPace:      common.DefaultProducerPace,
		ConsumerPace:      common.DefaultConsumerPace,
		LogLevel:          "info",
		Mode:              ModeWarehouse,
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, common.NewError(common.ErrValidation, "malformed config file").
			WithDetail("path", path).
			WithCause(err)
	}
	return cfg, nil
}

// FromArgs builds a Config from command line arguments. A file given with
// -config is applied first; flags set explicitly override it.
func FromArgs(args []string, output io.Writer) (Config, error) {
	flags := Default()
	fs := flag.NewFlagSet("warehouse", flag.ContinueOnError)
	fs.SetOutput(output)

	path := fs.String("config", "", "Path to a YAML config file")
	fs.IntVar(&flags.ProducerCount, "producers", flags.ProducerCount, "Number of producer workers")
	fs.IntVar(&flags.OrdersPerProducer, "orders-per-producer", flags.OrdersPerProducer, "Orders each producer stores")
	fs.IntVar(&flags.ConsumerCount, "consumers", flags.ConsumerCount, "Number of consumer workers")
	fs.IntVar(&flags.OrdersPerConsumer, "orders-per-consumer", flags.OrdersPerConsumer, "Orders each consumer ships")
	fs.IntVar(&flags.QueueCapacity, "capacity", flags.QueueCapacity, "Warehouse capacity")
	fs.DurationVar(&flags.ProducerPace, "producer-pace", flags.ProducerPace, "Pause between producer operations")
	fs.DurationVar(&flags.ConsumerPace, "consumer-pace", flags.ConsumerPace, "Pause between consumer operations")
	fs.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&flags.LogFile, "log-file", flags.LogFile, "Append logs to this file instead of stderr")
	fs.StringVar(&flags.MonitorAddr, "monitor", flags.MonitorAddr, "Serve /healthz, /stats and /metrics on this address")
	fs.StringVar(&flags.Mode, "mode", flags.Mode, "What to run (warehouse, threads, all)")

	if err := fs.Parse(args); err != nil {
		return flags, common.NewError(common.ErrValidation, "invalid arguments").WithCause(err)
	}
	if *path == "" {
		return flags, nil
	}

	cfg, err := Load(*path)
	if err != nil {
		return cfg, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "producers":
			cfg.ProducerCount = flags.ProducerCount
		case "orders-per-producer":
			cfg.OrdersPerProducer = flags.OrdersPerProducer
		case "consumers":
			cfg.ConsumerCount = flags.ConsumerCount
		case "orders-per-consumer":
			cfg.OrdersPerConsumer = flags.OrdersPerConsumer
		case "capacity":
			cfg.QueueCapacity = flags.QueueCapacity
		case "producer-pace":
			cfg.ProducerPace = flags.ProducerPace
		case "consumer-pace":
			cfg.ConsumerPace = flags.ConsumerPace
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		case "log-file":
			cfg.LogFile = flags.LogFile
		case "monitor":
			cfg.MonitorAddr = flags.MonitorAddr
		case "mode":
			cfg.Mode = flags.Mode
		}
	})
	return cfg, nil
}

func invalid(field string, value interface{}, message string) error {
	return common.NewError(common.ErrValidation, field+" "+message).WithDetail(field, value)
}

// Validate checks that every value is in range and that the run can finish:
// consumers never wait for orders that are never produced, and leftovers
// fit in the warehouse so no producer waits forever.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"producer_count", c.ProducerCount},
		{"orders_per_producer", c.OrdersPerProducer},
		{"consumer_count", c.ConsumerCount},
		{"orders_per_consumer", c.OrdersPerConsumer},
		{"queue_capacity", c.QueueCapacity},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return invalid(p.name, p.value, "must be positive")
		}
	}
	if c.ProducerPace < 0 {
		return invalid("producer_pace", c.ProducerPace, "must not be negative")
	}
	if c.ConsumerPace < 0 {
		return invalid("consumer_pace", c.ConsumerPace, "must not be negative")
	}
	if _, err := common.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Mode {
	case ModeWarehouse, ModeThreads, ModeAll:
	default:
		return invalid("mode", c.Mode, "must be one of warehouse, threads, all")
	}

	produced := c.ProducerCount * c.OrdersPerProducer
	consumed := c.ConsumerCount * c.OrdersPerConsumer
	if consumed > produced {
		return common.NewError(common.ErrValidation,
			fmt.Sprintf("consumers expect %d orders but producers only make %d", consumed, produced))
	}
	if produced-consumed > c.QueueCapacity {
		return common.NewError(common.ErrValidation,
			fmt.Sprintf("%d unconsumed orders do not fit in a warehouse of %d", produced-consumed, c.QueueCapacity))
	}
	return nil
}

func (c Config) ProducerSpecs() []concurrency.WorkerSpec {
	return specs(c.ProducerCount, c.OrdersPerProducer)
}

func (c Config) ConsumerSpecs() []concurrency.WorkerSpec {
	return specs(c.ConsumerCount, c.OrdersPerConsumer)
}

func specs(workers, count int) []concurrency.WorkerSpec {
	result := make([]concurrency.WorkerSpec, workers)
	for i := range result {
		result[i] = concurrency.WorkerSpec{Count: count}
	}
	return result
}

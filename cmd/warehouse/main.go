package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"training.pl/warehouse/common"
	"training.pl/warehouse/concurrency"
	"training.pl/warehouse/config"
	"training.pl/warehouse/monitor"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitConfig  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.FromArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return exitConfig
	}

	level, _ := common.ParseLogLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		if err := common.InitFileLogger(cfg.LogFile, level); err != nil {
			log.Printf("Failed to initialize logger: %v", err)
			common.InitLogger(stderr, level)
		}
	} else {
		common.InitLogger(stderr, level)
	}
	defer common.GlobalLogger.Close()

	if cfg.Mode == config.ModeThreads || cfg.Mode == config.ModeAll {
		color.New(color.Bold).Fprintln(stdout, "=== Basic threads ===")
		concurrency.EvenOdd(stdout, common.DefaultParityLimit)
	}
	if cfg.Mode == config.ModeThreads {
		return exitOK
	}

	options := []concurrency.HarnessOption{
		concurrency.WithPacing(cfg.ProducerPace, cfg.ConsumerPace),
		concurrency.WithNarration(stdout),
	}
	var monitorDone sync.WaitGroup
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer func() {
		stopMonitor()
		monitorDone.Wait()
	}()
	var harness *concurrency.Harness
	if cfg.MonitorAddr != "" {
		metrics := monitor.NewMetrics()
		options = append(options, concurrency.WithHarnessObserver(metrics))
		harness = concurrency.NewHarness(options...)
		server := monitor.NewServer(harness, metrics)
		monitorDone.Add(1)
		go func() {
			defer monitorDone.Done()
			if err := server.ListenAndStart(monitorCtx, cfg.MonitorAddr); err != nil {
				common.Error("monitor stopped: %v", err)
			}
		}()
	} else {
		harness = concurrency.NewHarness(options...)
	}

	color.New(color.Bold).Fprintln(stdout, "=== Warehouse ===")
	report, err := harness.Run(ctx, cfg.QueueCapacity, cfg.ProducerSpecs(), cfg.ConsumerSpecs())
	if err != nil {
		common.Error("run failed: %v", err)
		return exitFailure
	}

	summary := color.New(color.FgGreen, color.Bold)
	if report.CancelledWorkers > 0 {
		summary = color.New(color.FgYellow, color.Bold)
	}
	summary.Fprintf(stdout, "Run %s finished: %s\n", report.RunID, report)
	return exitOK
}

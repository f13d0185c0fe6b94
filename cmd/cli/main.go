package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cubny/tap2trip"
	"github.com/cubny/tap2trip/internal/config"
	"github.com/cubny/tap2trip/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tap2trip: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	conf, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	infile := flag.String("input", conf.TapsPath, "input taps csv file path")
	outfile := flag.String("output", conf.TripsPath, "output trips csv file path")
	errfile := flag.String("errors", conf.ErrorsPath, "output rejected taps csv file path")
	faresfile := flag.String("fares", conf.FaresPath, "fares csv file path, built-in fares when empty")
	logLevel := flag.String("log-level", conf.LogLevel, "debug, info, warn or error")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	logger := logging.NewStructuredLogger(os.Stderr, level)

	fares, err := loadFares(*faresfile, logger)
	if err != nil {
		return err
	}

	in, err := os.Open(*infile)
	if err != nil {
		return fmt.Errorf("open input file: %w", err)
	}
	defer logging.SafeCloseWithLogging(in, logger, "close_input")

	out, err := os.Create(*outfile)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer logging.SafeCloseWithLogging(out, logger, "close_output")

	errOut, err := os.Create(*errfile)
	if err != nil {
		return fmt.Errorf("open errors file: %w", err)
	}
	defer logging.SafeCloseWithLogging(errOut, logger, "close_errors")

	batch, err := tap2trip.NewBatch(fares, tap2trip.DefaultConfig(), logger)
	if err != nil {
		return fmt.Errorf("NewBatch: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	metrics, err := batch.Process(ctx, in, out, errOut)
	if err != nil {
		_ = metrics.Print(os.Stderr)
		return fmt.Errorf("batch: %w", err)
	}

	if err := metrics.Print(os.Stdout); err != nil {
		return err
	}
	fmt.Printf("output is written to %s\n", *outfile)
	return nil
}

func loadFares(path string, logger *slog.Logger) (*tap2trip.FareTable, error) {
	if path == "" {
		return tap2trip.DefaultFares(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fares file: %w", err)
	}
	defer logging.SafeCloseWithLogging(f, logger, "close_fares")

	return tap2trip.LoadFares(f)
}

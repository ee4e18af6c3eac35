package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	docfold "github.com/docfold/docfold"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, inputs, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}

	if flags.version {
		fmt.Printf("docfold %s\n", Version)
		return
	}

	// Configure GOMAXPROCS for container CPU limits.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := effectiveConfig(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}

	poolSize := docfold.ResolvePoolSize(flags.workers)
	if flags.verbose {
		fmt.Fprintf(os.Stderr, "pool size: %d\n", poolSize)
	}
	pool := docfold.NewConverterPool(poolSize, converterOptions(cfg)...)
	defer pool.Close()

	if flags.watch {
		err = runWatch(ctx, flags, inputs, pool)
		if errors.Is(err, context.Canceled) {
			return
		}
	} else {
		err = run(ctx, flags, inputs, pool)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, ErrNoInput) {
			fmt.Fprintln(os.Stderr, "usage: docfold [flags] <input.md> [input2.md ...]")
		}
		os.Exit(exitCodeFor(err))
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the burst of write events editors emit when
// saving a file into one conversion.
const debounceDelay = 250 * time.Millisecond

// runWatch converts all inputs once, then reconverts each input whenever
// it changes on disk. Blocks until ctx is canceled.
func runWatch(ctx context.Context, flags *cliFlags, inputs []string, pool Pool) error {
	if err := run(ctx, flags, inputs, pool); err != nil {
		// Initial conversion failures are reported but don't stop the
		// watch; the next save gets another chance.
		fmt.Fprintf(os.Stderr, "initial conversion: %v\n", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories, not files: editors replace files on save, which
	// drops file-level watches.
	watched := make(map[string][]string)
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", in, err)
		}
		watched[abs] = append(watched[abs], in)
	}

	dirs := make(map[string]bool)
	for abs := range watched {
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	if !flags.quiet {
		fmt.Printf("watching %d file(s), ctrl-c to stop\n", len(inputs))
	}

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]bool)
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			paths, tracked := watched[abs]
			if !tracked {
				continue
			}
			for _, p := range paths {
				pending[p] = true
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
			} else {
				timer.Reset(debounceDelay)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)

			if err := run(ctx, flags, changed, pool); err != nil {
				fmt.Fprintf(os.Stderr, "reconversion: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

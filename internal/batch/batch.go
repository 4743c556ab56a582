// Package batch implements C9, the Batch Loader: a recursive directory
// walk over candidate audio files dispatched to a bounded worker pool,
// grounded on the teacher's main/commands.go save/saveSong walk (which
// recurses with filepath.Walk and skips non wav/mp3 extensions) but
// generalized to a genuine concurrent pool instead of the teacher's
// sequential loop, using golang.org/x/sync/semaphore the way the pack's
// teacher go.mod already pulls in golang.org/x/sync as an indirect
// dependency of its toolchain.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"tones/internal/decode"
	"tones/internal/pipeline"
	"tones/internal/store"
	"tones/internal/toneid"
	"tones/internal/wavfile"
	"tones/internal/xlog"
)

// DefaultWorkers is the worker pool size spec.md §4.9 names as the
// default.
const DefaultWorkers = 5

var audioExtensions = map[string]bool{".wav": true, ".mp3": true, ".flac": true}

// Options configures a Load run.
type Options struct {
	Workers  int
	Params   pipeline.Params
	ErrorLog string // path for the append-only failure log; defaults to "error.log"
}

// DefaultOptions is the parameter set a caller gets when it doesn't
// need to override anything.
var DefaultOptions = Options{Workers: DefaultWorkers, Params: pipeline.DefaultParams, ErrorLog: "error.log"}

// Summary reports how a Load run went.
type Summary struct {
	Indexed int
	Skipped int
	Failed  int
}

// Load recursively enumerates root for .wav/.mp3/.flac files and indexes
// each into s through a worker pool of size opts.Workers. A file whose
// derived tone id already exists is skipped (dedup via tone_exists, per
// §4.9). Per-file failures are appended to opts.ErrorLog and do not
// abort the pool; ctx cancellation (an interrupt signal, in the CLI's
// case) shuts workers down without waiting for outstanding tasks, per
// spec.md §5's cancellation model.
func Load(ctx context.Context, s store.Store, root string, opts Options) (Summary, error) {
	if opts.Workers < 1 {
		opts.Workers = DefaultOptions.Workers
	}
	if opts.ErrorLog == "" {
		opts.ErrorLog = DefaultOptions.ErrorLog
	}

	logFile, err := os.OpenFile(opts.ErrorLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return Summary{}, xlog.Wrap("batch.Load", err)
	}

	var paths []string
	walkErr := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if audioExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		return Summary{}, xlog.Wrap("batch.Load", walkErr)
	}

	sem := semaphore.NewWeighted(int64(opts.Workers))
	var (
		mu      sync.Mutex
		logMu   sync.Mutex
		summary Summary
		wg      sync.WaitGroup
	)

	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			// context cancelled while waiting for a slot: stop dispatching
			// without waiting for outstanding tasks.
			break
		}

		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.Release(1)

			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			res, indexErr := indexOne(s, path, name, opts.Params)

			mu.Lock()
			switch {
			case indexErr == nil && res.skipped:
				summary.Skipped++
			case indexErr == nil:
				summary.Indexed++
			default:
				summary.Failed++
			}
			mu.Unlock()

			if indexErr != nil {
				logMu.Lock()
				fmt.Fprintf(logFile, "path=%q error=%q\n", path, indexErr.Error())
				logMu.Unlock()
			}
		}(path)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		logFile.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// Abandon outstanding tasks rather than waiting for them, per
		// §4.9's "interrupt signal shuts workers down without waiting".
		// Their goroutines keep running in the background and close
		// logFile themselves once done; the caller gets control back
		// now instead of blocking on them.
	}

	mu.Lock()
	result := summary
	mu.Unlock()
	return result, nil
}

type indexOutcome struct{ skipped bool }

// indexOne runs the dedup check described in §4.9 (decode -> dedup via
// tone_exists -> fingerprint -> store): the tone id is cheap to derive
// (a SHA-256 over the raw sample buffer) relative to the rest of the
// pipeline, so it's computed first and checked against the store before
// the expensive spectrogram/fingerprint stages run.
func indexOne(s store.Store, path, name string, params pipeline.Params) (indexOutcome, error) {
	wavBytes, err := decode.ToCanonicalWAV(path)
	if err != nil {
		return indexOutcome{}, xlog.NewDecodeError(path, err)
	}
	info, err := wavfile.Parse(wavBytes)
	if err != nil {
		return indexOutcome{}, xlog.NewDecodeError(path, err)
	}

	exists, err := s.ToneExists(toneid.FromRawBytes(info.Data))
	if err != nil {
		return indexOutcome{}, xlog.NewStoreError("tone_exists", err)
	}
	if exists {
		return indexOutcome{skipped: true}, nil
	}

	res, err := pipeline.Run(path, params)
	if err != nil {
		return indexOutcome{}, err
	}

	if err := s.StoreTone(res.ToneID, name); err != nil {
		return indexOutcome{}, err
	}
	if err := s.StoreAddressCouples(res.AddressCouples()); err != nil {
		return indexOutcome{}, err
	}
	return indexOutcome{}, nil
}

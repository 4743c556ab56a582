// Command tones is the external interface spec.md §6 describes:
// `tones --mode {load|load_folder|search} --filename PATH [--verbose]
// [--overwrite]`. Flag parsing follows the teacher pack's
// kiwi_wspr/main.go pflag idiom; signal handling for load_folder's
// cancellation model follows the same file's signal.Notify pattern.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"tones/internal/batch"
	"tones/internal/config"
	"tones/internal/match"
	"tones/internal/pipeline"
	"tones/internal/store"
	"tones/internal/xlog"
)

const version = "v1.0.0"

// Exit codes per spec.md §6: 0 success, 1 invalid mode, nonzero on
// fatal decode/store failure.
const (
	exitOK          = 0
	exitInvalidMode = 1
	exitFailure     = 2
	exitNotFound    = 3
)

func main() {
	var (
		mode       = pflag.String("mode", "", "operation mode: load, load_folder, or search")
		filename   = pflag.String("filename", "", "file or directory path for the selected mode")
		verbose    = pflag.Bool("verbose", false, "enable debug-level logging")
		overwrite  = pflag.Bool("overwrite", false, "load_folder only: run the idempotent schema creation again before ingest (existing tables and rows are kept)")
		workers    = pflag.Int("workers", batch.DefaultWorkers, "load_folder only: worker pool size")
		debugImage = pflag.String("debug-image", "", "write a grayscale PNG dump of the computed spectrogram to this path")
		showVer    = pflag.BoolP("version", "v", false, "print version and exit")
	)
	pflag.Parse()

	if *showVer {
		fmt.Printf("tones %s\n", version)
		os.Exit(exitOK)
	}

	config.Load()
	xlog.SetVerbose(*verbose)
	log := xlog.Logger()

	if *filename == "" {
		fmt.Fprintln(os.Stderr, "--filename is required")
		os.Exit(exitInvalidMode)
	}

	params := pipeline.DefaultParams
	params.DebugImagePath = *debugImage

	s, err := store.NewPostgresStore(config.DatabaseDSN())
	if err != nil {
		log.Error("failed to open index store", "error", err)
		os.Exit(exitFailure)
	}
	defer s.Close()

	switch *mode {
	case "load":
		os.Exit(runLoad(s, *filename, params, log))
	case "load_folder":
		os.Exit(runLoadFolder(s, *filename, *overwrite, *workers, params, log))
	case "search":
		os.Exit(runSearch(s, *filename, params, log))
	default:
		fmt.Fprintf(os.Stderr, "invalid --mode %q: expected load, load_folder, or search\n", *mode)
		os.Exit(exitInvalidMode)
	}
}

// runLoad indexes a single file under its basename (minus extension) as
// the tone's display name.
func runLoad(s store.Store, filename string, params pipeline.Params, log *slog.Logger) int {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	res, err := pipeline.Index(s, filename, name, params)
	if err != nil {
		log.Error("load failed", "file", filename, "error", err)
		return exitFailure
	}

	log.Info("loaded tone", "file", filename, "tone_id", res.ToneID, "records", len(res.Records))
	return exitOK
}

// runLoadFolder recursively indexes every .wav/.mp3/.flac under
// filename through the batch worker pool, shutting down on interrupt
// per spec.md §5's cancellation model.
func runLoadFolder(s store.Store, filename string, overwrite bool, workers int, params pipeline.Params, log *slog.Logger) int {
	if overwrite {
		if err := s.CreateSchema(); err != nil {
			log.Error("schema creation failed", "error", err)
			return exitFailure
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := batch.DefaultOptions
	opts.Workers = workers
	opts.Params = params

	summary, err := batch.Load(ctx, s, filename, opts)
	if err != nil {
		log.Error("load_folder failed", "dir", filename, "error", err)
		return exitFailure
	}

	log.Info("load_folder complete", "indexed", summary.Indexed, "skipped", summary.Skipped, "failed", summary.Failed)
	if summary.Failed > 0 {
		log.Warn("some files failed; see error.log", "failed", summary.Failed)
	}
	return exitOK
}

// runSearch runs the matcher over filename's fingerprints and reports
// the winning tone, candidate list, or "not found".
func runSearch(s store.Store, filename string, params pipeline.Params, log *slog.Logger) int {
	res, err := pipeline.Run(filename, params)
	if err != nil {
		log.Error("search failed", "file", filename, "error", err)
		return exitFailure
	}

	winner, results, ok := match.Match(s, res.Queries(), match.DefaultTolerances, match.DefaultCoeff, match.DefaultCutoff)
	if !ok {
		fmt.Println("not found")
		return exitNotFound
	}

	if winner != "" {
		fmt.Printf("match: %s\n", winner)
		return exitOK
	}

	if len(results) == 0 {
		fmt.Println("not found")
		return exitNotFound
	}

	fmt.Println("candidates:")
	for _, r := range results {
		fmt.Printf("  %s (tone_id=%d, match_ratio=%.3f)\n", r.Name, r.ToneID, r.MatchRatio)
	}
	return exitOK
}

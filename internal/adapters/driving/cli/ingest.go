package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driving"
	"github.com/oceanic-labs/manualmind/internal/logger"
)

var (
	ingestDir      string
	ingestMaxChars int
	ingestDocType  string
	ingestWatch    bool
)

// watchDebounce coalesces editor save bursts into one re-ingest.
const watchDebounce = 2 * time.Second

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest manual text files into the store",
	Long: `Reads every .txt file in the manuals directory, cleans and chunks it
along its heading hierarchy, tags the chunks and stores them with
embeddings. Re-ingesting a manual replaces its previous chunks.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDir, "dir", "manuals", "directory containing manual .txt files")
	ingestCmd.Flags().IntVar(&ingestMaxChars, "max-chars", 0, "chunk flush threshold in characters (0 = default)")
	ingestCmd.Flags().StringVar(&ingestDocType, "doc-type", "", "force document type instead of detecting it")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "keep running and re-ingest on file changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	opts := driving.IngestOptions{
		Dir:      ingestDir,
		MaxChars: ingestMaxChars,
	}
	if ingestDocType != "" {
		dt := domain.DocType(ingestDocType)
		if !dt.Valid() {
			return fmt.Errorf("unknown doc type %q", ingestDocType)
		}
		opts.DocType = dt
	}

	ctx := cmd.Context()
	if err := ingestOnce(ctx, cmd, opts); err != nil {
		return err
	}

	if !ingestWatch {
		return nil
	}
	return watchAndIngest(ctx, cmd, opts)
}

func ingestOnce(ctx context.Context, cmd *cobra.Command, opts driving.IngestOptions) error {
	results, err := ingestService.IngestDir(ctx, opts)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if len(results) == 0 {
		cmd.Printf("No .txt files found in %s\n", opts.Dir)
		return nil
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			cmd.Printf("  %s %s: %v\n", criticalStyle.Render("FAIL"), res.ManualID, res.Err)
			continue
		}
		cmd.Printf("  %s %s: %d chunks (%s)\n", okStyle.Render("OK"), res.ManualID, res.Chunks, res.DocType)
	}
	cmd.Printf("Ingested %d manuals, %d failed\n", len(results)-failed, failed)
	return nil
}

// watchAndIngest re-runs ingestion whenever a .txt file in the manuals
// directory changes, debounced so save bursts trigger one run.
func watchAndIngest(ctx context.Context, cmd *cobra.Command, opts driving.IngestOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(opts.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", opts.Dir, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	cmd.Printf("Watching %s for changes (Ctrl-C to stop)\n", opts.Dir)

	// A nil timer channel blocks in the select until a change arms it.
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isManualChange(event) {
				continue
			}
			logger.Debug("Change detected: %s (%s)", event.Name, event.Op)
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(watchDebounce)
			timerCh = timer.C

		case <-timerCh:
			if err := ingestOnce(ctx, cmd, opts); err != nil {
				cmd.Printf("Re-ingest failed: %v\n", err)
			}
			timerCh = nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-sigCh:
			cmd.Println("Stopping watch")
			return nil

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// isManualChange filters watcher noise down to .txt writes/creates/renames.
func isManualChange(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".txt") {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}

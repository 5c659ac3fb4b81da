package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/export"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
	"github.com/Ahmet872/amazon-review-sales-predictor/source"
)

var (
	watchOutputDir string
	watchDebounce  time.Duration
	watchFilters   filterFlags

	watchCmd = &cobra.Command{
		Use:   "watch <dir>",
		Short: "Rank result files as they appear in a directory",
		Long: `Watch a directory and run the prediction pipeline for every .json file
that is created or rewritten in it. The ranked table for data/foo.json is
written to predicted_ranked_products_foo.csv in the output directory.

Runs until interrupted with Ctrl+C.`,
		Example: `  salesrank watch incoming/ -o output/`,
		Args:    cobra.ExactArgs(1),
		RunE:    runWatch,
	}
)

func init() {
	watchCmd.Flags().StringVarP(&watchOutputDir, "output-dir", "o", "", "directory for CSV files (default: OUTPUT_DIR)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "wait this long after the last write before processing a file")
	addFilterFlags(watchCmd, &watchFilters)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extra, err := watchFilters.nodes(nil)
	if err != nil {
		return err
	}
	p, err := buildPipeline(ctx, settings, "watch", extra)
	if err != nil {
		return err
	}

	outputDir := settings.OutputDir
	if watchOutputDir != "" {
		outputDir = watchOutputDir
	}
	w := &dirWatcher{
		dir:      args[0],
		pipeline: p,
		outDir:   outputDir,
		debounce: watchDebounce,
		rctx: func(path string) *core.RunContext {
			return &core.RunContext{Query: path, ModelFilter: watchFilters.modelFilter, TopN: settings.TopN}
		},
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", args[0])
	return w.Run(ctx)
}

// dirWatcher 监听目录中的 .json 文件并逐个执行流水线。
// 同一文件的连续写事件在 debounce 时间内合并为一次处理。
type dirWatcher struct {
	dir      string
	pipeline *pipeline.Pipeline
	outDir   string
	debounce time.Duration
	rctx     func(path string) *core.RunContext

	// ready 在目录开始监听后调用，processed 在每个文件处理完成后调用
	ready     func()
	processed func(path string, err error)
}

func (w *dirWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	log.Info().Str("dir", w.dir).Msg("watching for result files")
	if w.ready != nil {
		w.ready()
	}

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.tick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("watcher stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				pending[event.Name] = time.Now()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.debounce {
					continue
				}
				delete(pending, path)
				err := w.process(ctx, path)
				if err != nil {
					log.Error().Err(err).Str("file", path).Msg("failed to process result file")
				}
				if w.processed != nil {
					w.processed(path, err)
				}
			}
		}
	}
}

func (w *dirWatcher) tick() time.Duration {
	if w.debounce <= 0 {
		return 50 * time.Millisecond
	}
	return w.debounce / 2
}

func (w *dirWatcher) process(ctx context.Context, path string) error {
	raws, err := (&source.FileSource{Path: path}).Search(ctx, path)
	if err != nil {
		return err
	}
	rctx := w.rctx(path)
	preds, err := w.pipeline.RunRecords(ctx, rctx, raws)
	if err != nil {
		return err
	}
	base := filepath.Base(path)
	name := fmt.Sprintf("%s_%s.csv", export.KindPredicted, strings.TrimSuffix(base, filepath.Ext(base)))
	out, err := export.SaveFile(w.outDir, name, func(wr io.Writer) error {
		return export.WritePredictionsCSV(wr, preds)
	})
	if err != nil {
		return err
	}
	log.Info().Str("file", path).Str("out", out).Int("ranked", len(preds)).Msg("result file processed")
	return nil
}

package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/export"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
	"github.com/Ahmet872/amazon-review-sales-predictor/source"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchSQL         string
	batchFilters     filterFlags

	batchCmd = &cobra.Command{
		Use:   "batch <results.json>...",
		Short: "Rank several result files concurrently",
		Long: `Run the prediction pipeline over several files of raw search results at
once. Each file is an independent run; one failing file does not stop the
others. Artifacts are loaded once and shared by all runs.`,
		Example: `  salesrank batch data/*.json --concurrency 8 -o output/`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runBatch,
	}
)

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "maximum concurrent runs (default: MAX_CONCURRENCY)")
	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", "", "directory for CSV files (default: OUTPUT_DIR)")
	batchCmd.Flags().StringVar(&batchSQL, "sql", "", "also save runs to a database (sqlite path or postgres:// DSN)")
	addFilterFlags(batchCmd, &batchFilters)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	extra, err := batchFilters.nodes(nil)
	if err != nil {
		return err
	}
	p, err := buildPipeline(ctx, settings, "batch", extra)
	if err != nil {
		return err
	}

	// 读取失败的文件直接记为失败结果，其余文件照常执行
	results := make([]pipeline.Result, len(args))
	jobs := make([]pipeline.Job, 0, len(args))
	slots := make([]int, 0, len(args))
	for i, path := range args {
		job := pipeline.Job{
			Name:    path,
			Context: &core.RunContext{Query: path, ModelFilter: batchFilters.modelFilter, TopN: settings.TopN},
		}
		raws, err := (&source.FileSource{Path: path}).Search(ctx, path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("failed to load results file")
			results[i] = pipeline.Result{Job: job, Err: err}
			continue
		}
		job.Records = raws
		jobs = append(jobs, job)
		slots = append(slots, i)
	}

	concurrency := settings.MaxConcurrency
	if batchConcurrency > 0 {
		concurrency = batchConcurrency
	}
	for j, res := range p.RunBatch(ctx, jobs, concurrency) {
		results[slots[j]] = res
	}

	outputDir := settings.OutputDir
	if batchOutputDir != "" {
		outputDir = batchOutputDir
	}
	writers, err := openWriters(ctx, outputDir, batchSQL, nil)
	if err != nil {
		return err
	}
	defer writers.Close()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tTOTAL\tRANKED\tTOP\tSTATUS")
	failed := 0
	for _, res := range results {
		name := filepath.Base(res.Job.Name)
		if res.Err != nil {
			failed++
			fmt.Fprintf(tw, "%s\t%d\t-\t-\t%s\n", name, res.Job.Context.Total, errorStatus(res.Err))
			continue
		}
		run := export.NewRun(res.Job.Context, res.Predictions)
		run.Query = strings.TrimSuffix(name, filepath.Ext(name))
		if err := writers.WriteRun(ctx, run); err != nil {
			return err
		}
		top := "-"
		if len(res.Predictions) > 0 {
			top = res.Predictions[0].Title
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\tok\n", name, res.Job.Context.Total, len(res.Predictions), top)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if failed == len(results) {
		return fmt.Errorf("all %d runs failed", failed)
	}
	return nil
}

func errorStatus(err error) string {
	if de := core.GetDomainError(err); de != nil {
		return de.Code
	}
	return "error"
}

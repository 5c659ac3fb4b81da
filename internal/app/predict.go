package app

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Ahmet872/amazon-review-sales-predictor/clean"
	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/export"
	"github.com/Ahmet872/amazon-review-sales-predictor/internal/output"
	"github.com/Ahmet872/amazon-review-sales-predictor/source"
)

var (
	predictCategory         string
	predictBrand            string
	predictModel            string
	predictTopN             int
	predictOutputDir        string
	predictSaveIntermediate bool
	predictShowRaw          bool
	predictStore            string
	predictSQL              string
	predictFilters          filterFlags

	predictCmd = &cobra.Command{
		Use:   "predict <results.json>",
		Short: "Clean, encode and rank one set of search results",
		Long: `Run the full prediction pipeline over one file of raw search results.

The input is a JSON array of product records, or an object with an
"organic_results" array. When --category, --brand and --model are given, they
form the search query and name the output files; all three are required
together.

The complete ranked table is always written to
predicted_ranked_products_{brand}_{model}.csv; --top-n only limits what is
printed.`,
		Example: `  salesrank predict results.json --category headphones --brand JBL --model 560BT
  salesrank predict results.json --top-n 5 --expr 'record.price < 100.0'
  salesrank predict results.json --save-intermediate --sql runs.db`,
		Args: cobra.ExactArgs(1),
		RunE: runPredict,
	}
)

func init() {
	predictCmd.Flags().StringVar(&predictCategory, "category", "", "product category (e.g. headphones)")
	predictCmd.Flags().StringVar(&predictBrand, "brand", "", "product brand (e.g. JBL)")
	predictCmd.Flags().StringVar(&predictModel, "model", "", "product model (e.g. 560BT)")
	predictCmd.Flags().IntVar(&predictTopN, "top-n", 0, "number of rows to print (default: TOP_N)")
	predictCmd.Flags().StringVarP(&predictOutputDir, "output-dir", "o", "", "directory for CSV files (default: OUTPUT_DIR)")
	predictCmd.Flags().BoolVar(&predictSaveIntermediate, "save-intermediate", false, "also write the cleaned table")
	predictCmd.Flags().BoolVar(&predictShowRaw, "show-raw", false, "print the raw search results before ranking")
	predictCmd.Flags().StringVar(&predictStore, "store", "", "also save the run to a store (memory, redis)")
	predictCmd.Flags().StringVar(&predictSQL, "sql", "", "also save the run to a database (sqlite path or postgres:// DSN)")
	addFilterFlags(predictCmd, &predictFilters)
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringVar(&f.modelFilter, "filter", "", "keep only titles containing this text (case-insensitive)")
	cmd.Flags().StringVar(&f.expr, "expr", "", "CEL expression records must satisfy, e.g. 'record.rating >= 4.0'")
	cmd.Flags().StringSliceVar(&f.blocklist, "exclude-brand", nil, "brands to drop before scoring")
}

func runPredict(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	query := args[0]
	if predictCategory != "" || predictBrand != "" || predictModel != "" {
		q, err := source.BuildQuery(predictCategory, predictBrand, predictModel)
		if err != nil {
			return err
		}
		query = q
	}

	raws, err := (&source.FileSource{Path: args[0]}).Search(ctx, query)
	if err != nil {
		return err
	}
	if predictShowRaw {
		fmt.Fprintln(out, output.RenderDisplayProducts(query, raws))
	}

	st, err := openStore(predictStore, settings)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	extra, err := predictFilters.nodes(st)
	if err != nil {
		return err
	}
	p, err := buildPipeline(ctx, settings, "predict", extra)
	if err != nil {
		return err
	}

	modelFilter := predictFilters.modelFilter
	topN := settings.TopN
	if cmd.Flags().Changed("top-n") {
		topN = predictTopN
	}
	outputDir := settings.OutputDir
	if predictOutputDir != "" {
		outputDir = predictOutputDir
	}

	if predictSaveIntermediate {
		if err := saveCleaned(out, raws, modelFilter, outputDir); err != nil {
			return err
		}
	}

	rctx := &core.RunContext{Query: query, ModelFilter: modelFilter, TopN: topN}
	run := export.NewRun(rctx, nil)
	rctx.RunID = run.ID

	preds, err := p.RunRecords(ctx, rctx, raws)
	if err != nil {
		return err
	}
	run.Predictions = preds
	run.Total = rctx.Total
	run.Brand = predictBrand
	run.Model = predictModel

	writers, err := openWriters(ctx, outputDir, predictSQL, st)
	if err != nil {
		return err
	}
	defer writers.Close()
	if err := writers.WriteRun(ctx, run); err != nil {
		return err
	}

	fmt.Fprint(out, output.RenderPredictionTable(preds, rctx.TopN))
	fmt.Fprintf(out, "\nPredictions saved to %s\n", (&export.CSVWriter{Dir: outputDir}).Path(run))
	log.Info().Str("run", run.ID).Int("total", run.Total).Int("ranked", len(preds)).Msg("prediction finished")
	return nil
}

// saveCleaned 单独写出清洗表；清洗失败时返回与流水线相同的错误。
func saveCleaned(out io.Writer, raws []core.RawRecord, modelFilter, dir string) error {
	records, err := clean.Clean(raws, clean.WithModelFilter(modelFilter))
	if err != nil {
		return err
	}
	path, err := export.SaveFile(dir, export.FileName(export.KindCleaned, predictBrand, predictModel),
		func(w io.Writer) error { return export.WriteCleanedCSV(w, records) })
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Cleaned data saved to %s\n", path)
	return nil
}

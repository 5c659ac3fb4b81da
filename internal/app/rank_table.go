package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ahmet872/amazon-review-sales-predictor/artifact"
	"github.com/Ahmet872/amazon-review-sales-predictor/clean"
	"github.com/Ahmet872/amazon-review-sales-predictor/export"
	"github.com/Ahmet872/amazon-review-sales-predictor/internal/output"
)

var (
	rankTableOut  string
	rankTableTopN int

	rankTableCmd = &cobra.Command{
		Use:   "rank-table <cleaned.csv>",
		Short: "Score an already cleaned table",
		Long: `Read a cleaned table (columns title, price, rating, reviews, brand, model)
and rank it with the loaded model. Cleaning and filtering are skipped.`,
		Example: `  salesrank rank-table output/cleaned_products_JBL_560BT.csv -o ranked.csv`,
		Args:    cobra.ExactArgs(1),
		RunE:    runRankTable,
	}
)

func init() {
	rankTableCmd.Flags().StringVarP(&rankTableOut, "out", "o", "", "write the ranked table to this CSV file")
	rankTableCmd.Flags().IntVar(&rankTableTopN, "top-n", 0, "number of rows to print (default: TOP_N)")
}

func runRankTable(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	records, err := clean.ReadTable(f)
	if err != nil {
		return err
	}

	b, err := artifact.Load(cmd.Context(), settings.ModelPath, settings.VocabPath)
	if err != nil {
		return err
	}
	preds, err := b.Predict(records)
	if err != nil {
		return err
	}

	topN := settings.TopN
	if cmd.Flags().Changed("top-n") {
		topN = rankTableTopN
	}
	fmt.Fprint(cmd.OutOrStdout(), output.RenderPredictionTable(preds, topN))

	if rankTableOut != "" {
		out, err := os.Create(rankTableOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", rankTableOut, err)
		}
		if err := export.WritePredictionsCSV(out, preds); err != nil {
			_ = out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nPredictions saved to %s\n", rankTableOut)
	}
	return nil
}


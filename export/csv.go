package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// 导出文件类型
const (
	KindCleaned   = "cleaned_products"
	KindPredicted = "predicted_ranked_products"
)

// FileName 返回导出文件名：{kind}_{brand}_{model}.csv，空格替换为下划线。
func FileName(kind, brand, model string) string {
	return strings.ReplaceAll(fmt.Sprintf("%s_%s_%s.csv", kind, brand, model), " ", "_")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func cleanedRow(r core.CleanedRecord) []string {
	return []string{
		r.Title,
		formatFloat(r.Price),
		formatFloat(r.Rating),
		strconv.Itoa(r.Reviews),
		r.Brand,
		r.Model,
	}
}

// WriteCleanedCSV 写出清洗表（含表头）。
func WriteCleanedCSV(w io.Writer, records []core.CleanedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(core.CleanedColumns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(cleanedRow(r)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePredictionsCSV 写出预测表（含表头），行顺序即排序结果。
func WritePredictionsCSV(w io.Writer, preds []core.Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(core.PredictionColumns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, p := range preds {
		row := append(cleanedRow(p.CleanedRecord),
			formatFloat(p.PredictedLogReviews),
			strconv.Itoa(p.PredictedReviews),
			strconv.Itoa(p.PredictedSales),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveFile 在 dir 下创建（或覆盖）name 并交给 write 写入，目录不存在时自动创建。
func SaveFile(dir, name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("csv: create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("csv: create file %q: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}

// CSVWriter 把每次调用的预测表写到 Dir 下的独立 CSV 文件。
type CSVWriter struct {
	Dir string
}

var _ RunWriter = (*CSVWriter)(nil)

func runFileName(run *Run) string {
	if run.Brand == "" && run.Model == "" {
		return fmt.Sprintf("%s_%s.csv", KindPredicted, run.ID)
	}
	return FileName(KindPredicted, run.Brand, run.Model)
}

// Path 返回 run 对应的导出文件路径；brand 与 model 都为空时用 run ID 命名。
func (c *CSVWriter) Path(run *Run) string {
	return filepath.Join(c.Dir, runFileName(run))
}

func (c *CSVWriter) WriteRun(_ context.Context, run *Run) error {
	_, err := SaveFile(c.Dir, runFileName(run), func(w io.Writer) error {
		return WritePredictionsCSV(w, run.Predictions)
	})
	return err
}

func (c *CSVWriter) Close() error { return nil }

package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/store"
)

func samplePredictions() []core.Prediction {
	return []core.Prediction{
		{
			CleanedRecord:       core.CleanedRecord{Title: "Anker Soundcore Q20, Black", Price: 39.99, Rating: 4.5, Reviews: 12000, Brand: "Anker", Model: "Soundcore"},
			PredictedLogReviews: 8.4, PredictedReviews: 4446, PredictedSales: 88920,
		},
		{
			CleanedRecord:       core.CleanedRecord{Title: "JBL 560BT Wireless Headphones", Price: 59.99, Rating: 4.3, Reviews: 2500, Brand: "JBL", Model: "560BT"},
			PredictedLogReviews: 6.2, PredictedReviews: 492, PredictedSales: 9840,
		},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "predicted_ranked_products_JBL_560_bt.csv", FileName(KindPredicted, "JBL", "560 bt"))
	assert.Equal(t, "cleaned_products_Sony_WH-1000XM4.csv", FileName(KindCleaned, "Sony", "WH-1000XM4"))
}

func TestWritePredictionsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePredictionsCSV(&buf, samplePredictions()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, core.PredictionColumns, rows[0])
	assert.Equal(t, []string{
		"Anker Soundcore Q20, Black", "39.99", "4.5", "12000", "Anker", "Soundcore", "8.4", "4446", "88920",
	}, rows[1])
	assert.Equal(t, "JBL", rows[2][4])
}

func TestWriteCleanedCSV(t *testing.T) {
	var buf bytes.Buffer
	preds := samplePredictions()
	require.NoError(t, WriteCleanedCSV(&buf, []core.CleanedRecord{preds[1].CleanedRecord}))
	assert.Equal(t,
		"title,price,rating,reviews,brand,model\nJBL 560BT Wireless Headphones,59.99,4.3,2500,JBL,560BT\n",
		buf.String())
}

func TestCSVWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := &CSVWriter{Dir: dir}
	run := &Run{ID: "r1", Brand: "JBL", Model: "560 bt", Predictions: samplePredictions()}
	require.NoError(t, w.WriteRun(context.Background(), run))

	data, err := os.ReadFile(filepath.Join(dir, "predicted_ranked_products_JBL_560_bt.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "predicted_sales")

	require.NoError(t, w.WriteRun(context.Background(), &Run{ID: "r2"}))
	_, err = os.Stat(filepath.Join(dir, "predicted_ranked_products_r2.csv"))
	assert.NoError(t, err)
}

func TestNewRun(t *testing.T) {
	rctx := &core.RunContext{Query: "JBL 560 bt headphones", Total: 9}
	r1 := NewRun(rctx, nil)
	r2 := NewRun(rctx, nil)
	assert.NotEqual(t, r1.ID, r2.ID)
	assert.Equal(t, 9, r1.Total)

	fixed := NewRun(&core.RunContext{RunID: "fixed"}, nil)
	assert.Equal(t, "fixed", fixed.ID)
}

func TestSQLWriter_SQLite(t *testing.T) {
	ctx := context.Background()
	w, err := OpenSQL(ctx, ":memory:")
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, DialectSQLite, w.Dialect())

	run := &Run{
		ID: "run-1", Query: "JBL 560 bt headphones", Brand: "JBL", Model: "560 bt",
		Total: 5, CreatedAt: time.Unix(1700000000, 0).UTC(), Predictions: samplePredictions(),
	}
	require.NoError(t, w.WriteRun(ctx, run))

	got, err := w.FetchRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Query, got.Query)
	assert.Equal(t, run.CreatedAt, got.CreatedAt)
	assert.Equal(t, run.Predictions, got.Predictions)

	_, err = w.FetchRun(ctx, "nope")
	assert.True(t, core.IsNotFound(err))

	// 同一 ID 重复写入违反主键，事务整体回滚
	assert.Error(t, w.WriteRun(ctx, run))
}

func TestStoreWriter(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	w := &StoreWriter{Store: s}

	older := &Run{ID: "a", CreatedAt: time.Unix(100, 0), Predictions: samplePredictions()}
	newer := &Run{ID: "b", CreatedAt: time.Unix(200, 0)}
	require.NoError(t, MultiWriter{w}.WriteRun(ctx, older))
	require.NoError(t, w.WriteRun(ctx, newer))

	got, err := LoadRun(ctx, s, "a")
	require.NoError(t, err)
	assert.Equal(t, older.Predictions, got.Predictions)

	ids, err := RecentRuns(ctx, s, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids)

	ids, err = RecentRuns(ctx, s, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)

	_, err = LoadRun(ctx, s, "missing")
	assert.True(t, core.IsStoreNotFound(err))
}

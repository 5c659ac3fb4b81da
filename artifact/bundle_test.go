package artifact

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/feature"
	"github.com/Ahmet872/amazon-review-sales-predictor/filter"
	"github.com/Ahmet872/amazon-review-sales-predictor/model"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
)

func sampleRaws() []core.RawRecord {
	return []core.RawRecord{
		{"title": "JBL 560BT Wireless Headphones", "price": "$59.99", "rating": "4.3", "reviews": "2,500"},
		{"title": "Sony WH-1000XM4", "price": "N/A", "rating": 4.8, "reviews": 500},
		{"title": "Anker Soundcore Q20", "price": map[string]any{"raw": "$39.99"}, "rating": 4.5, "reviews": map[string]any{"count": "12,000"}},
		{"title": "Marshall Major IV", "price": "$129.00"},
	}
}

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	vocab, err := feature.NewBrandVocabulary([]string{"Anker", "JBL", "Sony", "unknown"})
	require.NoError(t, err)
	// log1p(reviews) 的近似：用评分做预测，便于验证排序
	scorer := model.ScoreFunc(func(v core.FeatureVector) (float64, error) {
		return math.Log1p(v.Rating * 100), nil
	})
	b, err := NewBundle(scorer, vocab)
	require.NoError(t, err)
	return b
}

func TestBundle_PipelineEndToEnd(t *testing.T) {
	b := testBundle(t)
	p := b.Pipeline("test")
	rctx := &core.RunContext{TopN: 1}

	preds, err := p.RunRecords(context.Background(), rctx, sampleRaws())
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.Equal(t, 4, rctx.Total)
	assert.Equal(t, 1, rctx.TopN)

	assert.Equal(t, "Anker", preds[0].Brand)
	assert.Equal(t, 450, preds[0].PredictedReviews)
	assert.Equal(t, 9000, preds[0].PredictedSales)

	assert.Equal(t, "JBL", preds[1].Brand)
	assert.Equal(t, "560BT", preds[1].Model)
	assert.Equal(t, 2500, preds[1].Reviews)
	assert.InDelta(t, 59.99, preds[1].Price, 1e-9)

	// 未见过的品牌保留原值输出，只在编码时回退
	assert.Equal(t, "Marshall", preds[2].Brand)
	assert.Equal(t, 0, preds[2].PredictedReviews)
}

func TestBundle_PipelineModelFilter(t *testing.T) {
	b := testBundle(t)
	rctx := &core.RunContext{ModelFilter: "560bt"}
	preds, err := b.Pipeline("test").RunRecords(context.Background(), rctx, sampleRaws())
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "JBL", preds[0].Brand)
}

func TestBundle_PipelineEmptyInput(t *testing.T) {
	b := testBundle(t)
	_, err := b.Pipeline("test").RunRecords(context.Background(), &core.RunContext{}, nil)
	require.Error(t, err)
	assert.True(t, core.IsEmptyResult(err))
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 0, ve.Total)
}

func TestBundle_PipelineWithExprFilter(t *testing.T) {
	b := testBundle(t)
	f, err := filter.NewExprFilter(`record.price < 100.0`)
	require.NoError(t, err)

	preds, err := b.Pipeline("test", &filter.FilterNode{Filters: []filter.Filter{f}}).
		RunRecords(context.Background(), &core.RunContext{}, sampleRaws())
	require.NoError(t, err)
	require.Len(t, preds, 2)
	for _, p := range preds {
		assert.Less(t, p.Price, 100.0)
	}

	none, err := filter.NewExprFilter(`record.price > 1000.0`)
	require.NoError(t, err)
	_, err = b.Pipeline("test", &filter.FilterNode{Filters: []filter.Filter{none}}).
		RunRecords(context.Background(), &core.RunContext{}, sampleRaws())
	require.Error(t, err)
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 4, ve.Total)
	assert.Equal(t, core.ModuleFilter, ve.Stage)
}

func TestBundle_PredictMatchesPipeline(t *testing.T) {
	b := testBundle(t)
	records := []core.CleanedRecord{
		{Title: "JBL 560BT", Price: 59.99, Rating: 4.3, Brand: "JBL", Model: "560BT"},
		{Title: "Anker Q20", Price: 39.99, Rating: 4.5, Brand: "Anker", Model: "Q20"},
	}
	preds, err := b.Predict(records)
	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, "Anker", preds[0].Brand)
}

func TestBundle_RunBatch(t *testing.T) {
	b := testBundle(t)
	p := b.Pipeline("batch")
	jobs := []pipeline.Job{
		{Name: "ok", Context: &core.RunContext{}, Records: sampleRaws()},
		{Name: "empty", Context: &core.RunContext{}},
	}
	results := p.RunBatch(context.Background(), jobs, 2)
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Len(t, results[0].Predictions, 3)
	assert.True(t, core.IsEmptyResult(results[1].Err))
}

func TestLoad_MissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(context.Background(), filepath.Join(dir, "model.txt"), filepath.Join(dir, "vocab.msgpack"))
	require.Error(t, err)
	assert.True(t, core.IsArtifactError(err))

	modelPath := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(modelPath,
		[]byte(`{"format":"linear-regressor","version":1,"bias":1,"weights":{"rating":1}}`), 0o644))
	_, err = Load(context.Background(), modelPath, filepath.Join(dir, "vocab.msgpack"))
	require.Error(t, err)
	assert.Equal(t, core.ErrorCodeArtifactNotFound, core.GetDomainError(err).Code)

	vocab, err := feature.NewBrandVocabulary([]string{"JBL", "unknown"})
	require.NoError(t, err)
	vocabPath := filepath.Join(dir, "vocab.msgpack")
	require.NoError(t, feature.SaveVocabulary(vocabPath, vocab))

	b, err := Load(context.Background(), modelPath, vocabPath)
	require.NoError(t, err)
	assert.Equal(t, "linear", b.Scorer.Name())
	assert.Equal(t, 2, b.Vocabulary.Len())
}

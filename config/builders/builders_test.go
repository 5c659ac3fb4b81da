package builders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmet872/amazon-review-sales-predictor/config"
	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
)

const pipelineYAML = `
pipeline:
  name: headphones
  nodes:
    - type: clean
    - type: filter
      config:
        filters:
          - type: brand_blocklist
            brands: [beats]
          - type: expr
            expr: record.price < 300.0
    - type: feature.encode
      config:
        classes: [Anker, Beats, JBL, Sony, unknown]
    - type: rank.model
      config:
        bias: 2
        weights:
          rating: 1
    - type: rerank.topn
      config:
        n: 2
`

func TestSupportedTypes(t *testing.T) {
	types := config.SupportedTypes()
	for _, want := range []string{"clean", "filter", "filter.expr", "feature.encode", "rank.model", "rerank.topn"} {
		assert.Contains(t, types, want)
	}
}

func TestPipelineFromYAML(t *testing.T) {
	cfg, err := pipeline.ParseConfig([]byte(pipelineYAML), pipeline.FormatYAML)
	require.NoError(t, err)
	require.NoError(t, config.ValidatePipelineConfig(cfg))

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	require.NoError(t, err)
	assert.Equal(t, "headphones", p.Name)
	require.Len(t, p.Nodes, 5)

	raws := []core.RawRecord{
		{"title": "JBL 560BT Wireless Headphones", "price": "$59.99", "rating": "4.3"},
		{"title": "Beats Studio Pro", "price": "$199.99", "rating": "4.6"},
		{"title": "Sony WH-1000XM5", "price": "$348.00", "rating": "4.7"},
		{"title": "Anker Soundcore Q20", "price": "$39.99", "rating": "4.5"},
		{"title": "Marshall Major IV", "price": "$129.00", "rating": "4.4"},
	}
	rctx := &core.RunContext{}
	preds, err := p.RunRecords(context.Background(), rctx, raws)
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.Equal(t, 2, rctx.TopN)
	assert.Equal(t, 5, rctx.Total)

	brands := []string{preds[0].Brand, preds[1].Brand, preds[2].Brand}
	assert.Equal(t, []string{"Anker", "Marshall", "JBL"}, brands)
}

func TestValidatePipelineConfig(t *testing.T) {
	cfg, err := pipeline.ParseConfig([]byte("pipeline:\n  name: x\n  nodes:\n    - type: recall.hot\n"), pipeline.FormatYAML)
	require.NoError(t, err)
	err = config.ValidatePipelineConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recall.hot")

	empty, err := pipeline.ParseConfig([]byte("pipeline:\n  name: x\n"), pipeline.FormatYAML)
	require.NoError(t, err)
	assert.Error(t, config.ValidatePipelineConfig(empty))
}

func TestPipelineFromYAML_RankWithoutEncode(t *testing.T) {
	cfg, err := pipeline.ParseConfig([]byte(`
pipeline:
  name: no-encode
  nodes:
    - type: clean
    - type: rank.model
      config:
        weights:
          rating: 1
`), pipeline.FormatYAML)
	require.NoError(t, err)
	require.NoError(t, config.ValidatePipelineConfig(cfg))

	_, err = cfg.BuildPipeline(config.DefaultFactory())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rank.model")
}

func TestRegister_Duplicate(t *testing.T) {
	config.Register("", BuildCleanNode)
	config.Register("test.nil", nil)
	assert.NotContains(t, config.SupportedTypes(), "")
	assert.NotContains(t, config.SupportedTypes(), "test.nil")
	assert.Panics(t, func() { config.Register("clean", BuildCleanNode) })
}

func TestBuildModelNode(t *testing.T) {
	_, err := BuildModelNode(map[string]any{})
	assert.Error(t, err)

	_, err = BuildModelNode(map[string]any{"weights": map[string]any{"colour": 1}})
	assert.True(t, core.IsArtifactError(err))

	n, err := BuildModelNode(map[string]any{"endpoint": "http://localhost:1/predict", "timeout": 2})
	require.NoError(t, err)
	assert.Equal(t, "rank.model", n.Name())

	path := filepath.Join(t.TempDir(), "m.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"format":"linear-regressor","version":1,"bias":0}`), 0o644))
	_, err = BuildModelNode(map[string]any{"path": path})
	require.NoError(t, err)
}

func TestBuildEncodeNode(t *testing.T) {
	_, err := BuildEncodeNode(map[string]any{})
	assert.Error(t, err)

	_, err = BuildEncodeNode(map[string]any{"classes": []any{"JBL"}})
	assert.True(t, core.IsArtifactError(err))

	_, err = BuildEncodeNode(map[string]any{"vocabulary": filepath.Join(t.TempDir(), "none.msgpack")})
	assert.True(t, core.IsArtifactError(err))
}

func TestBuildExprFilterNode(t *testing.T) {
	_, err := BuildExprFilterNode(map[string]any{})
	assert.Error(t, err)

	_, err = BuildExprFilterNode(map[string]any{"expr": "record.price <"})
	assert.Error(t, err)

	n, err := BuildExprFilterNode(map[string]any{"expr": "record.rating >= 4.0"})
	require.NoError(t, err)
	assert.Equal(t, "filter.node", n.Name())
}

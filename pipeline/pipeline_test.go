package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// predictNode 为每个 Item 生成一个以 ID 为分数的预测。
type predictNode struct{}

func (predictNode) Name() string { return "test.predict" }
func (predictNode) Kind() Kind   { return KindRank }

func (predictNode) Process(_ context.Context, rctx *core.RunContext, items []*core.Item) ([]*core.Item, error) {
	rctx.Total = len(items)
	for _, it := range items {
		it.Prediction = &core.Prediction{PredictedReviews: it.ID}
	}
	return items, nil
}

type failNode struct{ err error }

func (f failNode) Name() string { return "test.fail" }
func (f failNode) Kind() Kind   { return KindFilter }

func (f failNode) Process(context.Context, *core.RunContext, []*core.Item) ([]*core.Item, error) {
	return nil, f.err
}

func TestPipeline_RunRecords(t *testing.T) {
	p := &Pipeline{Name: "test", Nodes: []Node{predictNode{}}}
	rctx := &core.RunContext{}

	preds, err := p.RunRecords(context.Background(), rctx, []core.RawRecord{{}, {}, {}})
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.Equal(t, 2, preds[2].PredictedReviews)
	assert.Equal(t, 3, rctx.Total)
}

func TestPipeline_RunNilContext(t *testing.T) {
	p := &Pipeline{Nodes: []Node{predictNode{}}}
	items, err := p.Run(context.Background(), nil, core.NewItems([]core.RawRecord{{}}))
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestPipeline_ErrorWrapsNodeName(t *testing.T) {
	cause := core.NewEmptyResultError(core.ModuleFilter, 4)
	p := &Pipeline{Nodes: []Node{failNode{err: cause}, predictNode{}}}

	_, err := p.RunRecords(context.Background(), &core.RunContext{}, []core.RawRecord{{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node test.fail")
	assert.True(t, errors.Is(err, cause))
	assert.True(t, core.IsEmptyResult(err))
}

func TestRunBatch(t *testing.T) {
	p := &Pipeline{Nodes: []Node{predictNode{}}}
	jobs := []Job{
		{Name: "a", Records: []core.RawRecord{{}}},
		{Name: "b", Context: &core.RunContext{}, Records: []core.RawRecord{{}, {}}},
	}
	results := p.RunBatch(context.Background(), jobs, 1)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Job.Name)
	assert.Len(t, results[0].Predictions, 1)
	assert.Len(t, results[1].Predictions, 2)
	assert.Equal(t, 2, jobs[1].Context.Total)
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &Pipeline{Nodes: []Node{predictNode{}}}
	results := p.RunBatch(ctx, []Job{{Name: "a"}}, 1)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

type stageNode struct{ kind Kind }

func (n stageNode) Name() string { return "test." + string(n.kind) }
func (n stageNode) Kind() Kind   { return n.kind }

func (stageNode) Process(_ context.Context, _ *core.RunContext, items []*core.Item) ([]*core.Item, error) {
	return items, nil
}

func testFactory() *NodeFactory {
	factory := NewNodeFactory()
	factory.Register("clean", func(map[string]any) (Node, error) { return stageNode{kind: KindClean}, nil })
	factory.Register("encode", func(map[string]any) (Node, error) { return stageNode{kind: KindEncode}, nil })
	factory.Register("predict", func(map[string]any) (Node, error) { return predictNode{}, nil })
	return factory
}

func TestConfig_BuildPipeline(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
pipeline:
  name: demo
  nodes:
    - type: clean
    - type: encode
    - type: predict
`), FormatYAML)
	require.NoError(t, err)

	p, err := cfg.BuildPipeline(testFactory())
	require.NoError(t, err)
	assert.Equal(t, "demo", p.Name)
	assert.Len(t, p.Nodes, 3)

	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, NodeConfig{Type: "missing"})
	_, err = cfg.BuildPipeline(testFactory())
	assert.ErrorContains(t, err, "unknown node type: missing")
}

func TestConfig_BuildPipelineStageOrder(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  string
	}{
		{name: "rank without encode", types: []string{"clean", "predict"}, want: "needs a encode node"},
		{name: "encode without clean", types: []string{"encode", "predict"}, want: "needs a clean node"},
		{name: "encode after rank", types: []string{"clean", "predict", "encode"}, want: "test.predict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.Pipeline.Name = "bad"
			for _, typ := range tt.types {
				cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, NodeConfig{Type: typ})
			}
			_, err := cfg.BuildPipeline(testFactory())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "p.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"pipeline":{"name":"j","nodes":[{"type":"clean"}]}}`), 0o644))
	cfg, err := LoadConfig(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "j", cfg.Pipeline.Name)
	assert.Equal(t, "clean", cfg.Pipeline.Nodes[0].Type)

	yamlPath := filepath.Join(dir, "p.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("pipeline:\n  name: y\n  nodes:\n    - type: clean\n"), 0o644))
	cfg, err = LoadConfig(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "y", cfg.Pipeline.Name)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("x"), "toml")
	assert.ErrorContains(t, err, "unsupported config format")
}

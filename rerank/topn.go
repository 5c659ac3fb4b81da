package rerank

import (
	"context"
	"strconv"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
	"github.com/Ahmet872/amazon-review-sales-predictor/pkg/utils"
)

// TopN 返回排序结果中用于展示的前 n 行。
// n <= 0 或 n 大于行数时返回全部。返回的是 preds 的前缀切片，不复制。
func TopN(preds []core.Prediction, n int) []core.Prediction {
	if n <= 0 || n >= len(preds) {
		return preds
	}
	return preds[:n]
}

// TopNNode 是展示截断节点，放在排序节点之后。
// 它不会删除任何 Item：完整结果表始终保留，只给前 N 个 Item 打上 display_rank 标签，
// 并把 N 写入 rctx.TopN 供导出/展示层使用。
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.ModelNode{...},     // 排序
//	        &rerank.TopNNode{N: 20},  // 标记 Top 20
//	    },
//	}
type TopNNode struct {
	// N 要展示的行数；N <= 0 时沿用 rctx.TopN，二者都未设置则全部展示
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RunContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.TopN
	}
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	if rctx != nil {
		rctx.TopN = limit
	}

	for i, it := range items[:limit] {
		if it == nil {
			continue
		}
		it.PutLabel("display_rank", utils.Label{Value: strconv.Itoa(i + 1), Source: "rerank"})
	}
	return items, nil
}

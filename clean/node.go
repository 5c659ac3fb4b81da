package clean

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/normalize"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
	"github.com/Ahmet872/amazon-review-sales-predictor/pkg/utils"
)

// Node 是清洗阶段的 Node：为每个 Item 填充 Record，丢弃不合格的 Item。
// - 节点自身未配置 ModelFilter 时使用 rctx.ModelFilter
// - 写入 rctx.Total（原始记录数）
// - 结果为空时返回 EMPTY_RESULT
type Node struct {
	ModelFilter string
	Extractor   normalize.Extractor
}

func (n *Node) Name() string        { return "clean" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindClean }

func (n *Node) Process(
	_ context.Context,
	rctx *core.RunContext,
	items []*core.Item,
) ([]*core.Item, error) {
	filter := n.ModelFilter
	if filter == "" && rctx != nil {
		filter = rctx.ModelFilter
	}
	o := newOptions([]Option{WithModelFilter(filter), WithExtractor(n.Extractor)})
	if rctx != nil {
		rctx.Total = len(items)
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		rec, reason := CleanOne(it.Raw, o)
		if reason != ReasonKept {
			it.PutLabel("skipped", utils.Label{Value: string(reason), Source: "clean"})
			continue
		}
		it.Record = &rec
		out = append(out, it)
	}

	log.Debug().Int("total", len(items)).Int("kept", len(out)).Msg("clean node done")
	if len(out) == 0 {
		return nil, core.NewEmptyResultError(core.ModuleCleaner, len(items))
	}
	return out, nil
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// Pipeline 把 清洗 -> 过滤 -> 编码 -> 排序 拆成可组合的 Node 链。
// 每个 Node 消费上一个 Node 的完整输出，不做流式处理。
type Pipeline struct {
	Name  string
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RunContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if rctx == nil {
		rctx = &core.RunContext{}
	}
	cur := items
	for _, node := range p.Nodes {
		start := time.Now()
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		log.Debug().
			Str("pipeline", p.Name).
			Str("node", node.Name()).
			Str("kind", string(node.Kind())).
			Int("in", len(cur)).
			Int("out", len(next)).
			Dur("took", time.Since(start)).
			Msg("node processed")
		cur = next
	}
	return cur, nil
}

// RunRecords 是 Run 的便捷形式：原始记录进，预测表出。
// 返回的预测表是完整表，rctx.TopN 不影响它。
func (p *Pipeline) RunRecords(
	ctx context.Context,
	rctx *core.RunContext,
	raws []core.RawRecord,
) ([]core.Prediction, error) {
	items, err := p.Run(ctx, rctx, core.NewItems(raws))
	if err != nil {
		return nil, err
	}
	return core.Predictions(items), nil
}

package filter

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
	"github.com/Ahmet872/amazon-review-sales-predictor/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该记录就会被过滤掉。
// 全部被过滤时返回 EMPTY_RESULT（Total 取 rctx.Total）。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RunContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	filteredCount := 0

	for _, item := range items {
		if item == nil || item.Record == nil {
			continue
		}

		shouldFilter := false
		filterReason := ""

		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				// 过滤器错误时记录但不中断流程
				log.Warn().Err(err).Str("filter", f.Name()).Int("row", item.ID).Msg("filter failed, keeping record")
				continue
			}
			if ok {
				shouldFilter = true
				filterReason = f.Name()
				break
			}
		}

		if shouldFilter {
			filteredCount++
			item.PutLabel("filtered", utils.Label{
				Value:  "true",
				Source: filterReason,
			})
			continue
		}

		out = append(out, item)
	}

	log.Debug().Int("in", len(items)).Int("filtered", filteredCount).Msg("filter node done")
	if len(out) == 0 {
		total := len(items)
		if rctx != nil && rctx.Total > 0 {
			total = rctx.Total
		}
		return nil, core.NewEmptyResultError(core.ModuleFilter, total)
	}
	return out, nil
}

package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/model"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
	"github.com/Ahmet872/amazon-review-sales-predictor/pkg/utils"
)

// ModelNode 是使用 model.Scorer 的排序 Node（不限定模型类型）。
// - 写入 labels：rank_model
// - 填充 item.Prediction 并按 PredictedReviews 降序稳定排序
// - 有记录但没有特征向量的 item 返回 INTERNAL_ERROR
type ModelNode struct {
	Scorer model.Scorer
}

func (n *ModelNode) Name() string        { return "rank.model" }
func (n *ModelNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ModelNode) Process(
	_ context.Context,
	_ *core.RunContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Scorer == nil {
		return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeInternalError, "scorer not configured")
	}
	if len(items) == 0 {
		return items, nil
	}

	scored := make([]*core.Item, 0, len(items))
	vectors := make([]core.FeatureVector, 0, len(items))
	for _, it := range items {
		if it == nil || it.Record == nil {
			continue
		}
		if it.Vector == nil {
			// 通常是 pipeline 中缺少 feature.encode 节点
			return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeInternalError,
				fmt.Sprintf("item %d has no feature vector", it.ID))
		}
		scored = append(scored, it)
		vectors = append(vectors, *it.Vector)
	}

	scores, err := scoreAll(vectors, n.Scorer)
	if err != nil {
		return nil, err
	}
	for i, it := range scored {
		p := newPrediction(*it.Record, scores[i])
		it.Prediction = &p
		it.PutLabel("rank_model", utils.Label{Value: n.Scorer.Name(), Source: "rank"})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Prediction.PredictedReviews > scored[j].Prediction.PredictedReviews
	})
	log.Debug().Str("model", n.Scorer.Name()).Int("rows", len(scored)).Msg("rank node done")
	return scored, nil
}

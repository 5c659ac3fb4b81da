package rank

import (
	"fmt"
	"math"
	"sort"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/model"
)

// maxReviews 保证 reviews * ConversionRate 不溢出。
const maxReviews = math.MaxInt64 / core.ConversionRate

// InverseTransform 把 log1p 空间的预测值还原为评论数：
// 先 expm1，再四舍六入五成双取整，负数、NaN 记为 0，过大值截断。
func InverseTransform(logReviews float64) int {
	v := math.RoundToEven(math.Expm1(logReviews))
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= float64(maxReviews):
		return maxReviews
	}
	return int(v)
}

// Sales 按固定换算倍数把评论数折算为销量。
func Sales(reviews int) int {
	return reviews * core.ConversionRate
}

// Score 对特征向量打分，反变换后按 PredictedReviews 降序稳定排序。
// 向量通过 Row 挂回 records[Row]；分数相同的行保持输入顺序。
func Score(records []core.CleanedRecord, vectors []core.FeatureVector, scorer model.Scorer) ([]core.Prediction, error) {
	if scorer == nil {
		return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeInternalError, "scorer not configured")
	}
	scores, err := scoreAll(vectors, scorer)
	if err != nil {
		return nil, err
	}

	preds := make([]core.Prediction, 0, len(vectors))
	for i, v := range vectors {
		if v.Row < 0 || v.Row >= len(records) {
			return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeInternalError,
				fmt.Sprintf("feature vector row %d has no matching record", v.Row))
		}
		preds = append(preds, newPrediction(records[v.Row], scores[i]))
	}

	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].PredictedReviews > preds[j].PredictedReviews
	})
	return preds, nil
}

func newPrediction(rec core.CleanedRecord, logReviews float64) core.Prediction {
	reviews := InverseTransform(logReviews)
	return core.Prediction{
		CleanedRecord:       rec,
		PredictedLogReviews: logReviews,
		PredictedReviews:    reviews,
		PredictedSales:      Sales(reviews),
	}
}

// scoreAll 优先走批量接口（远程模型一次往返）。
func scoreAll(vectors []core.FeatureVector, scorer model.Scorer) ([]float64, error) {
	if bs, ok := scorer.(model.BatchScorer); ok {
		scores, err := bs.ScoreBatch(vectors)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleScorer, core.ErrorCodeInternalError,
				fmt.Sprintf("scorer %s failed", scorer.Name()), err)
		}
		if len(scores) != len(vectors) {
			return nil, core.NewDomainError(core.ModuleScorer, core.ErrorCodeInternalError,
				fmt.Sprintf("scorer %s returned %d scores for %d rows", scorer.Name(), len(scores), len(vectors)))
		}
		return scores, nil
	}

	scores := make([]float64, len(vectors))
	for i, v := range vectors {
		s, err := scorer.Score(v)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleScorer, core.ErrorCodeInternalError,
				fmt.Sprintf("scorer %s failed on row %d", scorer.Name(), v.Row), err)
		}
		scores[i] = s
	}
	return scores, nil
}

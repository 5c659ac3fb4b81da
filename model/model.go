package model

import "github.com/Ahmet872/amazon-review-sales-predictor/core"

// Scorer 是排序阶段的最小抽象：输入特征向量，输出 log 空间的预测值（训练目标为 log1p(reviews)）。
// 具体实现可以是本地模型（LightGBM / 线性模型）或远程 HTTP 服务。
// 实现必须是只读的，加载后可被多个调用并发使用。
type Scorer interface {
	Name() string
	Score(v core.FeatureVector) (float64, error)
}

// BatchScorer 是可选接口：一次请求给整批向量打分（远程模型用它减少往返）。
type BatchScorer interface {
	Scorer
	ScoreBatch(vs []core.FeatureVector) ([]float64, error)
}

// ScoreFunc 把普通函数适配为 Scorer，便于测试与内联规则。
type ScoreFunc func(v core.FeatureVector) (float64, error)

func (f ScoreFunc) Name() string { return "func" }

func (f ScoreFunc) Score(v core.FeatureVector) (float64, error) {
	return f(v)
}

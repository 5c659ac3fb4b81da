package pipeline

import (
	"context"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// Kind 用于标记 Node 类型，方便观测/编排（例如按阶段打点）。
type Kind string

const (
	KindClean  Kind = "clean"  // 清洗阶段：原始记录 -> 清洗记录
	KindFilter Kind = "filter" // 过滤阶段：剔除不符合约束的记录
	KindEncode Kind = "encode" // 编码阶段：清洗记录 -> 特征向量
	KindRank   Kind = "rank"   // 排序阶段：打分、反变换并排序
	KindReRank Kind = "rerank" // 重排阶段：在排序结果上做展示截断等
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态；每个阶段在 Item 上填充自己负责的字段。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RunContext,
		items []*core.Item,
	) ([]*core.Item, error)
}

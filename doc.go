// Package predictor 根据 Amazon 搜索结果预测商品的评论数与销量并排序。
//
// 设计要点：
// - Pipeline-first: 清洗 → 过滤 → 编码 → 排序 → 展示截断，全部是可组合的 Node
// - 产物只读: 模型与品牌词表启动时加载一次，缺失或不兼容在打分前失败
// - 训练/推理一致: 词表外的品牌一律编码为 "unknown"，输出中保留原品牌
// - Labels 透传: 过滤原因、品牌回退、展示名次都记录在 Item 的 Labels 上
package predictor

import (
	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
)

// 轻量 facade：便于直接 import 根包使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

type RawRecord = core.RawRecord
type CleanedRecord = core.CleanedRecord
type FeatureVector = core.FeatureVector
type Prediction = core.Prediction

const (
	KindClean  = pipeline.KindClean
	KindFilter = pipeline.KindFilter
	KindEncode = pipeline.KindEncode
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)

// ConversionRate 是评论数到销量的固定换算倍数。
const ConversionRate = core.ConversionRate

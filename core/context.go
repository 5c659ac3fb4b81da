package core

import "github.com/Ahmet872/amazon-review-sales-predictor/pkg/utils"

// RunContext 承载一次流水线调用的请求级信息，贯穿整个 Pipeline 透传。
type RunContext struct {
	RunID string // 本次调用的唯一标识（用于结果存储）
	Query string // 搜索词，仅用于观测

	// ModelFilter 是大小写不敏感的标题子串过滤；空串表示不过滤。
	ModelFilter string

	// TopN 只影响展示/导出的行数，不影响结果表。
	TopN int

	// Total 是原始记录数，由清洗阶段写入，后续阶段报错时用于诊断。
	Total int

	// Labels 是调用级标签，可用于解释与观测
	Labels map[string]utils.Label

	// Params 请求级附加参数
	Params map[string]any
}

// PutLabel 写入调用级 Label。
func (rctx *RunContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取调用级 Label。
func (rctx *RunContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

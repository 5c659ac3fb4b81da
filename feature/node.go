package feature

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
	"github.com/Ahmet872/amazon-review-sales-predictor/pkg/utils"
)

// EncodeNode 为每个已清洗的 Item 填充 Vector，Row 取 Item.ID。
// 品牌回退到 "unknown" 时写入 brand_fallback 标签，便于观测训练/推理的品牌漂移。
type EncodeNode struct {
	Encoder *Encoder
	Monitor *Monitor // 可选
}

func (n *EncodeNode) Name() string        { return "feature.encode" }
func (n *EncodeNode) Kind() pipeline.Kind { return pipeline.KindEncode }

func (n *EncodeNode) Process(
	_ context.Context,
	_ *core.RunContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Encoder == nil {
		return nil, core.NewDomainError(core.ModuleEncoder, core.ErrorCodeInternalError, "encoder not configured")
	}

	fallbacks := 0
	for _, it := range items {
		if it == nil || it.Record == nil {
			continue
		}
		vec := n.Encoder.EncodeOne(it.ID, *it.Record)
		it.Vector = &vec
		fallback := NormalizeCategory(it.Record.Brand, n.Encoder.vocab) != it.Record.Brand
		if fallback {
			fallbacks++
			it.PutLabel("brand_fallback", utils.Label{Value: it.Record.Brand, Source: "encode"})
		}
		if n.Monitor != nil {
			n.Monitor.Observe(*it.Record, vec, fallback)
		}
	}
	log.Debug().Int("rows", len(items)).Int("brandFallbacks", fallbacks).Msg("encoded features")
	return items, nil
}

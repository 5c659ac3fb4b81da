package feature

import (
	"unicode/utf8"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// NormalizeCategory 是训练/推理一致性的核心规则：
// 空值补为 "unknown"；词表中不存在的值（训练时没见过）一律映射为 "unknown"，
// 编码器永远不会尝试编码词表之外的类别，而是降级到兜底类别。
func NormalizeCategory(value string, vocab Vocabulary) string {
	if value == "" {
		return core.UnknownBrand
	}
	if !vocab.Contains(value) {
		return core.UnknownBrand
	}
	return value
}

// Encoder 把清洗记录编码为固定维度的特征向量。
// 品牌编码使用词表的固定位置（与训练打分模型时相同），编码器不会重算或重排词表。
type Encoder struct {
	vocab   Vocabulary
	unknown int
}

// NewEncoder 创建编码器；词表中没有 "unknown" 时返回 ARTIFACT_INCOMPATIBLE。
func NewEncoder(vocab Vocabulary) (*Encoder, error) {
	if vocab == nil {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactNotFound, "", "brand vocabulary is nil", nil)
	}
	idx, ok := vocab.IndexOf(core.UnknownBrand)
	if !ok {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactIncompatible, "",
			"brand vocabulary has no \"unknown\" sentinel", nil)
	}
	return &Encoder{vocab: vocab, unknown: idx}, nil
}

// BrandIndex 返回品牌（经过 NormalizeCategory）的编码。
func (e *Encoder) BrandIndex(brand string) int {
	if idx, ok := e.vocab.IndexOf(NormalizeCategory(brand, e.vocab)); ok {
		return idx
	}
	return e.unknown
}

// EncodeOne 编码单条记录，row 为行标识。
// title_length / model_length 为字符数（不是字节数）。
func (e *Encoder) EncodeOne(row int, rec core.CleanedRecord) core.FeatureVector {
	return core.FeatureVector{
		Row:         row,
		Price:       rec.Price,
		Rating:      rec.Rating,
		TitleLength: utf8.RuneCountInString(rec.Title),
		ModelLength: utf8.RuneCountInString(rec.Model),
		BrandIndex:  e.BrandIndex(rec.Brand),
	}
}

// Encode 按输入顺序编码整张清洗表，第 i 条记录的 Row 为 i。
func (e *Encoder) Encode(records []core.CleanedRecord) []core.FeatureVector {
	out := make([]core.FeatureVector, len(records))
	for i, rec := range records {
		out[i] = e.EncodeOne(i, rec)
	}
	return out
}

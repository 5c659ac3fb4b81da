package core

import "github.com/Ahmet872/amazon-review-sales-predictor/pkg/utils"

// Item 是流水线中的统一承载结构：原始记录、清洗结果、特征、预测、标签。
// ID 是原始输入中的位置，作为整条链路的行标识。
type Item struct {
	ID         int
	Raw        RawRecord
	Record     *CleanedRecord
	Vector     *FeatureVector
	Prediction *Prediction
	Labels     map[string]utils.Label
}

func NewItem(id int, raw RawRecord) *Item {
	return &Item{
		ID:     id,
		Raw:    raw,
		Labels: make(map[string]utils.Label),
	}
}

// NewItems 按输入顺序为每条原始记录创建 Item。
func NewItems(raws []RawRecord) []*Item {
	items := make([]*Item, 0, len(raws))
	for i, raw := range raws {
		items = append(items, NewItem(i, raw))
	}
	return items
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Records 收集 items 中已清洗的记录（保持顺序）。
func Records(items []*Item) []CleanedRecord {
	out := make([]CleanedRecord, 0, len(items))
	for _, it := range items {
		if it != nil && it.Record != nil {
			out = append(out, *it.Record)
		}
	}
	return out
}

// Predictions 收集 items 中的预测结果（保持顺序）。
func Predictions(items []*Item) []Prediction {
	out := make([]Prediction, 0, len(items))
	for _, it := range items {
		if it != nil && it.Prediction != nil {
			out = append(out, *it.Prediction)
		}
	}
	return out
}

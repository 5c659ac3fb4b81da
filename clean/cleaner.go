// Package clean 校验并过滤一批原始记录，组装成清洗表。
package clean

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/normalize"
)

// Options 是清洗参数。
type Options struct {
	// ModelFilter 大小写不敏感的标题子串；空串表示不过滤
	ModelFilter string
	// Extractor 品牌/型号提取器，默认 normalize.HeuristicExtractor
	Extractor normalize.Extractor
}

// Option 修改 Options。
type Option func(*Options)

// WithModelFilter 设置标题子串过滤。
func WithModelFilter(filter string) Option {
	return func(o *Options) { o.ModelFilter = filter }
}

// WithExtractor 替换品牌/型号提取器。
func WithExtractor(e normalize.Extractor) Option {
	return func(o *Options) {
		if e != nil {
			o.Extractor = e
		}
	}
}

func newOptions(opts []Option) Options {
	o := Options{Extractor: normalize.NewHeuristicExtractor()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Reason 是记录被跳过的原因。
type Reason string

const (
	ReasonKept        Reason = ""
	ReasonNoTitle     Reason = "no_title"
	ReasonModelFilter Reason = "model_filter"
	ReasonBadPrice    Reason = "bad_price"
)

// CleanOne 清洗单条记录；返回的 Reason 为空表示保留。
func CleanOne(raw core.RawRecord, o Options) (core.CleanedRecord, Reason) {
	title, _ := raw[core.FieldTitle].(string)
	if title == "" {
		return core.CleanedRecord{}, ReasonNoTitle
	}
	if o.ModelFilter != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(o.ModelFilter)) {
		return core.CleanedRecord{}, ReasonModelFilter
	}

	price, ok := normalize.ParsePrice(raw[core.FieldPrice])
	if !ok {
		return core.CleanedRecord{}, ReasonBadPrice
	}
	brand, model := o.Extractor.Extract(title)

	return core.CleanedRecord{
		Title:   title,
		Price:   price,
		Rating:  normalize.ParseRating(raw[core.FieldRating]),
		Reviews: normalize.ParseReviews(raw[core.FieldReviews]),
		Brand:   brand,
		Model:   model,
	}, ReasonKept
}

// Clean 清洗一批原始记录：
//  1. 没有 title 或 title 为空的跳过
//  2. 设置了 ModelFilter 且标题不包含它（大小写不敏感）的跳过
//  3. 解析 price/rating/reviews/brand/model
//  4. 只保留 price 解析成功的记录
//
// 结果为空时返回 EMPTY_RESULT 校验错误，Total 为原始记录数。
func Clean(raws []core.RawRecord, opts ...Option) ([]core.CleanedRecord, error) {
	o := newOptions(opts)
	out := make([]core.CleanedRecord, 0, len(raws))
	skipped := make(map[Reason]int)
	for _, raw := range raws {
		rec, reason := CleanOne(raw, o)
		if reason != ReasonKept {
			skipped[reason]++
			continue
		}
		out = append(out, rec)
	}

	log.Debug().
		Int("total", len(raws)).
		Int("kept", len(out)).
		Int("noTitle", skipped[ReasonNoTitle]).
		Int("modelFilter", skipped[ReasonModelFilter]).
		Int("badPrice", skipped[ReasonBadPrice]).
		Msg("cleaned raw records")

	if len(out) == 0 {
		return nil, core.NewEmptyResultError(core.ModuleCleaner, len(raws))
	}
	return out, nil
}

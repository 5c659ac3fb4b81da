// Package normalize 把原始记录中的单个异构字段解析为确定类型的值。
//
// 所有函数都是全函数：不 panic、不返回 error，失败时返回哨兵值，
// 保证一条坏数据不会中断整批处理。
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/Ahmet872/amazon-review-sales-predictor/pkg/conv"
)

// 结构化字段中的子字段名
const (
	priceRawKey     = "raw"
	reviewsCountKey = "count"
)

// ParsePrice 解析价格。
// 值为对象时读取其 raw 子字段，否则按字符串处理；去掉所有非数字、非小数点字符后转为 float64。
// 解析失败（空串、多个小数点等）时返回 (0, false)。
//
//	ParsePrice("$19.99")                  // 19.99, true
//	ParsePrice(map[string]any{"raw": "$1,234.50"}) // 1234.5, true
//	ParsePrice("N/A")                     // 0, false
func ParsePrice(v any) (float64, bool) {
	if sub, ok := conv.Field(v, priceRawKey); ok {
		v = sub
	}
	s, _ := conv.ToString(v)
	s = keep(s, func(r rune) bool { return isDigit(r) || r == '.' })
	if s == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// ParseRating 解析评分，无法转换为有限浮点数时返回 0（"NaN"、"inf" 同样视为解析失败）。
func ParseRating(v any) float64 {
	f, ok := conv.ToFloat64(v)
	if !ok {
		s, isStr := v.(string)
		if !isStr {
			return 0
		}
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseReviews 解析评论数。
// 值为对象时读取其 count 子字段，否则按字符串处理；去掉所有非数字字符后转为 int，失败时返回 0。
func ParseReviews(v any) int {
	if sub, ok := conv.Field(v, reviewsCountKey); ok {
		v = sub
	}
	s, _ := conv.ToString(v)
	s = keep(s, isDigit)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// keep 只保留满足 pred 的字符。
func keep(s string, pred func(rune) bool) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if pred(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

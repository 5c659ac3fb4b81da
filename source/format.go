package source

import (
	"strings"
	"unicode"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/pkg/conv"
)

// NotAvailable 是展示时缺失字段的占位值。
const NotAvailable = "N/A"

// DisplayProduct 是原始记录的展示形态，所有字段都是字符串。
type DisplayProduct struct {
	Title   string `json:"title"`
	Price   string `json:"price"`
	Rating  string `json:"rating"`
	Reviews string `json:"reviews"`
}

// FormatProduct 把原始记录整理为可直接展示的字符串，缺失字段用 N/A。
func FormatProduct(raw core.RawRecord) DisplayProduct {
	return DisplayProduct{
		Title:   orNA(raw[core.FieldTitle]),
		Price:   formatPrice(raw[core.FieldPrice]),
		Rating:  orNA(raw[core.FieldRating]),
		Reviews: formatReviews(raw[core.FieldReviews]),
	}
}

func formatPrice(v any) string {
	if sub, ok := conv.Field(v, "raw"); ok {
		return orNA(sub)
	}
	return orNA(v)
}

func formatReviews(v any) string {
	if sub, ok := conv.Field(v, "count"); ok {
		return orNA(sub)
	}
	if s, ok := v.(string); ok {
		digits := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) && r < unicode.MaxASCII {
				return r
			}
			return -1
		}, s)
		if digits == "" {
			return NotAvailable
		}
		return digits
	}
	return orNA(v)
}

func orNA(v any) string {
	s, ok := conv.ToString(v)
	if !ok || s == "" {
		return NotAvailable
	}
	return s
}

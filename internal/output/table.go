// Package output 负责终端输出：预测结果表与搜索结果列表。
// 表格使用定宽列；stdout 是终端且未设置 NO_COLOR 时带 ANSI 颜色。
package output

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/rerank"
	"github.com/Ahmet872/amazon-review-sales-predictor/source"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

const titleWidth = 40

// IsColorEnabled 判断是否输出 ANSI 颜色：stdout 是 TTY 且 NO_COLOR 未设置。
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderPredictionTable 渲染预测结果的前 topN 行（topN <= 0 展示全部）。
// 列：title, price, rating, predicted_reviews, predicted_sales。
func RenderPredictionTable(preds []core.Prediction, topN int) string {
	if len(preds) == 0 {
		return "No predictions.\n"
	}
	shown := rerank.TopN(preds, topN)

	var sb strings.Builder
	sb.WriteString(colorize(colorBold, fmt.Sprintf("Top %d products by predicted reviews:", len(shown))))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("%-4s %-40s %10s %6s %10s %10s\n",
		"#", "Title", "Price", "Rating", "Reviews", "Sales"))
	sb.WriteString(strings.Repeat("─", 85))
	sb.WriteString("\n")

	for i, p := range shown {
		sb.WriteString(fmt.Sprintf("%-4d %-40s %10s %6s %10s %10s\n",
			i+1,
			truncate(p.Title, titleWidth),
			fmt.Sprintf("%.2f", p.Price),
			fmt.Sprintf("%.1f", p.Rating),
			colorize(colorGreen, padLeft(formatCount(p.PredictedReviews), 10)),
			formatCount(p.PredictedSales)))
	}

	if rest := len(preds) - len(shown); rest > 0 {
		sb.WriteString(colorize(colorGray, fmt.Sprintf("... %d more\n", rest)))
	}
	return sb.String()
}

// RenderDisplayProducts 渲染搜索结果列表，缺失字段显示为 N/A。
func RenderDisplayProducts(query string, raws []core.RawRecord) string {
	if len(raws) == 0 {
		return "No results found.\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Search results for '%s':\n\n", query))
	for i, raw := range raws {
		p := source.FormatProduct(raw)
		sb.WriteString(fmt.Sprintf("%d. %s\n   Price: %s, Rating: %s, Reviews: %s\n",
			i+1, p.Title, p.Price, p.Rating, p.Reviews))
	}
	return sb.String()
}

// formatCount 用千分位格式化整数：12000 -> "12,000"。
func formatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// padLeft 在着色前补齐宽度，避免 ANSI 控制字符打乱对齐。
func padLeft(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

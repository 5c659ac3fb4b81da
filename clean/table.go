package clean

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// RequiredColumns 是从已保存的清洗表直接预测时必须存在的列。
// reviews 不参与特征计算，缺失时按 0 处理。
var RequiredColumns = []string{"title", "price", "rating", "brand", "model"}

// ReadTable 读取 CSV 格式的清洗表（表头 + 数据行）。
// 缺少必需列时返回 MISSING_COLUMNS 校验错误；没有数据行时返回 EMPTY_RESULT。
// price/rating 无法解析的行返回 INVALID_INPUT，而不是悄悄丢弃。
func ReadTable(r io.Reader) ([]core.CleanedRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.NewValidationError(core.ModuleCleaner, core.ErrorCodeEmptyInput, "cleaned table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, core.NewMissingColumnsError(core.ModuleCleaner, missing)
	}

	get := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var out []core.CleanedRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		price, err := parseFinite(get(row, "price"))
		if err != nil {
			return nil, core.NewValidationError(core.ModuleCleaner, core.ErrorCodeInvalidInput,
				fmt.Sprintf("row %d: invalid price %q", line, get(row, "price")))
		}
		rating, err := parseFinite(get(row, "rating"))
		if err != nil {
			return nil, core.NewValidationError(core.ModuleCleaner, core.ErrorCodeInvalidInput,
				fmt.Sprintf("row %d: invalid rating %q", line, get(row, "rating")))
		}
		reviews, _ := strconv.Atoi(get(row, "reviews"))

		out = append(out, core.CleanedRecord{
			Title:   get(row, "title"),
			Price:   price,
			Rating:  rating,
			Reviews: reviews,
			Brand:   get(row, "brand"),
			Model:   get(row, "model"),
		})
	}

	if len(out) == 0 {
		return nil, core.NewEmptyResultError(core.ModuleCleaner, 0)
	}
	return out, nil
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return f, nil
}

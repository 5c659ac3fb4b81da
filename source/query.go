// Package source 定义原始商品记录的来源。网络抓取由外部服务负责，
// 这里只提供接口、基于文件的实现与查询/展示相关的小工具。
package source

import (
	"strings"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// BuildQuery 按 "品牌 型号 品类" 拼接搜索词。三者都必须非空。
func BuildQuery(category, brand, model string) (string, error) {
	category, brand, model = strings.TrimSpace(category), strings.TrimSpace(brand), strings.TrimSpace(model)
	if category == "" || brand == "" || model == "" {
		return "", core.NewValidationError(core.ModuleSource, core.ErrorCodeInvalidInput,
			"category, brand, and model cannot be empty")
	}
	return brand + " " + model + " " + category, nil
}

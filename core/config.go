package core

// 业务常量
const (
	// ConversionRate 是把预测评论数换算为销量的固定倍数（业务假设，不是学出来的）。
	ConversionRate = 20

	// UnknownBrand 是词表中的兜底类别，训练时未见过的品牌一律映射到它。
	UnknownBrand = "unknown"

	// UnknownToken 是标题解析失败时的品牌/型号占位值。
	UnknownToken = "Unknown"
)

// DefaultTopN 是未指定展示条数时的默认值。
const DefaultTopN = 20

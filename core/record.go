package core

// RawRecord 是外部搜索服务返回的原始商品记录，字段形态不做任何保证。
// 关心的 key：title（string，必需）、price（string 或 {raw}）、
// rating（string/number）、reviews（string/number 或 {count}）。
type RawRecord = map[string]any

// 原始记录字段名
const (
	FieldTitle   = "title"
	FieldPrice   = "price"
	FieldRating  = "rating"
	FieldReviews = "reviews"
)

// CleanedRecord 是通过清洗与校验的记录。Price 一定解析成功；
// Rating/Reviews 解析失败时为 0。
type CleanedRecord struct {
	Title   string  `json:"title"`
	Price   float64 `json:"price"`
	Rating  float64 `json:"rating"`
	Reviews int     `json:"reviews"`
	Brand   string  `json:"brand"`
	Model   string  `json:"model"`
}

// FeatureVector 是打分模型的固定维度输入。
// Row 是与源 CleanedRecord 共享的行标识，用于把预测结果挂回原记录。
type FeatureVector struct {
	Row         int     `json:"row"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	TitleLength int     `json:"title_length"`
	ModelLength int     `json:"model_length"`
	BrandIndex  int     `json:"brand_index"`
}

// FeatureNames 是模型训练时使用的特征顺序。
var FeatureNames = []string{"price", "rating", "title_length", "model_length", "brand_encoded"}

// Values 按 FeatureNames 的顺序返回特征值。
func (v FeatureVector) Values() []float64 {
	return []float64{
		v.Price,
		v.Rating,
		float64(v.TitleLength),
		float64(v.ModelLength),
		float64(v.BrandIndex),
	}
}

// Map 以特征名为 key 返回特征值，供按名字取权重的模型使用。
func (v FeatureVector) Map() map[string]float64 {
	vals := v.Values()
	out := make(map[string]float64, len(vals))
	for i, name := range FeatureNames {
		out[name] = vals[i]
	}
	return out
}

// Prediction 是流水线的最终产物：CleanedRecord + 预测列。
type Prediction struct {
	CleanedRecord
	PredictedLogReviews float64 `json:"predicted_log_reviews"`
	PredictedReviews    int     `json:"predicted_reviews"`
	PredictedSales      int     `json:"predicted_sales"`
}

// CleanedColumns 是清洗表的列顺序。
var CleanedColumns = []string{"title", "price", "rating", "reviews", "brand", "model"}

// PredictionColumns 是预测表（及导出 CSV）的列顺序。
var PredictionColumns = append(append([]string{}, CleanedColumns...),
	"predicted_log_reviews", "predicted_reviews", "predicted_sales")

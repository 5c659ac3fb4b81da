package normalize

import (
	"regexp"
	"strings"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// Extractor 从商品标题中提取品牌与型号。
// 提取结果是尽力而为的猜测，下游不能把 brand/model 当作权威标识。
// 更准确的实现（分词器、NER 等）实现此接口即可替换，清洗器的契约不变。
type Extractor interface {
	Name() string
	Extract(title string) (brand, model string)
}

// HeuristicExtractor 是默认的标题启发式提取器：
//  1. 按空白切分，去掉停用词（大小写不敏感）
//  2. 第一个剩余 token 为品牌，没有则为 "Unknown"
//  3. 之后第一个只由字母、数字、连字符组成的 token 为型号，没有则为 "Unknown"
type HeuristicExtractor struct {
	Stopwords map[string]struct{}
}

// DefaultStopwords 是默认停用词表。
var DefaultStopwords = []string{"the", "a", "an", "for", "with", "by", "and", "of"}

var modelTokenRegexp = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// NewHeuristicExtractor 创建启发式提取器；不传停用词时使用 DefaultStopwords。
func NewHeuristicExtractor(stopwords ...string) *HeuristicExtractor {
	if len(stopwords) == 0 {
		stopwords = DefaultStopwords
	}
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &HeuristicExtractor{Stopwords: set}
}

func (e *HeuristicExtractor) Name() string { return "heuristic" }

func (e *HeuristicExtractor) Extract(title string) (string, string) {
	words := make([]string, 0, 8)
	for _, w := range strings.Fields(title) {
		if _, stop := e.Stopwords[strings.ToLower(w)]; stop {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return core.UnknownToken, core.UnknownToken
	}

	brand := words[0]
	for _, w := range words[1:] {
		if modelTokenRegexp.MatchString(w) {
			return brand, w
		}
	}
	return brand, core.UnknownToken
}

var defaultExtractor = NewHeuristicExtractor()

// ExtractBrandModel 使用默认启发式提取器解析标题。
//
//	ExtractBrandModel("JBL 560BT Wireless Headphones") // "JBL", "560BT"
func ExtractBrandModel(title string) (brand, model string) {
	return defaultExtractor.Extract(title)
}

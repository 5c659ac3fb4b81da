package builders

import (
	"fmt"
	"time"

	"github.com/Ahmet872/amazon-review-sales-predictor/clean"
	"github.com/Ahmet872/amazon-review-sales-predictor/config"
	"github.com/Ahmet872/amazon-review-sales-predictor/feature"
	"github.com/Ahmet872/amazon-review-sales-predictor/filter"
	"github.com/Ahmet872/amazon-review-sales-predictor/model"
	"github.com/Ahmet872/amazon-review-sales-predictor/normalize"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
	"github.com/Ahmet872/amazon-review-sales-predictor/pkg/conv"
	"github.com/Ahmet872/amazon-review-sales-predictor/rank"
	"github.com/Ahmet872/amazon-review-sales-predictor/rerank"
)

func init() {
	config.Register("clean", BuildCleanNode)
	config.Register("filter", BuildFilterNode)
	config.Register("filter.expr", BuildExprFilterNode)
	config.Register("feature.encode", BuildEncodeNode)
	config.Register("rank.model", BuildModelNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// BuildCleanNode 构建清洗节点。
//
//	config: {model_filter: "WH-1000", stopwords: [the, a, ...]}
func BuildCleanNode(cfg map[string]any) (pipeline.Node, error) {
	n := &clean.Node{ModelFilter: conv.ConfigGet(cfg, "model_filter", "")}
	if sw := conv.SliceAnyToString(cfg["stopwords"]); len(sw) > 0 {
		n.Extractor = normalize.NewHeuristicExtractor(sw...)
	}
	return n, nil
}

func BuildExprFilterNode(cfg map[string]any) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	f, err := filter.NewExprFilter(expr)
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{Filters: []filter.Filter{f}}, nil
}

func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		switch filterType := conv.ConfigGet(filterMap, "type", ""); filterType {
		case "expr":
			f, err := filter.NewExprFilter(conv.ConfigGet(filterMap, "expr", ""))
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		case "brand_blocklist":
			brands := conv.SliceAnyToString(filterMap["brands"])
			filters = append(filters, filter.NewBrandBlocklistFilter(brands, nil, ""))
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

// BuildEncodeNode 构建编码节点，词表来自产物路径或内联 classes。
//
//	config: {vocabulary: "artifacts/brand_vocab.msgpack"} 或 {classes: [Anker, JBL, unknown]}
func BuildEncodeNode(cfg map[string]any) (pipeline.Node, error) {
	var (
		vocab *feature.BrandVocabulary
		err   error
	)
	if path := conv.ConfigGet(cfg, "vocabulary", ""); path != "" {
		vocab, err = feature.LoadVocabulary(path)
	} else if classes := conv.SliceAnyToString(cfg["classes"]); len(classes) > 0 {
		vocab, err = feature.NewBrandVocabulary(classes)
	} else {
		return nil, fmt.Errorf("vocabulary or classes not found")
	}
	if err != nil {
		return nil, err
	}
	enc, err := feature.NewEncoder(vocab)
	if err != nil {
		return nil, err
	}
	return &feature.EncodeNode{Encoder: enc}, nil
}

// BuildModelNode 构建排序节点。支持三种写法：
//
//	{path: "artifacts/model.txt"}                       // LightGBM / 线性 JSON / http(s) 远程
//	{endpoint: "http://...", timeout: 5}                // 远程模型服务
//	{bias: 1.0, weights: {rating: 0.8, price: -0.01}}   // 内联线性模型
func BuildModelNode(cfg map[string]any) (pipeline.Node, error) {
	if path := conv.ConfigGet(cfg, "path", ""); path != "" {
		scorer, err := model.Load(path)
		if err != nil {
			return nil, err
		}
		return &rank.ModelNode{Scorer: scorer}, nil
	}
	if endpoint := conv.ConfigGet(cfg, "endpoint", ""); endpoint != "" {
		timeout := 5 * time.Second
		if sec := conv.ConfigGetInt64(cfg, "timeout", 5); sec > 0 {
			timeout = time.Duration(sec) * time.Second
		}
		name := conv.ConfigGet(cfg, "name", "rpc")
		return &rank.ModelNode{Scorer: model.NewRPCModel(name, endpoint, timeout)}, nil
	}
	weightsMap, ok := cfg["weights"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("one of path, endpoint or weights is required")
	}
	lm, err := model.NewLinearModel(conv.ConfigGetFloat64(cfg, "bias", 0), conv.MapToFloat64(weightsMap))
	if err != nil {
		return nil, err
	}
	return &rank.ModelNode{Scorer: lm}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

// Package artifact 负责一次性加载推理所需的两个不可变产物（打分模型与品牌词表），
// 并据此组装默认的预测流水线。
package artifact

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ahmet872/amazon-review-sales-predictor/clean"
	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/feature"
	"github.com/Ahmet872/amazon-review-sales-predictor/model"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
	"github.com/Ahmet872/amazon-review-sales-predictor/rank"
	"github.com/Ahmet872/amazon-review-sales-predictor/rerank"
)

// Bundle 是加载完成的产物集合。加载后只读，可被多个流水线并发共享。
type Bundle struct {
	Scorer     model.Scorer
	Vocabulary *feature.BrandVocabulary
	Encoder    *feature.Encoder
	Monitor    *feature.Monitor // 由 Pipeline 组装的所有流水线共享
}

// Load 加载模型与词表；任何一个缺失或不兼容都在打分前返回 ArtifactError。
// 词表路径可以是本地文件或 http(s) 地址。
func Load(ctx context.Context, modelPath, vocabPath string) (*Bundle, error) {
	scorer, err := model.Load(modelPath)
	if err != nil {
		return nil, err
	}

	var vocab *feature.BrandVocabulary
	if strings.HasPrefix(vocabPath, "http://") || strings.HasPrefix(vocabPath, "https://") {
		vocab, err = feature.NewHTTPVocabularyLoader(10*time.Second).Load(ctx, vocabPath)
	} else {
		vocab, err = feature.LoadVocabulary(vocabPath)
	}
	if err != nil {
		return nil, err
	}

	b, err := NewBundle(scorer, vocab)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("model", modelPath).
		Str("scorer", scorer.Name()).
		Str("vocabulary", vocabPath).
		Int("brands", vocab.Len()).
		Msg("artifacts loaded")
	return b, nil
}

// NewBundle 用已构造好的模型与词表组装 Bundle（测试与内嵌场景使用）。
func NewBundle(scorer model.Scorer, vocab *feature.BrandVocabulary) (*Bundle, error) {
	if scorer == nil {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactNotFound, "", "scorer is nil", nil)
	}
	enc, err := feature.NewEncoder(vocab)
	if err != nil {
		return nil, err
	}
	return &Bundle{Scorer: scorer, Vocabulary: vocab, Encoder: enc, Monitor: feature.NewMonitor(0)}, nil
}

// Pipeline 组装默认流水线：clean -> [extra 过滤节点] -> feature.encode -> rank.model -> rerank.topn。
func (b *Bundle) Pipeline(name string, extra ...pipeline.Node) *pipeline.Pipeline {
	nodes := make([]pipeline.Node, 0, len(extra)+4)
	nodes = append(nodes, &clean.Node{})
	nodes = append(nodes, extra...)
	nodes = append(nodes,
		&feature.EncodeNode{Encoder: b.Encoder, Monitor: b.Monitor},
		&rank.ModelNode{Scorer: b.Scorer},
		&rerank.TopNNode{},
	)
	return &pipeline.Pipeline{Name: name, Nodes: nodes}
}

// Predict 是不经过流水线的纯函数路径：清洗表 -> 特征 -> 排序结果。
func (b *Bundle) Predict(records []core.CleanedRecord) ([]core.Prediction, error) {
	return rank.Score(records, b.Encoder.Encode(records), b.Scorer)
}

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

const (
	linearFormat  = "linear-regressor"
	linearVersion = 1
)

// LinearModel 实现了 log 空间的线性回归打分：
//
//	score = Bias + sum(Weight_i * Feature_i)
//
// 与 LightGBM 相比它可解释、可手写，适合作为基线模型或在测试中使用。
// 没有配置权重的特征按 0 处理。
type LinearModel struct {
	Bias    float64            // 偏置项 (Bias / Intercept)
	Weights map[string]float64 // 特征权重，key 为 core.FeatureNames 中的名字
}

// NewLinearModel 创建线性模型；权重中出现未知特征名时返回 ARTIFACT_INCOMPATIBLE。
func NewLinearModel(bias float64, weights map[string]float64) (*LinearModel, error) {
	known := make(map[string]struct{}, len(core.FeatureNames))
	for _, name := range core.FeatureNames {
		known[name] = struct{}{}
	}
	for name := range weights {
		if _, ok := known[name]; !ok {
			return nil, core.NewArtifactError(core.ErrorCodeArtifactIncompatible, "",
				fmt.Sprintf("linear model weight for unknown feature %q", name), nil)
		}
	}
	return &LinearModel{Bias: bias, Weights: weights}, nil
}

// LoadLinearModel 从 JSON 文件加载线性模型：
//
//	{"format": "linear-regressor", "version": 1, "bias": 1.2, "weights": {"price": -0.01, "rating": 0.9}}
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactNotFound, path, "model file not found", err)
	}
	if err != nil {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactCorrupt, path, "failed to read model file", err)
	}
	var raw struct {
		Format  string             `json:"format"`
		Version int                `json:"version"`
		Bias    float64            `json:"bias"`
		Weights map[string]float64 `json:"weights"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactCorrupt, path, "failed to parse linear model", err)
	}
	if raw.Format != linearFormat || raw.Version != linearVersion {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactIncompatible, path,
			fmt.Sprintf("unsupported linear model %s v%d", raw.Format, raw.Version), nil)
	}
	m, err := NewLinearModel(raw.Bias, raw.Weights)
	if err != nil {
		var ae *core.ArtifactError
		if errors.As(err, &ae) {
			return nil, ae.WithPath(path)
		}
		return nil, err
	}
	return m, nil
}

func (m *LinearModel) Name() string { return "linear" }

func (m *LinearModel) Score(v core.FeatureVector) (float64, error) {
	score := m.Bias
	for k, x := range v.Map() {
		if w, ok := m.Weights[k]; ok {
			score += w * x
		}
	}
	return score, nil
}

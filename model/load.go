package model

import (
	"strings"
	"time"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// Load 按路径加载打分模型：
//   - http:// 或 https:// 开头：远程模型服务
//   - .json：线性模型
//   - .txt / .txt.gz / .gz：LightGBM 文本模型
func Load(path string) (Scorer, error) {
	switch {
	case path == "":
		return nil, core.NewArtifactError(core.ErrorCodeArtifactNotFound, "", "model path not set", nil)
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return NewRPCModel("rpc", path, 10*time.Second), nil
	case strings.HasSuffix(path, ".json"):
		return LoadLinearModel(path)
	case strings.HasSuffix(path, ".txt"), strings.HasSuffix(path, ".gz"), strings.HasSuffix(path, ".gzip"):
		return LoadLightGBMModel(path)
	default:
		return nil, core.NewArtifactError(core.ErrorCodeArtifactIncompatible, path, "unrecognized model format", nil)
	}
}

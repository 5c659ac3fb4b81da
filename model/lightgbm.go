package model

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitryikh/leaves"
	"github.com/rs/zerolog/log"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// LightGBMModel 是用 leaves 加载的 LightGBM 回归模型（训练侧导出的文本模型，可 gzip 压缩）。
type LightGBMModel struct {
	ensemble *leaves.Ensemble
}

// LoadLightGBMModel 加载 LightGBM 文本模型。
// 模型输入维度必须与 core.FeatureNames 一致，否则返回 ARTIFACT_INCOMPATIBLE。
func LoadLightGBMModel(path string) (*LightGBMModel, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactNotFound, path, "model file not found", err)
	}
	if err != nil {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactCorrupt, path, "failed to open model file", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".gzip") {
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, core.NewArtifactError(core.ErrorCodeArtifactCorrupt, path, "failed to create gzip reader", err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	ensemble, err := leaves.LGEnsembleFromReader(bufio.NewReader(reader), true)
	if err != nil {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactCorrupt, path, "failed to load LightGBM model", err)
	}
	if n := ensemble.NFeatures(); n != len(core.FeatureNames) {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactIncompatible, path,
			fmt.Sprintf("model expects %d features, encoder produces %d", n, len(core.FeatureNames)), nil)
	}
	log.Debug().
		Str("path", path).
		Int("trees", ensemble.NEstimators()).
		Msg("loaded LightGBM model")
	return &LightGBMModel{ensemble: ensemble}, nil
}

func (m *LightGBMModel) Name() string { return "lightgbm" }

func (m *LightGBMModel) Score(v core.FeatureVector) (float64, error) {
	return m.ensemble.PredictSingle(v.Values(), 0), nil
}

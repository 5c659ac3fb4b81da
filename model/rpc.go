package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// RPCModel 是通过 HTTP 调用外部模型服务的 Scorer 实现（例如在 Python 侧托管的 LightGBM）。
type RPCModel struct {
	name     string
	Endpoint string // 例如 "http://localhost:8080/predict"
	Timeout  time.Duration
	Client   *http.Client
}

var _ BatchScorer = (*RPCModel)(nil)

func NewRPCModel(name, endpoint string, timeout time.Duration) *RPCModel {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	if name == "" {
		name = "rpc"
	}
	return &RPCModel{
		name:     name,
		Endpoint: endpoint,
		Timeout:  timeout,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (m *RPCModel) Name() string {
	return m.name
}

// Score 调用远程模型服务进行预测（单个向量，内部调用批量接口）。
func (m *RPCModel) Score(v core.FeatureVector) (float64, error) {
	scores, err := m.ScoreBatch([]core.FeatureVector{v})
	if err != nil {
		return 0, err
	}
	return scores[0], nil
}

// ScoreBatch 调用远程模型服务进行批量预测。
// 请求格式（JSON）：
//
//	{"feature_names": ["price", ...], "instances": [[59.99, 4.3, 29, 5, 2], ...]}
//
// 响应格式（JSON）：
//
//	{"predictions": [7.82, ...]}
func (m *RPCModel) ScoreBatch(vs []core.FeatureVector) ([]float64, error) {
	if m.Client == nil {
		m.Client = &http.Client{Timeout: m.Timeout}
	}

	if len(vs) == 0 {
		return []float64{}, nil
	}

	instances := make([][]float64, len(vs))
	for i, v := range vs {
		instances[i] = v.Values()
	}
	jsonData, err := json.Marshal(map[string]any{
		"feature_names": core.FeatureNames,
		"instances":     instances,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, m.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("rpc error: status=%d, read body failed: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("rpc error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Predictions []float64 `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Predictions) != len(vs) {
		return nil, fmt.Errorf("response predictions count mismatch: expected %d, got %d", len(vs), len(result.Predictions))
	}

	return result.Predictions, nil
}

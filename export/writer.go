// Package export 把一次预测调用的结果写到外部：CSV 文件、SQL 数据库或 core.Store。
package export

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// Run 是一次完整预测调用的结果。Predictions 为完整排序表（不受 TopN 影响）。
type Run struct {
	ID          string            `json:"id"`
	Query       string            `json:"query,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	Model       string            `json:"model,omitempty"`
	Total       int               `json:"total"`
	CreatedAt   time.Time         `json:"createdAt"`
	Predictions []core.Prediction `json:"predictions"`
}

// NewRun 创建带新 ID 的 Run。
func NewRun(rctx *core.RunContext, preds []core.Prediction) *Run {
	r := &Run{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Predictions: preds,
	}
	if rctx != nil {
		if rctx.RunID != "" {
			r.ID = rctx.RunID
		}
		r.Query = rctx.Query
		r.Total = rctx.Total
	}
	return r
}

// RunWriter 是预测结果的持久化接口。
type RunWriter interface {
	WriteRun(ctx context.Context, run *Run) error
	Close() error
}

// MultiWriter 依次写入多个 RunWriter，遇到第一个错误即返回。
type MultiWriter []RunWriter

func (m MultiWriter) WriteRun(ctx context.Context, run *Run) error {
	for _, w := range m {
		if err := w.WriteRun(ctx, run); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiWriter) Close() error {
	var first error
	for _, w := range m {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

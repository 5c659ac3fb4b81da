package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

const recentRunsKey = "runs:recent"

func runKey(id string) string { return "run:" + id }

// StoreWriter 把调用结果以 JSON 写入 core.Store（内存或 Redis），
// 并在有序集合 runs:recent 中按创建时间索引。
type StoreWriter struct {
	Store core.Store
	TTL   int // 秒，0 表示不过期
}

var _ RunWriter = (*StoreWriter)(nil)

func (s *StoreWriter) WriteRun(ctx context.Context, run *Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	if err := s.Store.Set(ctx, runKey(run.ID), data, s.TTL); err != nil {
		return fmt.Errorf("%s: save run: %w", s.Store.Name(), err)
	}
	score := float64(run.CreatedAt.UnixNano()) / 1e9
	if err := s.Store.ZAdd(ctx, recentRunsKey, score, run.ID); err != nil {
		return fmt.Errorf("%s: index run: %w", s.Store.Name(), err)
	}
	return nil
}

// Close 不关闭底层 Store，由创建方负责。
func (s *StoreWriter) Close() error { return nil }

// LoadRun 读取 StoreWriter 写入的结果。
func LoadRun(ctx context.Context, store core.Store, id string) (*Run, error) {
	data, err := store.Get(ctx, runKey(id))
	if err != nil {
		return nil, err
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &run, nil
}

// RecentRuns 返回最近 n 次调用的 ID（新的在前）；n <= 0 返回全部。
func RecentRuns(ctx context.Context, store core.Store, n int) ([]string, error) {
	stop := int64(n) - 1
	if n <= 0 {
		stop = -1
	}
	return store.ZRange(ctx, recentRunsKey, 0, stop)
}

package filter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
// 屏蔽列表以 JSON 字符串数组保存，例如 ["Beats", "Skullcandy"]。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlocklist 从 Store 读取屏蔽列表。
func (a *StoreAdapter) GetBlocklist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode blocklist %s: %w", key, err)
	}
	return list, nil
}

// SetBlocklist 把屏蔽列表写入 Store。
func (a *StoreAdapter) SetBlocklist(ctx context.Context, key string, list []string) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, data)
}

package filter

import (
	"context"
	"strings"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// BrandBlocklistFilter 过滤掉指定品牌的商品（大小写不敏感）。
type BrandBlocklistFilter struct {
	// Brands 是内存中的屏蔽品牌列表
	Brands []string

	// Store 用于从存储中读取屏蔽品牌（可选）
	Store BlocklistStore

	// Key 是 Store 中的 key（可选）
	Key string
}

// BlocklistStore 是屏蔽列表存储接口。
type BlocklistStore interface {
	GetBlocklist(ctx context.Context, key string) ([]string, error)
}

// DefaultBlocklistKey 是 Store 中屏蔽品牌列表的默认 key。
const DefaultBlocklistKey = "blocklist:brands"

// NewBrandBlocklistFilter 创建一个品牌屏蔽过滤器。
// 传入 storeAdapter 且 key 为空时使用 DefaultBlocklistKey。
func NewBrandBlocklistFilter(brands []string, storeAdapter *StoreAdapter, key string) *BrandBlocklistFilter {
	var store BlocklistStore
	if storeAdapter != nil {
		store = storeAdapter
		if key == "" {
			key = DefaultBlocklistKey
		}
	}
	return &BrandBlocklistFilter{
		Brands: brands,
		Store:  store,
		Key:    key,
	}
}

func (f *BrandBlocklistFilter) Name() string {
	return "filter.brand_blocklist"
}

func (f *BrandBlocklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RunContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Record == nil {
		return true, nil
	}
	brand := item.Record.Brand

	for _, b := range f.Brands {
		if strings.EqualFold(b, brand) {
			return true, nil
		}
	}

	if f.Store != nil && f.Key != "" {
		blocked, err := f.Store.GetBlocklist(ctx, f.Key)
		if err != nil {
			if core.IsStoreNotFound(err) {
				return false, nil
			}
			return false, err
		}
		for _, b := range blocked {
			if strings.EqualFold(b, brand) {
				return true, nil
			}
		}
	}

	return false, nil
}

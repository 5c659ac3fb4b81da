// Package store 提供 core.Store 的实现：进程内的 MemoryStore 与基于 go-redis 的 RedisStore。
//
// 示例：
//
//	var s core.Store = store.NewMemoryStore()
//	s, err := store.NewRedisStore("localhost:6379", 0)
package store

import "github.com/Ahmet872/amazon-review-sales-predictor/core"

// ErrNotFound 是 core.ErrStoreNotFound 的别名，便于包内使用。
var ErrNotFound = core.ErrStoreNotFound

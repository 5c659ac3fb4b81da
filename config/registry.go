package config

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
)

// 节点类型注册表：PIPELINE_CONFIG 中每个 node 的 type 都要在这里找到构建函数。
// 内置的清洗、过滤、编码、打分与展示截断节点由 config/builders 在 init 中注册，
// 入口需要 import _ ".../config/builders"。

// NodeBuilder 把 YAML 中某个节点的 config 段转换为 pipeline.Node。
type NodeBuilder = pipeline.NodeBuilder

var (
	registryMu sync.RWMutex
	registry   = make(map[string]NodeBuilder)
)

// Register 登记节点类型。同一类型重复登记会 panic，空类型或 nil 构建函数被忽略。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[typeName]; dup {
		panic("config: node type registered twice: " + typeName)
	}
	registry[typeName] = builder
}

// SupportedTypes 返回已登记的节点类型（按字母序）。
func SupportedTypes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedTypes()
}

func sortedTypes() []string {
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 用当前登记的全部节点类型生成一个 NodeFactory。
func DefaultFactory() *pipeline.NodeFactory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range registry {
		f.Register(typeName, builder)
	}
	return f
}

// ValidatePipelineConfig 在构建前检查流水线配置，一次性列出所有未登记的节点类型。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return fmt.Errorf("pipeline config is nil")
	}
	if len(cfg.Pipeline.Nodes) == 0 {
		return fmt.Errorf("pipeline %q has no nodes", cfg.Pipeline.Name)
	}

	registryMu.RLock()
	defer registryMu.RUnlock()
	var unknown []string
	for i, nc := range cfg.Pipeline.Nodes {
		if _, ok := registry[nc.Type]; !ok {
			unknown = append(unknown, fmt.Sprintf("#%d %q", i, nc.Type))
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("pipeline %q: unsupported node type %s (supported: %s)",
			cfg.Pipeline.Name, strings.Join(unknown, ", "), strings.Join(sortedTypes(), ", "))
	}
	return nil
}

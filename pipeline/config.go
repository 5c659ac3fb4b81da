package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// 配置文件格式
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Config 描述一条流水线，例如：
//
//	pipeline:
//	  name: headphones
//	  nodes:
//	    - type: clean
//	    - type: feature.encode
//	      config: {classes: [JBL, Sony, unknown]}
//	    - type: rank.model
//	      config: {path: artifacts/model.txt}
type Config struct {
	Pipeline struct {
		Name  string       `yaml:"name" json:"name"`
		Nodes []NodeConfig `yaml:"nodes" json:"nodes"`
	} `yaml:"pipeline" json:"pipeline"`
}

// NodeConfig 是单个节点：type 对应注册表中的类型名，config 原样交给构建函数。
type NodeConfig struct {
	Type   string         `yaml:"type" json:"type"`
	Config map[string]any `yaml:"config" json:"config"`
}

// LoadConfig 读取流水线配置，.json 按 JSON 解析，其余按 YAML 解析。
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline config: %w", err)
	}
	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}
	cfg, err := ParseConfig(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig 按给定格式解析配置内容。
func ParseConfig(data []byte, format string) (*Config, error) {
	var cfg Config
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	return &cfg, nil
}

// BuildPipeline 依次构建各节点，并检查阶段顺序：
// 编码之前必须有清洗节点，打分之前必须有编码节点。
func (c *Config) BuildPipeline(factory *NodeFactory) (*Pipeline, error) {
	nodes := make([]Node, 0, len(c.Pipeline.Nodes))
	for i, nc := range c.Pipeline.Nodes {
		node, err := factory.Build(nc.Type, nc.Config)
		if err != nil {
			return nil, fmt.Errorf("build node #%d (%s): %w", i, nc.Type, err)
		}
		nodes = append(nodes, node)
	}
	if err := checkStages(nodes); err != nil {
		return nil, fmt.Errorf("pipeline %q: %w", c.Pipeline.Name, err)
	}
	return &Pipeline{Name: c.Pipeline.Name, Nodes: nodes}, nil
}

// stagePrereq 记录每个阶段依赖的前置阶段。
var stagePrereq = map[Kind]Kind{
	KindEncode: KindClean,
	KindRank:   KindEncode,
}

func checkStages(nodes []Node) error {
	seen := make(map[Kind]bool, len(nodes))
	for _, n := range nodes {
		if need, ok := stagePrereq[n.Kind()]; ok && !seen[need] {
			return fmt.Errorf("node %s (%s) needs a %s node before it", n.Name(), n.Kind(), need)
		}
		seen[n.Kind()] = true
	}
	return nil
}

// NodeBuilder 根据节点的 config 段构建 Node。
type NodeBuilder func(map[string]any) (Node, error)

// NodeFactory 按类型名查找构建函数。
type NodeFactory struct {
	builders map[string]NodeBuilder
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{builders: make(map[string]NodeBuilder)}
}

func (f *NodeFactory) Register(nodeType string, builder NodeBuilder) {
	f.builders[nodeType] = builder
}

func (f *NodeFactory) Build(nodeType string, config map[string]any) (Node, error) {
	builder, ok := f.builders[nodeType]
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s", nodeType)
	}
	return builder(config)
}

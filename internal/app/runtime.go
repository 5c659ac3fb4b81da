package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Ahmet872/amazon-review-sales-predictor/artifact"
	"github.com/Ahmet872/amazon-review-sales-predictor/config"
	_ "github.com/Ahmet872/amazon-review-sales-predictor/config/builders"
	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/export"
	"github.com/Ahmet872/amazon-review-sales-predictor/filter"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
	"github.com/Ahmet872/amazon-review-sales-predictor/store"
)

// filterFlags 是 predict/batch/watch 共用的过滤选项。
type filterFlags struct {
	modelFilter string
	expr        string
	blocklist   []string
}

// nodes 根据命令行选项构造额外的过滤节点。
func (f *filterFlags) nodes(st core.Store) ([]pipeline.Node, error) {
	var filters []filter.Filter
	if f.expr != "" {
		ef, err := filter.NewExprFilter(f.expr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, ef)
	}
	if len(f.blocklist) > 0 || st != nil {
		var adapter *filter.StoreAdapter
		if st != nil {
			adapter = filter.NewStoreAdapter(st)
		}
		filters = append(filters, filter.NewBrandBlocklistFilter(f.blocklist, adapter, ""))
	}
	if len(filters) == 0 {
		return nil, nil
	}
	return []pipeline.Node{&filter.FilterNode{Filters: filters}}, nil
}

// buildPipeline 优先使用 PIPELINE_CONFIG 描述的 YAML 流水线，
// 否则加载产物并组装默认流水线，extra 节点插在清洗之后。
func buildPipeline(ctx context.Context, s *config.Settings, name string, extra []pipeline.Node) (*pipeline.Pipeline, error) {
	if s.PipelineConfig != "" {
		cfg, err := pipeline.LoadConfig(s.PipelineConfig)
		if err != nil {
			return nil, fmt.Errorf("load pipeline config: %w", err)
		}
		if err := config.ValidatePipelineConfig(cfg); err != nil {
			return nil, err
		}
		p, err := cfg.BuildPipeline(config.DefaultFactory())
		if err != nil {
			return nil, err
		}
		if len(extra) > 0 && len(p.Nodes) > 0 {
			nodes := append([]pipeline.Node{p.Nodes[0]}, extra...)
			p.Nodes = append(nodes, p.Nodes[1:]...)
		}
		log.Info().Str("config", s.PipelineConfig).Int("nodes", len(p.Nodes)).Msg("pipeline loaded from config")
		return p, nil
	}

	b, err := artifact.Load(ctx, s.ModelPath, s.VocabPath)
	if err != nil {
		return nil, err
	}
	return b.Pipeline(name, extra...), nil
}

// openStore 按名字打开结果存储：memory、redis 或空串（不使用）。
func openStore(kind string, s *config.Settings) (core.Store, error) {
	switch strings.ToLower(kind) {
	case "":
		return nil, nil
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		addr := s.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		return store.NewRedisStore(addr, s.RedisDB)
	default:
		return nil, fmt.Errorf("unknown store %q (supported: memory, redis)", kind)
	}
}

// openWriters 组装结果写入器：CSV 总是写入，SQL 与 Store 按需追加。
func openWriters(ctx context.Context, outputDir, sqlDSN string, st core.Store) (export.MultiWriter, error) {
	writers := export.MultiWriter{&export.CSVWriter{Dir: outputDir}}
	if sqlDSN != "" {
		w, err := export.OpenSQL(ctx, sqlDSN)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}
	if st != nil {
		writers = append(writers, &export.StoreWriter{Store: st})
	}
	return writers, nil
}

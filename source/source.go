package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// RecordSource 根据搜索词返回原始商品记录。
// 限流、鉴权、传输错误都是实现方自己的问题。
type RecordSource interface {
	Name() string
	Search(ctx context.Context, query string) ([]core.RawRecord, error)
}

// FileSource 从本地 JSON 文件读取原始记录（抓取结果的离线副本），query 只用于日志。
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Search(ctx context.Context, query string) ([]core.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.WrapDomainError(core.ModuleSource, core.ErrorCodeNotFound, "raw records not found: "+s.Path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	log.Info().Str("query", query).Str("path", s.Path).Int("results", len(records)).Msg("raw records loaded")
	return records, nil
}

// MemorySource 返回固定的记录，用于测试与 HTTP 请求体直接携带记录的场景。
type MemorySource struct {
	Records []core.RawRecord
}

func (s *MemorySource) Name() string { return "memory" }

func (s *MemorySource) Search(_ context.Context, _ string) ([]core.RawRecord, error) {
	return s.Records, nil
}

// ReadRecords 解析原始记录。支持两种形态：
//   - JSON 数组：[{...}, {...}]
//   - 搜索服务的完整响应：{"organic_results": [{...}]}
func ReadRecords(r io.Reader) ([]core.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, core.NewValidationError(core.ModuleSource, core.ErrorCodeEmptyInput, "raw record input is empty")
	}

	if data[0] == '[' {
		var records []core.RawRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, core.WrapDomainError(core.ModuleSource, core.ErrorCodeInvalidInput, "invalid raw record array", err)
		}
		return records, nil
	}

	var resp struct {
		OrganicResults []core.RawRecord `json:"organic_results"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, core.WrapDomainError(core.ModuleSource, core.ErrorCodeInvalidInput, "invalid search response", err)
	}
	return resp.OrganicResults, nil
}

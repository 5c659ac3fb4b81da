package feature

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// HTTPVocabularyLoader 从模型仓库的 HTTP 接口加载品牌词表（响应体为 msgpack 词表产物）。
type HTTPVocabularyLoader struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPVocabularyLoader 创建 HTTP 词表加载器
//
// 用法：
//
//	loader := feature.NewHTTPVocabularyLoader(5 * time.Second)
//	vocab, err := loader.Load(ctx, "http://models.internal/sales/v3/brand_vocab.msgpack")
func NewHTTPVocabularyLoader(timeout time.Duration) *HTTPVocabularyLoader {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPVocabularyLoader{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// NewHTTPVocabularyLoaderWithClient 使用自定义 HTTP 客户端创建加载器
func NewHTTPVocabularyLoaderWithClient(client *http.Client) *HTTPVocabularyLoader {
	return &HTTPVocabularyLoader{
		client:  client,
		timeout: client.Timeout,
	}
}

// Load 从 HTTP 接口加载词表；404 视为产物缺失。
func (l *HTTPVocabularyLoader) Load(ctx context.Context, url string) (*BrandVocabulary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactNotFound, url, "invalid vocabulary url", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactNotFound, url, "vocabulary request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, core.NewArtifactError(core.ErrorCodeArtifactNotFound, url, "vocabulary not found", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, core.NewArtifactError(core.ErrorCodeArtifactNotFound, url,
			fmt.Sprintf("vocabulary request failed: status=%d, body=%s", resp.StatusCode, string(body)), nil)
	}

	vocab, err := ReadVocabulary(resp.Body)
	if err != nil {
		var ae *core.ArtifactError
		if errors.As(err, &ae) {
			return nil, ae.WithPath(url)
		}
		return nil, err
	}
	return vocab, nil
}

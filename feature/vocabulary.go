package feature

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

const (
	// VocabularyFormat 是词表产物的格式标识
	VocabularyFormat = "brand-vocabulary"
	// VocabularyVersion 是当前支持的词表产物版本
	VocabularyVersion = 1
)

// Vocabulary 是类别词表的最小契约。
type Vocabulary interface {
	Contains(value string) bool
	IndexOf(value string) (int, bool)
}

// BrandVocabulary 是训练时固定下来的品牌词表（有序、不可变，必须包含 "unknown"）。
// 品牌的整数编码就是它在词表中的位置；推理侧不能重排或扩充词表。
type BrandVocabulary struct {
	version int
	classes []string
	index   map[string]int
}

var _ Vocabulary = (*BrandVocabulary)(nil)

// vocabularyFile 是词表产物在磁盘上的 msgpack 结构
type vocabularyFile struct {
	Format  string   `msgpack:"format"`
	Version int      `msgpack:"version"`
	Classes []string `msgpack:"classes"`
}

// NewBrandVocabulary 按给定顺序创建词表。
// classes 必须非空、无重复且包含 "unknown"，否则返回 ARTIFACT_INCOMPATIBLE。
func NewBrandVocabulary(classes []string) (*BrandVocabulary, error) {
	if len(classes) == 0 {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactIncompatible, "", "brand vocabulary is empty", nil)
	}
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := index[c]; dup {
			return nil, core.NewArtifactError(core.ErrorCodeArtifactIncompatible, "",
				fmt.Sprintf("duplicate brand %q in vocabulary", c), nil)
		}
		index[c] = i
	}
	if _, ok := index[core.UnknownBrand]; !ok {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactIncompatible, "",
			fmt.Sprintf("brand vocabulary has no %q sentinel", core.UnknownBrand), nil)
	}
	cp := make([]string, len(classes))
	copy(cp, classes)
	return &BrandVocabulary{version: VocabularyVersion, classes: cp, index: index}, nil
}

// Contains 判断品牌是否在词表中（大小写敏感）。
func (v *BrandVocabulary) Contains(value string) bool {
	_, ok := v.index[value]
	return ok
}

// IndexOf 返回品牌在词表中的位置。
func (v *BrandVocabulary) IndexOf(value string) (int, bool) {
	i, ok := v.index[value]
	return i, ok
}

// Classes 返回词表的副本。
func (v *BrandVocabulary) Classes() []string {
	cp := make([]string, len(v.classes))
	copy(cp, v.classes)
	return cp
}

// Len 返回类别数量。
func (v *BrandVocabulary) Len() int {
	return len(v.classes)
}

// Version 返回产物版本。
func (v *BrandVocabulary) Version() int {
	return v.version
}

// WriteTo 以 msgpack 写出词表产物。
func (v *BrandVocabulary) WriteTo(w io.Writer) (int64, error) {
	data, err := msgpack.Marshal(vocabularyFile{
		Format:  VocabularyFormat,
		Version: v.version,
		Classes: v.classes,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to encode brand vocabulary: %w", err)
	}
	n, err := w.Write(data)
	return int64(n), err
}

// SaveVocabulary 把词表写入文件。
func SaveVocabulary(path string, v *BrandVocabulary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save brand vocabulary: %w", err)
	}
	defer file.Close()
	if _, err := v.WriteTo(file); err != nil {
		return fmt.Errorf("failed to save brand vocabulary: %w", err)
	}
	return nil
}

// ReadVocabulary 从 msgpack 流读取词表产物并校验格式与版本。
func ReadVocabulary(r io.Reader) (*BrandVocabulary, error) {
	var vf vocabularyFile
	if err := msgpack.NewDecoder(r).Decode(&vf); err != nil {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactCorrupt, "", "failed to decode brand vocabulary", err)
	}
	if vf.Format != VocabularyFormat {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactIncompatible, "",
			fmt.Sprintf("unexpected artifact format %q", vf.Format), nil)
	}
	if vf.Version != VocabularyVersion {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactIncompatible, "",
			fmt.Sprintf("unsupported brand vocabulary version %d (want %d)", vf.Version, VocabularyVersion), nil)
	}
	return NewBrandVocabulary(vf.Classes)
}

// LoadVocabulary 从文件加载词表；文件不存在返回 ARTIFACT_NOT_FOUND。
func LoadVocabulary(path string) (*BrandVocabulary, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactNotFound, path, "brand vocabulary not found", err)
	}
	if err != nil {
		return nil, core.NewArtifactError(core.ErrorCodeArtifactCorrupt, path, "failed to open brand vocabulary", err)
	}
	defer file.Close()

	v, err := ReadVocabulary(bufio.NewReader(file))
	if err != nil {
		var ae *core.ArtifactError
		if errors.As(err, &ae) {
			return nil, ae.WithPath(path)
		}
		return nil, err
	}
	return v, nil
}

package core

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型（或内嵌此类型）
//   - 提供错误代码（Code）、模块（Module）和消息（Message）
//   - 支持 errors.Is / errors.As，Err 字段保留底层原因
//
// 使用场景：
//   - Cleaner 错误：EMPTY_INPUT, EMPTY_RESULT, MISSING_COLUMNS
//   - Artifact 错误：ARTIFACT_NOT_FOUND, ARTIFACT_INCOMPATIBLE
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "EMPTY_RESULT", "NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "cleaner", "encoder", "scorer"）
	Err     error  // 底层原因（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的 DomainError（包括 ValidationError / ArtifactError 内嵌的），没有则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return &ve.DomainError
	}
	var ae *ArtifactError
	if errors.As(err, &ae) {
		return &ae.DomainError
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建携带底层原因的领域错误
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// 校验错误代码（阶段内致命）
	ErrorCodeEmptyInput     = "EMPTY_INPUT"     // 输入为空
	ErrorCodeEmptyResult    = "EMPTY_RESULT"    // 清洗/过滤后没有剩余记录
	ErrorCodeMissingColumns = "MISSING_COLUMNS" // 缺少必需列

	// 模型产物错误代码（打分前致命）
	ErrorCodeArtifactNotFound     = "ARTIFACT_NOT_FOUND"
	ErrorCodeArtifactIncompatible = "ARTIFACT_INCOMPATIBLE"
	ErrorCodeArtifactCorrupt      = "ARTIFACT_CORRUPT"
)

// 模块名称常量
const (
	ModuleStore    = "store"    // 存储模块
	ModuleCleaner  = "cleaner"  // 清洗模块
	ModuleFilter   = "filter"   // 过滤模块
	ModuleEncoder  = "encoder"  // 特征编码模块
	ModuleScorer   = "scorer"   // 打分模块
	ModuleArtifact = "artifact" // 模型产物
	ModuleSource   = "source"   // 原始记录来源
	ModuleExport   = "export"   // 导出
)

// ValidationError 是阶段内的致命校验错误。
// Total 记录原始输入记录数，便于调用方区分"什么都没抓到"和"全部被过滤"。
type ValidationError struct {
	DomainError
	Stage   string   // 出错的阶段（通常与 Module 相同）
	Total   int      // 原始记录数
	Missing []string // 缺失的列（MISSING_COLUMNS）
}

func (e *ValidationError) Error() string {
	return e.DomainError.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.DomainError.Err
}

// NewEmptyResultError 创建"清洗后没有剩余记录"错误。
func NewEmptyResultError(stage string, total int) *ValidationError {
	return &ValidationError{
		DomainError: DomainError{
			Module:  stage,
			Code:    ErrorCodeEmptyResult,
			Message: fmt.Sprintf("no valid products found, total scraped: %d", total),
		},
		Stage: stage,
		Total: total,
	}
}

// NewMissingColumnsError 创建"缺少必需列"错误，missing 应已排序。
func NewMissingColumnsError(stage string, missing []string) *ValidationError {
	return &ValidationError{
		DomainError: DomainError{
			Module:  stage,
			Code:    ErrorCodeMissingColumns,
			Message: "missing required columns in input data: " + strings.Join(missing, ", "),
		},
		Stage:   stage,
		Missing: missing,
	}
}

// NewValidationError 创建通用校验错误。
func NewValidationError(stage, code, message string) *ValidationError {
	return &ValidationError{
		DomainError: DomainError{Module: stage, Code: code, Message: message},
		Stage:       stage,
	}
}

// ArtifactError 表示模型/词表产物缺失或不兼容，必须在打分前终止。
type ArtifactError struct {
	DomainError
	Path string
}

func (e *ArtifactError) Error() string {
	return e.DomainError.Error()
}

func (e *ArtifactError) Unwrap() error {
	return e.DomainError.Err
}

// NewArtifactError 创建产物错误；path 可以为空，稍后用 WithPath 补上。
func NewArtifactError(code, path, message string, err error) *ArtifactError {
	e := &ArtifactError{
		DomainError: DomainError{
			Module:  ModuleArtifact,
			Code:    code,
			Message: message,
			Err:     err,
		},
	}
	return e.WithPath(path)
}

// WithPath 在尚未记录路径时补上产物路径。
func (e *ArtifactError) WithPath(path string) *ArtifactError {
	if e.Path == "" && path != "" {
		e.Path = path
		e.Message = fmt.Sprintf("%s (%s)", e.Message, path)
	}
	return e
}

// 通用错误检查函数

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	return hasCode(err, ErrorCodeNotSupported)
}

// IsEmptyResult 检查错误是否为 EMPTY_RESULT
func IsEmptyResult(err error) bool {
	return hasCode(err, ErrorCodeEmptyResult)
}

// IsMissingColumns 检查错误是否为 MISSING_COLUMNS
func IsMissingColumns(err error) bool {
	return hasCode(err, ErrorCodeMissingColumns)
}

// IsValidationError 检查错误链中是否存在 ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsArtifactError 检查错误链中是否存在 ArtifactError
func IsArtifactError(err error) bool {
	var ae *ArtifactError
	return errors.As(err, &ae)
}

package filter

import (
	"context"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/pkg/dsl"
)

// ExprFilter 用 CEL 表达式描述"保留条件"，表达式为 false 的记录被过滤。
//
//	record.price < 100.0 && record.rating >= 4.0
type ExprFilter struct {
	eval *dsl.Eval
}

// NewExprFilter 编译表达式，编译失败直接返回错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	eval, err := dsl.NewEval(expr)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleFilter, core.ErrorCodeInvalidInput,
			"invalid filter expression: "+expr, err)
	}
	return &ExprFilter{eval: eval}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RunContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Record == nil {
		return true, nil
	}
	keep, err := f.eval.Evaluate(*item.Record, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}

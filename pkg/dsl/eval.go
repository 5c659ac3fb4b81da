package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("record", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Eval 是清洗记录上的表达式解释器，使用 CEL (Common Expression Language) 实现。
//
// 可用变量：
//   - record.title / record.brand / record.model（string）
//   - record.price / record.rating（double）
//   - record.reviews（int）
//   - rctx.query / rctx.model_filter（string）
//
// 示例：
//   - `record.price < 100.0`
//   - `record.rating >= 4.0 && record.reviews > 50`
//   - `record.title.contains("Wireless")`
//
// 表达式只编译一次，Evaluate 可以并发调用。
type Eval struct {
	expr string
	prg  cel.Program
}

// NewEval 编译表达式；表达式必须返回 bool。
func NewEval(expr string) (*Eval, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Eval{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式。
func (e *Eval) Expr() string {
	return e.expr
}

// Evaluate 对一条清洗记录执行表达式，返回布尔结果。rctx 可以为 nil。
func (e *Eval) Evaluate(rec core.CleanedRecord, rctx *core.RunContext) (bool, error) {
	out, _, err := e.prg.Eval(buildInput(rec, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(rec core.CleanedRecord, rctx *core.RunContext) map[string]any {
	record := map[string]any{
		"title":   rec.Title,
		"price":   rec.Price,
		"rating":  rec.Rating,
		"reviews": int64(rec.Reviews),
		"brand":   rec.Brand,
		"model":   rec.Model,
	}
	ctx := map[string]any{
		"query":        "",
		"model_filter": "",
	}
	if rctx != nil {
		ctx["query"] = rctx.Query
		ctx["model_filter"] = rctx.ModelFilter
	}
	return map[string]any{
		"record": record,
		"rctx":   ctx,
	}
}

package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// Job 是一次独立的流水线调用。
type Job struct {
	Name    string
	Context *core.RunContext
	Records []core.RawRecord
}

// Result 是 Job 的结果；Err 不为 nil 时 Predictions 为空。
type Result struct {
	Job         Job
	Predictions []core.Prediction
	Err         error
}

// RunBatch 并发执行多个互不相关的调用，结果顺序与 jobs 一致。
// 词表与模型加载后只读，因此同一个 Pipeline 可以被多个 goroutine 共享。
// 单个 Job 失败不会中断其他 Job；ctx 取消后尚未开始的 Job 直接返回 ctx.Err()。
func (p *Pipeline) RunBatch(ctx context.Context, jobs []Job, maxConcurrent int) []Result {
	results := make([]Result, len(jobs))
	eg, egCtx := errgroup.WithContext(ctx)
	if maxConcurrent > 0 {
		eg.SetLimit(maxConcurrent)
	}

	for i, job := range jobs {
		i, job := i, job
		eg.Go(func() error {
			results[i].Job = job
			if err := egCtx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			rctx := job.Context
			if rctx == nil {
				rctx = &core.RunContext{}
			}
			preds, err := p.RunRecords(egCtx, rctx, job.Records)
			if err != nil {
				// 单个调用失败时记录但不中断其他调用
				log.Warn().Err(err).Str("job", job.Name).Msg("batch job failed")
				results[i].Err = err
				return nil
			}
			results[i].Predictions = preds
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

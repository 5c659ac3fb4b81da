package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/export"
	"github.com/Ahmet872/amazon-review-sales-predictor/filter"
	"github.com/Ahmet872/amazon-review-sales-predictor/pipeline"
	"github.com/Ahmet872/amazon-review-sales-predictor/rerank"
)

type predictRequest struct {
	Records     []core.RawRecord `json:"records"`
	Query       string           `json:"query"`
	ModelFilter string           `json:"modelFilter"`
	Expr        string           `json:"expr"`
	TopN        *int             `json:"topN"`
}

type predictResponse struct {
	RunID       string            `json:"runId"`
	Total       int               `json:"total"`
	Predictions []core.Prediction `json:"predictions"`
	Top         []core.Prediction `json:"top"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Total *int   `json:"total,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"scorer": s.bundle.Scorer.Name(),
		"brands": s.bundle.Vocabulary.Len(),
	})
}

// handleStats 返回编码阶段的特征分布与品牌回退统计。
func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.bundle.Monitor.Snapshot())
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	var extra []pipeline.Node
	if req.Expr != "" {
		f, err := filter.NewExprFilter(req.Expr)
		if err != nil {
			respondWithError(c, err)
			return
		}
		extra = append(extra, &filter.FilterNode{Filters: []filter.Filter{f}})
	}

	topN := s.topN
	if req.TopN != nil {
		topN = *req.TopN
	}
	rctx := &core.RunContext{Query: req.Query, ModelFilter: req.ModelFilter, TopN: topN}
	run := export.NewRun(rctx, nil)
	rctx.RunID = run.ID

	preds, err := s.bundle.Pipeline("api", extra...).RunRecords(c.Request.Context(), rctx, req.Records)
	if err != nil {
		respondWithError(c, err)
		return
	}
	run.Predictions = preds
	run.Total = rctx.Total

	if s.writer != nil {
		if err := s.writer.WriteRun(c.Request.Context(), run); err != nil {
			// 持久化失败不影响本次响应
			log.Error().Err(err).Str("runId", run.ID).Msg("failed to persist run")
		}
	}

	c.JSON(http.StatusOK, predictResponse{
		RunID:       run.ID,
		Total:       rctx.Total,
		Predictions: preds,
		Top:         rerank.TopN(preds, rctx.TopN),
	})
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, err := export.LoadRun(c.Request.Context(), s.store, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleRecentRuns(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid limit"})
		return
	}
	ids, err := export.RecentRuns(c.Request.Context(), s.store, n)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": ids})
}

// respondWithError 把领域错误映射为 HTTP 状态码。
func respondWithError(c *gin.Context, err error) {
	de := core.GetDomainError(err)
	if de == nil {
		log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	resp := errorResponse{Error: de.Error(), Code: de.Code}
	status := http.StatusInternalServerError
	switch de.Code {
	case core.ErrorCodeEmptyInput, core.ErrorCodeEmptyResult, core.ErrorCodeMissingColumns, core.ErrorCodeInvalidInput:
		status = http.StatusUnprocessableEntity
	case core.ErrorCodeNotFound:
		status = http.StatusNotFound
	}
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		total := ve.Total
		resp.Total = &total
	}
	c.JSON(status, resp)
}

package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

func TestEval(t *testing.T) {
	rec := core.CleanedRecord{Title: "JBL 560BT Wireless", Price: 59.99, Rating: 4.3, Reviews: 120, Brand: "JBL", Model: "560BT"}

	cases := []struct {
		expr string
		want bool
	}{
		{`record.price < 100.0`, true},
		{`record.rating >= 4.5`, false},
		{`record.reviews > 50 && record.brand == "JBL"`, true},
		{`record.title.contains("Wireless")`, true},
		{`rctx.model_filter == ""`, true},
	}
	for _, c := range cases {
		e, err := NewEval(c.expr)
		require.NoError(t, err, c.expr)
		got, err := e.Evaluate(rec, nil)
		require.NoError(t, err, c.expr)
		assert.Equal(t, c.want, got, c.expr)
	}
}

func TestEval_Context(t *testing.T) {
	e, err := NewEval(`rctx.query == "jbl headphones"`)
	require.NoError(t, err)
	got, err := e.Evaluate(core.CleanedRecord{}, &core.RunContext{Query: "jbl headphones"})
	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, `rctx.query == "jbl headphones"`, e.Expr())
}

func TestEval_Errors(t *testing.T) {
	_, err := NewEval(`record.price <`)
	assert.Error(t, err)

	e, err := NewEval(`record.price`)
	require.NoError(t, err)
	_, err = e.Evaluate(core.CleanedRecord{Price: 1}, nil)
	assert.Error(t, err)
}

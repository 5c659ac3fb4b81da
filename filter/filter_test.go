package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
	"github.com/Ahmet872/amazon-review-sales-predictor/store"
)

func recordItem(id int, rec core.CleanedRecord) *core.Item {
	it := core.NewItem(id, nil)
	it.Record = &rec
	return it
}

func sampleItems() []*core.Item {
	return []*core.Item{
		recordItem(0, core.CleanedRecord{Title: "JBL 560BT", Price: 59.99, Rating: 4.3, Brand: "JBL", Model: "560BT"}),
		recordItem(1, core.CleanedRecord{Title: "Beats Solo 4", Price: 199.95, Rating: 4.6, Brand: "Beats", Model: "Solo"}),
		recordItem(2, core.CleanedRecord{Title: "Anker Q20", Price: 39.99, Rating: 4.5, Brand: "Anker", Model: "Q20"}),
	}
}

func TestExprFilter(t *testing.T) {
	f, err := NewExprFilter(`record.price < 100.0 && record.rating >= 4.4`)
	require.NoError(t, err)
	assert.Equal(t, "filter.expr", f.Name())

	items := sampleItems()
	want := []bool{true, true, false}
	for i, it := range items {
		drop, err := f.ShouldFilter(context.Background(), &core.RunContext{}, it)
		require.NoError(t, err)
		assert.Equal(t, want[i], drop, it.Record.Title)
	}

	_, err = NewExprFilter(`record.price <`)
	require.Error(t, err)
	assert.Equal(t, core.ErrorCodeInvalidInput, core.GetDomainError(err).Code)
}

func TestBrandBlocklistFilter(t *testing.T) {
	f := NewBrandBlocklistFilter([]string{"beats"}, nil, "")
	items := sampleItems()

	drop, err := f.ShouldFilter(context.Background(), nil, items[1])
	require.NoError(t, err)
	assert.True(t, drop)

	drop, err = f.ShouldFilter(context.Background(), nil, items[0])
	require.NoError(t, err)
	assert.False(t, drop)
}

func TestBrandBlocklistFilter_Store(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	defer mem.Close()
	adapter := NewStoreAdapter(mem)

	f := NewBrandBlocklistFilter(nil, adapter, "")
	assert.Equal(t, DefaultBlocklistKey, f.Key)

	// key 不存在时不过滤
	drop, err := f.ShouldFilter(ctx, nil, sampleItems()[2])
	require.NoError(t, err)
	assert.False(t, drop)

	require.NoError(t, adapter.SetBlocklist(ctx, DefaultBlocklistKey, []string{"ANKER"}))
	list, err := adapter.GetBlocklist(ctx, DefaultBlocklistKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"ANKER"}, list)

	drop, err = f.ShouldFilter(ctx, nil, sampleItems()[2])
	require.NoError(t, err)
	assert.True(t, drop)

	require.NoError(t, mem.Set(ctx, "bad", []byte("{")))
	_, err = NewBrandBlocklistFilter(nil, adapter, "bad").ShouldFilter(ctx, nil, sampleItems()[0])
	assert.Error(t, err)
}

type errFilter struct{}

func (errFilter) Name() string { return "err" }

func (errFilter) ShouldFilter(context.Context, *core.RunContext, *core.Item) (bool, error) {
	return true, errors.New("boom")
}

func TestFilterNode(t *testing.T) {
	blk := NewBrandBlocklistFilter([]string{"Beats"}, nil, "")
	n := &FilterNode{Filters: []Filter{errFilter{}, blk}}
	assert.Equal(t, "filter.node", n.Name())

	items := sampleItems()
	out, err := n.Process(context.Background(), &core.RunContext{}, items)
	require.NoError(t, err)
	// 出错的过滤器被忽略，记录保留
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].ID)
	assert.Equal(t, 2, out[1].ID)
	assert.Equal(t, "filter.brand_blocklist", items[1].Labels["filtered"].Source)
}

func TestFilterNode_EmptyResult(t *testing.T) {
	all, err := NewExprFilter(`false`)
	require.NoError(t, err)
	n := &FilterNode{Filters: []Filter{all}}

	_, err = n.Process(context.Background(), &core.RunContext{Total: 7}, sampleItems())
	require.Error(t, err)
	var ve *core.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, core.ErrorCodeEmptyResult, ve.Code)
	assert.Equal(t, 7, ve.Total)

	_, err = n.Process(context.Background(), nil, sampleItems())
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 3, ve.Total)
}

func TestFilterNode_NoFilters(t *testing.T) {
	items := sampleItems()
	out, err := (&FilterNode{}).Process(context.Background(), nil, items)
	require.NoError(t, err)
	assert.Equal(t, items, out)
}

package feature

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

func TestEncodeNode_Process(t *testing.T) {
	enc, err := NewEncoder(testVocabulary(t))
	require.NoError(t, err)
	mon := NewMonitor(10)
	n := &EncodeNode{Encoder: enc, Monitor: mon}

	items := []*core.Item{
		{ID: 3, Record: &core.CleanedRecord{Title: "JBL 560BT", Price: 59.99, Rating: 4.3, Brand: "JBL", Model: "560BT"}},
		{ID: 7, Record: &core.CleanedRecord{Title: "Marshall Major IV", Price: 129, Brand: "Marshall", Model: "Major"}},
		{ID: 9},
	}
	out, err := n.Process(context.Background(), &core.RunContext{}, items)
	require.NoError(t, err)
	require.Len(t, out, 3)

	require.NotNil(t, out[0].Vector)
	assert.Equal(t, 3, out[0].Vector.Row)
	assert.Equal(t, 2, out[0].Vector.BrandIndex)
	assert.Equal(t, 4, out[1].Vector.BrandIndex)
	assert.Equal(t, "Marshall", out[1].Labels["brand_fallback"].Value)
	assert.Nil(t, out[2].Vector)

	snap := mon.Snapshot()
	assert.Equal(t, int64(2), snap.Rows)
	assert.Equal(t, int64(1), snap.Fallbacks)
	assert.InDelta(t, 0.5, snap.FallbackRate, 1e-9)
	assert.Equal(t, map[string]int64{"Marshall": 1}, snap.Brands)
	require.Len(t, snap.Features, len(core.FeatureNames))
	assert.Equal(t, "price", snap.Features[0].Name)
	assert.InDelta(t, 59.99, snap.Features[0].Min, 1e-9)
	assert.InDelta(t, 129.0, snap.Features[0].Max, 1e-9)
}

func TestEncodeNode_NoEncoder(t *testing.T) {
	_, err := (&EncodeNode{}).Process(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, core.ErrorCodeInternalError, core.GetDomainError(err).Code)
}

func TestMonitor_SampleWindow(t *testing.T) {
	mon := NewMonitor(2)
	for _, price := range []float64{1, 2, 3} {
		mon.Observe(core.CleanedRecord{}, core.FeatureVector{Price: price}, false)
	}
	snap := mon.Snapshot()
	assert.Equal(t, int64(3), snap.Rows)
	assert.Zero(t, snap.FallbackRate)
	price := snap.Features[0]
	assert.Equal(t, 2, price.Count)
	assert.InDelta(t, 2.5, price.Mean, 1e-9)
	assert.InDelta(t, 0.5, price.Std, 1e-9)
	assert.InDelta(t, 2.0, price.P50, 1e-9)
	assert.InDelta(t, 3.0, price.P95, 1e-9)

	assert.Empty(t, NewMonitor(0).Snapshot().Features)
}

func TestMonitor_SkipsNonFiniteValues(t *testing.T) {
	mon := NewMonitor(10)
	mon.Observe(core.CleanedRecord{}, core.FeatureVector{Price: 10, Rating: math.NaN()}, false)
	mon.Observe(core.CleanedRecord{}, core.FeatureVector{Price: 20, Rating: math.Inf(1)}, false)

	snap := mon.Snapshot()
	assert.Equal(t, int64(2), snap.Rows)
	names := make([]string, 0, len(snap.Features))
	for _, fs := range snap.Features {
		names = append(names, fs.Name)
		assert.False(t, math.IsNaN(fs.Mean), fs.Name)
		if fs.Name == "price" {
			assert.InDelta(t, 15.0, fs.Mean, 1e-9)
		}
	}
	assert.NotContains(t, names, "rating")
	assert.Contains(t, names, "price")
	_, err := json.Marshal(snap)
	require.NoError(t, err)
}

func TestHTTPVocabularyLoader(t *testing.T) {
	var buf bytes.Buffer
	_, err := testVocabulary(t).WriteTo(&buf)
	require.NoError(t, err)
	payload := buf.Bytes()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/vocab.msgpack":
			_, _ = w.Write(payload)
		case "/broken.msgpack":
			_, _ = w.Write([]byte{0xc1})
		case "/error":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	loader := NewHTTPVocabularyLoaderWithClient(srv.Client())
	ctx := context.Background()

	v, err := loader.Load(ctx, srv.URL+"/vocab.msgpack")
	require.NoError(t, err)
	assert.Equal(t, []string{"Anker", "Bose", "JBL", "Sony", "unknown"}, v.Classes())

	_, err = loader.Load(ctx, srv.URL+"/missing.msgpack")
	require.Error(t, err)
	assert.Equal(t, core.ErrorCodeArtifactNotFound, core.GetDomainError(err).Code)

	_, err = loader.Load(ctx, srv.URL+"/error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")

	_, err = loader.Load(ctx, srv.URL+"/broken.msgpack")
	require.Error(t, err)
	assert.Equal(t, core.ErrorCodeArtifactCorrupt, core.GetDomainError(err).Code)
	assert.Contains(t, err.Error(), "/broken.msgpack")
}

package feature

import (
	"math"
	"sort"
	"sync"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// Monitor 是进程内的编码监控，记录特征取值分布和品牌回退次数。
// 回退率持续升高说明线上品牌分布已经偏离训练时的词表，需要重新训练。
type Monitor struct {
	mu         sync.RWMutex
	maxSamples int
	rows       int64
	fallbacks  map[string]int64     // 词表外的原始品牌 -> 次数
	values     map[string][]float64 // 特征名 -> 最近的样本
}

// FeatureStats 是单个特征最近样本的统计。
type FeatureStats struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
}

// MonitorSnapshot 是 Monitor 在某一时刻的只读副本。
type MonitorSnapshot struct {
	Rows         int64            `json:"rows"`
	Fallbacks    int64            `json:"fallbacks"`
	FallbackRate float64          `json:"fallbackRate"`
	Brands       map[string]int64 `json:"unknownBrands"`
	Features     []FeatureStats   `json:"features"`
}

// NewMonitor 创建监控，每个特征最多保留 maxSamples 个样本（<= 0 时取 1000）。
func NewMonitor(maxSamples int) *Monitor {
	if maxSamples <= 0 {
		maxSamples = 1000
	}
	return &Monitor{
		maxSamples: maxSamples,
		fallbacks:  make(map[string]int64),
		values:     make(map[string][]float64),
	}
}

// Observe 记录一条编码结果；fallback 表示品牌被映射为 "unknown"。
func (m *Monitor) Observe(rec core.CleanedRecord, vec core.FeatureVector, fallback bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows++
	if fallback {
		m.fallbacks[rec.Brand]++
	}
	for i, v := range vec.Values() {
		// 非有限值不进入样本窗口，否则统计结果无法序列化
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		name := core.FeatureNames[i]
		samples := m.values[name]
		if len(samples) >= m.maxSamples {
			samples = samples[1:]
		}
		m.values[name] = append(samples, v)
	}
}

func (m *Monitor) Snapshot() MonitorSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MonitorSnapshot{
		Rows:   m.rows,
		Brands: make(map[string]int64, len(m.fallbacks)),
	}
	for brand, n := range m.fallbacks {
		snap.Brands[brand] = n
		snap.Fallbacks += n
	}
	if m.rows > 0 {
		snap.FallbackRate = float64(snap.Fallbacks) / float64(m.rows)
	}
	for _, name := range core.FeatureNames {
		if samples := m.values[name]; len(samples) > 0 {
			snap.Features = append(snap.Features, computeStats(name, samples))
		}
	}
	return snap
}

func computeStats(name string, values []float64) FeatureStats {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))
	var sq float64
	for _, v := range sorted {
		sq += (v - mean) * (v - mean)
	}

	return FeatureStats{
		Name:  name,
		Count: len(sorted),
		Mean:  mean,
		Std:   math.Sqrt(sq / float64(len(sorted))),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		P50:   percentile(sorted, 0.50),
		P95:   percentile(sorted, 0.95),
	}
}

// percentile 在已排序的样本上取最近秩百分位。
func percentile(sorted []float64, p float64) float64 {
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

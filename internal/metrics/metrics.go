package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nodedata_fetch_total",
		Help: "Upstream proposal fetches by source and outcome",
	}, []string{"source", "outcome"})
	FetchDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nodedata_fetch_duration_ms",
		Help:    "Upstream proposal fetch duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
	}, []string{"source"})
	SnapshotCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nodedata_snapshot_cache_hits_total",
		Help: "Total redis snapshot cache hits",
	})
	SnapshotCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nodedata_snapshot_cache_misses_total",
		Help: "Total redis snapshot cache misses",
	})
	RecordsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "nodedata_records_loaded",
		Help: "Number of proposal records currently held by the store",
	})
	ViewRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nodedata_view_requests_total",
		Help: "Total view requests by endpoint",
	}, []string{"endpoint"})
	ViewDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "nodedata_view_duration_ms",
		Help:    "View computation duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	ViewCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nodedata_view_cache_hits_total",
		Help: "Total stateless view cache hits",
	})
)

func init() {
	prometheus.MustRegister(FetchTotal)
	prometheus.MustRegister(FetchDurationMs)
	prometheus.MustRegister(SnapshotCacheHitsTotal)
	prometheus.MustRegister(SnapshotCacheMissesTotal)
	prometheus.MustRegister(RecordsLoaded)
	prometheus.MustRegister(ViewRequestsTotal)
	prometheus.MustRegister(ViewDurationMs)
	prometheus.MustRegister(ViewCacheHitsTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 /metrics 路径，供 Prometheus 抓取；在主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }

package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	commandDuration   *prom.HistogramVec
	commandResults    *prom.CounterVec
	activeConnections prom.Gauge
	connectionsTotal  prom.Counter
	jobDuration       *prom.HistogramVec
	jobResults        *prom.CounterVec
	queueDepth        prom.Gauge
	cacheLookups      *prom.CounterVec
	publishResults    *prom.CounterVec
	packRefresh       *prom.HistogramVec
	puzzlesDiscovered *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.commandDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "gridsolver",
			Name:      "command_duration_seconds",
			Help:      "Duration of solver commands",
			Buckets:   prom.DefBuckets,
		}, []string{"command"})
		pr.commandResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gridsolver",
			Name:      "command_results_total",
			Help:      "Solver command counts by outcome",
		}, []string{"command", "result"})
		pr.activeConnections = prom.NewGauge(prom.GaugeOpts{
			Namespace: "gridsolver",
			Name:      "active_connections",
			Help:      "Currently open websocket connections",
		})
		pr.connectionsTotal = prom.NewCounter(prom.CounterOpts{
			Namespace: "gridsolver",
			Name:      "connections_total",
			Help:      "Total accepted websocket connections",
		})
		pr.jobDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "gridsolver",
			Name:      "job_duration_seconds",
			Help:      "Duration of background jobs",
			Buckets:   prom.DefBuckets,
		}, []string{"type"})
		pr.jobResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gridsolver",
			Name:      "job_results_total",
			Help:      "Background job counts by outcome",
		}, []string{"type", "result"})
		pr.queueDepth = prom.NewGauge(prom.GaugeOpts{
			Namespace: "gridsolver",
			Name:      "queue_depth",
			Help:      "Jobs currently waiting in the queue",
		})
		pr.cacheLookups = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gridsolver",
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by hit/miss",
		}, []string{"result"})
		pr.publishResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gridsolver",
			Name:      "event_publish_total",
			Help:      "Event publish attempts by success/failure",
		}, []string{"result"})
		pr.packRefresh = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "gridsolver",
			Name:      "pack_refresh_duration_seconds",
			Help:      "Duration of puzzle pack refresh operations",
			Buckets:   prom.DefBuckets,
		}, []string{"pack", "result"})
		pr.puzzlesDiscovered = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gridsolver",
			Name:      "puzzles_discovered_total",
			Help:      "Puzzles discovered during pack refreshes",
		}, []string{"pack"})
		reg.MustRegister(pr.commandDuration, pr.commandResults, pr.activeConnections, pr.connectionsTotal,
			pr.jobDuration, pr.jobResults, pr.queueDepth, pr.cacheLookups, pr.publishResults,
			pr.packRefresh, pr.puzzlesDiscovered)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveCommandDuration(command string, d time.Duration) {
	if p == nil || p.commandDuration == nil {
		return
	}
	p.commandDuration.WithLabelValues(command).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCommandResult(command string, result ResultLabel) {
	if p == nil || p.commandResults == nil {
		return
	}
	p.commandResults.WithLabelValues(command, string(result)).Inc()
}

func (p *PrometheusRecorder) SetActiveConnections(n int) {
	if p == nil || p.activeConnections == nil {
		return
	}
	p.activeConnections.Set(float64(n))
}

func (p *PrometheusRecorder) IncConnections() {
	if p == nil || p.connectionsTotal == nil {
		return
	}
	p.connectionsTotal.Inc()
}

func (p *PrometheusRecorder) ObserveJobDuration(jobType string, d time.Duration) {
	if p == nil || p.jobDuration == nil {
		return
	}
	p.jobDuration.WithLabelValues(jobType).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncJobResult(jobType string, result ResultLabel) {
	if p == nil || p.jobResults == nil {
		return
	}
	p.jobResults.WithLabelValues(jobType, string(result)).Inc()
}

func (p *PrometheusRecorder) SetQueueDepth(n int) {
	if p == nil || p.queueDepth == nil {
		return
	}
	p.queueDepth.Set(float64(n))
}

func (p *PrometheusRecorder) IncCacheLookup(hit bool) {
	if p == nil || p.cacheLookups == nil {
		return
	}
	res := "miss"
	if hit {
		res = "hit"
	}
	p.cacheLookups.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) IncPublishResult(success bool) {
	if p == nil || p.publishResults == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.publishResults.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) ObservePackRefreshDuration(pack string, d time.Duration, success bool) {
	if p == nil || p.packRefresh == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.packRefresh.WithLabelValues(pack, res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPuzzlesDiscovered(pack string, n int) {
	if p == nil || p.puzzlesDiscovered == nil {
		return
	}
	p.puzzlesDiscovered.WithLabelValues(pack).Add(float64(n))
}

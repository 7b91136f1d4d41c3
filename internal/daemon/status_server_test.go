package daemon

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gridsolver/internal/config"
	"git.home.luguber.info/inful/gridsolver/internal/metrics"
	"git.home.luguber.info/inful/gridsolver/internal/queue"
)

type staticProvider struct {
	snap StatusSnapshot
}

func (p staticProvider) StatusSnapshot(context.Context) StatusSnapshot { return p.snap }

type staticJobs struct {
	active  []*queue.Job
	history []*queue.Job
}

func (s staticJobs) ActiveJobs() []*queue.Job { return s.active }
func (s staticJobs) History() []*queue.Job    { return s.history }

func httpGet(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func startStatusServer(t *testing.T, srv *StatusServer) string {
	t.Helper()
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})
	return "http://" + srv.Addr()
}

func TestStatusServerHealth(t *testing.T) {
	srv := NewStatusServer(config.StatusConfig{Addr: "127.0.0.1:0", MetricsPath: "/metrics"}, nil, nil, nil, testLogger())
	base := startStatusServer(t, srv)

	code, body := httpGet(t, base+"/healthz")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestStatusServerStatus(t *testing.T) {
	provider := staticProvider{snap: StatusSnapshot{
		Status:  string(StatusRunning),
		Version: "test",
		Queue:   QueueInfo{Workers: 2},
	}}
	srv := NewStatusServer(config.StatusConfig{Addr: "127.0.0.1:0", MetricsPath: "/metrics"}, provider, nil, nil, testLogger())
	base := startStatusServer(t, srv)

	code, body := httpGet(t, base+"/api/status")
	require.Equal(t, http.StatusOK, code)

	var snap StatusSnapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	require.Equal(t, string(StatusRunning), snap.Status)
	require.Equal(t, "test", snap.Version)
	require.Equal(t, 2, snap.Queue.Workers)
}

func TestStatusServerJobs(t *testing.T) {
	done := queue.NewJob(queue.JobTypeWatch, queue.PriorityNormal, commandCount, "data")
	done.Status = queue.JobStatusCompleted
	jobs := staticJobs{history: []*queue.Job{done}}

	srv := NewStatusServer(config.StatusConfig{Addr: "127.0.0.1:0", MetricsPath: "/metrics"}, nil, jobs, nil, testLogger())
	base := startStatusServer(t, srv)

	code, body := httpGet(t, base+"/api/jobs")
	require.Equal(t, http.StatusOK, code)

	var payload struct {
		Active []queue.Job `json:"active"`
		Recent []queue.Job `json:"recent"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Empty(t, payload.Active)
	require.Len(t, payload.Recent, 1)
	require.Equal(t, done.ID, payload.Recent[0].ID)
	require.Equal(t, queue.JobStatusCompleted, payload.Recent[0].Status)
}

func TestStatusServerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	recorder.IncConnections()

	srv := NewStatusServer(config.StatusConfig{Addr: "127.0.0.1:0", MetricsPath: "/metrics"}, nil, nil, metrics.HTTPHandler(reg), testLogger())
	base := startStatusServer(t, srv)

	code, body := httpGet(t, base+"/metrics")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(body), "gridsolver_connections_total")
}

func TestStatusServerWithoutProvider(t *testing.T) {
	srv := NewStatusServer(config.StatusConfig{Addr: "127.0.0.1:0", MetricsPath: "/metrics"}, nil, nil, nil, testLogger())
	base := startStatusServer(t, srv)

	code, _ := httpGet(t, base+"/api/status")
	require.Equal(t, http.StatusServiceUnavailable, code)

	code, _ = httpGet(t, base+"/api/jobs")
	require.Equal(t, http.StatusServiceUnavailable, code)
}

package daemon

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedulerEvery(t *testing.T) {
	s, err := NewScheduler(testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	var ticks atomic.Int64
	id, err := s.Every("tick", 20*time.Millisecond, func() { ticks.Add(1) })
	require.NoError(t, err)
	require.NotEmpty(t, id)

	s.Start()
	waitFor(t, 2*time.Second, func() bool { return ticks.Load() >= 2 })
}

func TestSchedulerCronValidation(t *testing.T) {
	s, err := NewScheduler(testLogger())
	require.NoError(t, err)
	s.Start()
	t.Cleanup(func() { _ = s.Stop() })

	_, err = s.Cron("bad", "not a cron spec", func() {})
	require.Error(t, err)

	id, err := s.Cron("nightly", "0 3 * * *", func() {})
	require.NoError(t, err)
	require.NotEmpty(t, id)
}

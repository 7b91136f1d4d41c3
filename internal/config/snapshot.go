package config

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Snapshot computes a stable hash of runtime-affecting normalized configuration
// fields. The daemon compares snapshots on config file changes to decide whether
// subsystems must be restarted. Slice fields are order-insensitive (sorted prior
// to hashing). Callers SHOULD run applyDefaults before computing a snapshot so
// canonical values drive the hash.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) { h.Write([]byte(strings.Join(parts, "="))); h.Write([]byte{0}) }
	w("listener.addr", c.Listener.Addr)
	w("status.addr", c.Status.Addr)
	w("status.metrics_path", c.Status.MetricsPath)
	if c.Archive != nil {
		w("archive.path", c.Archive.Path)
		w("archive.retention_days", strconv.Itoa(c.Archive.RetentionDays))
		w("archive.prune_schedule", c.Archive.PruneSchedule)
	}
	if c.Events != nil {
		w("events.url", c.Events.URL)
		w("events.stream", c.Events.Stream)
		w("events.subject_prefix", c.Events.SubjectPrefix)
		w("events.cache_bucket", c.Events.CacheBucket)
		w("events.cache_ttl", c.Events.CacheTTL)
	}
	if c.Packs != nil {
		w("packs.root", c.Packs.Root)
		w("packs.refresh_schedule", c.Packs.RefreshSchedule)
		if len(c.Packs.Repositories) > 0 {
			urls := make([]string, 0, len(c.Packs.Repositories))
			for _, r := range c.Packs.Repositories {
				urls = append(urls, r.Name+"@"+r.URL+"#"+r.Branch)
			}
			sort.Strings(urls)
			w("packs.repositories", strings.Join(urls, ","))
		}
	}
	if c.Watch != nil {
		w("watch.dir", c.Watch.Dir)
		w("watch.debounce", c.Watch.Debounce)
	}
	w("solver.count_limit", strconv.Itoa(c.Solver.CountLimit))
	w("solver.timeout", c.Solver.Timeout)
	w("queue.workers", strconv.Itoa(c.Queue.Workers))
	w("queue.size", strconv.Itoa(c.Queue.Size))
	w("logging.level", string(c.Logging.Level))
	w("logging.format", string(c.Logging.Format))
	return hex.EncodeToString(h.Sum(nil))
}

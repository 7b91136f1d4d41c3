package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyJobID       = "job_id"
	KeyJobType     = "job_type"
	KeyJobPriority = "job_priority"
	KeyJobStatus   = "job_status"
	KeyWorker      = "worker"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyScheduleID  = "schedule_id"
	KeySchedule    = "schedule_name"
	KeyPack        = "pack"
	KeyRepo        = "repository"
	KeyURL         = "url"
	KeyPath        = "path"
	KeyFile        = "file"
	KeyCommand     = "command"
	KeyNonce       = "nonce"
	KeyRemoteAddr  = "remote_addr"
	KeyAddr        = "addr"
	KeyPuzzleID    = "puzzle_id"
	KeySubject     = "subject"
	KeySize        = "size"
	KeySolutions   = "solutions"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func JobID(id string) slog.Attr       { return slog.String(KeyJobID, id) }
func JobType(t string) slog.Attr      { return slog.String(KeyJobType, t) }
func JobPriority(p int) slog.Attr     { return slog.Int(KeyJobPriority, p) }
func JobStatus(s string) slog.Attr    { return slog.String(KeyJobStatus, s) }
func Worker(w string) slog.Attr       { return slog.String(KeyWorker, w) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func ScheduleID(id string) slog.Attr  { return slog.String(KeyScheduleID, id) }
func ScheduleName(n string) slog.Attr { return slog.String(KeySchedule, n) }
func Pack(p string) slog.Attr         { return slog.String(KeyPack, p) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Nonce(n int) slog.Attr           { return slog.Int(KeyNonce, n) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func PuzzleID(id string) slog.Attr    { return slog.String(KeyPuzzleID, id) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Size(n int) slog.Attr            { return slog.Int(KeySize, n) }
func Solutions(n int) slog.Attr       { return slog.Int(KeySolutions, n) }
func Error(err error) slog.Attr {
	if err == nil { return slog.String(KeyError, "") }
	return slog.String(KeyError, err.Error())
}

package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobType represents how a solve job entered the queue.
type JobType string

const (
	JobTypeManual    JobType = "manual"    // Submitted through the CLI or API
	JobTypeScheduled JobType = "scheduled" // Cron-triggered work
	JobTypeWatch     JobType = "watch"     // Picked up from the drop directory
	JobTypeDiscovery JobType = "discovery" // Discovered during a pack refresh
)

// JobPriority represents the priority of a solve job.
type JobPriority int

const (
	PriorityLow    JobPriority = 1
	PriorityNormal JobPriority = 2
	PriorityHigh   JobPriority = 3
	PriorityUrgent JobPriority = 4
)

// JobStatus represents the current status of a solve job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCanceled  JobStatus = "canceled"
)

// Job represents a single solve job in the queue. Data holds the
// compressed puzzle payload and is not exposed through the status API.
type Job struct {
	ID          string          `json:"id"`
	Type        JobType         `json:"type"`
	Priority    JobPriority     `json:"priority"`
	Status      JobStatus       `json:"status"`
	Command     string          `json:"command"`
	Pack        string          `json:"pack,omitempty"`
	Card        string          `json:"card,omitempty"`
	Title       string          `json:"title,omitempty"`
	Data        string          `json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Duration    time.Duration   `json:"duration,omitempty"`
	Error       string          `json:"error,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`

	// Internal processing
	cancel context.CancelFunc `json:"-"`
}

// NewJob creates a queued job with a fresh ID.
func NewJob(jobType JobType, priority JobPriority, command, data string) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		Priority:  priority,
		Status:    JobStatusQueued,
		Command:   command,
		Data:      data,
		CreatedAt: time.Now(),
	}
}

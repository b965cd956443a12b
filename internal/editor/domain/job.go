package domain

import (
	"fmt"
	"time"
)

// JobStatus definition render job status
type JobStatus string

const (
	// JobPending queued on the render service
	JobPending JobStatus = "pending"
	// JobProcessing being rendered
	JobProcessing JobStatus = "processing"
	// JobCompleted output ready for download
	JobCompleted JobStatus = "completed"
	// JobFailed render failed, see Job.Error
	JobFailed JobStatus = "failed"
)

// Terminal completed and failed end the polling lifecycle
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// Job remote render job as reported by GET /api/status/{jobId}
type Job struct {
	JobID       string    `json:"jobId"`
	Status      JobStatus `json:"status"`
	Progress    int       `json:"progress"`
	OutputVideo string    `json:"outputVideo,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Message user facing status line
func (j *Job) Message() string {
	if j == nil {
		return "Checking status..."
	}
	switch j.Status {
	case JobPending:
		return "Waiting to start processing"
	case JobProcessing:
		return fmt.Sprintf("Processing video... %d%%", j.Progress)
	case JobCompleted:
		return "Video processing completed successfully!"
	case JobFailed:
		if j.Error != "" {
			return j.Error
		}
		return "Video processing failed"
	default:
		return "Unknown status"
	}
}

// ResultFileName download name of the rendered video
func ResultFileName(jobID string) string {
	return fmt.Sprintf("edited_video_%s.mp4", jobID)
}

// UploadRes POST /api/upload response
type UploadRes struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RenderState submission lifecycle state
type RenderState string

const (
	// RenderIdle nothing submitted
	RenderIdle RenderState = "idle"
	// RenderSubmitting health check + upload in flight
	RenderSubmitting RenderState = "submitting"
	// RenderPolling job accepted, status being polled
	RenderPolling RenderState = "polling"
	// RenderPaused polling paused by the user
	RenderPaused RenderState = "paused"
	// RenderCompleted job completed
	RenderCompleted RenderState = "completed"
	// RenderFailed job failed
	RenderFailed RenderState = "failed"
)

// RenderView snapshot of the submission state for clients
type RenderView struct {
	State          RenderState `json:"state"`
	Job            *Job        `json:"job,omitempty"`
	Message        string      `json:"message"`
	Error          string      `json:"error,omitempty"`
	RetryAvailable bool        `json:"retryAvailable"`
	CanDownload    bool        `json:"canDownload"`
	CanPause       bool        `json:"canPause"`
}

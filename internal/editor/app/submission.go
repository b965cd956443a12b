package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"overlay_editor_service/internal/editor/domain"
	"overlay_editor_service/internal/editor/repository"
	errprocess "overlay_editor_service/pkg/err"
	"overlay_editor_service/pkg/logger"

	"go.uber.org/zap"
)

// DefaultHealthTimeout bound of the reachability check before upload
const DefaultHealthTimeout = 3 * time.Second

var (
	// ErrNoVideoAsset submit without a video
	ErrNoVideoAsset = &errprocess.Error{Kind: errprocess.Validation, Msg: "Please upload a video first"}
	// ErrSubmissionBusy a job is already being submitted or polled
	ErrSubmissionBusy = &errprocess.Error{Kind: errprocess.State, Msg: "a render job is already running"}
	// ErrNoJob no job to act on
	ErrNoJob = &errprocess.Error{Kind: errprocess.State, Msg: "no render job"}
	// ErrNotCompleted download before the job completed
	ErrNotCompleted = &errprocess.Error{Kind: errprocess.State, Msg: "video processing has not completed"}
)

// SubmitterOption optional Submitter setting
type SubmitterOption func(*Submitter)

// WithHealthTimeout bound of the reachability check
func WithHealthTimeout(d time.Duration) SubmitterOption {
	return func(s *Submitter) {
		if d > 0 {
			s.healthTimeout = d
		}
	}
}

// WithPollInterval status poll period
func WithPollInterval(d time.Duration) SubmitterOption {
	return func(s *Submitter) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// Submitter render submission lifecycle:
// idle -> submitting -> polling (paused) -> completed | failed
type Submitter struct {
	mu            sync.Mutex
	render        repository.RenderService
	healthTimeout time.Duration
	pollInterval  time.Duration
	onChange      func()

	submitting   bool
	submitCancel context.CancelFunc
	gen          uint64
	poller       *Poller
	err          error
}

// NewSubmitter create submitter, onChange runs after every state change
func NewSubmitter(render repository.RenderService, onChange func(), opts ...SubmitterOption) *Submitter {
	if onChange == nil {
		onChange = func() {}
	}
	s := &Submitter{
		render:        render,
		healthTimeout: DefaultHealthTimeout,
		pollInterval:  DefaultPollInterval,
		onChange:      onChange,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit health check, upload video + overlays, start polling the new job
func (s *Submitter) Submit(ctx context.Context, video *domain.VideoAsset, overlays []domain.Overlay) (string, error) {
	if video == nil {
		logger.Log.Warn(ErrNoVideoAsset.Msg)
		return "", ErrNoVideoAsset
	}

	s.mu.Lock()
	if s.submitting || (s.poller != nil && !s.finishedLocked()) {
		s.mu.Unlock()
		return "", ErrSubmissionBusy
	}
	if s.poller != nil {
		s.poller.Stop()
		s.poller = nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.submitting = true
	s.submitCancel = cancel
	s.err = nil
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	s.notify()

	jobID, err := s.upload(ctx, video, overlays)

	s.mu.Lock()
	if s.gen != gen {
		// reset while submitting
		s.mu.Unlock()
		return "", errprocess.New(errprocess.State, "submission cancelled", err)
	}
	s.submitting = false
	s.submitCancel = nil
	if err != nil {
		s.err = err
		s.mu.Unlock()
		s.notify()
		return "", err
	}
	p := NewPoller(jobID, s.render.Status, s.pollInterval, s.notify)
	s.poller = p
	s.mu.Unlock()

	p.Start()
	s.notify()
	return jobID, nil
}

func (s *Submitter) upload(ctx context.Context, video *domain.VideoAsset, overlays []domain.Overlay) (string, error) {
	hctx, cancel := context.WithTimeout(ctx, s.healthTimeout)
	err := s.render.Health(hctx)
	cancel()
	if err != nil {
		return "", err
	}
	return s.render.Upload(ctx, video, overlays)
}

// State current submission state
func (s *Submitter) State() domain.RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Submitter) stateLocked() domain.RenderState {
	if s.submitting {
		return domain.RenderSubmitting
	}
	if s.poller == nil {
		return domain.RenderIdle
	}
	if job := s.poller.Job(); job != nil {
		switch job.Status {
		case domain.JobCompleted:
			return domain.RenderCompleted
		case domain.JobFailed:
			return domain.RenderFailed
		}
	}
	if s.poller.Paused() {
		return domain.RenderPaused
	}
	return domain.RenderPolling
}

func (s *Submitter) finishedLocked() bool {
	st := s.stateLocked()
	return st == domain.RenderCompleted || st == domain.RenderFailed
}

// View snapshot for clients
func (s *Submitter) View() domain.RenderView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := domain.RenderView{State: s.stateLocked()}
	if s.err != nil {
		v.Error = errMessage(s.err)
	}
	switch v.State {
	case domain.RenderSubmitting:
		v.Message = "Submitting video for processing..."
	case domain.RenderIdle:
	default:
		v.Job = s.poller.Job()
		v.Message = v.Job.Message()
		if err := s.poller.Err(); err != nil {
			v.Error = errMessage(err)
			v.RetryAvailable = v.State == domain.RenderPolling || v.State == domain.RenderPaused
		}
		if v.State == domain.RenderFailed {
			v.Error = v.Message
		}
		v.CanDownload = v.State == domain.RenderCompleted
		v.CanPause = v.State == domain.RenderPolling
	}
	return v
}

// JobID current job id, "" when none
func (s *Submitter) JobID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poller == nil {
		return ""
	}
	return s.poller.JobID()
}

// Pause pause status polling
func (s *Submitter) Pause() error {
	return s.withPoller((*Poller).Pause)
}

// Resume resume status polling with an immediate fetch
func (s *Submitter) Resume() error {
	return s.withPoller((*Poller).Resume)
}

// Retry re-arm polling after a poll error, refused once the job finished
func (s *Submitter) Retry() error {
	return s.withPoller((*Poller).Retry)
}

func (s *Submitter) withPoller(fn func(*Poller) error) error {
	s.mu.Lock()
	p := s.poller
	s.mu.Unlock()
	if p == nil {
		return ErrNoJob
	}
	if err := fn(p); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Download fetch the completed result and hand it to sink as edited_video_{jobId}.mp4
func (s *Submitter) Download(ctx context.Context, sink repository.ResultSink) (string, error) {
	s.mu.Lock()
	if s.stateLocked() != domain.RenderCompleted {
		s.mu.Unlock()
		return "", ErrNotCompleted
	}
	jobID := s.poller.JobID()
	s.mu.Unlock()

	body, err := s.render.Result(ctx, jobID)
	if err != nil {
		return "", err
	}
	defer body.Close()

	name := domain.ResultFileName(jobID)
	location, err := sink.Save(ctx, name, body)
	if err != nil {
		return "", errprocess.New(errprocess.Connectivity, repository.MsgDownloadFailed, err)
	}
	logger.Log.Info("result downloaded", zap.String("jobID", jobID), zap.String("location", location))
	return location, nil
}

// Reset drop the job and go back to idle, cancels an in-flight submission
func (s *Submitter) Reset() {
	s.mu.Lock()
	s.gen++
	if s.submitCancel != nil {
		s.submitCancel()
		s.submitCancel = nil
	}
	s.submitting = false
	if s.poller != nil {
		s.poller.Stop()
		s.poller = nil
	}
	s.err = nil
	s.mu.Unlock()
	s.notify()
}

// Close teardown, no callback runs afterwards
func (s *Submitter) Close() {
	s.mu.Lock()
	s.onChange = func() {}
	s.mu.Unlock()
	s.Reset()
}

func (s *Submitter) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	fn()
}

// errMessage user facing part of err
func errMessage(err error) string {
	var e *errprocess.Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}

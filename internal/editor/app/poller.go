package app

import (
	"context"
	"sync"
	"time"

	"overlay_editor_service/internal/editor/domain"
	errprocess "overlay_editor_service/pkg/err"
	"overlay_editor_service/pkg/logger"

	"go.uber.org/zap"
)

// DefaultPollInterval status poll period
const DefaultPollInterval = 2 * time.Second

// StatusFetcher one GET /api/status/{jobId}
type StatusFetcher func(ctx context.Context, jobID string) (*domain.Job, error)

// Poller polls a render job until it is completed or failed.
// Requests are issued on every tick without waiting for the previous one;
// every request carries a sequence number and a response older than the
// last applied one is dropped, so progress never goes backwards.
type Poller struct {
	mu       sync.Mutex
	fetch    StatusFetcher
	jobID    string
	interval time.Duration
	onChange func()

	ctx    context.Context
	cancel context.CancelFunc
	tick   chan struct{}

	issued  uint64
	applied uint64
	job     *domain.Job
	err     error
	paused  bool
	stopped bool
}

// NewPoller create poller for jobID, onChange runs after every applied response
func NewPoller(jobID string, fetch StatusFetcher, interval time.Duration, onChange func()) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if onChange == nil {
		onChange = func() {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		fetch:    fetch,
		jobID:    jobID,
		interval: interval,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start immediate fetch then one every interval
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.issueLocked()
	p.armLocked()
}

// Pause stop the timer, last job is kept
func (p *Poller) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.terminalLocked() {
		return errprocess.New(errprocess.State, "job is not being polled", nil)
	}
	p.paused = true
	p.disarmLocked()
	logger.Log.Info("polling paused", zap.String("jobID", p.jobID))
	return nil
}

// Resume immediate fetch and re-arm the timer
func (p *Poller) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.terminalLocked() {
		return errprocess.New(errprocess.State, "job is not being polled", nil)
	}
	p.paused = false
	p.issueLocked()
	p.armLocked()
	logger.Log.Info("polling resumed", zap.String("jobID", p.jobID))
	return nil
}

// Retry clear the poll error, fetch now and re-arm. The last job is kept.
func (p *Poller) Retry() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.terminalLocked() {
		return errprocess.New(errprocess.State, "job has finished, start a new submission", nil)
	}
	p.err = nil
	p.paused = false
	p.issueLocked()
	p.armLocked()
	logger.Log.Info("polling retried", zap.String("jobID", p.jobID))
	return nil
}

// Stop cancel the timer and every in-flight request, no callback runs afterwards
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	p.disarmLocked()
	p.cancel()
}

// JobID polled job
func (p *Poller) JobID() string { return p.jobID }

// Job last applied job, nil before the first response
func (p *Poller) Job() *domain.Job {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.job == nil {
		return nil
	}
	j := *p.job
	return &j
}

// Err last poll error, cleared by the next successful response
func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Polling timer is armed
func (p *Poller) Polling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tick != nil
}

// Paused paused by the user
func (p *Poller) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Poller) terminalLocked() bool {
	return p.job != nil && p.job.Status.Terminal()
}

func (p *Poller) armLocked() {
	if p.tick != nil || p.stopped || p.paused || p.terminalLocked() {
		return
	}
	stop := make(chan struct{})
	p.tick = stop
	go func() {
		t := time.NewTicker(p.interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				p.mu.Lock()
				if p.tick == stop {
					p.issueLocked()
				}
				p.mu.Unlock()
			}
		}
	}()
}

func (p *Poller) disarmLocked() {
	if p.tick != nil {
		close(p.tick)
		p.tick = nil
	}
}

func (p *Poller) issueLocked() {
	if p.stopped || p.terminalLocked() {
		return
	}
	p.issued++
	go p.request(p.issued)
}

func (p *Poller) request(seq uint64) {
	job, err := p.fetch(p.ctx, p.jobID)

	p.mu.Lock()
	if p.stopped || p.terminalLocked() || seq <= p.applied {
		if seq <= p.applied {
			logger.Log.Debug("stale status dropped", zap.String("jobID", p.jobID), zap.Uint64("seq", seq))
		}
		p.mu.Unlock()
		return
	}
	p.applied = seq
	if err != nil {
		p.err = err
	} else {
		p.job = job
		p.err = nil
		if job.Status.Terminal() {
			p.disarmLocked()
			logger.Log.Info("job finished", zap.String("jobID", p.jobID), zap.String("status", string(job.Status)))
		}
	}
	onChange := p.onChange
	p.mu.Unlock()

	onChange()
}

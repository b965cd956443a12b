package app

import (
	"context"
	"sync"
	"time"

	"overlay_editor_service/internal/editor/domain"
	"overlay_editor_service/internal/editor/repository"
	errprocess "overlay_editor_service/pkg/err"
	"overlay_editor_service/pkg/logger"

	"go.uber.org/zap"
)

// SessionConfig editing session setting
type SessionConfig struct {
	Policy        domain.PercentPolicy
	MaxUploadSize int64
	HealthTimeout time.Duration
	PollInterval  time.Duration
}

// Session one editing session: overlays, gestures, timeline, playback and render submission.
// Every event is applied under one lock, in arrival order.
type Session struct {
	mu        sync.Mutex
	cfg       SessionConfig
	store     *OverlayStore
	bus       *PointerBus
	gestures  *GestureController
	timeline  *Timeline
	playback  *PlaybackController
	media     *MediaHub
	submitter *Submitter
	sink      repository.ResultSink
	video     *domain.VideoAsset
	version   uint64

	subMu   sync.Mutex
	subs    map[uint64]*subscriber
	nextSub uint64
}

// subscriber delivers snapshots one at a time and never one older than the last delivered
type subscriber struct {
	mu   sync.Mutex
	fn   func(domain.SessionState)
	last uint64
}

func (sub *subscriber) deliver(state domain.SessionState) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if state.Version <= sub.last {
		return
	}
	sub.last = state.Version
	sub.fn(state)
}

// NewSession create session
func NewSession(render repository.RenderService, sink repository.ResultSink, cfg SessionConfig) *Session {
	s := &Session{
		cfg:      cfg,
		store:    NewOverlayStore(cfg.Policy),
		bus:      NewPointerBus(),
		timeline: NewTimeline(),
		media:    NewMediaHub(),
		sink:     sink,
		subs:     make(map[uint64]*subscriber),
	}
	s.playback = NewPlaybackController(s.media)
	s.gestures = NewGestureController(s.bus, s.store, s.playback.Duration)
	s.submitter = NewSubmitter(render, s.publish,
		WithHealthTimeout(cfg.HealthTimeout),
		WithPollInterval(cfg.PollInterval))
	return s
}

// State full snapshot
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() domain.SessionState {
	s.version++
	overlays := s.store.List()
	return domain.SessionState{
		Version:    s.version,
		Video:      s.video.Info(),
		Overlays:   overlays,
		SelectedID: s.store.Selected(),
		ActiveIDs:  s.playback.ActiveOverlays(overlays),
		Playback:   s.playback.State(),
		Timeline:   s.timeline.View(),
		Render:     s.submitter.View(),
	}
}

// Subscribe fn receives a snapshot after every change, call the returned func to stop.
// Calls to fn do not overlap and a snapshot older than the last delivered one is skipped,
// fn must not change the session.
func (s *Session) Subscribe(fn func(domain.SessionState)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = &subscriber{fn: fn}
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// publish never called with s.mu held
func (s *Session) publish() {
	s.subMu.Lock()
	if len(s.subs) == 0 {
		s.subMu.Unlock()
		return
	}
	subs := make([]*subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subMu.Unlock()

	state := s.State()
	for _, sub := range subs {
		sub.deliver(state)
	}
}

func (s *Session) apply(fn func() error) error {
	s.mu.Lock()
	err := fn()
	s.mu.Unlock()
	if err == nil {
		s.publish()
	}
	return err
}

// AttachMedia add a player that receives play / pause / seek commands
func (s *Session) AttachMedia(m MediaElement) func() {
	return s.media.Attach(m)
}

// LoadVideo validate and take the new base video, the previous edit is dropped
func (s *Session) LoadVideo(video *domain.VideoAsset) error {
	if video == nil {
		return ErrNoVideoAsset
	}
	if err := domain.ValidateVideo(video.ContentType, video.Size, s.cfg.MaxUploadSize); err != nil {
		video.Close()
		return errprocess.New(errprocess.Validation, err.Error(), err)
	}

	s.mu.Lock()
	prev := s.video
	s.video = video
	s.gestures.End()
	s.bus.ReleaseAll()
	s.store.Reset()
	s.playback.Unload()
	s.timeline.Reset()
	s.mu.Unlock()

	prev.Close()
	s.submitter.Reset()
	logger.Log.Info("video loaded", zap.String("name", video.Name), zap.String("size", domain.FormatFileSize(video.Size)))
	return nil
}

// LoadMetadata media reported the video duration
func (s *Session) LoadMetadata(duration float64) error {
	return s.apply(func() error {
		if s.video == nil {
			return ErrNoVideoAsset
		}
		if err := s.playback.LoadMetadata(duration); err != nil {
			return err
		}
		s.timeline.SetDuration(duration)
		return nil
	})
}

// TimeUpdate media playback position changed
func (s *Session) TimeUpdate(t float64) {
	_ = s.apply(func() error {
		s.playback.TimeUpdate(t)
		return nil
	})
}

// Play start playback
func (s *Session) Play() error {
	return s.apply(s.playback.Play)
}

// Pause pause playback
func (s *Session) Pause() error {
	return s.apply(s.playback.Pause)
}

// TogglePlay play / pause
func (s *Session) TogglePlay() error {
	return s.apply(s.playback.TogglePlay)
}

// Seek jump to t, clamped to the video
func (s *Session) Seek(t float64) (float64, error) {
	var at float64
	err := s.apply(func() (err error) {
		at, err = s.playback.Seek(t)
		return err
	})
	return at, err
}

// SkipBy seek relative to the current time
func (s *Session) SkipBy(delta float64) (float64, error) {
	var at float64
	err := s.apply(func() (err error) {
		at, err = s.playback.SkipBy(delta)
		return err
	})
	return at, err
}

// AddOverlay new overlay at the current time, selected
func (s *Session) AddOverlay(t domain.OverlayType) (domain.Overlay, error) {
	var o domain.Overlay
	err := s.apply(func() error {
		if s.playback.Duration() <= 0 {
			return ErrNoVideo
		}
		o = s.store.Add(t, s.playback.CurrentTime(), s.playback.Duration())
		return nil
	})
	if err == nil {
		logger.Log.Debug("overlay added", zap.String("id", o.ID), zap.String("type", string(o.Type)))
	}
	return o, err
}

// UpdateOverlay merge patch, nothing changes for an unknown id
func (s *Session) UpdateOverlay(id string, p domain.OverlayPatch) (domain.Overlay, error) {
	var o domain.Overlay
	err := s.apply(func() error {
		var ok bool
		o, ok = s.store.Update(id, p, s.playback.Duration())
		if !ok {
			return ErrOverlayNotFound
		}
		return nil
	})
	return o, err
}

// RemoveOverlay delete overlay, removing twice is fine
func (s *Session) RemoveOverlay(id string) bool {
	var removed bool
	_ = s.apply(func() error {
		removed = s.store.Remove(id)
		return nil
	})
	return removed
}

// SelectOverlay point the selection at id, playback is untouched
func (s *Session) SelectOverlay(id string) error {
	return s.apply(func() error {
		return s.store.Select(id)
	})
}

// ClearSelection nothing selected
func (s *Session) ClearSelection() {
	_ = s.apply(func() error {
		s.store.ClearSelection()
		return nil
	})
}

// Timeline track geometry
func (s *Session) Timeline() (domain.TimelineRender, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline.Render(s.store.List(), s.store.Selected(), s.playback.CurrentTime())
}

// ZoomIn timeline zoom in
func (s *Session) ZoomIn() domain.TimelineView {
	var v domain.TimelineView
	_ = s.apply(func() error {
		s.timeline.ZoomIn()
		v = s.timeline.View()
		return nil
	})
	return v
}

// ZoomOut timeline zoom out
func (s *Session) ZoomOut() domain.TimelineView {
	var v domain.TimelineView
	_ = s.apply(func() error {
		s.timeline.ZoomOut()
		v = s.timeline.View()
		return nil
	})
	return v
}

// ScrollTimeline move the visible window
func (s *Session) ScrollTimeline(start float64) (domain.TimelineView, error) {
	var v domain.TimelineView
	err := s.apply(func() error {
		if err := s.timeline.ScrollTo(start); err != nil {
			return err
		}
		v = s.timeline.View()
		return nil
	})
	return v, err
}

// SeekFromClick click on the track seeks playback
func (s *Session) SeekFromClick(clickX, trackWidth float64) (float64, error) {
	var at float64
	err := s.apply(func() error {
		t, err := s.timeline.TimeFromClick(clickX, trackWidth)
		if err != nil {
			return err
		}
		at, err = s.playback.Seek(t)
		return err
	})
	return at, err
}

// HandlePointer pointer event from the canvas
func (s *Session) HandlePointer(req domain.WSRequest) error {
	return s.apply(func() error {
		switch req.Action {
		case domain.PointerDownMove:
			if err := s.gestures.BeginMove(req.OverlayID, req.Container, req.Target, req.Pointer); err != nil {
				return err
			}
			return s.store.Select(req.OverlayID)
		case domain.PointerDownResize:
			h, err := ParseResizeHandle(req.Handle)
			if err != nil {
				return err
			}
			return s.gestures.BeginResize(req.OverlayID, h)
		case domain.PointerMove, domain.PointerUp, domain.PointerCancel:
			s.gestures.Handle(PointerEvent{
				Action:    req.Action,
				Pointer:   req.Pointer,
				MovementX: req.MovementX,
				MovementY: req.MovementY,
			})
			return nil
		default:
			return errprocess.New(errprocess.Validation, "unknown pointer action ["+string(req.Action)+"]", nil)
		}
	})
}

// ReleasePointers drop every pointer capture
func (s *Session) ReleasePointers() {
	s.mu.Lock()
	s.gestures.End()
	s.bus.ReleaseAll()
	s.mu.Unlock()
}

// PointerCaptures live captures
func (s *Session) PointerCaptures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bus.Active()
}

// Submit send the video and the overlays to the render service
func (s *Session) Submit(ctx context.Context) (string, error) {
	s.mu.Lock()
	video := s.video
	overlays := s.store.List()
	s.mu.Unlock()

	return s.submitter.Submit(ctx, video, overlays)
}

// Render submission snapshot
func (s *Session) Render() domain.RenderView {
	return s.submitter.View()
}

// PauseRender pause job polling
func (s *Session) PauseRender() error { return s.submitter.Pause() }

// ResumeRender resume job polling
func (s *Session) ResumeRender() error { return s.submitter.Resume() }

// RetryRender retry job polling after an error
func (s *Session) RetryRender() error { return s.submitter.Retry() }

// ResetRender back to idle for a new submission
func (s *Session) ResetRender() { s.submitter.Reset() }

// Download save the rendered video through the session sink
func (s *Session) Download(ctx context.Context) (string, error) {
	if s.sink == nil {
		return "", errprocess.New(errprocess.State, "no result sink configured", nil)
	}
	return s.submitter.Download(ctx, s.sink)
}

// Close teardown: polling stops, captures are released, the staged video is dropped
func (s *Session) Close() {
	s.submitter.Close()

	s.mu.Lock()
	s.gestures.End()
	s.bus.ReleaseAll()
	video := s.video
	s.video = nil
	s.mu.Unlock()

	video.Close()
	logger.Log.Info("session closed")
}

package app

import (
	"math"
	"sync"

	"overlay_editor_service/internal/editor/domain"
	errprocess "overlay_editor_service/pkg/err"
	"overlay_editor_service/pkg/logger"

	"go.uber.org/zap"
)

// skip button steps
const (
	SkipSeconds = 5.0
	SkipFrame   = 0.1
)

// ErrNoVideo playback command before the media reported its metadata
var ErrNoVideo = &errprocess.Error{Kind: errprocess.State, Msg: "no video loaded"}

// MediaElement the player the controller commands.
// Time only flows back through PlaybackController.TimeUpdate.
type MediaElement interface {
	Play() error
	Pause() error
	Seek(t float64) error
}

// MediaHub fan-out of media commands to every attached player
type MediaHub struct {
	mu      sync.RWMutex
	players map[uint64]MediaElement
	nextID  uint64
}

// NewMediaHub create hub
func NewMediaHub() *MediaHub {
	return &MediaHub{players: make(map[uint64]MediaElement)}
}

// Attach add a player, call the returned func to detach
func (h *MediaHub) Attach(m MediaElement) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.players[id] = m
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.players, id)
	}
}

// Play play on every player
func (h *MediaHub) Play() error {
	return h.each(func(m MediaElement) error { return m.Play() })
}

// Pause pause on every player
func (h *MediaHub) Pause() error {
	return h.each(func(m MediaElement) error { return m.Pause() })
}

// Seek seek on every player
func (h *MediaHub) Seek(t float64) error {
	return h.each(func(m MediaElement) error { return m.Seek(t) })
}

// each a dead player must not stop the others, first error is returned
func (h *MediaHub) each(fn func(MediaElement) error) error {
	h.mu.RLock()
	players := make([]MediaElement, 0, len(h.players))
	for _, m := range h.players {
		players = append(players, m)
	}
	h.mu.RUnlock()

	var first error
	for _, m := range players {
		if err := fn(m); err != nil {
			logger.Log.Warn("media command failed", zap.Error(err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// PlaybackController single source of truth for current time, duration and play state
type PlaybackController struct {
	media MediaElement
	state domain.PlaybackState
}

// NewPlaybackController create controller in no-video state
func NewPlaybackController(media MediaElement) *PlaybackController {
	return &PlaybackController{
		media: media,
		state: domain.PlaybackState{Status: domain.PlaybackNoVideo},
	}
}

// LoadMetadata media reported its duration
func (p *PlaybackController) LoadMetadata(duration float64) error {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return errprocess.New(errprocess.Validation, "duration must be a positive number", nil)
	}
	p.state.Duration = duration
	p.state.CurrentTime = clamp(p.state.CurrentTime, 0, duration)
	if p.state.Status == domain.PlaybackNoVideo {
		p.state.Status = domain.PlaybackLoaded
	}
	return nil
}

// Play start playback
func (p *PlaybackController) Play() error {
	if !p.loaded() {
		return ErrNoVideo
	}
	if err := p.media.Play(); err != nil {
		return errprocess.New(errprocess.Connectivity, "play failed", err)
	}
	p.state.Status = domain.PlaybackPlaying
	p.state.IsPlaying = true
	return nil
}

// Pause pause playback
func (p *PlaybackController) Pause() error {
	if !p.loaded() {
		return ErrNoVideo
	}
	if err := p.media.Pause(); err != nil {
		return errprocess.New(errprocess.Connectivity, "pause failed", err)
	}
	p.state.Status = domain.PlaybackPaused
	p.state.IsPlaying = false
	return nil
}

// TogglePlay play when paused, pause when playing
func (p *PlaybackController) TogglePlay() error {
	if p.state.IsPlaying {
		return p.Pause()
	}
	return p.Play()
}

// Seek move to t, clamped to [0, duration]
func (p *PlaybackController) Seek(t float64) (float64, error) {
	if !p.loaded() {
		return 0, ErrNoVideo
	}
	t = clamp(t, 0, p.state.Duration)
	if err := p.media.Seek(t); err != nil {
		return 0, errprocess.New(errprocess.Connectivity, "seek failed", err)
	}
	p.state.CurrentTime = t
	return t, nil
}

// SkipBy seek relative to the current time
func (p *PlaybackController) SkipBy(delta float64) (float64, error) {
	return p.Seek(p.state.CurrentTime + delta)
}

// TimeUpdate media playback position changed
func (p *PlaybackController) TimeUpdate(t float64) {
	if !p.loaded() {
		return
	}
	p.state.CurrentTime = clamp(t, 0, p.state.Duration)
}

// ActiveOverlays ids of overlays visible at the current time, in z-order
func (p *PlaybackController) ActiveOverlays(overlays []domain.Overlay) []string {
	ids := []string{}
	for _, o := range overlays {
		if o.ActiveAt(p.state.CurrentTime) {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// Unload back to no-video, used when another video is picked
func (p *PlaybackController) Unload() {
	if p.state.IsPlaying {
		_ = p.media.Pause()
	}
	p.state = domain.PlaybackState{Status: domain.PlaybackNoVideo}
}

// CurrentTime playback position
func (p *PlaybackController) CurrentTime() float64 { return p.state.CurrentTime }

// Duration video duration, 0 before metadata
func (p *PlaybackController) Duration() float64 { return p.state.Duration }

// State snapshot
func (p *PlaybackController) State() domain.PlaybackState { return p.state }

func (p *PlaybackController) loaded() bool {
	return p.state.Status != domain.PlaybackNoVideo
}

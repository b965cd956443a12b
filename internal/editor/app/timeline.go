package app

import (
	"fmt"
	"math"

	"overlay_editor_service/internal/editor/domain"
	errprocess "overlay_editor_service/pkg/err"
)

// zoom bounds and step
const (
	MinZoom    = 1.0
	MaxZoom    = 10.0
	ZoomFactor = 1.5

	segmentLabelLen = 10
)

var (
	// ErrDurationUnknown timeline math needs a positive duration
	ErrDurationUnknown = &errprocess.Error{Kind: errprocess.State, Msg: "video duration is not known yet"}
	// ErrTrackWidth track has no width
	ErrTrackWidth = &errprocess.Error{Kind: errprocess.Validation, Msg: "track width must be positive"}
)

var segmentColors = map[domain.OverlayType]string{
	domain.OverlayText:  "#3b82f6",
	domain.OverlayImage: "#f59e0b",
	domain.OverlayVideo: "#8b5cf6",
}

// Timeline zoom window over [0, duration] mapped onto a fixed width track
type Timeline struct {
	zoom         float64
	visibleStart float64
	duration     float64
}

// NewTimeline zoom 1, window at 0
func NewTimeline() *Timeline {
	return &Timeline{zoom: MinZoom}
}

// SetDuration new video duration, window is kept inside it
func (t *Timeline) SetDuration(d float64) {
	t.duration = math.Max(d, 0)
	t.clampWindow()
}

// Reset back to zoom 1 with no duration
func (t *Timeline) Reset() {
	t.zoom = MinZoom
	t.visibleStart = 0
	t.duration = 0
}

// ZoomLevel current zoom
func (t *Timeline) ZoomLevel() float64 { return t.zoom }

// VisibleStart first visible second
func (t *Timeline) VisibleStart() float64 { return t.visibleStart }

// VisibleDuration seconds mapped onto the track
func (t *Timeline) VisibleDuration() float64 {
	return t.duration / t.zoom
}

// ZoomIn zoom x1.5 up to 10
func (t *Timeline) ZoomIn() float64 {
	t.zoom = math.Min(t.zoom*ZoomFactor, MaxZoom)
	t.clampWindow()
	return t.zoom
}

// ZoomOut zoom /1.5 down to 1
func (t *Timeline) ZoomOut() float64 {
	t.zoom = math.Max(t.zoom/ZoomFactor, MinZoom)
	t.clampWindow()
	return t.zoom
}

// ScrollTo move the window start, kept inside [0, duration-visibleDuration]
func (t *Timeline) ScrollTo(start float64) error {
	if t.duration <= 0 {
		return ErrDurationUnknown
	}
	t.visibleStart = start
	t.clampWindow()
	return nil
}

// RawTimeFromClick track pixel to seconds, not clamped
func (t *Timeline) RawTimeFromClick(clickX, trackWidth float64) (float64, error) {
	if t.duration <= 0 {
		return 0, ErrDurationUnknown
	}
	if trackWidth <= 0 {
		return 0, ErrTrackWidth
	}
	return t.visibleStart + (clickX/trackWidth)*t.VisibleDuration(), nil
}

// TimeFromClick seek target for a click on the track, clamped to [0, duration]
func (t *Timeline) TimeFromClick(clickX, trackWidth float64) (float64, error) {
	raw, err := t.RawTimeFromClick(clickX, trackWidth)
	if err != nil {
		return 0, err
	}
	return clamp(raw, 0, t.duration), nil
}

// Segment overlay bar; left floored at 0, width capped at the track end and never negative.
// Overlapping overlays give overlapping bars.
func (t *Timeline) Segment(o domain.Overlay, selected bool) (domain.Segment, error) {
	if t.duration <= 0 {
		return domain.Segment{}, ErrDurationUnknown
	}
	vd := t.VisibleDuration()
	startPct := (o.StartTime - t.visibleStart) / vd * 100
	widthPct := (o.EndTime - o.StartTime) / vd * 100
	left := math.Max(0, startPct)
	visibleEnd := t.visibleStart + vd

	return domain.Segment{
		OverlayID: o.ID,
		Type:      o.Type,
		Label:     segmentLabel(o),
		Color:     segmentColor(o.Type),
		Left:      left,
		Width:     math.Max(0, math.Min(widthPct, 100-left)),
		Selected:  selected,
		InWindow:  o.StartTime < visibleEnd && o.EndTime >= t.visibleStart,
	}, nil
}

// Markers ruler ticks every max(1, floor(visibleDuration/10)) seconds
func (t *Timeline) Markers() ([]domain.Marker, error) {
	if t.duration <= 0 {
		return nil, ErrDurationUnknown
	}
	vd := t.VisibleDuration()
	step := math.Max(1, math.Floor(vd/10))

	var markers []domain.Marker
	for i := 0.0; i <= vd; i += step {
		at := t.visibleStart + i
		if at > t.duration {
			break
		}
		markers = append(markers, domain.Marker{
			Time:     at,
			Label:    domain.FormatTime(at),
			Position: (at - t.visibleStart) / vd * 100,
		})
	}
	return markers, nil
}

// PlayheadPercent current time indicator position on the track
func (t *Timeline) PlayheadPercent(currentTime float64) (float64, error) {
	if t.duration <= 0 {
		return 0, ErrDurationUnknown
	}
	return (currentTime - t.visibleStart) / t.VisibleDuration() * 100, nil
}

// ProgressPercent played share of the whole video
func (t *Timeline) ProgressPercent(currentTime float64) (float64, error) {
	if t.duration <= 0 {
		return 0, ErrDurationUnknown
	}
	return currentTime / t.duration * 100, nil
}

// View zoom window for clients
func (t *Timeline) View() domain.TimelineView {
	return domain.TimelineView{
		ZoomLevel:       t.zoom,
		ZoomLabel:       fmt.Sprintf("%.0f%%", t.zoom*100),
		VisibleStart:    t.visibleStart,
		VisibleDuration: t.VisibleDuration(),
		CanZoomIn:       t.zoom < MaxZoom,
		CanZoomOut:      t.zoom > MinZoom,
	}
}

// Render track geometry for every overlay
func (t *Timeline) Render(overlays []domain.Overlay, selectedID string, currentTime float64) (domain.TimelineRender, error) {
	out := domain.TimelineRender{View: t.View(), Segments: []domain.Segment{}, Markers: []domain.Marker{}}
	if t.duration <= 0 {
		return out, ErrDurationUnknown
	}
	for _, o := range overlays {
		seg, err := t.Segment(o, o.ID == selectedID)
		if err != nil {
			return out, err
		}
		out.Segments = append(out.Segments, seg)
	}
	markers, err := t.Markers()
	if err != nil {
		return out, err
	}
	out.Markers = markers
	out.Playhead, _ = t.PlayheadPercent(currentTime)
	out.Progress, _ = t.ProgressPercent(currentTime)
	return out, nil
}

func (t *Timeline) clampWindow() {
	maxStart := math.Max(0, t.duration-t.VisibleDuration())
	t.visibleStart = clamp(t.visibleStart, 0, maxStart)
}

func segmentColor(tp domain.OverlayType) string {
	if c, ok := segmentColors[tp]; ok {
		return c
	}
	return "#6b7280"
}

func segmentLabel(o domain.Overlay) string {
	if o.Type != domain.OverlayText {
		return string(o.Type)
	}
	r := []rune(o.Content)
	if len(r) > segmentLabelLen {
		return string(r[:segmentLabelLen]) + "..."
	}
	return o.Content
}

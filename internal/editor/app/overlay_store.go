package app

import (
	"math"

	"overlay_editor_service/internal/editor/domain"
	errprocess "overlay_editor_service/pkg/err"

	"github.com/google/uuid"
)

// ErrOverlayNotFound select on an id that is not in the collection
var ErrOverlayNotFound = &errprocess.Error{Kind: errprocess.NotFound, Msg: "overlay not found"}

// OverlayStore ordered overlay collection plus the single selection pointer.
// Not safe for concurrent use, Session serialises access.
type OverlayStore struct {
	overlays []domain.Overlay
	selected string
	policy   domain.PercentPolicy
	newID    func() string
}

// NewOverlayStore create an empty store
func NewOverlayStore(policy domain.PercentPolicy) *OverlayStore {
	return &OverlayStore{
		policy: policy,
		newID: func() string {
			return "overlay-" + uuid.NewString()
		},
	}
}

// Add append a new overlay with default geometry and select it
func (s *OverlayStore) Add(t domain.OverlayType, currentTime, duration float64) domain.Overlay {
	duration = math.Max(duration, 0)
	start := clamp(currentTime, 0, duration)

	o := domain.Overlay{
		ID:        s.newID(),
		Type:      t,
		X:         domain.DefaultX,
		Y:         domain.DefaultY,
		Width:     domain.DefaultMediaWidth,
		Height:    domain.DefaultMediaHeight,
		StartTime: start,
		EndTime:   math.Min(start+domain.DefaultSpan, duration),
	}
	if t == domain.OverlayText {
		o.Content = domain.DefaultText
		o.Width = domain.DefaultTextWidth
		o.Height = domain.DefaultTextHeight
		o.FontSize = domain.Float(domain.DefaultFontSize)
		o.FontColor = domain.DefaultFontColor
		o.BackgroundColor = domain.DefaultBackgroundColor
	}

	s.overlays = append(s.overlays, o)
	s.selected = o.ID
	return o.Clone()
}

// Update merge patch into the overlay, unknown id is a no-op.
// Committed values always satisfy the size floors and the time range invariant.
func (s *OverlayStore) Update(id string, p domain.OverlayPatch, duration float64) (domain.Overlay, bool) {
	i := s.index(id)
	if i < 0 {
		return domain.Overlay{}, false
	}
	o := &s.overlays[i]

	if p.Content != nil {
		o.Content = *p.Content
	}
	if p.X != nil {
		o.X = s.percent(*p.X)
	}
	if p.Y != nil {
		o.Y = s.percent(*p.Y)
	}
	if p.Width != nil {
		o.Width = math.Max(*p.Width, domain.MinWidth)
	}
	if p.Height != nil {
		o.Height = math.Max(*p.Height, domain.MinHeight)
	}
	if p.StartTime != nil {
		o.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		o.EndTime = *p.EndTime
	}
	if p.StartTime != nil || p.EndTime != nil {
		o.StartTime, o.EndTime = clampRange(o.StartTime, o.EndTime, duration)
	}
	if o.Type == domain.OverlayText {
		if p.FontSize != nil {
			o.FontSize = domain.Float(*p.FontSize)
		}
		if p.FontColor != nil {
			o.FontColor = *p.FontColor
		}
		if p.BackgroundColor != nil {
			o.BackgroundColor = *p.BackgroundColor
		}
	}
	return o.Clone(), true
}

// Remove delete the overlay, clears selection when it was selected. Idempotent.
func (s *OverlayStore) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.overlays = append(s.overlays[:i], s.overlays[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	return true
}

// Select point the selection at id
func (s *OverlayStore) Select(id string) error {
	if s.index(id) < 0 {
		return ErrOverlayNotFound
	}
	s.selected = id
	return nil
}

// ClearSelection nothing selected
func (s *OverlayStore) ClearSelection() {
	s.selected = ""
}

// Selected selected overlay id, "" for none
func (s *OverlayStore) Selected() string {
	return s.selected
}

// Get overlay by id
func (s *OverlayStore) Get(id string) (domain.Overlay, bool) {
	i := s.index(id)
	if i < 0 {
		return domain.Overlay{}, false
	}
	return s.overlays[i].Clone(), true
}

// List snapshot in insertion order
func (s *OverlayStore) List() []domain.Overlay {
	out := make([]domain.Overlay, len(s.overlays))
	for i, o := range s.overlays {
		out[i] = o.Clone()
	}
	return out
}

// Len number of overlays
func (s *OverlayStore) Len() int {
	return len(s.overlays)
}

// Reset drop every overlay and the selection
func (s *OverlayStore) Reset() {
	s.overlays = nil
	s.selected = ""
}

func (s *OverlayStore) index(id string) int {
	for i := range s.overlays {
		if s.overlays[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *OverlayStore) percent(v float64) float64 {
	if s.policy == domain.ClampPercent {
		return clamp(v, 0, 100)
	}
	return v
}

// clampRange keep 0 <= start <= end <= duration, duration <= 0 means unknown
func clampRange(start, end, duration float64) (float64, float64) {
	start = math.Max(start, 0)
	if duration > 0 {
		start = math.Min(start, duration)
		end = math.Min(end, duration)
	}
	end = math.Max(end, start)
	return start, end
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

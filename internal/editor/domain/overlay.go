package domain

import "fmt"

// OverlayType definition overlay type
type OverlayType string

const (
	// OverlayText text overlay
	OverlayText OverlayType = "text"
	// OverlayImage image overlay, content is a media url
	OverlayImage OverlayType = "image"
	// OverlayVideo embedded video clip, content is a media url
	OverlayVideo OverlayType = "video"
)

// Overlay defaults and editing floors
const (
	DefaultX = 50.0
	DefaultY = 50.0

	DefaultTextWidth   = 200.0
	DefaultTextHeight  = 50.0
	DefaultMediaWidth  = 100.0
	DefaultMediaHeight = 100.0

	// DefaultSpan seconds a new overlay stays on screen
	DefaultSpan = 5.0

	DefaultText            = "New Text"
	DefaultFontSize        = 24.0
	DefaultFontColor       = "#FFFFFF"
	DefaultBackgroundColor = "#000000"

	// MinWidth and MinHeight are enforced on every committed edit
	MinWidth  = 50.0
	MinHeight = 30.0
)

// ParseOverlayType parse and check overlay type
func ParseOverlayType(s string) (OverlayType, error) {
	switch t := OverlayType(s); t {
	case OverlayText, OverlayImage, OverlayVideo:
		return t, nil
	default:
		return "", fmt.Errorf("unknown overlay type [%s]", s)
	}
}

// Overlay timed, positioned element composited onto the base video.
// X/Y are percent of the container, Width/Height are pixels, times are seconds.
type Overlay struct {
	ID              string      `json:"id"`
	Type            OverlayType `json:"type"`
	Content         string      `json:"content"`
	X               float64     `json:"x"`
	Y               float64     `json:"y"`
	Width           float64     `json:"width"`
	Height          float64     `json:"height"`
	StartTime       float64     `json:"startTime"`
	EndTime         float64     `json:"endTime"`
	FontSize        *float64    `json:"fontSize,omitempty"`
	FontColor       string      `json:"fontColor,omitempty"`
	BackgroundColor string      `json:"backgroundColor,omitempty"`
}

// ActiveAt overlay time range contains t
func (o Overlay) ActiveAt(t float64) bool {
	return o.StartTime <= t && t <= o.EndTime
}

// Clone deep copy, FontSize included
func (o Overlay) Clone() Overlay {
	c := o
	if o.FontSize != nil {
		fs := *o.FontSize
		c.FontSize = &fs
	}
	return c
}

// OverlayPatch partial update, nil fields are left untouched.
// ID and Type are not patchable.
type OverlayPatch struct {
	Content         *string  `json:"content,omitempty"`
	X               *float64 `json:"x,omitempty"`
	Y               *float64 `json:"y,omitempty"`
	Width           *float64 `json:"width,omitempty"`
	Height          *float64 `json:"height,omitempty"`
	StartTime       *float64 `json:"startTime,omitempty"`
	EndTime         *float64 `json:"endTime,omitempty"`
	FontSize        *float64 `json:"fontSize,omitempty"`
	FontColor       *string  `json:"fontColor,omitempty"`
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
}

// IsEmpty patch has no field set
func (p OverlayPatch) IsEmpty() bool {
	return p == OverlayPatch{}
}

// Float helper for building patches
func Float(v float64) *float64 { return &v }

// String helper for building patches
func String(v string) *string { return &v }

// PercentPolicy how x/y percentages are committed
type PercentPolicy int

const (
	// ClampPercent keep x/y inside [0,100]
	ClampPercent PercentPolicy = iota
	// AllowOffCanvas keep raw x/y, overlay may be framed partly off screen
	AllowOffCanvas
)

package domain

// PlaybackStatus playback state machine
type PlaybackStatus string

const (
	// PlaybackNoVideo no video metadata yet
	PlaybackNoVideo PlaybackStatus = "no-video"
	// PlaybackLoaded metadata loaded, not started
	PlaybackLoaded PlaybackStatus = "loaded"
	// PlaybackPlaying playing
	PlaybackPlaying PlaybackStatus = "playing"
	// PlaybackPaused paused
	PlaybackPaused PlaybackStatus = "paused"
)

// PlaybackState owned by the playback controller
type PlaybackState struct {
	Status      PlaybackStatus `json:"status"`
	CurrentTime float64        `json:"currentTime"`
	Duration    float64        `json:"duration"`
	IsPlaying   bool           `json:"isPlaying"`
}

// TimelineView zoom window over the video
type TimelineView struct {
	ZoomLevel       float64 `json:"zoomLevel"`
	ZoomLabel       string  `json:"zoomLabel"`
	VisibleStart    float64 `json:"visibleStart"`
	VisibleDuration float64 `json:"visibleDuration"`
	CanZoomIn       bool    `json:"canZoomIn"`
	CanZoomOut      bool    `json:"canZoomOut"`
}

// Segment overlay bar on the timeline track, percentages of the track width
type Segment struct {
	OverlayID string      `json:"overlayId"`
	Type      OverlayType `json:"type"`
	Label     string      `json:"label"`
	Color     string      `json:"color"`
	Left      float64     `json:"left"`
	Width     float64     `json:"width"`
	Selected  bool        `json:"selected"`
	// InWindow some part of the overlay lies in the visible window
	InWindow  bool        `json:"inWindow"`
}

// Marker time ruler tick
type Marker struct {
	Time     float64 `json:"time"`
	Label    string  `json:"label"`
	Position float64 `json:"position"`
}

// TimelineRender everything a client needs to draw the track
type TimelineRender struct {
	View     TimelineView `json:"view"`
	Segments []Segment    `json:"segments"`
	Markers  []Marker     `json:"markers"`
	Playhead float64      `json:"playhead"`
	Progress float64      `json:"progress"`
}

// SessionState full editing session snapshot.
// Version grows with every snapshot taken, a client keeps the highest one.
type SessionState struct {
	Version    uint64        `json:"version"`
	Video      *VideoInfo    `json:"video,omitempty"`
	Overlays   []Overlay     `json:"overlays"`
	SelectedID string        `json:"selectedId,omitempty"`
	ActiveIDs  []string      `json:"activeIds"`
	Playback   PlaybackState `json:"playback"`
	Timeline   TimelineView  `json:"timeline"`
	Render     RenderView    `json:"render"`
}

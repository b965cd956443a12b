package domain

// WSAction definition websocket actions
type WSAction string

const (
	// PointerDownMove start dragging an overlay
	PointerDownMove WSAction = "pointerdown-move"
	// PointerDownResize start resizing an overlay from a handle
	PointerDownResize WSAction = "pointerdown-resize"
	// PointerMove pointer moved while captured
	PointerMove WSAction = "pointermove"
	// PointerUp gesture finished
	PointerUp WSAction = "pointerup"
	// PointerCancel pointer left the window, gesture abandoned
	PointerCancel WSAction = "pointercancel"

	// MediaLoadedMetadata media element knows its duration
	MediaLoadedMetadata WSAction = "loadedmetadata"
	// MediaTimeUpdate media element playback position changed
	MediaTimeUpdate WSAction = "timeupdate"

	// StateAction outbound session snapshot
	StateAction WSAction = "state"
	// MediaCommandAction outbound command for the media element
	MediaCommandAction WSAction = "media"
)

// Rect pixel box in client coordinates
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point pixel position in client coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WSRequest inbound websocket message
type WSRequest struct {
	Action    WSAction `json:"action"`
	OverlayID string   `json:"overlayId,omitempty"`
	Handle    string   `json:"handle,omitempty"`
	Container Rect     `json:"container"`
	Target    Rect     `json:"target"`
	Pointer   Point    `json:"pointer"`
	MovementX float64  `json:"movementX"`
	MovementY float64  `json:"movementY"`
	Duration  float64  `json:"duration"`
	Time      float64  `json:"time"`
}

// MediaCommand what the media element must do
type MediaCommand struct {
	Command string  `json:"command"`
	Time    float64 `json:"time"`
}

// WSResponse outbound websocket message
type WSResponse struct {
	Action  WSAction      `json:"action"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	State   *SessionState `json:"state,omitempty"`
	Media   *MediaCommand `json:"media,omitempty"`
}

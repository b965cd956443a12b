package app

import (
	"fmt"
	"math"
	"strings"

	"overlay_editor_service/internal/editor/domain"
	errprocess "overlay_editor_service/pkg/err"
)

// ResizeSensitivity pointer pixels to resize units
const ResizeSensitivity = 0.01

// ResizeHandle corner used to resize an overlay
type ResizeHandle string

const (
	// HandleTopLeft top-left corner
	HandleTopLeft ResizeHandle = "top-left"
	// HandleTopRight top-right corner
	HandleTopRight ResizeHandle = "top-right"
	// HandleBottomLeft bottom-left corner
	HandleBottomLeft ResizeHandle = "bottom-left"
	// HandleBottomRight bottom-right corner
	HandleBottomRight ResizeHandle = "bottom-right"
)

// ParseResizeHandle parse handle name
func ParseResizeHandle(s string) (ResizeHandle, error) {
	switch h := ResizeHandle(s); h {
	case HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight:
		return h, nil
	default:
		return "", errprocess.New(errprocess.Validation, fmt.Sprintf("unknown resize handle [%s]", s), nil)
	}
}

func (h ResizeHandle) touches(edge string) bool {
	return strings.Contains(string(h), edge)
}

// MoveGesture drag of one overlay inside its container.
// The pointer offset inside the overlay box is captured at pointer-down.
type MoveGesture struct {
	container domain.Rect
	target    domain.Rect
	offset    domain.Point
}

// NewMoveGesture start a move from pointer-down
func NewMoveGesture(container, target domain.Rect, pointer domain.Point) (*MoveGesture, error) {
	if container.Width <= 0 || container.Height <= 0 {
		return nil, errprocess.New(errprocess.Validation, "container has no size", nil)
	}
	return &MoveGesture{
		container: container,
		target:    target,
		offset: domain.Point{
			X: pointer.X - target.Left,
			Y: pointer.Y - target.Top,
		},
	}, nil
}

// Position overlay position in container percent for the pointer.
// The overlay box never leaves the container.
func (g *MoveGesture) Position(pointer domain.Point) (float64, float64) {
	left := pointer.X - g.container.Left - g.offset.X
	top := pointer.Y - g.container.Top - g.offset.Y

	maxLeft := math.Max(0, g.container.Width-g.target.Width)
	maxTop := math.Max(0, g.container.Height-g.target.Height)
	left = clamp(left, 0, maxLeft)
	top = clamp(top, 0, maxTop)

	return left / g.container.Width * 100, top / g.container.Height * 100
}

// Patch position as an overlay patch
func (g *MoveGesture) Patch(pointer domain.Point) domain.OverlayPatch {
	x, y := g.Position(pointer)
	return domain.OverlayPatch{X: domain.Float(x), Y: domain.Float(y)}
}

// ResizePatch geometry change for pointer movement (dx, dy) on a handle.
// Left/top handles move the origin and shrink by the same delta so the
// opposite edge stays put; right/bottom handles only change the size.
func ResizePatch(o domain.Overlay, handle ResizeHandle, dx, dy float64) domain.OverlayPatch {
	deltaX := dx * ResizeSensitivity * 100
	deltaY := dy * ResizeSensitivity * 100

	var p domain.OverlayPatch
	if handle.touches("left") {
		p.X = domain.Float(o.X + deltaX)
		p.Width = domain.Float(math.Max(domain.MinWidth, o.Width-deltaX))
	}
	if handle.touches("right") {
		p.Width = domain.Float(math.Max(domain.MinWidth, o.Width+deltaX))
	}
	if handle.touches("top") {
		p.Y = domain.Float(o.Y + deltaY)
		p.Height = domain.Float(math.Max(domain.MinHeight, o.Height-deltaY))
	}
	if handle.touches("bottom") {
		p.Height = domain.Float(math.Max(domain.MinHeight, o.Height+deltaY))
	}
	return p
}

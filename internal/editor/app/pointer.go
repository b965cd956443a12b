package app

import (
	"overlay_editor_service/internal/editor/domain"
	"overlay_editor_service/pkg/logger"

	"go.uber.org/zap"
)

// PointerEvent pointer move / up / cancel delivered to captures
type PointerEvent struct {
	Action    domain.WSAction
	Pointer   domain.Point
	MovementX float64
	MovementY float64
}

// PointerBus document level pointer listeners.
// A gesture acquires a capture (move + up pair) and the bus drops it on
// pointer-up, pointer-cancel or teardown, so no listener outlives its gesture.
type PointerBus struct {
	captures map[uint64]*PointerCapture
	nextID   uint64
}

// PointerCapture one move/up listener pair
type PointerCapture struct {
	bus    *PointerBus
	id     uint64
	onMove func(PointerEvent)
	onUp   func(PointerEvent)
}

// NewPointerBus create bus
func NewPointerBus() *PointerBus {
	return &PointerBus{captures: make(map[uint64]*PointerCapture)}
}

// Capture subscribe a move/up pair until released
func (b *PointerBus) Capture(onMove, onUp func(PointerEvent)) *PointerCapture {
	b.nextID++
	c := &PointerCapture{bus: b, id: b.nextID, onMove: onMove, onUp: onUp}
	b.captures[c.id] = c
	return c
}

// Release remove the capture, safe to call more than once
func (c *PointerCapture) Release() {
	if c == nil || c.bus == nil {
		return
	}
	delete(c.bus.captures, c.id)
	c.bus = nil
}

// Released capture no longer receives events
func (c *PointerCapture) Released() bool {
	return c == nil || c.bus == nil
}

// Dispatch deliver one event to every live capture
func (b *PointerBus) Dispatch(ev PointerEvent) {
	// snapshot, handlers release themselves
	live := make([]*PointerCapture, 0, len(b.captures))
	for _, c := range b.captures {
		live = append(live, c)
	}
	for _, c := range live {
		if c.Released() {
			continue
		}
		switch ev.Action {
		case domain.PointerMove:
			if c.onMove != nil {
				c.onMove(ev)
			}
		case domain.PointerUp, domain.PointerCancel:
			if c.onUp != nil {
				c.onUp(ev)
			}
			c.Release()
		}
	}
}

// ReleaseAll teardown
func (b *PointerBus) ReleaseAll() {
	for _, c := range b.captures {
		c.bus = nil
	}
	b.captures = make(map[uint64]*PointerCapture)
}

// Active number of live captures
func (b *PointerBus) Active() int {
	return len(b.captures)
}

// GestureController drives drag and resize gestures against the store.
// At most one gesture is live; starting another releases the previous one.
type GestureController struct {
	bus      *PointerBus
	store    *OverlayStore
	duration func() float64
	active   *PointerCapture
}

// NewGestureController create gesture controller
func NewGestureController(bus *PointerBus, store *OverlayStore, duration func() float64) *GestureController {
	return &GestureController{bus: bus, store: store, duration: duration}
}

// BeginMove pointer-down on an overlay body
func (g *GestureController) BeginMove(id string, container, target domain.Rect, pointer domain.Point) error {
	if _, ok := g.store.Get(id); !ok {
		return ErrOverlayNotFound
	}
	move, err := NewMoveGesture(container, target, pointer)
	if err != nil {
		return err
	}

	g.acquire(func(ev PointerEvent) {
		g.store.Update(id, move.Patch(ev.Pointer), g.duration())
	})
	logger.Log.Debug("move gesture start", zap.String("overlayID", id))
	return nil
}

// BeginResize pointer-down on a resize handle
func (g *GestureController) BeginResize(id string, handle ResizeHandle) error {
	if _, ok := g.store.Get(id); !ok {
		return ErrOverlayNotFound
	}

	g.acquire(func(ev PointerEvent) {
		o, ok := g.store.Get(id)
		if !ok {
			// removed mid gesture
			g.End()
			return
		}
		g.store.Update(id, ResizePatch(o, handle, ev.MovementX, ev.MovementY), g.duration())
	})
	logger.Log.Debug("resize gesture start", zap.String("overlayID", id), zap.String("handle", string(handle)))
	return nil
}

// Handle forward a pointer event to the live gesture
func (g *GestureController) Handle(ev PointerEvent) {
	g.bus.Dispatch(ev)
}

// End release the live gesture, if any
func (g *GestureController) End() {
	if g.active != nil {
		g.active.Release()
		g.active = nil
	}
}

// Active a gesture holds the pointer
func (g *GestureController) Active() bool {
	return g.active != nil && !g.active.Released()
}

func (g *GestureController) acquire(onMove func(PointerEvent)) {
	g.End()
	var c *PointerCapture
	c = g.bus.Capture(onMove, func(PointerEvent) {
		if g.active == c {
			g.active = nil
		}
	})
	g.active = c
}

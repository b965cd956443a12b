package app

import (
	"errors"
	"testing"

	"overlay_editor_service/internal/editor/domain"
	"overlay_editor_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointerBus(t *testing.T) {
	t.Run("pointer-up releases the capture", func(t *testing.T) {
		bus := NewPointerBus()
		var moves, ups int
		c := bus.Capture(func(PointerEvent) { moves++ }, func(PointerEvent) { ups++ })

		bus.Dispatch(PointerEvent{Action: domain.PointerMove})
		bus.Dispatch(PointerEvent{Action: domain.PointerMove})
		bus.Dispatch(PointerEvent{Action: domain.PointerUp})
		bus.Dispatch(PointerEvent{Action: domain.PointerMove})

		assert.Equal(t, 2, moves)
		assert.Equal(t, 1, ups)
		assert.True(t, c.Released())
		assert.Equal(t, 0, bus.Active())
	})

	t.Run("pointer-cancel releases the capture", func(t *testing.T) {
		bus := NewPointerBus()
		c := bus.Capture(nil, nil)

		bus.Dispatch(PointerEvent{Action: domain.PointerCancel})
		assert.True(t, c.Released())
		assert.Equal(t, 0, bus.Active())
	})

	t.Run("teardown releases everything", func(t *testing.T) {
		bus := NewPointerBus()
		a := bus.Capture(nil, nil)
		b := bus.Capture(nil, nil)
		require.Equal(t, 2, bus.Active())

		bus.ReleaseAll()
		assert.True(t, a.Released())
		assert.True(t, b.Released())
		assert.Equal(t, 0, bus.Active())
	})

	t.Run("release is idempotent", func(t *testing.T) {
		bus := NewPointerBus()
		c := bus.Capture(nil, nil)
		c.Release()
		c.Release()
		assert.Equal(t, 0, bus.Active())
	})
}

func TestGestureController_Move(t *testing.T) {
	logger.SetNewNop()

	store := NewOverlayStore(domain.ClampPercent)
	o := store.Add(domain.OverlayText, 0, 100)
	bus := NewPointerBus()
	g := NewGestureController(bus, store, func() float64 { return 100 })

	container := domain.Rect{Width: 800, Height: 400}
	target := domain.Rect{Left: 400, Top: 200, Width: 200, Height: 50}
	require.NoError(t, g.BeginMove(o.ID, container, target, domain.Point{X: 400, Y: 200}))
	assert.True(t, g.Active())

	g.Handle(PointerEvent{Action: domain.PointerMove, Pointer: domain.Point{X: 200, Y: 100}})
	got, _ := store.Get(o.ID)
	assert.InDelta(t, 25.0, got.X, 1e-9)
	assert.InDelta(t, 25.0, got.Y, 1e-9)

	g.Handle(PointerEvent{Action: domain.PointerUp})
	assert.False(t, g.Active())
	assert.Equal(t, 0, bus.Active())

	// listener is gone, later moves change nothing
	g.Handle(PointerEvent{Action: domain.PointerMove, Pointer: domain.Point{X: 0, Y: 0}})
	got, _ = store.Get(o.ID)
	assert.InDelta(t, 25.0, got.X, 1e-9)
}

func TestGestureController_Resize(t *testing.T) {
	logger.SetNewNop()

	store := NewOverlayStore(domain.ClampPercent)
	o := store.Add(domain.OverlayText, 0, 100)
	bus := NewPointerBus()
	g := NewGestureController(bus, store, func() float64 { return 100 })

	require.NoError(t, g.BeginResize(o.ID, HandleBottomRight))
	g.Handle(PointerEvent{Action: domain.PointerMove, MovementX: 10, MovementY: 10})
	g.Handle(PointerEvent{Action: domain.PointerMove, MovementX: 10, MovementY: 10})

	got, _ := store.Get(o.ID)
	assert.InDelta(t, 240, got.Width, 1e-9)
	assert.InDelta(t, 70, got.Height, 1e-9)

	t.Run("overlay removed mid gesture ends it", func(t *testing.T) {
		store.Remove(o.ID)
		g.Handle(PointerEvent{Action: domain.PointerMove, MovementX: 10})
		assert.False(t, g.Active())
		assert.Equal(t, 0, bus.Active())
	})
}

func TestGestureController_OneGestureAtATime(t *testing.T) {
	logger.SetNewNop()

	store := NewOverlayStore(domain.ClampPercent)
	a := store.Add(domain.OverlayText, 0, 100)
	b := store.Add(domain.OverlayImage, 0, 100)
	bus := NewPointerBus()
	g := NewGestureController(bus, store, func() float64 { return 100 })

	require.NoError(t, g.BeginResize(a.ID, HandleTopLeft))
	require.NoError(t, g.BeginResize(b.ID, HandleBottomRight))
	assert.Equal(t, 1, bus.Active())

	g.End()
	assert.Equal(t, 0, bus.Active())
}

func TestGestureController_UnknownOverlay(t *testing.T) {
	logger.SetNewNop()

	store := NewOverlayStore(domain.ClampPercent)
	g := NewGestureController(NewPointerBus(), store, func() float64 { return 100 })

	err := g.BeginMove("overlay-missing", domain.Rect{Width: 1, Height: 1}, domain.Rect{}, domain.Point{})
	assert.True(t, errors.Is(err, ErrOverlayNotFound))

	err = g.BeginResize("overlay-missing", HandleTopLeft)
	assert.True(t, errors.Is(err, ErrOverlayNotFound))
	assert.False(t, g.Active())
}

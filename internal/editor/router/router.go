package router

import (
	"context"
	"strings"

	"overlay_editor_service/internal/editor/app"
	"overlay_editor_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes register editor routes
// @title Overlay Editor Service API
// @version 1.0
// @description Headless video overlay editor: overlays, timeline, playback and render submission
// @host localhost:8090
// @BasePath /
func RegisterRoutes(r *fiber.App, editor *app.EditorHandler, ws *app.EditorWebsocketHandler) {
	r.Use(cors.New())
	r.Use(middlewares.RequestLog())

	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/", app.ConnectCheck)
	r.Post("/debug", app.DebugLogFlag)

	editorRoutes := r.Group("/editor")
	editorRoutes.Get("/state", editor.GetState)
	editorRoutes.Post("/video", editor.UploadVideo)

	editorRoutes.Post("/media/metadata", editor.LoadedMetadata)
	editorRoutes.Post("/media/timeupdate", editor.TimeUpdate)

	editorRoutes.Post("/playback/play", editor.Play)
	editorRoutes.Post("/playback/pause", editor.Pause)
	editorRoutes.Post("/playback/toggle", editor.TogglePlay)
	editorRoutes.Post("/playback/seek", editor.Seek)
	editorRoutes.Post("/playback/skip", editor.Skip)

	editorRoutes.Post("/overlays", editor.AddOverlay)
	editorRoutes.Patch("/overlays/:id", editor.UpdateOverlay)
	editorRoutes.Delete("/overlays/:id", editor.RemoveOverlay)
	editorRoutes.Post("/overlays/:id/select", editor.SelectOverlay)
	editorRoutes.Delete("/selection", editor.ClearSelection)

	editorRoutes.Get("/timeline", editor.GetTimeline)
	editorRoutes.Post("/timeline/zoom-in", editor.ZoomIn)
	editorRoutes.Post("/timeline/zoom-out", editor.ZoomOut)
	editorRoutes.Post("/timeline/seek", editor.TimelineSeek)
	editorRoutes.Post("/timeline/scroll", editor.TimelineScroll)

	editorRoutes.Post("/render", editor.SubmitRender)
	editorRoutes.Get("/render", editor.GetRender)
	editorRoutes.Post("/render/pause", editor.PauseRender)
	editorRoutes.Post("/render/resume", editor.ResumeRender)
	editorRoutes.Post("/render/retry", editor.RetryRender)
	editorRoutes.Post("/render/reset", editor.ResetRender)
	editorRoutes.Post("/render/download", editor.DownloadRender)

	editorRoutes.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	editorRoutes.Get("/ws", websocket.New(func(c *websocket.Conn) {
		ws.HandleConnection(context.Background(), c)
	}))
}

// RegisterDevProxy local development rewrite /api/* -> target/api/*
func RegisterDevProxy(r *fiber.App, target string) {
	target = strings.TrimSuffix(target, "/")
	r.All("/api/*", func(c *fiber.Ctx) error {
		return proxy.Do(c, target+c.OriginalURL())
	})
}

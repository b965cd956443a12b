package app

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"overlay_editor_service/internal/editor/domain"
	errprocess "overlay_editor_service/pkg/err"
	"overlay_editor_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EditorHandler REST surface of the editing session
type EditorHandler struct {
	session   *Session
	uploadDir string
	maxUpload int64
}

// NewEditorHandler create editor handler, uploads are staged under uploadDir
func NewEditorHandler(session *Session, uploadDir string, maxUpload int64) *EditorHandler {
	if maxUpload <= 0 {
		maxUpload = domain.MaxVideoSize
	}
	return &EditorHandler{session: session, uploadDir: uploadDir, maxUpload: maxUpload}
}

// ErrorRes error body
type ErrorRes struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// AddOverlayReq add overlay body
type AddOverlayReq struct {
	Type string `json:"type" example:"text"`
}

// DurationReq media metadata body
type DurationReq struct {
	Duration float64 `json:"duration" example:"100"`
}

// TimeUpdateReq media time update body
type TimeUpdateReq struct {
	CurrentTime float64 `json:"currentTime" example:"10"`
}

// SeekReq seek body
type SeekReq struct {
	Time float64 `json:"time" example:"42.5"`
}

// SkipReq relative seek body
type SkipReq struct {
	Delta float64 `json:"delta" example:"-5"`
}

// TrackClickReq click on the timeline track
type TrackClickReq struct {
	ClickX     float64 `json:"clickX" example:"120"`
	TrackWidth float64 `json:"trackWidth" example:"800"`
}

// ScrollReq timeline window start
type ScrollReq struct {
	Start float64 `json:"start" example:"30"`
}

// TimeRes playback position after a seek
type TimeRes struct {
	CurrentTime float64 `json:"currentTime"`
}

// SubmitRes accepted render job
type SubmitRes struct {
	JobID string `json:"jobId"`
}

// DownloadRes where the result was saved
type DownloadRes struct {
	FileName string `json:"fileName"`
	Location string `json:"location"`
}

// GetState godoc
// @Summary Session state
// @Description Full snapshot of the editing session
// @Tags Editor
// @Produce json
// @Success 200 {object} domain.SessionState
// @Router /editor/state [get]
func (h *EditorHandler) GetState(c *fiber.Ctx) error {
	return c.JSON(h.session.State())
}

// UploadVideo godoc
// @Summary Load base video
// @Description Validates the video (video/*, at most 500MB) and starts a new edit
// @Tags Editor
// @Accept multipart/form-data
// @Produce json
// @Param video formData file true "Video File"
// @Success 200 {object} domain.SessionState
// @Failure 400 {object} ErrorRes
// @Router /editor/video [post]
func (h *EditorHandler) UploadVideo(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		return h.fail(c, errprocess.New(errprocess.Validation, domain.ErrNotVideo.Error(), err))
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if err := domain.ValidateVideo(contentType, fileHeader.Size, h.maxUpload); err != nil {
		return h.fail(c, errprocess.New(errprocess.Validation, err.Error(), err))
	}

	asset, err := h.stage(fileHeader, contentType)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.session.LoadVideo(asset); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.session.State())
}

// stage copy the upload to disk so it can be re-read for every submission
func (h *EditorHandler) stage(fileHeader *multipart.FileHeader, contentType string) (*domain.VideoAsset, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return nil, errprocess.New(errprocess.State, "create upload dir failed", err)
	}
	path := filepath.Join(h.uploadDir, uuid.NewString()+filepath.Ext(fileHeader.Filename))

	src, err := fileHeader.Open()
	if err != nil {
		return nil, errprocess.New(errprocess.Validation, "open upload failed", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return nil, errprocess.New(errprocess.State, "stage upload failed", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, errprocess.New(errprocess.State, "stage upload failed", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, errprocess.New(errprocess.State, "stage upload failed", err)
	}

	return &domain.VideoAsset{
		Name:        filepath.Base(fileHeader.Filename),
		Size:        fileHeader.Size,
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
		Release: func() {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				logger.Log.Warn("remove staged video failed", zap.String("path", path), zap.Error(err))
			}
		},
	}, nil
}

// LoadedMetadata godoc
// @Summary Media metadata loaded
// @Tags Media
// @Accept json
// @Produce json
// @Param body body DurationReq true "duration in seconds"
// @Success 200 {object} domain.PlaybackState
// @Failure 400 {object} ErrorRes
// @Router /editor/media/metadata [post]
func (h *EditorHandler) LoadedMetadata(c *fiber.Ctx) error {
	var req DurationReq
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c, err)
	}
	if err := h.session.LoadMetadata(req.Duration); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.session.State().Playback)
}

// TimeUpdate godoc
// @Summary Media time update
// @Tags Media
// @Accept json
// @Produce json
// @Param body body TimeUpdateReq true "current time in seconds"
// @Success 200 {object} domain.PlaybackState
// @Router /editor/media/timeupdate [post]
func (h *EditorHandler) TimeUpdate(c *fiber.Ctx) error {
	var req TimeUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c, err)
	}
	h.session.TimeUpdate(req.CurrentTime)
	return c.JSON(h.session.State().Playback)
}

// Play godoc
// @Summary Play
// @Tags Playback
// @Produce json
// @Success 200 {object} domain.PlaybackState
// @Failure 409 {object} ErrorRes
// @Router /editor/playback/play [post]
func (h *EditorHandler) Play(c *fiber.Ctx) error {
	return h.playback(c, h.session.Play)
}

// Pause godoc
// @Summary Pause
// @Tags Playback
// @Produce json
// @Success 200 {object} domain.PlaybackState
// @Failure 409 {object} ErrorRes
// @Router /editor/playback/pause [post]
func (h *EditorHandler) Pause(c *fiber.Ctx) error {
	return h.playback(c, h.session.Pause)
}

// TogglePlay godoc
// @Summary Toggle play / pause
// @Tags Playback
// @Produce json
// @Success 200 {object} domain.PlaybackState
// @Failure 409 {object} ErrorRes
// @Router /editor/playback/toggle [post]
func (h *EditorHandler) TogglePlay(c *fiber.Ctx) error {
	return h.playback(c, h.session.TogglePlay)
}

func (h *EditorHandler) playback(c *fiber.Ctx, fn func() error) error {
	if err := fn(); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.session.State().Playback)
}

// Seek godoc
// @Summary Seek
// @Description Time is clamped to the video duration
// @Tags Playback
// @Accept json
// @Produce json
// @Param body body SeekReq true "target time"
// @Success 200 {object} TimeRes
// @Failure 409 {object} ErrorRes
// @Router /editor/playback/seek [post]
func (h *EditorHandler) Seek(c *fiber.Ctx) error {
	var req SeekReq
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c, err)
	}
	at, err := h.session.Seek(req.Time)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(TimeRes{CurrentTime: at})
}

// Skip godoc
// @Summary Skip
// @Description Seek relative to the current time (5s and 0.1s frame steps in the UI)
// @Tags Playback
// @Accept json
// @Produce json
// @Param body body SkipReq true "delta in seconds"
// @Success 200 {object} TimeRes
// @Failure 409 {object} ErrorRes
// @Router /editor/playback/skip [post]
func (h *EditorHandler) Skip(c *fiber.Ctx) error {
	var req SkipReq
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c, err)
	}
	at, err := h.session.SkipBy(req.Delta)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(TimeRes{CurrentTime: at})
}

// AddOverlay godoc
// @Summary Add overlay
// @Description New overlay at the current time, it becomes the selection
// @Tags Overlay
// @Accept json
// @Produce json
// @Param body body AddOverlayReq true "overlay type: text, image or video"
// @Success 201 {object} domain.Overlay
// @Failure 400 {object} ErrorRes
// @Failure 409 {object} ErrorRes
// @Router /editor/overlays [post]
func (h *EditorHandler) AddOverlay(c *fiber.Ctx) error {
	var req AddOverlayReq
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c, err)
	}
	t, err := domain.ParseOverlayType(req.Type)
	if err != nil {
		return h.fail(c, errprocess.New(errprocess.Validation, err.Error(), err))
	}
	o, err := h.session.AddOverlay(t)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(o)
}

// UpdateOverlay godoc
// @Summary Update overlay
// @Description Partial update; width >= 50 and height >= 30 are enforced by clamping
// @Tags Overlay
// @Accept json
// @Produce json
// @Param id path string true "overlay id"
// @Param body body domain.OverlayPatch true "fields to change"
// @Success 200 {object} domain.Overlay
// @Failure 404 {object} ErrorRes
// @Router /editor/overlays/{id} [patch]
func (h *EditorHandler) UpdateOverlay(c *fiber.Ctx) error {
	var patch domain.OverlayPatch
	if err := c.BodyParser(&patch); err != nil {
		return h.badBody(c, err)
	}
	o, err := h.session.UpdateOverlay(c.Params("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(o)
}

// RemoveOverlay godoc
// @Summary Remove overlay
// @Description Removing an unknown or already removed overlay is a no-op
// @Tags Overlay
// @Success 204
// @Router /editor/overlays/{id} [delete]
func (h *EditorHandler) RemoveOverlay(c *fiber.Ctx) error {
	h.session.RemoveOverlay(c.Params("id"))
	return c.SendStatus(http.StatusNoContent)
}

// SelectOverlay godoc
// @Summary Select overlay
// @Tags Overlay
// @Param id path string true "overlay id"
// @Success 204
// @Failure 404 {object} ErrorRes
// @Router /editor/overlays/{id}/select [post]
func (h *EditorHandler) SelectOverlay(c *fiber.Ctx) error {
	if err := h.session.SelectOverlay(c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ClearSelection godoc
// @Summary Clear selection
// @Tags Overlay
// @Success 204
// @Router /editor/selection [delete]
func (h *EditorHandler) ClearSelection(c *fiber.Ctx) error {
	h.session.ClearSelection()
	return c.SendStatus(http.StatusNoContent)
}

// GetTimeline godoc
// @Summary Timeline geometry
// @Description Segments, markers and playhead as percentages of the track width
// @Tags Timeline
// @Produce json
// @Success 200 {object} domain.TimelineRender
// @Failure 409 {object} ErrorRes
// @Router /editor/timeline [get]
func (h *EditorHandler) GetTimeline(c *fiber.Ctx) error {
	r, err := h.session.Timeline()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(r)
}

// ZoomIn godoc
// @Summary Zoom in
// @Tags Timeline
// @Produce json
// @Success 200 {object} domain.TimelineView
// @Router /editor/timeline/zoom-in [post]
func (h *EditorHandler) ZoomIn(c *fiber.Ctx) error {
	return c.JSON(h.session.ZoomIn())
}

// ZoomOut godoc
// @Summary Zoom out
// @Tags Timeline
// @Produce json
// @Success 200 {object} domain.TimelineView
// @Router /editor/timeline/zoom-out [post]
func (h *EditorHandler) ZoomOut(c *fiber.Ctx) error {
	return c.JSON(h.session.ZoomOut())
}

// TimelineSeek godoc
// @Summary Seek from a track click
// @Tags Timeline
// @Accept json
// @Produce json
// @Param body body TrackClickReq true "click position"
// @Success 200 {object} TimeRes
// @Failure 400 {object} ErrorRes
// @Failure 409 {object} ErrorRes
// @Router /editor/timeline/seek [post]
func (h *EditorHandler) TimelineSeek(c *fiber.Ctx) error {
	var req TrackClickReq
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c, err)
	}
	at, err := h.session.SeekFromClick(req.ClickX, req.TrackWidth)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(TimeRes{CurrentTime: at})
}

// TimelineScroll godoc
// @Summary Scroll the visible window
// @Tags Timeline
// @Accept json
// @Produce json
// @Param body body ScrollReq true "window start"
// @Success 200 {object} domain.TimelineView
// @Failure 409 {object} ErrorRes
// @Router /editor/timeline/scroll [post]
func (h *EditorHandler) TimelineScroll(c *fiber.Ctx) error {
	var req ScrollReq
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c, err)
	}
	v, err := h.session.ScrollTimeline(req.Start)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(v)
}

// SubmitRender godoc
// @Summary Submit for rendering
// @Description Health check, upload of video and overlays, then status polling
// @Tags Render
// @Produce json
// @Success 202 {object} SubmitRes
// @Failure 400 {object} ErrorRes
// @Failure 502 {object} ErrorRes
// @Failure 504 {object} ErrorRes
// @Router /editor/render [post]
func (h *EditorHandler) SubmitRender(c *fiber.Ctx) error {
	jobID, err := h.session.Submit(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusAccepted).JSON(SubmitRes{JobID: jobID})
}

// GetRender godoc
// @Summary Render status
// @Tags Render
// @Produce json
// @Success 200 {object} domain.RenderView
// @Router /editor/render [get]
func (h *EditorHandler) GetRender(c *fiber.Ctx) error {
	return c.JSON(h.session.Render())
}

// PauseRender godoc
// @Summary Pause status polling
// @Tags Render
// @Produce json
// @Success 200 {object} domain.RenderView
// @Failure 409 {object} ErrorRes
// @Router /editor/render/pause [post]
func (h *EditorHandler) PauseRender(c *fiber.Ctx) error {
	return h.render(c, h.session.PauseRender)
}

// ResumeRender godoc
// @Summary Resume status polling
// @Tags Render
// @Produce json
// @Success 200 {object} domain.RenderView
// @Failure 409 {object} ErrorRes
// @Router /editor/render/resume [post]
func (h *EditorHandler) ResumeRender(c *fiber.Ctx) error {
	return h.render(c, h.session.ResumeRender)
}

// RetryRender godoc
// @Summary Retry status polling
// @Description Clears the poll error and polls again, the last job is kept
// @Tags Render
// @Produce json
// @Success 200 {object} domain.RenderView
// @Failure 409 {object} ErrorRes
// @Router /editor/render/retry [post]
func (h *EditorHandler) RetryRender(c *fiber.Ctx) error {
	return h.render(c, h.session.RetryRender)
}

// ResetRender godoc
// @Summary Start over
// @Tags Render
// @Produce json
// @Success 200 {object} domain.RenderView
// @Router /editor/render/reset [post]
func (h *EditorHandler) ResetRender(c *fiber.Ctx) error {
	h.session.ResetRender()
	return c.JSON(h.session.Render())
}

func (h *EditorHandler) render(c *fiber.Ctx, fn func() error) error {
	if err := fn(); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.session.Render())
}

// DownloadRender godoc
// @Summary Download result
// @Description Saves edited_video_{jobId}.mp4 through the configured sink
// @Tags Render
// @Produce json
// @Success 200 {object} DownloadRes
// @Failure 409 {object} ErrorRes
// @Failure 502 {object} ErrorRes
// @Router /editor/render/download [post]
func (h *EditorHandler) DownloadRender(c *fiber.Ctx) error {
	jobID := h.session.Render().Job
	location, err := h.session.Download(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	res := DownloadRes{Location: location}
	if jobID != nil {
		res.FileName = domain.ResultFileName(jobID.JobID)
	}
	return c.JSON(res)
}

func (h *EditorHandler) badBody(c *fiber.Ctx, err error) error {
	return h.fail(c, errprocess.New(errprocess.Validation, "invalid request body", err))
}

// fail map error kind to http status
func (h *EditorHandler) fail(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Log.Error("editor request failed", zap.String("path", c.Path()), zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(ErrorRes{Error: errMessage(err), Kind: string(errprocess.KindOf(err))})
}

// StatusOf http status for an editor error
func StatusOf(err error) int {
	switch errprocess.KindOf(err) {
	case errprocess.Validation:
		return http.StatusBadRequest
	case errprocess.NotFound:
		return http.StatusNotFound
	case errprocess.State:
		return http.StatusConflict
	case errprocess.Remote:
		return http.StatusUnprocessableEntity
	case errprocess.Connectivity:
		return http.StatusBadGateway
	case errprocess.Timeout:
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, domain.ErrNotVideo) || errors.Is(err, domain.ErrVideoTooLarge) || errors.Is(err, domain.ErrEmptyVideo) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ConnectCheck check editor service start
// @Summary Check editor service status
// @Description Returns a simple confirmation message
// @Tags Shared
// @Success 200 {string} string "editor service start!"
// @Router / [get]
func ConnectCheck(c *fiber.Ctx) error {
	return c.SendString("editor service start!")
}

// DebugLogFlag toggle debug log flag
// @Summary Toggle Debug Log Flag
// @Description Enable or disable debug logging
// @Tags Shared
// @Param status query bool true "Debug status"
// @Success 200 {string} string "debug mode updated"
// @Failure 400 {string} string "Invalid status value"
// @Router /debug [post]
func DebugLogFlag(c *fiber.Ctx) error {
	statusStr := c.Query("status")
	status, err := strconv.ParseBool(statusStr)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	logger.Log.Info("debug", zap.Bool("status", status))
	logger.Log.SetDebugMode(status)
	return c.SendString(fmt.Sprintf("debug mode is : %t", status))
}

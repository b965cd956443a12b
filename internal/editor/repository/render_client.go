package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"overlay_editor_service/internal/editor/domain"
	"overlay_editor_service/pkg/config"
	errprocess "overlay_editor_service/pkg/err"
	"overlay_editor_service/pkg/logger"

	"go.uber.org/zap"
)

// user facing messages of the render client
const (
	MsgBackendUnreachable = "Cannot reach backend. Make sure the backend server is running and that CORS or proxy is configured properly."
	MsgRequestTimeout     = "Request timed out - the backend may be slow or unreachable"
	MsgSubmitFailed       = "Failed to submit video for processing"
	MsgStatusFailed       = "Unable to fetch job status"
	MsgDownloadFailed     = "Failed to download video"
)

// RenderService external render backend
type RenderService interface {
	Health(ctx context.Context) error
	Upload(ctx context.Context, video *domain.VideoAsset, overlays []domain.Overlay) (string, error)
	Status(ctx context.Context, jobID string) (*domain.Job, error)
	Result(ctx context.Context, jobID string) (io.ReadCloser, error)
}

type renderClient struct {
	base           string
	requestTimeout time.Duration
	httpClient     *http.Client
}

// NewRenderClient create RenderService.
// An empty base sends requests to localOrigin, where /api/* is proxied to the backend.
func NewRenderClient(base, localOrigin string, requestTimeout time.Duration) RenderService {
	if base == "" {
		base = localOrigin
	}
	// no client level timeout, uploads and result bodies stream for as long as they need
	return &renderClient{
		base:           base,
		requestTimeout: requestTimeout,
		httpClient:     &http.Client{},
	}
}

func (c *renderClient) url(endpoint string) string {
	return config.APIURL(c.base, endpoint)
}

// Health GET /api/health, non-2xx means unreachable
func (c *renderClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/health"), nil)
	if err != nil {
		return errprocess.New(errprocess.Validation, "invalid backend url", err)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return requestError(ctx, MsgBackendUnreachable, err)
	}
	defer drain(res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return errprocess.New(errprocess.Connectivity, MsgBackendUnreachable, fmt.Errorf("health status %d", res.StatusCode))
	}
	return nil
}

// Upload POST /api/upload with the video and the overlay list, returns the job id
func (c *renderClient) Upload(ctx context.Context, video *domain.VideoAsset, overlays []domain.Overlay) (string, error) {
	if video == nil || video.Open == nil {
		return "", errprocess.New(errprocess.Validation, "Please upload a video first", nil)
	}
	if overlays == nil {
		overlays = []domain.Overlay{}
	}
	overlaysJSON, err := json.Marshal(overlays)
	if err != nil {
		return "", errprocess.New(errprocess.Validation, "encode overlays failed", err)
	}
	src, err := video.Open()
	if err != nil {
		return "", errprocess.New(errprocess.Validation, "open video failed", err)
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		defer src.Close()
		pw.CloseWithError(writeUploadForm(form, video, src, overlaysJSON))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/upload"), pr)
	if err != nil {
		pr.Close()
		return "", errprocess.New(errprocess.Validation, "invalid backend url", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	logger.Log.Info("upload video", zap.String("name", video.Name), zap.Int64("size", video.Size), zap.Int("overlays", len(overlays)))
	res, err := c.httpClient.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		return "", requestError(ctx, MsgSubmitFailed, err)
	}
	defer drain(res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		msg := strings.TrimSpace(fmt.Sprintf("Failed to upload: %d %s", res.StatusCode, body))
		return "", errprocess.New(errprocess.Connectivity, msg, nil)
	}

	var out domain.UploadRes
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", errprocess.New(errprocess.Remote, "Failed to process video: invalid response", err)
	}
	if !out.Success || out.JobID == "" {
		reason := out.Error
		if reason == "" {
			reason = "Unknown error"
		}
		return "", errprocess.New(errprocess.Remote, "Failed to process video: "+reason, nil)
	}
	logger.Log.Info("upload accepted", zap.String("jobID", out.JobID))
	return out.JobID, nil
}

// writeUploadForm video part first, then the overlays field
func writeUploadForm(form *multipart.Writer, video *domain.VideoAsset, src io.Reader, overlaysJSON []byte) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename=%q`, video.Name))
	h.Set("Content-Type", video.ContentType)
	part, err := form.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src); err != nil {
		return err
	}
	if err := form.WriteField("overlays", string(overlaysJSON)); err != nil {
		return err
	}
	return form.Close()
}

// Status GET /api/status/{jobId}
func (c *renderClient) Status(ctx context.Context, jobID string) (*domain.Job, error) {
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}
	res, err := c.get(ctx, "/api/status/"+jobID, MsgStatusFailed)
	if err != nil {
		return nil, err
	}
	defer drain(res.Body)

	var job domain.Job
	if err := json.NewDecoder(res.Body).Decode(&job); err != nil {
		return nil, errprocess.New(errprocess.Connectivity, MsgStatusFailed, err)
	}
	if job.JobID == "" {
		job.JobID = jobID
	}
	return &job, nil
}

// Result GET /api/result/{jobId}, caller closes the body
func (c *renderClient) Result(ctx context.Context, jobID string) (io.ReadCloser, error) {
	res, err := c.get(ctx, "/api/result/"+jobID, MsgDownloadFailed)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

func (c *renderClient) get(ctx context.Context, endpoint, failMsg string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(endpoint), nil)
	if err != nil {
		return nil, errprocess.New(errprocess.Validation, "invalid backend url", err)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, requestError(ctx, failMsg, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		drain(res.Body)
		return nil, errprocess.New(errprocess.Connectivity, failMsg, fmt.Errorf("%s status %d", endpoint, res.StatusCode))
	}
	return res, nil
}

// requestError deadline gets its own message, anything else is connectivity
func requestError(ctx context.Context, msg string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errprocess.New(errprocess.Timeout, MsgRequestTimeout, err)
	}
	return errprocess.New(errprocess.Connectivity, msg, err)
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<16))
	_ = body.Close()
}

// OpenVideoFile build a video asset from a file on disk
func OpenVideoFile(path, contentType string, maxSize int64) (*domain.VideoAsset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errprocess.New(errprocess.Validation, domain.ErrNotVideo.Error(), err)
	}
	if info.IsDir() {
		return nil, errprocess.New(errprocess.Validation, domain.ErrNotVideo.Error(), nil)
	}
	if err := domain.ValidateVideo(contentType, info.Size(), maxSize); err != nil {
		return nil, errprocess.New(errprocess.Validation, err.Error(), err)
	}
	return &domain.VideoAsset{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

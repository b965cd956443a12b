package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"overlay_editor_service/internal/editor/domain"
	errprocess "overlay_editor_service/pkg/err"
	"overlay_editor_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAsset(content string) *domain.VideoAsset {
	return &domain.VideoAsset{
		Name:        "clip.mp4",
		Size:        int64(len(content)),
		ContentType: "video/mp4",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestRenderClient_Health(t *testing.T) {
	logger.SetNewNop()

	t.Run("ok", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		assert.NoError(t, NewRenderClient(srv.URL+"/", "", 0).Health(context.Background()))
	})

	t.Run("non-2xx is unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		err := NewRenderClient(srv.URL, "", 0).Health(context.Background())
		assert.True(t, errprocess.IsKind(err, errprocess.Connectivity))
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		err := NewRenderClient(url, "", 0).Health(context.Background())
		require.Error(t, err)
		assert.True(t, errprocess.IsKind(err, errprocess.Connectivity))
		var e *errprocess.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, MsgBackendUnreachable, e.Msg)
	})

	t.Run("deadline", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		err := NewRenderClient(srv.URL, "", 0).Health(ctx)
		assert.True(t, errprocess.IsKind(err, errprocess.Timeout))
		var e *errprocess.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, MsgRequestTimeout, e.Msg)
	})

	t.Run("empty base uses the local origin", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		assert.NoError(t, NewRenderClient("", srv.URL, 0).Health(context.Background()))
	})
}

func TestRenderClient_Upload(t *testing.T) {
	logger.SetNewNop()

	overlays := []domain.Overlay{
		{ID: "overlay-1", Type: domain.OverlayText, Content: "Hi", X: 50, Y: 50, Width: 200, Height: 50, StartTime: 0, EndTime: 5},
		{ID: "overlay-2", Type: domain.OverlayImage, Content: "logo.png", X: 10, Y: 10, Width: 100, Height: 100, StartTime: 1, EndTime: 3},
	}

	t.Run("multipart body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/upload", r.URL.Path)
			require.NoError(t, r.ParseMultipartForm(1<<20))

			file, header, err := r.FormFile("video")
			require.NoError(t, err)
			defer file.Close()
			body, _ := io.ReadAll(file)
			assert.Equal(t, "video-bytes", string(body))
			assert.Equal(t, "clip.mp4", header.Filename)
			assert.Equal(t, "video/mp4", header.Header.Get("Content-Type"))

			var got []domain.Overlay
			require.NoError(t, json.Unmarshal([]byte(r.FormValue("overlays")), &got))
			assert.Equal(t, overlays, got)

			_ = json.NewEncoder(w).Encode(domain.UploadRes{Success: true, JobID: "job-42"})
		}))
		defer srv.Close()

		jobID, err := NewRenderClient(srv.URL, "", 0).Upload(context.Background(), testAsset("video-bytes"), overlays)
		require.NoError(t, err)
		assert.Equal(t, "job-42", jobID)
	})

	t.Run("no overlays sends an empty list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "[]", r.FormValue("overlays"))
			_ = json.NewEncoder(w).Encode(domain.UploadRes{Success: true, JobID: "job-1"})
		}))
		defer srv.Close()

		_, err := NewRenderClient(srv.URL, "", 0).Upload(context.Background(), testAsset("v"), nil)
		require.NoError(t, err)
	})

	t.Run("non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "disk full", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewRenderClient(srv.URL, "", 0).Upload(context.Background(), testAsset("v"), overlays)
		assert.True(t, errprocess.IsKind(err, errprocess.Connectivity))
		var e *errprocess.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "Failed to upload: 500 disk full", e.Msg)
	})

	t.Run("rejected by the backend", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(domain.UploadRes{Success: false, Error: "unsupported codec"})
		}))
		defer srv.Close()

		_, err := NewRenderClient(srv.URL, "", 0).Upload(context.Background(), testAsset("v"), overlays)
		assert.True(t, errprocess.IsKind(err, errprocess.Remote))
		var e *errprocess.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "Failed to process video: unsupported codec", e.Msg)
	})

	t.Run("rejected without a reason", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":false}`))
		}))
		defer srv.Close()

		_, err := NewRenderClient(srv.URL, "", 0).Upload(context.Background(), testAsset("v"), overlays)
		var e *errprocess.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "Failed to process video: Unknown error", e.Msg)
	})

	t.Run("no video", func(t *testing.T) {
		_, err := NewRenderClient("http://127.0.0.1:1", "", 0).Upload(context.Background(), nil, overlays)
		assert.True(t, errprocess.IsKind(err, errprocess.Validation))
	})
}

func TestRenderClient_Status(t *testing.T) {
	logger.SetNewNop()

	t.Run("job", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/status/job-1", r.URL.Path)
			_, _ = w.Write([]byte(`{"status":"processing","progress":40}`))
		}))
		defer srv.Close()

		job, err := NewRenderClient(srv.URL, "", time.Second).Status(context.Background(), "job-1")
		require.NoError(t, err)
		assert.Equal(t, "job-1", job.JobID)
		assert.Equal(t, domain.JobProcessing, job.Status)
		assert.Equal(t, 40, job.Progress)
	})

	t.Run("request timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		_, err := NewRenderClient(srv.URL, "", 30*time.Millisecond).Status(context.Background(), "job-1")
		assert.True(t, errprocess.IsKind(err, errprocess.Timeout))
	})

	t.Run("not found", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		_, err := NewRenderClient(srv.URL, "", 0).Status(context.Background(), "job-x")
		assert.True(t, errprocess.IsKind(err, errprocess.Connectivity))
		var e *errprocess.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, MsgStatusFailed, e.Msg)
	})
}

func TestRenderClient_Result(t *testing.T) {
	logger.SetNewNop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/result/job-1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte("mp4-data"))
	}))
	defer srv.Close()

	c := NewRenderClient(srv.URL, "", 0)
	body, err := c.Result(context.Background(), "job-1")
	require.NoError(t, err)
	b, _ := io.ReadAll(body)
	body.Close()
	assert.Equal(t, "mp4-data", string(b))

	_, err = c.Result(context.Background(), "job-2")
	var e *errprocess.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, MsgDownloadFailed, e.Msg)
}

func TestOpenVideoFile(t *testing.T) {
	logger.SetNewNop()

	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	v, err := OpenVideoFile(path, "video/mp4", 0)
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", v.Name)
	assert.Equal(t, int64(10), v.Size)

	r, err := v.Open()
	require.NoError(t, err)
	b, _ := io.ReadAll(r)
	r.Close()
	assert.Equal(t, "0123456789", string(b))

	_, err = OpenVideoFile(path, "video/mp4", 5)
	assert.ErrorIs(t, err, domain.ErrVideoTooLarge)

	_, err = OpenVideoFile(path, "application/pdf", 0)
	assert.ErrorIs(t, err, domain.ErrNotVideo)

	_, err = OpenVideoFile(filepath.Join(dir, "missing.mp4"), "video/mp4", 0)
	assert.True(t, errprocess.IsKind(err, errprocess.Validation))

	_, err = OpenVideoFile(dir, "video/mp4", 0)
	assert.True(t, errprocess.IsKind(err, errprocess.Validation))
}

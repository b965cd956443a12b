package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"overlay_editor_service/internal/editor/domain"
	"overlay_editor_service/internal/editor/repository"
	errprocess "overlay_editor_service/pkg/err"
	"overlay_editor_service/pkg/logger"

	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	logger.SetNewNop()

	suite := godog.TestSuite{
		ScenarioInitializer: InitializeEditorScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

// scriptedRender render service answering status polls from a script
type scriptedRender struct {
	mu       sync.Mutex
	script   []domain.Job
	offline  bool
	requests int
	polls    int
}

func (r *scriptedRender) Health(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests++
	return nil
}

func (r *scriptedRender) Upload(ctx context.Context, video *domain.VideoAsset, overlays []domain.Overlay) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests++
	return "job-bdd", nil
}

func (r *scriptedRender) Status(ctx context.Context, jobID string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests++
	n := r.polls
	r.polls++
	if n >= len(r.script) {
		if r.offline || len(r.script) == 0 {
			return nil, &errprocess.Error{Kind: errprocess.Connectivity, Msg: repository.MsgStatusFailed}
		}
		n = len(r.script) - 1
	}
	j := r.script[n]
	j.JobID = jobID
	return &j, nil
}

func (r *scriptedRender) Result(ctx context.Context, jobID string) (io.ReadCloser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests++
	return io.NopCloser(strings.NewReader("rendered")), nil
}

func (r *scriptedRender) counts() (requests, polls int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests, r.polls
}

// memorySink keeps saved results in memory
type memorySink struct {
	mu    sync.Mutex
	saved map[string]string
}

func (s *memorySink) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[name] = string(b)
	return "memory://" + name, nil
}

type editorFeature struct {
	render    *scriptedRender
	sink      *memorySink
	session   *Session
	overlayID string
	submitErr error
}

func (f *editorFeature) reset() {
	f.render = &scriptedRender{}
	f.sink = &memorySink{saved: make(map[string]string)}
	f.session = NewSession(f.render, f.sink, SessionConfig{Policy: domain.ClampPercent, PollInterval: 20 * time.Millisecond})
	f.overlayID = ""
	f.submitErr = nil
}

func waitUntil(cond func() bool) error {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return nil
		}
		time.Sleep(5 * time.Millisecond)
	}
	return errors.New("condition not met in time")
}

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func (f *editorFeature) anEmptyEditingSession() error {
	return nil
}

func (f *editorFeature) aLoadedVideoOfSeconds(duration float64) error {
	if err := f.session.LoadVideo(testVideo()); err != nil {
		return err
	}
	return f.session.LoadMetadata(duration)
}

func (f *editorFeature) thePlayheadIsAtSeconds(t float64) error {
	_, err := f.session.Seek(t)
	return err
}

func (f *editorFeature) iAddAnOverlay(kind string) error {
	t, err := domain.ParseOverlayType(kind)
	if err != nil {
		return err
	}
	o, err := f.session.AddOverlay(t)
	if err != nil {
		return err
	}
	f.overlayID = o.ID
	return nil
}

func (f *editorFeature) current() (domain.Overlay, error) {
	for _, o := range f.session.State().Overlays {
		if o.ID == f.overlayID {
			return o, nil
		}
	}
	return domain.Overlay{}, fmt.Errorf("overlay %s not found", f.overlayID)
}

func (f *editorFeature) theOverlayRunsFromToSeconds(start, end float64) error {
	o, err := f.current()
	if err != nil {
		return err
	}
	if !almost(o.StartTime, start) || !almost(o.EndTime, end) {
		return fmt.Errorf("expected %v-%v, got %v-%v", start, end, o.StartTime, o.EndTime)
	}
	return nil
}

func (f *editorFeature) theOverlayIsSelected() error {
	if got := f.session.State().SelectedID; got != f.overlayID {
		return fmt.Errorf("expected %s selected, got %q", f.overlayID, got)
	}
	return nil
}

func (f *editorFeature) itsTimelineSegmentStartsAtWithAWidthOf(left, width float64) error {
	r, err := f.session.Timeline()
	if err != nil {
		return err
	}
	for _, seg := range r.Segments {
		if seg.OverlayID != f.overlayID {
			continue
		}
		if !almost(seg.Left, left) || !almost(seg.Width, width) {
			return fmt.Errorf("expected left %v width %v, got left %v width %v", left, width, seg.Left, seg.Width)
		}
		return nil
	}
	return errors.New("segment not found")
}

func (f *editorFeature) iResizeItToBy(width, height float64) error {
	_, err := f.session.UpdateOverlay(f.overlayID, domain.OverlayPatch{Width: domain.Float(width), Height: domain.Float(height)})
	return err
}

func (f *editorFeature) itMeasuresBy(width, height float64) error {
	o, err := f.current()
	if err != nil {
		return err
	}
	if o.Width != width || o.Height != height {
		return fmt.Errorf("expected %vx%v, got %vx%v", width, height, o.Width, o.Height)
	}
	return nil
}

func (f *editorFeature) iRemoveItTwice() error {
	if !f.session.RemoveOverlay(f.overlayID) {
		return errors.New("first remove found nothing")
	}
	if f.session.RemoveOverlay(f.overlayID) {
		return errors.New("second remove removed something")
	}
	return nil
}

func (f *editorFeature) noOverlayRemains() error {
	if n := len(f.session.State().Overlays); n != 0 {
		return fmt.Errorf("expected no overlay, got %d", n)
	}
	return nil
}

func (f *editorFeature) iZoomInTimes(n int) error {
	for i := 0; i < n; i++ {
		if z := f.session.ZoomIn().ZoomLevel; z > MaxZoom {
			return fmt.Errorf("zoom %v exceeds the maximum", z)
		}
	}
	return nil
}

func (f *editorFeature) iZoomOutTimes(n int) error {
	for i := 0; i < n; i++ {
		if z := f.session.ZoomOut().ZoomLevel; z < MinZoom {
			return fmt.Errorf("zoom %v below the minimum", z)
		}
	}
	return nil
}

func (f *editorFeature) theZoomLevelIs(z float64) error {
	if got := f.session.State().Timeline.ZoomLevel; got != z {
		return fmt.Errorf("expected zoom %v, got %v", z, got)
	}
	return nil
}

func (f *editorFeature) iScrollTheTimelineToSeconds(start float64) error {
	_, err := f.session.ScrollTimeline(start)
	return err
}

func (f *editorFeature) rawClick(x, width float64) (float64, domain.TimelineView, error) {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	at, err := f.session.timeline.RawTimeFromClick(x, width)
	return at, f.session.timeline.View(), err
}

func (f *editorFeature) aClickAtPixelIsTheVisibleStart(x, width float64) error {
	at, v, err := f.rawClick(x, width)
	if err != nil {
		return err
	}
	if !almost(at, v.VisibleStart) {
		return fmt.Errorf("expected %v, got %v", v.VisibleStart, at)
	}
	return nil
}

func (f *editorFeature) aClickAtPixelIsTheVisibleEnd(x, width float64) error {
	at, v, err := f.rawClick(x, width)
	if err != nil {
		return err
	}
	if !almost(at, v.VisibleStart+v.VisibleDuration) {
		return fmt.Errorf("expected %v, got %v", v.VisibleStart+v.VisibleDuration, at)
	}
	return nil
}

var quoted = regexp.MustCompile(`"([^"]*)"`)

func parseJob(s string) (domain.Job, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return domain.Job{}, errors.New("empty status")
	}
	j := domain.Job{Status: domain.JobStatus(fields[0])}
	if len(fields) > 1 {
		p, err := strconv.Atoi(fields[1])
		if err != nil {
			return domain.Job{}, err
		}
		j.Progress = p
	}
	if j.Status == domain.JobCompleted {
		j.Progress = 100
	}
	return j, nil
}

func (f *editorFeature) theRenderServiceAnswersWith(list string) error {
	for _, m := range quoted.FindAllStringSubmatch(list, -1) {
		j, err := parseJob(m[1])
		if err != nil {
			return err
		}
		f.render.script = append(f.render.script, j)
	}
	return nil
}

func (f *editorFeature) theRenderServiceGoesOfflineAfter(status string) error {
	j, err := parseJob(status)
	if err != nil {
		return err
	}
	f.render.script = []domain.Job{j}
	f.render.offline = true
	return nil
}

func (f *editorFeature) iSubmitTheEditForRendering() error {
	_, f.submitErr = f.session.Submit(context.Background())
	return nil
}

func (f *editorFeature) theSubmissionFailsWith(msg string) error {
	if f.submitErr == nil {
		return errors.New("submission succeeded")
	}
	if !errprocess.IsKind(f.submitErr, errprocess.Validation) {
		return fmt.Errorf("expected a validation error, got %v", f.submitErr)
	}
	if got := errMessage(f.submitErr); got != msg {
		return fmt.Errorf("expected %q, got %q", msg, got)
	}
	return nil
}

func (f *editorFeature) noRequestReachedTheRenderService() error {
	if n, _ := f.render.counts(); n != 0 {
		return fmt.Errorf("expected no request, got %d", n)
	}
	return nil
}

func (f *editorFeature) pollingStopsOnceTheJobIs(status string) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	return waitUntil(func() bool {
		v := f.session.Render()
		return v.Job != nil && string(v.Job.Status) == status && v.State == domain.RenderCompleted
	})
}

func (f *editorFeature) exactlyStatusRequestsWereMade(n int) error {
	time.Sleep(100 * time.Millisecond)
	if _, polls := f.render.counts(); polls != n {
		return fmt.Errorf("expected %d status requests, got %d", n, polls)
	}
	return nil
}

func (f *editorFeature) theResultCanBeDownloaded() error {
	if !f.session.Render().CanDownload {
		return errors.New("download not enabled")
	}
	location, err := f.session.Download(context.Background())
	if err != nil {
		return err
	}
	if location != "memory://edited_video_job-bdd.mp4" {
		return fmt.Errorf("unexpected location %s", location)
	}
	return nil
}

func (f *editorFeature) aRetryIsOffered() error {
	if f.submitErr != nil {
		return f.submitErr
	}
	return waitUntil(func() bool { return f.session.Render().RetryAvailable })
}

func (f *editorFeature) theJobProgressIsStill(progress int) error {
	v := f.session.Render()
	if v.Job == nil {
		return errors.New("no job")
	}
	if v.Job.Progress != progress {
		return fmt.Errorf("expected progress %d, got %d", progress, v.Job.Progress)
	}
	return nil
}

// InitializeEditorScenario step definitions of features/editor.feature
func InitializeEditorScenario(sc *godog.ScenarioContext) {
	f := &editorFeature{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		f.reset()
		return ctx, nil
	})
	sc.After(func(ctx context.Context, s *godog.Scenario, err error) (context.Context, error) {
		f.session.Close()
		return ctx, nil
	})

	sc.Step(`^an empty editing session$`, f.anEmptyEditingSession)
	sc.Step(`^a loaded video of (\d+) seconds$`, f.aLoadedVideoOfSeconds)
	sc.Step(`^the playhead is at (\d+) seconds$`, f.thePlayheadIsAtSeconds)
	sc.Step(`^I add a "([^"]*)" overlay$`, f.iAddAnOverlay)
	sc.Step(`^the overlay runs from (\d+) to (\d+) seconds$`, f.theOverlayRunsFromToSeconds)
	sc.Step(`^the overlay is selected$`, f.theOverlayIsSelected)
	sc.Step(`^its timeline segment starts at (\d+)% with a width of (\d+)%$`, f.itsTimelineSegmentStartsAtWithAWidthOf)
	sc.Step(`^I resize it to (\d+) by (\d+)$`, f.iResizeItToBy)
	sc.Step(`^it measures (\d+) by (\d+)$`, f.itMeasuresBy)
	sc.Step(`^I remove it twice$`, f.iRemoveItTwice)
	sc.Step(`^no overlay remains$`, f.noOverlayRemains)
	sc.Step(`^I zoom in (\d+) times$`, f.iZoomInTimes)
	sc.Step(`^I zoom out (\d+) times$`, f.iZoomOutTimes)
	sc.Step(`^the zoom level is (\d+)$`, f.theZoomLevelIs)
	sc.Step(`^I scroll the timeline to (\d+) seconds$`, f.iScrollTheTimelineToSeconds)
	sc.Step(`^a click at pixel (\d+) of an (\d+) pixel track is the visible start$`, f.aClickAtPixelIsTheVisibleStart)
	sc.Step(`^a click at pixel (\d+) of an (\d+) pixel track is the visible end$`, f.aClickAtPixelIsTheVisibleEnd)
	sc.Step(`^the render service answers with (.+)$`, f.theRenderServiceAnswersWith)
	sc.Step(`^the render service goes offline after "([^"]*)"$`, f.theRenderServiceGoesOfflineAfter)
	sc.Step(`^I submit the edit for rendering$`, f.iSubmitTheEditForRendering)
	sc.Step(`^the submission fails with "([^"]*)"$`, f.theSubmissionFailsWith)
	sc.Step(`^no request reached the render service$`, f.noRequestReachedTheRenderService)
	sc.Step(`^polling stops once the job is "([^"]*)"$`, f.pollingStopsOnceTheJobIs)
	sc.Step(`^exactly (\d+) status requests were made$`, f.exactlyStatusRequestsWereMade)
	sc.Step(`^the result can be downloaded$`, f.theResultCanBeDownloaded)
	sc.Step(`^a retry is offered$`, f.aRetryIsOffered)
	sc.Step(`^the job progress is still (\d+)$`, f.theJobProgressIsStill)
}

package server

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/blake2b"

	"github.com/kbukum/videoscribe/analyzer"
	"github.com/kbukum/videoscribe/dispatch"
	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/inference"
	"github.com/kbukum/videoscribe/logger"
	"github.com/kbukum/videoscribe/media"
	"github.com/kbukum/videoscribe/observability"
	"github.com/kbukum/videoscribe/server/endpoint"
	"github.com/kbukum/videoscribe/transcript"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	openErr    error
	analyzeErr error
	gotItem    media.Item
	gotHints   inference.Hints
}

func (f *fakeService) Open(_ context.Context, path string) (media.Item, error) {
	if f.openErr != nil {
		return media.Item{}, f.openErr
	}
	return media.Item{Path: path, Size: 4, Duration: 60, MimeType: "video/mp4"}, nil
}

func (f *fakeService) Analyze(_ context.Context, item media.Item, hints inference.Hints, obs dispatch.Observers) (*analyzer.Report, error) {
	f.gotItem, f.gotHints = item, hints
	obs.NotifyPlanned(0, 1)
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return &analyzer.Report{
		RunID:    "run-1",
		Segments: 1,
		Result: transcript.AnalysisResult{
			Metadata:   transcript.Metadata{Title: hints.Title, Language: "English"},
			Transcript: []transcript.Entry{{Timestamp: "00:01", Speaker: "A", Text: "hello"}},
		},
	}, nil
}

func newTestServer(svc AnalysisService, checkers ...observability.HealthChecker) *Server {
	cfg := Config{}
	cfg.ApplyDefaults()
	s := New(cfg, logger.Nop())
	s.RegisterDefaultEndpoints("videoscribe", map[string]string{"backend": "gemini"}, checkers...)
	s.RegisterAnalyses(svc, nil)
	return s
}

type fakeArchive struct {
	reports map[string]*analyzer.Report
	saveErr error
}

func (f *fakeArchive) Save(_ context.Context, r *analyzer.Report) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.reports[r.RunID] = r
	return analyzer.ReportKey(r.RunID), nil
}

func (f *fakeArchive) Load(_ context.Context, runID string) (*analyzer.Report, error) {
	r, ok := f.reports[runID]
	if !ok {
		return nil, apperrors.NotFound("report", runID)
	}
	return r, nil
}

func uploadRequest(t *testing.T, target string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "keynote.mp4")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte("fake"))
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checker    observability.Dependency
		wantStatus int
		wantHealth string
	}{
		{"up", observability.Dependency{Name: "ffprobe", Available: func(context.Context) bool { return true }}, http.StatusOK, "up"},
		{"optional missing", observability.Dependency{Name: "ffprobe", Available: func(context.Context) bool { return false }}, http.StatusOK, "degraded"},
		{"critical missing", observability.Dependency{Name: "inference", Critical: true, Available: func(context.Context) bool { return false }}, http.StatusServiceUnavailable, "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeService{}, tt.checker)
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rr.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["status"] != tt.wantHealth {
				t.Errorf("expected %s, got %v", tt.wantHealth, body["status"])
			}
		})
	}
}

func TestInfo(t *testing.T) {
	s := newTestServer(&fakeService{})
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/info", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body endpoint.InfoResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Service != "videoscribe" || body.Details["backend"] != "gemini" {
		t.Errorf("unexpected body %s", rr.Body.String())
	}
	if body.Build == nil || body.Build.GoVersion == "" {
		t.Errorf("expected build info, got %+v", body.Build)
	}
}

func TestAnalyses_Sync(t *testing.T) {
	svc := &fakeService{}
	s := newTestServer(svc)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, uploadRequest(t, "/v1/analyses", map[string]string{"speaker": "Ann", "category": "tech"}))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected a request id header")
	}
	sum := blake2b.Sum256([]byte("fake"))
	if got, want := rr.Header().Get(DigestHeader), "blake2b-256="+hex.EncodeToString(sum[:]); got != want {
		t.Errorf("expected digest %s, got %s", want, got)
	}

	var resp struct {
		Data analyzer.Report `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.RunID != "run-1" || len(resp.Data.Result.Transcript) != 1 {
		t.Errorf("unexpected report %+v", resp.Data)
	}
	want := inference.Hints{Title: "keynote", Speaker: "Ann", Category: "tech"}
	if svc.gotHints != want {
		t.Errorf("expected hints %+v, got %+v", want, svc.gotHints)
	}
	if !strings.HasSuffix(svc.gotItem.Path, "keynote.mp4") {
		t.Errorf("expected the upload to be saved under its name, got %s", svc.gotItem.Path)
	}
}

func TestAnalyses_Stream(t *testing.T) {
	s := newTestServer(&fakeService{})

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, uploadRequest(t, "/v1/analyses?stream=true", map[string]string{"title": "Keynote"}))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("expected event stream, got %q", ct)
	}
	body := rr.Body.String()
	progress := strings.Index(body, "event:progress")
	result := strings.Index(body, "event:result")
	if progress < 0 || result < 0 || progress > result {
		t.Errorf("expected progress before result, got %s", body)
	}
	if !strings.Contains(body, `"title":"Keynote"`) {
		t.Errorf("expected the result payload, got %s", body)
	}
}

func TestAnalyses_StreamError(t *testing.T) {
	s := newTestServer(&fakeService{analyzeErr: apperrors.InvalidInput("duration", "unknown")})

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, uploadRequest(t, "/v1/analyses?stream=true", nil))

	if !strings.Contains(rr.Body.String(), "event:error") || !strings.Contains(rr.Body.String(), "INVALID_INPUT") {
		t.Errorf("expected an error event, got %s", rr.Body.String())
	}
}

func TestAnalyses_Errors(t *testing.T) {
	tests := []struct {
		name       string
		svc        *fakeService
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantCode   string
	}{
		{
			name: "missing file",
			svc:  &fakeService{},
			req: func(*testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/v1/analyses", strings.NewReader("{}"))
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "MISSING_FIELD",
		},
		{
			name: "unreadable media",
			svc:  &fakeService{openErr: apperrors.MediaUnreadable("x", context.Canceled)},
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/v1/analyses", nil)
			},
			wantStatus: apperrors.MediaUnreadable("x", nil).HTTPStatus,
			wantCode:   "MEDIA_UNREADABLE",
		},
		{
			name: "configuration",
			svc:  &fakeService{analyzeErr: apperrors.Configuration("no key")},
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/v1/analyses", nil)
			},
			wantStatus: apperrors.Configuration("x").HTTPStatus,
			wantCode:   "CONFIGURATION_ERROR",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.svc)
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, tt.req(t))

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rr.Code)
			}
			var body apperrors.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if string(body.Error.Code) != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, body.Error.Code)
			}
		})
	}
}

func TestAnalyses_UploadTooLarge(t *testing.T) {
	cfg := Config{MaxUpload: "1KB"}
	cfg.ApplyDefaults()
	s := New(cfg, logger.Nop())
	s.RegisterAnalyses(&fakeService{}, nil)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, _ := w.CreateFormFile("file", "big.mp4")
	_, _ = part.Write(bytes.Repeat([]byte("x"), 4096))
	_ = w.Close()
	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Port != 8080 || cfg.MaxUpload != "2GB" || cfg.Addr() != ":8080" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected an out-of-range port to fail validation")
	}
}

func TestAnalyses_Archive(t *testing.T) {
	archive := &fakeArchive{reports: map[string]*analyzer.Report{}}
	cfg := Config{}
	cfg.ApplyDefaults()
	s := New(cfg, logger.Nop())
	s.RegisterAnalyses(&fakeService{}, archive)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, uploadRequest(t, "/v1/analyses", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/v1/analyses/run-1" {
		t.Errorf("expected location /v1/analyses/run-1, got %q", loc)
	}
	if _, ok := archive.reports["run-1"]; !ok {
		t.Fatal("expected the report to be archived")
	}

	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/analyses/run-1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Data analyzer.Report `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.RunID != "run-1" {
		t.Errorf("expected run-1, got %s", resp.Data.RunID)
	}

	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/analyses/other", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestAnalyses_ArchiveFailureKeepsResult(t *testing.T) {
	archive := &fakeArchive{reports: map[string]*analyzer.Report{}, saveErr: apperrors.Internal(context.DeadlineExceeded)}
	cfg := Config{}
	cfg.ApplyDefaults()
	s := New(cfg, logger.Nop())
	s.RegisterAnalyses(&fakeService{}, archive)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, uploadRequest(t, "/v1/analyses?stream=true", nil))
	if !strings.Contains(rr.Body.String(), "event:result") {
		t.Errorf("expected a result event, got %s", rr.Body.String())
	}
	if len(archive.reports) != 0 {
		t.Errorf("expected nothing archived, got %d", len(archive.reports))
	}
}

func TestAnalyses_NoArchiveRoute(t *testing.T) {
	s := newTestServer(&fakeService{})
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/analyses/run-1", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

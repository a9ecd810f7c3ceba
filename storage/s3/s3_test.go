package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/storage"
)

// fakeS3 is a path-style object server covering PUT and GET.
type fakeS3 struct {
	mu          sync.Mutex
	objects     map[string][]byte
	contentType map[string]string
}

func newFakeS3(t *testing.T) (*fakeS3, *httptest.Server) {
	t.Helper()
	f := &fakeS3{objects: map[string][]byte{}, contentType: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeS3) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.objects[key] = data
		f.contentType[key] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", f.contentType[key])
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStorage(t *testing.T, endpoint string) *Storage {
	t.Helper()
	s, err := NewStorage(context.Background(), storage.Config{
		Provider:  storage.ProviderS3,
		Bucket:    "transcripts",
		Region:    "us-east-1",
		Endpoint:  endpoint,
		AccessKey: "test",
		SecretKey: "test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestStorage_RoundTrip(t *testing.T) {
	fake, srv := newFakeS3(t)
	s := newTestStorage(t, srv.URL)
	ctx := context.Background()

	body := []byte(`{"run_id":"r1"}`)
	if err := s.Upload(ctx, "reports/r1.json", bytes.NewReader(body), "application/json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fake.mu.Lock()
	stored := string(fake.objects["transcripts/reports/r1.json"])
	ct := fake.contentType["transcripts/reports/r1.json"]
	fake.mu.Unlock()
	if stored != string(body) {
		t.Errorf("expected path-style object %q, got %q", body, stored)
	}
	if ct != "application/json" {
		t.Errorf("expected content type application/json, got %q", ct)
	}

	rc, err := s.Download(ctx, "reports/r1.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != string(body) {
		t.Errorf("expected %q, got %q", body, data)
	}
}

func TestStorage_Missing(t *testing.T) {
	_, srv := newFakeS3(t)
	s := newTestStorage(t, srv.URL)
	ctx := context.Background()

	_, err := s.Download(ctx, "reports/none.json")
	appErr, isApp := apperrors.AsAppError(err)
	if !isApp || appErr.Code != apperrors.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestNewStorage_RequiresBucket(t *testing.T) {
	_, err := NewStorage(context.Background(), storage.Config{Provider: storage.ProviderS3})
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeConfiguration {
		t.Errorf("expected CONFIGURATION_ERROR, got %v", err)
	}
}

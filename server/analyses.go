package server

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/blake2b"

	"github.com/kbukum/videoscribe/analyzer"
	"github.com/kbukum/videoscribe/dispatch"
	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/inference"
	"github.com/kbukum/videoscribe/logger"
	"github.com/kbukum/videoscribe/media"
	"github.com/kbukum/videoscribe/server/middleware"
)

// SSE event names emitted by a streamed analysis.
const (
	EventProgress = "progress"
	EventResult   = "result"
	EventError    = "error"
)

// DigestHeader carries the BLAKE2b-256 digest of the uploaded media.
const (
	DigestHeader = "X-Content-Digest"
	digestPrefix = "blake2b-256="
)

// AnalysisService is the part of analyzer.Analyzer the HTTP surface needs.
type AnalysisService interface {
	Open(ctx context.Context, path string) (media.Item, error)
	Analyze(ctx context.Context, item media.Item, hints inference.Hints, obs dispatch.Observers) (*analyzer.Report, error)
}

// ReportArchive stores finished reports by run id.
type ReportArchive interface {
	Save(ctx context.Context, r *analyzer.Report) (string, error)
	Load(ctx context.Context, runID string) (*analyzer.Report, error)
}

// RegisterAnalyses mounts POST /v1/analyses. With a non-nil archive every
// finished report is stored and GET /v1/analyses/:id serves it back.
func (s *Server) RegisterAnalyses(svc AnalysisService, archive ReportArchive) {
	h := &analyses{svc: svc, archive: archive, log: s.log}
	s.engine.POST("/v1/analyses", h.create)
	if archive != nil {
		s.engine.GET("/v1/analyses/:id", h.get)
	}
}

type analyses struct {
	svc     AnalysisService
	archive ReportArchive
	log     *logger.Logger
}

// get returns an archived report.
func (h *analyses) get(c *gin.Context) {
	report, err := h.archive.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, report)
}

// create accepts a multipart upload with a "file" part and optional title,
// speaker and category fields.
func (h *analyses) create(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		RespondWithError(c, uploadError(err))
		return
	}

	dir, err := os.MkdirTemp("", "videoscribe-upload-")
	if err != nil {
		RespondWithError(c, apperrors.Internal(err))
		return
	}
	defer os.RemoveAll(dir)

	name := filepath.Base(fh.Filename)
	path := filepath.Join(dir, name)
	digest, err := saveUpload(fh, path)
	if err != nil {
		RespondWithError(c, uploadError(err))
		return
	}
	c.Header(DigestHeader, digestPrefix+digest)

	ctx := c.Request.Context()
	item, err := h.svc.Open(ctx, path)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	hints := inference.Hints{
		Title:    c.PostForm("title"),
		Speaker:  c.PostForm("speaker"),
		Category: c.PostForm("category"),
	}
	if hints.Title == "" {
		hints.Title = strings.TrimSuffix(name, filepath.Ext(name))
	}

	h.log.WithContext(ctx).Info("analysis requested", logger.Fields(
		logger.FieldRequestID, c.GetString(middleware.RequestIDKey),
		"file", name,
		"digest", digest,
		"size_mb", item.SizeMB(),
	))

	if c.Query("stream") == "true" {
		h.stream(c, item, hints)
		return
	}

	report, err := h.svc.Analyze(ctx, item, hints, dispatch.Observers{})
	if err != nil {
		RespondWithError(c, err)
		return
	}
	if h.save(ctx, report) {
		c.Header("Location", "/v1/analyses/"+report.RunID)
	}
	RespondOK(c, report)
}

// save archives report when an archive is configured. A failed save is
// logged and does not fail the request.
func (h *analyses) save(ctx context.Context, report *analyzer.Report) bool {
	if h.archive == nil {
		return false
	}
	key, err := h.archive.Save(ctx, report)
	if err != nil {
		h.log.WithContext(ctx).Warn("report not archived", logger.MergeWithError(logger.Fields(
			logger.FieldRunID, report.RunID,
		), err))
		return false
	}
	h.log.WithContext(ctx).Info("report archived", logger.Fields(
		logger.FieldRunID, report.RunID,
		"key", key,
	))
	return true
}

// stream runs the analysis on the request goroutine, writing each progress
// notification as an SSE event followed by a final result or error event.
func (h *analyses) stream(c *gin.Context, item media.Item, hints inference.Hints) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	obs := dispatch.Observers{
		OnProgress: func(p dispatch.Progress) {
			c.SSEvent(EventProgress, p)
			c.Writer.Flush()
		},
	}
	report, err := h.svc.Analyze(c.Request.Context(), item, hints, obs)
	if err != nil {
		appErr, ok := apperrors.AsAppError(err)
		if !ok {
			appErr = apperrors.Internal(err)
		}
		c.SSEvent(EventError, appErr.ToResponse())
		c.Writer.Flush()
		return
	}
	h.save(c.Request.Context(), report)
	c.SSEvent(EventResult, report)
	c.Writer.Flush()
}

// saveUpload copies the uploaded part to path and returns its hex digest.
func saveUpload(fh *multipart.FileHeader, path string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	h, err := blake2b.New256(nil)
	if err != nil {
		_ = dst.Close()
		return "", err
	}
	if _, err := io.Copy(io.MultiWriter(dst, h), src); err != nil {
		_ = dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "upload exceeds the size limit", http.StatusRequestEntityTooLarge).
			WithDetail("limit_bytes", tooLarge.Limit)
	}
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return apperrors.MissingField("file")
	}
	return apperrors.InvalidInput("file", err.Error())
}

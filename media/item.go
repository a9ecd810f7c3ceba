package media

import (
	"context"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/logger"
	"github.com/kbukum/videoscribe/util"
)

const sniffLen = 512

// Container types the inference backends accept, checked before the system
// MIME table which often lacks video entries.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".flv":  "video/x-flv",
	".wmv":  "video/x-ms-wmv",
	".3gp":  "video/3gpp",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

// Item is an immutable description of a media file. Duration is in seconds;
// zero means unknown.
type Item struct {
	Path     string  `json:"path"`
	Size     int64   `json:"size"`
	Duration float64 `json:"duration"`
	MimeType string  `json:"mime_type"`
}

// DurationKnown reports whether the total duration was determined.
func (i Item) DurationKnown() bool { return i.Duration > 0 }

// SizeMB returns the size in mebibytes.
func (i Item) SizeMB() float64 { return util.BytesToMB(i.Size) }

// Open stats path, detects its MIME type and, when prober is non-nil, probes
// its duration. A failed probe leaves Duration at zero.
func Open(ctx context.Context, path string, prober Prober) (Item, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Item{}, apperrors.MediaUnreadable(path, err)
	}
	if info.IsDir() {
		return Item{}, apperrors.InvalidInput("path", path+" is a directory")
	}

	mimeType, err := detectMimeType(path)
	if err != nil {
		return Item{}, apperrors.MediaUnreadable(path, err)
	}

	item := Item{Path: path, Size: info.Size(), MimeType: mimeType}
	if prober == nil {
		return item, nil
	}

	duration, err := prober.Probe(ctx, path)
	if err != nil {
		logger.WithComponent("media").WithContext(ctx).Warn("duration probe failed",
			logger.MergeWithError(logger.Fields(logger.FieldMediaPath, path), err))
		return item, nil
	}
	item.Duration = duration
	return item, nil
}

func detectMimeType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := videoTypes[ext]; ok {
		return t, nil
	}
	if t := mime.TypeByExtension(ext); t != "" {
		mediaType, _, err := mime.ParseMediaType(t)
		if err == nil {
			return mediaType, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(buf[:n]))
	return mediaType, nil
}

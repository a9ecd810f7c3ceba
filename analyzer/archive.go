package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/logger"
	"github.com/kbukum/videoscribe/storage"
)

const reportContentType = "application/json"

// Archive persists reports in a storage backend, one JSON object per run.
type Archive struct {
	store storage.Storage
	log   *logger.Logger
}

// NewArchive wraps store. A nil logger disables logging.
func NewArchive(store storage.Storage, log *logger.Logger) *Archive {
	if log == nil {
		log = logger.Nop()
	}
	return &Archive{store: store, log: log}
}

// ReportKey is the object key of a run's report.
func ReportKey(runID string) string {
	return runID + ".json"
}

// Save writes r under its run id and returns the key.
func (a *Archive) Save(ctx context.Context, r *Report) (string, error) {
	if r == nil || r.RunID == "" {
		return "", apperrors.MissingField("run_id")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	key := ReportKey(r.RunID)
	if err := a.store.Upload(ctx, key, bytes.NewReader(data), reportContentType); err != nil {
		return "", err
	}
	a.log.WithContext(ctx).Debug("report archived", logger.Fields(
		logger.FieldRunID, r.RunID,
		"key", key,
		"bytes", len(data),
	))
	return key, nil
}

// Load reads the report of runID. Run ids are UUIDs; anything else is
// rejected before touching the store.
func (a *Archive) Load(ctx context.Context, runID string) (*Report, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, apperrors.InvalidFormat("run_id", "uuid")
	}
	rc, err := a.store.Download(ctx, ReportKey(runID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("report", runID)
		}
		return nil, err
	}
	defer rc.Close()

	var r Report
	if err := json.NewDecoder(rc).Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", runID, err)
	}
	return &r, nil
}

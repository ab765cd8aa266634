package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"cutroom/internal/catalog"
	"cutroom/internal/config"
	"cutroom/internal/fileutil"
	"cutroom/internal/logging"
	"cutroom/internal/timeline"
)

const lockRetryDelay = 50 * time.Millisecond

// ClipIssue identifies a clip dropped while loading a project.
type ClipIssue struct {
	Track   timeline.Kind `json:"track"`
	Index   int           `json:"index"`
	MediaID string        `json:"media_id"`
	Reason  string        `json:"reason"`
}

// MediaIssue identifies an asset record dropped while loading a project.
type MediaIssue struct {
	Index  int    `json:"index"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// LoadReport lists the records skipped by Load or Inspect.
type LoadReport struct {
	Dangling []ClipIssue  `json:"dangling,omitempty"`
	Invalid  []ClipIssue  `json:"invalid,omitempty"`
	Media    []MediaIssue `json:"media,omitempty"`
}

// Clean reports whether every record was restored.
func (r LoadReport) Clean() bool {
	return len(r.Dangling) == 0 && len(r.Invalid) == 0 && len(r.Media) == 0
}

// Store persists projects as JSON documents.
type Store struct {
	cfg         *config.Config
	catalogOpts []catalog.Option
	logger      *slog.Logger
}

// NewStore constructs a store. Loaded projects fall back to cfg directories
// for missing keys and build their catalogs with opts.
func NewStore(cfg *config.Config, logger *slog.Logger, opts ...catalog.Option) *Store {
	return &Store{
		cfg:         cfg,
		catalogOpts: opts,
		logger:      logging.NewComponentLogger(logger, "project"),
	}
}

// Save writes p to path atomically while holding the document lock.
func (s *Store) Save(ctx context.Context, p *Project, path string) error {
	if p == nil {
		return errors.New("save project: nil project")
	}
	path, err := normalizeDocumentPath(path)
	if err != nil {
		return err
	}
	payload, err := encodeDocument(p)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save project: ensure dir: %w", err)
	}
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("save project: acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("save project: %s is locked by another process", path)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := fileutil.WriteFileAtomic(path, payload, 0o644); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	s.logger.Info("project saved",
		logging.String(logging.FieldEventType, "project_saved"),
		logging.String(logging.FieldProject, path),
		logging.Int("media", p.Catalog.Len()),
		logging.Int("clips", p.ClipCount()),
	)
	return nil
}

// Load reads path, restores assets and clips, and re-creates the project
// directories. Dangling or invalid clips are dropped and reported.
func (s *Store) Load(ctx context.Context, path string) (*Project, LoadReport, error) {
	path, err := normalizeDocumentPath(path)
	if err != nil {
		return nil, LoadReport{}, err
	}
	payload, err := s.readLocked(ctx, path)
	if err != nil {
		return nil, LoadReport{}, err
	}
	doc, err := decodeDocument(payload)
	if err != nil {
		return nil, LoadReport{}, &DocumentError{Path: path, Err: err}
	}

	p, report := s.build(doc)
	for _, dir := range []string{p.WorkspaceDir, p.ExportDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, report, fmt.Errorf("load project: ensure %s: %w", dir, err)
		}
	}
	s.logReport(path, report)
	s.logger.Info("project loaded",
		logging.String(logging.FieldEventType, "project_loaded"),
		logging.String(logging.FieldProject, path),
		logging.Int("media", p.Catalog.Len()),
		logging.Int("clips", p.ClipCount()),
	)
	return p, report, nil
}

// Inspect parses path and reports unresolved records without touching the
// filesystem beyond reading the document.
func (s *Store) Inspect(path string) (LoadReport, error) {
	path, err := normalizeDocumentPath(path)
	if err != nil {
		return LoadReport{}, err
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return LoadReport{}, &DocumentError{Path: path, Err: err}
	}
	doc, err := decodeDocument(payload)
	if err != nil {
		return LoadReport{}, &DocumentError{Path: path, Err: err}
	}
	_, report := s.build(doc)
	return report, nil
}

func (s *Store) readLocked(ctx context.Context, path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}
	lock := flock.New(path + ".lock")
	locked, err := lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("load project: acquire lock: %w", err)
	}
	if locked {
		defer func() {
			_ = lock.Unlock()
		}()
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}
	return payload, nil
}

func (s *Store) build(doc document) (*Project, LoadReport) {
	p := New(s.cfg, s.catalogOpts...)
	if dir, ok := documentDir(doc.WorkspaceDir); ok {
		p.WorkspaceDir = dir
	}
	if dir, ok := documentDir(doc.ExportDir); ok {
		p.ExportDir = dir
	}
	if s.cfg == nil {
		defaults := config.Default()
		if p.WorkspaceDir == "" {
			p.WorkspaceDir, _ = config.ExpandPath(defaults.Paths.WorkspaceDir)
		}
		if p.ExportDir == "" {
			p.ExportDir, _ = config.ExpandPath(defaults.Paths.ExportDir)
		}
	}

	var report LoadReport
	for i, rec := range doc.Media {
		asset, err := rec.asset()
		if err == nil {
			err = p.Catalog.Restore(asset)
		}
		if err != nil {
			report.Media = append(report.Media, MediaIssue{Index: i, ID: rec.ID, Reason: err.Error()})
		}
	}

	restoreTrack(p, timeline.KindVideo, doc.VideoClips, &report)
	restoreTrack(p, timeline.KindAudio, doc.AudioClips, &report)
	return p, report
}

// documentDir expands a directory from the document with the config path
// rules: "~" is the home directory and relative paths are made absolute
// against the working directory. Values that cannot be resolved keep the
// configured default.
func documentDir(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	dir, err := config.ExpandPath(raw)
	if err != nil {
		return "", false
	}
	return dir, true
}

func restoreTrack(p *Project, kind timeline.Kind, records []clipRecord, report *LoadReport) {
	track, _ := p.Timeline.Track(kind)
	for i, rec := range records {
		asset, ok := p.Catalog.Get(rec.MediaID)
		if !ok {
			report.Dangling = append(report.Dangling, ClipIssue{
				Track:   kind,
				Index:   i,
				MediaID: rec.MediaID,
				Reason:  "unknown media id",
			})
			continue
		}
		if err := timeline.ValidateRange(rec.In, rec.Out, asset.Duration); err != nil {
			report.Invalid = append(report.Invalid, ClipIssue{
				Track:   kind,
				Index:   i,
				MediaID: rec.MediaID,
				Reason:  err.Error(),
			})
			continue
		}
		start := rec.Start
		if start < 0 {
			start = 0
		}
		track.Restore(&timeline.Clip{MediaID: rec.MediaID, In: rec.In, Out: rec.Out, Start: start})
	}
}

func (s *Store) logReport(path string, report LoadReport) {
	for _, issue := range report.Dangling {
		logging.WarnWithContext(s.logger, "dropped clip with unknown media", "dangling_clip",
			logging.String(logging.FieldProject, path),
			logging.String("track", string(issue.Track)),
			logging.Int("index", issue.Index),
			logging.String(logging.FieldMediaID, issue.MediaID),
			logging.String(logging.FieldErrorHint, "re-import the media or remove the clip from the document"),
			logging.String(logging.FieldImpact, "clip omitted from the timeline"),
		)
	}
	for _, issue := range report.Invalid {
		logging.WarnWithContext(s.logger, "dropped clip with invalid range", "invalid_clip",
			logging.String(logging.FieldProject, path),
			logging.String("track", string(issue.Track)),
			logging.Int("index", issue.Index),
			logging.String("reason", issue.Reason),
			logging.String(logging.FieldImpact, "clip omitted from the timeline"),
		)
	}
	for _, issue := range report.Media {
		logging.WarnWithContext(s.logger, "dropped media record", "invalid_media",
			logging.String(logging.FieldProject, path),
			logging.Int("index", issue.Index),
			logging.String("reason", issue.Reason),
		)
	}
}

func normalizeDocumentPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("project path is required")
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

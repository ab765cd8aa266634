package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"cutroom/internal/logging"
)

// DefaultFallbackDuration is reported when probing a file fails.
const DefaultFallbackDuration = 10.0

// Prober reports the duration of a media file in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, path string) (float64, error)

// Duration calls f.
func (f ProberFunc) Duration(ctx context.Context, path string) (float64, error) {
	return f(ctx, path)
}

var errNoProber = errors.New("no prober configured")

// Option customizes a Catalog.
type Option func(*Catalog)

// WithProber sets the probing collaborator.
func WithProber(p Prober) Option {
	return func(c *Catalog) {
		c.prober = p
	}
}

// WithFallbackDuration overrides the duration reported when probing fails.
func WithFallbackDuration(seconds float64) Option {
	return func(c *Catalog) {
		if seconds > 0 {
			c.fallback = seconds
		}
	}
}

// WithLogger sets the catalog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logging.NewComponentLogger(logger, "catalog")
	}
}

// WithProbeCache shares a probe cache between catalogs, e.g. when a session
// replaces its project but the source files stay the same.
func WithProbeCache(cache *ProbeCache) Option {
	return func(c *Catalog) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// Catalog is the registry of imported assets.
type Catalog struct {
	mu       sync.RWMutex
	assets   map[string]Asset
	order    []string
	cache    *ProbeCache
	prober   Prober
	fallback float64
	logger   *slog.Logger
}

// New constructs an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		assets:   make(map[string]Asset),
		cache:    NewProbeCache(),
		fallback: DefaultFallbackDuration,
		logger:   logging.NewComponentLogger(nil, "catalog"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register validates path and stores a new asset with a fresh ID. An empty
// kind is inferred from the extension; a non-empty kind must agree with it.
func (c *Catalog) Register(path string, kind Kind) (Asset, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return Asset{}, &ImportError{Path: path, Reason: "empty path"}
	}
	absPath, err := filepath.Abs(trimmed)
	if err != nil {
		return Asset{}, &ImportError{Path: path, Reason: "resolve path", Err: err}
	}

	extKind, ok := KindForPath(absPath)
	if !ok {
		return Asset{}, &ImportError{Path: absPath, Reason: fmt.Sprintf("unsupported file extension %q", filepath.Ext(absPath))}
	}
	if kind != "" && kind != extKind {
		return Asset{}, &ImportError{Path: absPath, Reason: fmt.Sprintf("extension %q is %s, not %s", filepath.Ext(absPath), extKind, kind)}
	}

	if err := checkReadable(absPath); err != nil {
		return Asset{}, err
	}

	asset := Asset{
		ID:   newAssetID(),
		Path: absPath,
		Kind: extKind,
	}
	if entry, ok := c.cache.Lookup(absPath); ok && !entry.Fallback {
		asset.Duration = durationPtr(entry.Seconds)
	}

	c.mu.Lock()
	c.assets[asset.ID] = asset
	c.order = append(c.order, asset.ID)
	c.mu.Unlock()

	c.logger.Debug("media registered",
		logging.String(logging.FieldMediaID, asset.ID),
		logging.String("path", asset.Path),
		logging.String("kind", string(asset.Kind)),
	)
	return asset, nil
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ImportError{Path: path, Reason: "file does not exist"}
		}
		return &ImportError{Path: path, Reason: "inspect file", Err: err}
	}
	if !info.Mode().IsRegular() {
		return &ImportError{Path: path, Reason: "not a regular file"}
	}
	f, err := os.Open(path)
	if err != nil {
		return &ImportError{Path: path, Reason: "file is not readable", Err: err}
	}
	return f.Close()
}

func newAssetID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Restore inserts a previously persisted asset, keeping its ID. Files are not
// re-validated: a project may reference media that is temporarily offline.
func (c *Catalog) Restore(asset Asset) error {
	asset.ID = strings.TrimSpace(asset.ID)
	if asset.ID == "" {
		return errors.New("restore asset: empty id")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.assets[asset.ID]; exists {
		return fmt.Errorf("restore asset: duplicate id %q", asset.ID)
	}
	c.assets[asset.ID] = asset
	c.order = append(c.order, asset.ID)
	if asset.Duration != nil {
		c.cache.Store(asset.Path, ProbeEntry{Seconds: *asset.Duration})
	}
	return nil
}

// Get returns the asset registered under id.
func (c *Catalog) Get(id string) (Asset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	asset, ok := c.assets[id]
	return asset, ok
}

// Lookup is Get with an UnknownMediaError for missing ids.
func (c *Catalog) Lookup(id string) (Asset, error) {
	asset, ok := c.Get(id)
	if !ok {
		return Asset{}, &UnknownMediaError{ID: id}
	}
	return asset, nil
}

// List returns all assets in import order.
func (c *Catalog) List() []Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Asset, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.assets[id])
	}
	return out
}

// Len returns the number of registered assets.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.assets)
}

// Remove deletes the catalog entry. Clips referencing the asset are not
// touched here; callers that own clips cascade the removal themselves.
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.assets[id]; !ok {
		return &UnknownMediaError{ID: id}
	}
	delete(c.assets, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// ProbeDuration returns the asset duration, probing it on first use. Probe
// failures yield the fallback duration and are never returned as errors; the
// asset keeps an unknown duration in that case so trims stay unconstrained.
func (c *Catalog) ProbeDuration(ctx context.Context, id string) (float64, error) {
	asset, err := c.Lookup(id)
	if err != nil {
		return 0, err
	}
	if asset.Duration != nil {
		return *asset.Duration, nil
	}
	if entry, ok := c.cache.Lookup(asset.Path); ok {
		if !entry.Fallback {
			c.recordDuration(id, entry.Seconds)
		}
		return entry.Seconds, nil
	}

	seconds, probeErr := c.probe(ctx, asset.Path)
	if probeErr != nil {
		logging.WarnWithContext(c.logger, "duration probe failed; using fallback", "probe_failed",
			logging.String(logging.FieldMediaID, id),
			logging.String("path", asset.Path),
			logging.Float64("fallback_seconds", c.fallback),
			logging.Error(probeErr),
			logging.String(logging.FieldErrorHint, "verify ffprobe is installed and the file is playable"),
			logging.String(logging.FieldImpact, "clip length defaults to the fallback duration"),
		)
		c.cache.Store(asset.Path, ProbeEntry{Seconds: c.fallback, Fallback: true})
		return c.fallback, nil
	}

	c.cache.Store(asset.Path, ProbeEntry{Seconds: seconds})
	c.recordDuration(id, seconds)
	c.logger.Debug("duration probed",
		logging.String(logging.FieldMediaID, id),
		logging.Float64("seconds", seconds),
	)
	return seconds, nil
}

func (c *Catalog) probe(ctx context.Context, path string) (float64, error) {
	if c.prober == nil {
		return 0, errNoProber
	}
	seconds, err := c.prober.Duration(ctx, path)
	if err != nil {
		return 0, err
	}
	if !(seconds > 0) {
		return 0, fmt.Errorf("prober returned invalid duration %v", seconds)
	}
	return seconds, nil
}

func (c *Catalog) recordDuration(id string, seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if asset, ok := c.assets[id]; ok && asset.Duration == nil {
		asset.Duration = durationPtr(seconds)
		c.assets[id] = asset
	}
}

// ProbeAll probes each asset in turn. Assets are independent, so a fallback
// for one never affects the others. Unknown ids are skipped and returned.
func (c *Catalog) ProbeAll(ctx context.Context, ids []string) (map[string]float64, []string) {
	durations := make(map[string]float64, len(ids))
	var missing []string
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		seconds, err := c.ProbeDuration(ctx, id)
		if err != nil {
			missing = append(missing, id)
			continue
		}
		durations[id] = seconds
	}
	return durations, missing
}

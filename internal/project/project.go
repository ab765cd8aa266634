package project

import (
	"cutroom/internal/catalog"
	"cutroom/internal/config"
	"cutroom/internal/timeline"
)

// Project is the in-memory editing state: assets, tracks and directories.
type Project struct {
	Catalog      *catalog.Catalog
	Timeline     *timeline.Timeline
	WorkspaceDir string
	ExportDir    string
}

// New builds an empty project using the configured directories.
func New(cfg *config.Config, opts ...catalog.Option) *Project {
	cat := catalog.New(opts...)
	p := &Project{
		Catalog:  cat,
		Timeline: timeline.New(cat),
	}
	if cfg != nil {
		p.WorkspaceDir = cfg.Paths.WorkspaceDir
		p.ExportDir = cfg.Paths.ExportDir
	}
	return p
}

// RemoveMedia deletes the asset and every clip that references it. It returns
// the number of clips removed.
func (p *Project) RemoveMedia(id string) (int, error) {
	if err := p.Catalog.Remove(id); err != nil {
		return 0, err
	}
	return p.Timeline.RemoveMedia(id), nil
}

// ClipCount returns the number of clips across both tracks.
func (p *Project) ClipCount() int {
	return p.Timeline.Video().Len() + p.Timeline.Audio().Len()
}

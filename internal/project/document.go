package project

import (
	"encoding/json"
	"fmt"

	"cutroom/internal/catalog"
	"cutroom/internal/timeline"
)

type document struct {
	Media        []mediaRecord `json:"media"`
	VideoClips   []clipRecord  `json:"video_clips"`
	AudioClips   []clipRecord  `json:"audio_clips"`
	WorkspaceDir string        `json:"workspace_dir"`
	ExportDir    string        `json:"export_dir"`
}

type mediaRecord struct {
	ID        string   `json:"id"`
	Path      string   `json:"path"`
	MediaType string   `json:"media_type"`
	Thumbnail *string  `json:"thumbnail"`
	Duration  *float64 `json:"duration,omitempty"`
}

type clipRecord struct {
	MediaID string  `json:"media_id"`
	In      float64 `json:"in"`
	Out     float64 `json:"out"`
	Start   float64 `json:"start"`
}

func encodeDocument(p *Project) ([]byte, error) {
	doc := document{
		Media:        []mediaRecord{},
		VideoClips:   clipRecords(p.Timeline.Video()),
		AudioClips:   clipRecords(p.Timeline.Audio()),
		WorkspaceDir: p.WorkspaceDir,
		ExportDir:    p.ExportDir,
	}
	for _, asset := range p.Catalog.List() {
		rec := mediaRecord{
			ID:        asset.ID,
			Path:      asset.Path,
			MediaType: string(asset.Kind),
			Duration:  asset.Duration,
		}
		if asset.Thumbnail != "" {
			thumb := asset.Thumbnail
			rec.Thumbnail = &thumb
		}
		doc.Media = append(doc.Media, rec)
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}
	return append(payload, '\n'), nil
}

func clipRecords(track *timeline.Track) []clipRecord {
	out := []clipRecord{}
	for _, c := range track.Clips() {
		out = append(out, clipRecord{MediaID: c.MediaID, In: c.In, Out: c.Out, Start: c.Start})
	}
	return out
}

func decodeDocument(payload []byte) (document, error) {
	var doc document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return document{}, err
	}
	return doc, nil
}

func (r mediaRecord) asset() (catalog.Asset, error) {
	kind, err := catalog.ParseKind(r.MediaType)
	if err != nil {
		return catalog.Asset{}, err
	}
	if kind == "" {
		inferred, ok := catalog.KindForPath(r.Path)
		if !ok {
			return catalog.Asset{}, fmt.Errorf("media %q: missing media_type and unknown extension", r.ID)
		}
		kind = inferred
	}
	asset := catalog.Asset{
		ID:   r.ID,
		Path: r.Path,
		Kind: kind,
	}
	if r.Thumbnail != nil {
		asset.Thumbnail = *r.Thumbnail
	}
	if r.Duration != nil && *r.Duration > 0 {
		d := *r.Duration
		asset.Duration = &d
	}
	return asset, nil
}

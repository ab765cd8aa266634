package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind classifies an imported asset.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindImage Kind = "image"
)

var extensionKinds = map[string]Kind{
	".mp4":  KindVideo,
	".avi":  KindVideo,
	".mkv":  KindVideo,
	".mov":  KindVideo,
	".wmv":  KindVideo,
	".flv":  KindVideo,
	".mp3":  KindAudio,
	".wav":  KindAudio,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".bmp":  KindImage,
}

// KindForPath returns the asset kind implied by the file extension.
func KindForPath(path string) (Kind, bool) {
	kind, ok := extensionKinds[strings.ToLower(filepath.Ext(path))]
	return kind, ok
}

// ParseKind converts user input into a Kind. An empty value is allowed and
// means "infer from the extension".
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return "", nil
	case KindVideo:
		return KindVideo, nil
	case KindAudio:
		return KindAudio, nil
	case KindImage:
		return KindImage, nil
	default:
		return "", fmt.Errorf("unknown media kind %q (expected video, audio or image)", value)
	}
}

// Asset is an imported source file.
type Asset struct {
	ID        string
	Path      string
	Kind      Kind
	Thumbnail string
	// Duration is nil until the asset has been probed.
	Duration *float64
}

// HasDuration reports whether the asset has a probed duration.
func (a Asset) HasDuration() bool {
	return a.Duration != nil
}

// DisplayName returns a human friendly title derived from the file name.
func (a Asset) DisplayName() string {
	base := filepath.Base(a.Path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return base
	}
	return cases.Title(language.Und).String(stem)
}

func durationPtr(v float64) *float64 {
	return &v
}

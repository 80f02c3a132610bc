package subtitles

import (
	"context"
	"fmt"
)

// Fetcher télécharge une URL (fetch.Fetcher en prod).
type Fetcher interface {
	Bytes(ctx context.Context, url string) ([]byte, error)
}

// SubtitleDownload contient la piste résolue et son contenu.
type SubtitleDownload struct {
	Resolution
	Data []byte // nil tant que non téléchargé
}

// String affiche les infos essentielles sans déverser l'URL complète.
func (s SubtitleDownload) String() string {
	urlPreview := s.URL
	if urlPreview == "" {
		urlPreview = "<no url>"
	} else if len(urlPreview) > 100 {
		urlPreview = urlPreview[:97] + "..."
	}
	return fmt.Sprintf("SubtitleDownload{Lang:%q, Requested:%q, Format:%q, Source:%q, URL:%q, DataLen:%d}",
		s.Lang, s.RequestedLang, s.Format.String(), string(s.Source), urlPreview, len(s.Data))
}

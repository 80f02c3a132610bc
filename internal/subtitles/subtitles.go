package subtitles

import (
	"context"
	"fmt"

	"github.com/patrickprogramme/subtrad/pkg/model"
)

// Download résout la piste pour lang puis télécharge son contenu.
// Erreurs : KindNotFound (aucune piste), KindFetch (statut amont).
func Download(ctx context.Context, f Fetcher, cat *model.Catalog, lang string) (SubtitleDownload, error) {
	res, err := ResolveTrack(cat, lang)
	if err != nil {
		return SubtitleDownload{}, err
	}

	data, err := f.Bytes(ctx, res.URL)
	if err != nil {
		return SubtitleDownload{Resolution: res}, fmt.Errorf("download subtitle: %w", err)
	}
	return SubtitleDownload{Resolution: res, Data: data}, nil
}

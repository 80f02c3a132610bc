package yt

import (
	"encoding/json"
	"fmt"

	"github.com/patrickprogramme/subtrad/pkg/model"
)

// ParseCatalog transforme le JSON brut de yt-dlp en catalogue de pistes.
// L'ordre des langues et des formats est conservé. Les formats sans URL et les
// langues sans aucun format sont ignorés.
func ParseCatalog(raw []byte) (*model.Catalog, error) {
	var y ytdlpOutput
	if err := json.Unmarshal(raw, &y); err != nil {
		return nil, fmt.Errorf("unmarshal ytdlp output: %w", err)
	}

	return &model.Catalog{
		VideoID:   y.ID,
		Title:     y.Title,
		Manual:    toTracks(y.Subtitles, model.SubSourceManual),
		Automatic: toTracks(y.AutomaticCaptions, model.SubSourceAutomatic),
	}, nil
}

func toTracks(subs orderedSubs, src model.SubSource) []model.Track {
	var out []model.Track
	for _, li := range subs {
		t := model.Track{Lang: li.Lang, Source: src}
		for _, it := range li.Items {
			if it.URL == "" {
				continue
			}
			// extension absente : format inconnu, la piste reste utilisable en dernier recours
			pf, _ := model.ParseFormat(it.Ext)
			t.Formats = append(t.Formats, model.TrackFormat{Ext: pf, URL: it.URL})
		}
		if len(t.Formats) == 0 {
			continue
		}
		out = append(out, t)
	}
	return out
}

package subtitles

import (
	"strings"

	"github.com/patrickprogramme/subtrad/pkg/model"
)

// Resolution est la piste retenue pour une langue demandée.
type Resolution struct {
	RequestedLang string
	Lang          string // code réellement servi (peut différer après un match par préfixe)
	Source        model.SubSource
	Format        model.Format
	URL           string
}

// Rewritten indique que la langue servie n'est pas celle demandée.
func (r Resolution) Rewritten() bool {
	return r.Lang != r.RequestedLang
}

// ResolveTrack choisit la piste à télécharger, première règle satisfaite :
//  1. langue exacte parmi les pistes manuelles
//  2. langue exacte parmi les pistes automatiques
//  3. première piste automatique (ordre du catalogue) dont le code commence par lang
//
// Sinon erreur KindNotFound.
func ResolveTrack(cat *model.Catalog, lang string) (Resolution, error) {
	if cat == nil || lang == "" {
		return Resolution{}, notFound(cat, lang)
	}

	t, ok := findExact(cat.Manual, lang)
	if !ok {
		t, ok = findExact(cat.Automatic, lang)
	}
	if !ok {
		t, ok = findPrefix(cat.Automatic, lang)
	}
	if !ok {
		return Resolution{}, notFound(cat, lang)
	}

	f, ok := BestFormat(t.Formats)
	if !ok {
		return Resolution{}, notFound(cat, lang)
	}
	return Resolution{
		RequestedLang: lang,
		Lang:          t.Lang,
		Source:        t.Source,
		Format:        f.Ext,
		URL:           f.URL,
	}, nil
}

// BestFormat applique model.FormatPreference, sinon retourne le premier format.
func BestFormat(formats []model.TrackFormat) (model.TrackFormat, bool) {
	if len(formats) == 0 {
		return model.TrackFormat{}, false
	}
	for _, pref := range model.FormatPreference {
		for _, f := range formats {
			if f.Ext == pref {
				return f, true
			}
		}
	}
	return formats[0], true
}

func findExact(tracks []model.Track, lang string) (model.Track, bool) {
	for _, t := range tracks {
		if t.Lang == lang && len(t.Formats) > 0 {
			return t, true
		}
	}
	return model.Track{}, false
}

func findPrefix(tracks []model.Track, lang string) (model.Track, bool) {
	for _, t := range tracks {
		if strings.HasPrefix(t.Lang, lang) && len(t.Formats) > 0 {
			return t, true
		}
	}
	return model.Track{}, false
}

func notFound(cat *model.Catalog, lang string) error {
	id := ""
	if cat != nil {
		id = cat.VideoID
	}
	return model.NotFoundf("No subtitles found for video '%s' in language '%s'", id, lang)
}

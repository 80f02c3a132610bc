package yt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patrickprogramme/subtrad/internal/logger"
)

type subtitleItem struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

type langItems struct {
	Lang  string
	Items []subtitleItem
}

// orderedSubs décode un objet JSON {lang: [items]} en gardant l'ordre des clés.
// Une map Go perdrait l'ordre fourni par yt-dlp, dont dépend la résolution par préfixe.
type orderedSubs []langItems

func (o *orderedSubs) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil { // null
		*o = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("subtitles: objet attendu, reçu %v", tok)
	}

	var out orderedSubs
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		lang, ok := tok.(string)
		if !ok {
			return fmt.Errorf("subtitles: clé invalide %v", tok)
		}
		var items []subtitleItem
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("subtitles[%s]: %w", lang, err)
		}
		out = append(out, langItems{Lang: lang, Items: items})
	}
	if _, err := dec.Token(); err != nil { // '}'
		return err
	}
	*o = out
	return nil
}

// ytdlpOutput est la partie de la sortie JSON de yt-dlp utile au pipeline.
//
// Subtitles et AutomaticCaptions sont des objets où :
//   - la clé correspond au code langue de la piste (ex. "ko", "en", "en-orig").
//   - la valeur liste les formats disponibles pour cette langue (extension + URL).
type ytdlpOutput struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Subtitles         orderedSubs `json:"subtitles"`
	AutomaticCaptions orderedSubs `json:"automatic_captions"`
}

// ExtractedRaw contient le JSON brut et les lignes d'avertissement de yt-dlp.
type ExtractedRaw struct {
	JSON     []byte
	Warnings []string
	Elapsed  time.Duration
}

// LogWarnings journalise les avertissements de yt-dlp
func (r *ExtractedRaw) LogWarnings(log logger.Logger) {
	for _, w := range r.Warnings {
		log.Warnf("yt-dlp: %s", w)
	}
}

// YtDlp représente la commande yt-dlp à exécuter (nom de binaire ou chemin) + args.
type YtDlp struct {
	Name   string
	Path   string // chemin vers l'exe
	Config YtDlpConfig

	// ExtractTimeout borne chaque extraction lancée par Catalog (0 : pas de limite)
	ExtractTimeout time.Duration

	log logger.Logger
}

func (y *YtDlp) exe() string {
	if y.Path != "" {
		return y.Path
	}
	return y.Name
}

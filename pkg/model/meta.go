package model

import (
	"fmt"
	"strings"
)

// SubSource représente la provenance d'une piste de sous-titres.
// automatic = généré automatiquement par Youtube
// manual = fourni par l'auteur de la vidéo
type SubSource string

const (
	SubSourceAutomatic SubSource = "automatic"
	SubSourceManual    SubSource = "manual"
)

func (s SubSource) String() string {
	switch s {
	case SubSourceAutomatic:
		return "auto captions"
	case SubSourceManual:
		return "manual subtitles"
	default:
		return "unknown subtitles"
	}
}

// TrackFormat est une ressource téléchargeable d'une piste (une extension + son URL).
type TrackFormat struct {
	Ext Format `json:"ext"`
	URL string `json:"url"`
}

// Track décrit une piste de sous-titres pour une langue et une source données.
// Formats garde l'ordre fourni par yt-dlp.
type Track struct {
	Lang    string        `json:"lang"`
	Source  SubSource     `json:"source"`
	Formats []TrackFormat `json:"formats"`
}

func (t Track) String() string {
	exts := make([]string, 0, len(t.Formats))
	for _, f := range t.Formats {
		exts = append(exts, f.Ext.String())
	}
	return fmt.Sprintf("Track(lang=%s, source=%s, formats=[%s])", t.Lang, t.Source, strings.Join(exts, ","))
}

// Catalog regroupe les pistes disponibles pour une vidéo.
// Manual et Automatic conservent l'ordre des langues tel que yt-dlp les liste,
// la résolution par préfixe en dépend.
type Catalog struct {
	VideoID   string  `json:"video_id"`
	Title     string  `json:"title,omitempty"`
	Manual    []Track `json:"manual,omitempty"`
	Automatic []Track `json:"automatic,omitempty"`
}

// Languages retourne les codes langue d'une liste de pistes, dans l'ordre.
func Languages(tracks []Track) []string {
	out := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if t.Lang != "" {
			out = append(out, t.Lang)
		}
	}
	return out
}

func (c Catalog) String() string {
	return fmt.Sprintf("Catalog[ID=%s, Title=%q, Manual=%d, Automatic=%d]",
		c.VideoID, c.Title, len(c.Manual), len(c.Automatic))
}

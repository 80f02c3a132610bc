package model

import (
	"fmt"
	"strings"
)

// Format est l'extension d'une piste de sous-titres telle que yt-dlp la décrit.
type Format string

const (
	FormatJSON3 Format = "json3"
	FormatSRV3  Format = "srv3"
	FormatSRV2  Format = "srv2"
	FormatSRV1  Format = "srv1"
	FormatVTT   Format = "vtt"
)

// FormatPreference : ordre de préférence lors du choix d'un format dans une piste.
// json3 en tête car c'est le seul format que l'on sait parser.
var FormatPreference = []Format{FormatJSON3, FormatSRV3, FormatSRV2, FormatSRV1, FormatVTT}

// ParseFormat normalise une extension. Une extension vide retourne une erreur,
// une extension inconnue est conservée telle quelle (le provider peut en ajouter).
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return "", fmt.Errorf("format vide")
	}
	return Format(s), nil
}

// IsStructured indique si le format porte des événements horodatés exploitables.
func (f Format) IsStructured() bool {
	return f == FormatJSON3
}

func (f Format) String() string {
	if f == "" {
		return "unknown"
	}
	return string(f)
}

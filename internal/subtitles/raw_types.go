package subtitles

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// rawJSON3 représente la structure "brute" telle qu'on la récupère depuis YouTube json3.
type rawJSON3 struct {
	WireMagic string    `json:"wireMagic,omitempty"`
	Events    rawEvents `json:"events"`
}

// rawEvents refuse "events": null (liste absente => vide, null => contenu invalide).
type rawEvents []rawEvent

func (e *rawEvents) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return errors.New("events: null")
	}
	var evs []rawEvent
	if err := json.Unmarshal(b, &evs); err != nil {
		return err
	}
	*e = evs
	return nil
}

type rawEvent struct {
	TStartMs    *int64   `json:"tStartMs,omitempty"`
	DDurationMs *int64   `json:"dDurationMs,omitempty"`
	Segs        []rawSeg `json:"segs,omitempty"`
	// autres champs ignorés (wpWinPosId, wWinId, aAppend...)
}

type rawSeg struct {
	Utf8 string `json:"utf8"`
}

// text concatène les fragments sans séparateur puis retire les espaces de bord.
func (e rawEvent) text() string {
	var b strings.Builder
	for _, s := range e.Segs {
		b.WriteString(s.Utf8)
	}
	return strings.TrimSpace(b.String())
}

func (e rawEvent) start() int64 {
	return nonNegative(e.TStartMs)
}

func (e rawEvent) duration() int64 {
	return nonNegative(e.DDurationMs)
}

// nonNegative : champ absent => 0, valeur négative ramenée à 0
func nonNegative(p *int64) int64 {
	if p == nil || *p < 0 {
		return 0
	}
	return *p
}

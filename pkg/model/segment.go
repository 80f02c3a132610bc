package model

// Segment est l'unité de texte horodatée utilisée par toutes les étapes du pipeline.
// Start et Duration sont en millisecondes.
type Segment struct {
	Start    int64  `json:"start"`
	Duration int64  `json:"duration"`
	Text     string `json:"text"`
}

// End retourne la fin du segment (Start + Duration).
func (s Segment) End() int64 {
	return s.Start + s.Duration
}

// Texts extrait les textes d'une liste de segments, dans l'ordre.
func Texts(segs []Segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Text
	}
	return out
}

package subtitles

import (
	"strings"

	"github.com/patrickprogramme/subtrad/pkg/model"
)

// MergeOptions règle le regroupement des segments.
type MergeOptions struct {
	MaxGapMs      int64 // silence max entre deux segments d'un même groupe
	MaxDurationMs int64 // durée max d'un groupe, mesurée jusqu'à la fin du segment candidat
}

// DefaultMergeOptions : 1s de silence, 8s par phrase
var DefaultMergeOptions = MergeOptions{MaxGapMs: 1000, MaxDurationMs: 8000}

// group accumule les segments d'une phrase en cours.
type group struct {
	start   int64
	lastEnd int64
	text    string
	size    int
}

func (g *group) add(s model.Segment) {
	if g.size == 0 {
		g.start = s.Start
	}
	if g.text != "" {
		g.text += " " + s.Text
	} else {
		g.text = s.Text
	}
	g.lastEnd = s.End()
	g.size++
}

// closesBefore indique si s doit ouvrir un nouveau groupe.
func (g *group) closesBefore(s model.Segment, o MergeOptions) bool {
	return s.Start-g.lastEnd > o.MaxGapMs ||
		s.End()-g.start > o.MaxDurationMs ||
		endsSentence(g.text)
}

func (g *group) segment() model.Segment {
	return model.Segment{
		Start:    g.start,
		Duration: g.lastEnd - g.start,
		Text:     strings.TrimSpace(g.text),
	}
}

// MergeSegments regroupe les segments fragmentaires en phrases, en une passe gloutonne.
// mapping[i] est l'index dans merged du groupe qui a absorbé segs[i] ; il a la
// même longueur que segs et ne décroît jamais. L'ordre d'entrée est conservé.
func MergeSegments(segs []model.Segment, o MergeOptions) (merged []model.Segment, mapping []int) {
	merged = make([]model.Segment, 0, len(segs))
	mapping = make([]int, 0, len(segs))
	if len(segs) == 0 {
		return merged, mapping
	}

	var g group
	for _, s := range segs {
		if g.size > 0 && g.closesBefore(s, o) {
			merged = append(merged, g.segment())
			g = group{}
		}
		g.add(s)
		mapping = append(mapping, len(merged))
	}
	merged = append(merged, g.segment())

	return merged, mapping
}

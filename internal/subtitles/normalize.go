package subtitles

import (
	"bytes"

	"github.com/patrickprogramme/subtrad/pkg/model"
)

// Decoder transforme le contenu brut d'une piste en segments.
type Decoder interface {
	Decode(payload []byte) ([]model.Segment, error)
}

// DecoderFunc adapte une fonction en Decoder.
type DecoderFunc func(payload []byte) ([]model.Segment, error)

func (f DecoderFunc) Decode(payload []byte) ([]model.Segment, error) {
	return f(payload)
}

// marqueur de contenu json3, quel que soit le format annoncé
var json3Marker = []byte(`"events":`)

// Registry associe un format à son décodeur.
type Registry struct {
	decoders map[model.Format]Decoder
}

// NewRegistry retourne un registre avec le décodeur json3 pour chaque format structuré.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[model.Format]Decoder)}
	for _, f := range model.FormatPreference {
		if f.IsStructured() {
			r.Register(f, DecoderFunc(DecodeJSON3))
		}
	}
	return r
}

// Register ajoute ou remplace le décodeur d'un format.
func (r *Registry) Register(f model.Format, d Decoder) {
	r.decoders[f] = d
}

// lookup choisit le décodeur : celui du format annoncé, sinon le premier format
// structuré enregistré si le contenu a la forme json3.
func (r *Registry) lookup(f model.Format, payload []byte) (Decoder, model.Format, bool) {
	if d, ok := r.decoders[f]; ok {
		return d, f, true
	}
	if !bytes.Contains(payload, json3Marker) {
		return nil, f, false
	}
	for _, sf := range model.FormatPreference {
		if !sf.IsStructured() {
			continue
		}
		if d, ok := r.decoders[sf]; ok {
			return d, sf, true
		}
	}
	return nil, f, false
}

// Normalized est le résultat de la normalisation d'une piste.
// Structured=true : Segments est rempli et Format est celui du décodeur.
// Structured=false : Raw contient le contenu tel quel et Format le format annoncé.
type Normalized struct {
	Format     model.Format
	Structured bool
	Segments   []model.Segment
	Raw        string

	// ParseErr est non nil quand un décodeur existait mais a échoué (repli sur Raw).
	ParseErr error
}

// Normalize décode payload selon son format. Un échec de décodage n'est pas
// fatal : le contenu brut est retourné et l'erreur est rangée dans ParseErr.
func (r *Registry) Normalize(f model.Format, payload []byte) Normalized {
	d, df, ok := r.lookup(f, payload)
	if !ok {
		return Normalized{Format: f, Raw: string(payload)}
	}
	segs, err := d.Decode(payload)
	if err != nil {
		return Normalized{Format: f, Raw: string(payload), ParseErr: model.NewParseError(err)}
	}
	return Normalized{Format: df, Structured: true, Segments: segs}
}

// DecodeJSON3 : un événement donne un segment si ses fragments concaténés, puis
// trimés, ne sont pas vides. Start/Duration absents valent 0.
func DecodeJSON3(payload []byte) ([]model.Segment, error) {
	raw, err := ParseJSON3Bytes(payload)
	if err != nil {
		return nil, err
	}
	segs := make([]model.Segment, 0, len(raw.Events))
	for _, ev := range raw.Events {
		if len(ev.Segs) == 0 {
			continue
		}
		text := ev.text()
		if text == "" {
			continue
		}
		segs = append(segs, model.Segment{
			Start:    ev.start(),
			Duration: ev.duration(),
			Text:     text,
		})
	}
	return segs, nil
}

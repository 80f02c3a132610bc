package app

import "github.com/patrickprogramme/subtrad/pkg/model"

// SubtitlesRequest décrit un appel au pipeline.
// Les valeurs nulles prennent les défauts de la configuration ; 0 est une valeur
// valide pour MaxGapMs et MaxDurationMs.
type SubtitlesRequest struct {
	VideoID        string // identifiant ou URL YouTube
	Lang           string
	Merge          *bool
	MaxGapMs       *int64
	MaxDurationMs  *int64
	IncludeMapping bool
	TranslateTo    string // vide : pas de traduction
	From           string
}

// SubtitlesResult : Subtitles (json3 analysé) ou RawContent (autres formats), jamais les deux.
type SubtitlesResult struct {
	Success           bool            `json:"success"`
	VideoID           string          `json:"video_id"`
	Language          string          `json:"language"`
	RequestedLanguage string          `json:"requested_language,omitempty"`
	Format            string          `json:"format"`
	Count             *int            `json:"count,omitempty"`
	RawCount          *int            `json:"raw_count,omitempty"`
	Subtitles         []model.Segment `json:"subtitles,omitzero"`
	Mapping           []int           `json:"mapping,omitzero"`
	RawContent        *string         `json:"raw_content,omitempty"`

	ToLang              string          `json:"to_lang,omitempty"`
	TranslatedSubtitles []model.Segment `json:"translated_subtitles,omitzero"`
}

type TranslationResult struct {
	Success             bool            `json:"success"`
	Count               int             `json:"count"`
	ToLang              string          `json:"to_lang"`
	TranslatedSubtitles []model.Segment `json:"translated_subtitles"`
}

type TextsResult struct {
	Success      bool     `json:"success"`
	Count        int      `json:"count"`
	Translations []string `json:"translations"`
}

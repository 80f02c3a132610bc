package app

import (
	"context"
	"strings"

	"github.com/patrickprogramme/subtrad/internal/logger"
	"github.com/patrickprogramme/subtrad/internal/subtitles"
	"github.com/patrickprogramme/subtrad/internal/yt"
	"github.com/patrickprogramme/subtrad/pkg/model"
)

// CatalogSource fournit le catalogue des pistes d'une vidéo (yt-dlp, éventuellement via le cache).
type CatalogSource interface {
	Catalog(ctx context.Context, videoID string) (*model.Catalog, error)
}

// Translator traduit des lots de textes en conservant l'ordre (translate.Batched).
type Translator interface {
	TranslateTexts(ctx context.Context, texts []string, to, from string) ([]string, error)
	TranslateSegments(ctx context.Context, segs []model.Segment, to, from string) ([]model.Segment, error)
}

// Options regroupe les valeurs par défaut du pipeline.
type Options struct {
	DefaultLang  string
	DefaultTo    string
	DefaultFrom  string
	MergeEnabled bool
	Merge        subtitles.MergeOptions
}

// App orchestre le pipeline : catalogue -> téléchargement -> normalisation -> fusion -> traduction.
// Sans état hors de ses dépendances : utilisable en parallèle par plusieurs requêtes.
type App struct {
	catalogs   CatalogSource
	fetcher    subtitles.Fetcher
	decoders   *subtitles.Registry
	translator Translator
	opts       Options
	log        logger.Logger
}

// New construit l'application. decoders peut être nil (registre par défaut).
func New(catalogs CatalogSource, f subtitles.Fetcher, decoders *subtitles.Registry,
	tr Translator, opts Options, log logger.Logger) *App {
	if decoders == nil {
		decoders = subtitles.NewRegistry()
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.DefaultLang == "" {
		opts.DefaultLang = "ko"
	}
	if opts.DefaultTo == "" {
		opts.DefaultTo = "vi"
	}
	if opts.Merge.MaxGapMs <= 0 && opts.Merge.MaxDurationMs <= 0 {
		opts.Merge = subtitles.DefaultMergeOptions
	}
	return &App{
		catalogs:   catalogs,
		fetcher:    f,
		decoders:   decoders,
		translator: tr,
		opts:       opts,
		log:        log,
	}
}

// Subtitles exécute le pipeline pour une vidéo et une langue.
func (a *App) Subtitles(ctx context.Context, req SubtitlesRequest) (*SubtitlesResult, error) {
	videoID, ok := yt.ExtractVideoID(req.VideoID)
	if !ok {
		return nil, model.Invalidf("invalid video id %q", req.VideoID)
	}
	lang := strings.TrimSpace(req.Lang)
	if lang == "" {
		lang = a.opts.DefaultLang
	}

	cat, err := a.catalogs.Catalog(ctx, videoID)
	if err != nil {
		return nil, err
	}

	sd, err := subtitles.Download(ctx, a.fetcher, cat, lang)
	if err != nil {
		return nil, err
	}
	if sd.Rewritten() {
		a.log.Infof("langue %q servie par la piste %q (%s)", sd.RequestedLang, sd.Lang, sd.Source)
	}
	a.log.Debugf("piste téléchargée : %s", sd)

	norm := a.decoders.Normalize(sd.Format, sd.Data)
	if norm.ParseErr != nil {
		a.log.Warnf("décodage %s impossible pour %s, contenu brut renvoyé : %v", sd.Format, videoID, norm.ParseErr)
	}

	res := &SubtitlesResult{
		Success:  true,
		VideoID:  videoID,
		Language: sd.Lang,
		Format:   norm.Format.String(),
	}
	if sd.Rewritten() {
		res.RequestedLanguage = sd.RequestedLang
	}

	if !norm.Structured {
		if req.TranslateTo != "" {
			return nil, model.NotFoundf("no translatable content for video '%s' in language '%s' (format %s)", videoID, sd.Lang, norm.Format)
		}
		raw := norm.Raw
		res.RawContent = &raw
		return res, nil
	}

	segs, mapping := a.merge(norm.Segments, req)
	a.log.Infof("%s/%s : %d segments fusionnés en %d phrases", videoID, sd.Lang, len(norm.Segments), len(segs))

	res.Count = ptr(len(segs))
	res.RawCount = ptr(len(norm.Segments))
	res.Subtitles = segs
	if req.IncludeMapping {
		res.Mapping = mapping
	}

	if req.TranslateTo != "" {
		tr, err := a.TranslateSegments(ctx, segs, req.TranslateTo, req.From)
		if err != nil {
			return nil, err
		}
		res.ToLang = tr.ToLang
		res.TranslatedSubtitles = tr.TranslatedSubtitles
	}
	return res, nil
}

// merge applique la fusion selon la requête. Sans fusion, la correspondance est l'identité.
func (a *App) merge(segs []model.Segment, req SubtitlesRequest) ([]model.Segment, []int) {
	enabled := a.opts.MergeEnabled
	if req.Merge != nil {
		enabled = *req.Merge
	}
	if !enabled {
		mapping := make([]int, len(segs))
		for i := range mapping {
			mapping[i] = i
		}
		return segs, mapping
	}

	o := a.opts.Merge
	if req.MaxGapMs != nil {
		o.MaxGapMs = *req.MaxGapMs
	}
	if req.MaxDurationMs != nil {
		o.MaxDurationMs = *req.MaxDurationMs
	}
	return subtitles.MergeSegments(segs, o)
}

// TranslateSegments traduit des segments déjà fusionnés en conservant leurs timings.
func (a *App) TranslateSegments(ctx context.Context, segs []model.Segment, to, from string) (*TranslationResult, error) {
	to, from = a.langs(to, from)
	for i, s := range segs {
		if s.Start < 0 || s.Duration < 0 {
			return nil, model.Invalidf("subtitle %d: negative start or duration", i)
		}
	}
	if len(segs) == 0 {
		return &TranslationResult{Success: true, ToLang: to, TranslatedSubtitles: []model.Segment{}}, nil
	}

	a.log.Infof("traduction de %d sous-titres vers %s", len(segs), to)
	out, err := a.translator.TranslateSegments(ctx, segs, to, from)
	if err != nil {
		return nil, err
	}
	return &TranslationResult{Success: true, Count: len(out), ToLang: to, TranslatedSubtitles: out}, nil
}

// TranslateTexts traduit une liste de textes libres.
func (a *App) TranslateTexts(ctx context.Context, texts []string, to, from string) (*TextsResult, error) {
	to, from = a.langs(to, from)
	if len(texts) == 0 {
		return &TextsResult{Success: true, Translations: []string{}}, nil
	}
	out, err := a.translator.TranslateTexts(ctx, texts, to, from)
	if err != nil {
		return nil, err
	}
	return &TextsResult{Success: true, Count: len(out), Translations: out}, nil
}

func (a *App) langs(to, from string) (string, string) {
	to = strings.TrimSpace(to)
	if to == "" {
		to = a.opts.DefaultTo
	}
	from = strings.TrimSpace(from)
	if from == "" {
		from = a.opts.DefaultFrom
	}
	return to, from
}

func ptr[T any](v T) *T { return &v }

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/subtrad/internal/logger"
	"github.com/patrickprogramme/subtrad/internal/subtitles"
	"github.com/patrickprogramme/subtrad/pkg/model"
)

const (
	testVideoID = "dQw4w9WgXcQ"
	koJSON3     = `{"events":[
		{"tStartMs":0,"dDurationMs":1000,"segs":[{"utf8":"안녕"}]},
		{"tStartMs":1200,"dDurationMs":800,"segs":[{"utf8":"하세요."}]},
		{"tStartMs":5000,"dDurationMs":1000,"segs":[{"utf8":"\n"}]},
		{"tStartMs":5000,"dDurationMs":1000,"segs":[{"utf8":"다"},{"utf8":"음"}]}
	]}`
	enVTT = "WEBVTT\n\n00:00.000 --> 00:01.000\nhello\n"
)

type fakeCatalogs struct {
	cat   *model.Catalog
	err   error
	calls int
}

func (f *fakeCatalogs) Catalog(_ context.Context, videoID string) (*model.Catalog, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.cat, nil
}

type fakeFetcher map[string]string

func (f fakeFetcher) Bytes(_ context.Context, url string) ([]byte, error) {
	body, ok := f[url]
	if !ok {
		return nil, model.NewFetchError(404, "not found")
	}
	return []byte(body), nil
}

// tagTranslator préfixe chaque texte par la langue cible.
type tagTranslator struct {
	calls int
	err   error
}

func (t *tagTranslator) TranslateTexts(_ context.Context, texts []string, to, from string) ([]string, error) {
	t.calls++
	if t.err != nil {
		return nil, t.err
	}
	out := make([]string, len(texts))
	for i, s := range texts {
		out[i] = "[" + to + "]" + s
	}
	return out, nil
}

func (t *tagTranslator) TranslateSegments(ctx context.Context, segs []model.Segment, to, from string) ([]model.Segment, error) {
	texts, err := t.TranslateTexts(ctx, model.Texts(segs), to, from)
	if err != nil {
		return nil, err
	}
	out := make([]model.Segment, len(segs))
	for i, s := range segs {
		out[i] = model.Segment{Start: s.Start, Duration: s.Duration, Text: texts[i]}
	}
	return out, nil
}

func json3Track(lang string, src model.SubSource) model.Track {
	return model.Track{Lang: lang, Source: src, Formats: []model.TrackFormat{
		{Ext: model.FormatVTT, URL: "https://yt.test/" + lang + ".vtt"},
		{Ext: model.FormatJSON3, URL: "https://yt.test/" + lang + ".json3"},
	}}
}

func newTestApp(t *testing.T) (*App, *fakeCatalogs, *tagTranslator) {
	t.Helper()
	cats := &fakeCatalogs{cat: &model.Catalog{
		VideoID: testVideoID,
		Manual:  []model.Track{json3Track("ko", model.SubSourceManual)},
		Automatic: []model.Track{
			json3Track("en-US", model.SubSourceAutomatic),
			{Lang: "fr", Source: model.SubSourceAutomatic, Formats: []model.TrackFormat{
				{Ext: model.FormatVTT, URL: "https://yt.test/fr.vtt"},
			}},
		},
	}}
	f := fakeFetcher{
		"https://yt.test/ko.json3":    koJSON3,
		"https://yt.test/en-US.json3": koJSON3,
		"https://yt.test/fr.vtt":      enVTT,
	}
	tr := &tagTranslator{}
	a := New(cats, f, nil, tr, Options{MergeEnabled: true}, logger.Nop())
	return a, cats, tr
}

func TestSubtitles_MergedWithMapping(t *testing.T) {
	a, _, tr := newTestApp(t)

	res, err := a.Subtitles(context.Background(), SubtitlesRequest{VideoID: testVideoID, IncludeMapping: true})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "ko", res.Language)
	assert.Empty(t, res.RequestedLanguage)
	assert.Equal(t, "json3", res.Format)
	assert.Equal(t, 2, *res.Count)
	assert.Equal(t, 3, *res.RawCount)
	assert.Equal(t, []model.Segment{
		{Start: 0, Duration: 2000, Text: "안녕 하세요."},
		{Start: 5000, Duration: 1000, Text: "다음"},
	}, res.Subtitles)
	assert.Equal(t, []int{0, 0, 1}, res.Mapping)
	assert.Nil(t, res.RawContent)
	assert.Zero(t, tr.calls)
}

func TestSubtitles_MergeDisabled(t *testing.T) {
	a, _, _ := newTestApp(t)
	off := false

	res, err := a.Subtitles(context.Background(), SubtitlesRequest{VideoID: testVideoID, Merge: &off, IncludeMapping: true})
	require.NoError(t, err)
	assert.Equal(t, 3, *res.Count)
	assert.Equal(t, []int{0, 1, 2}, res.Mapping)
}

func TestSubtitles_ZeroGapOverride(t *testing.T) {
	a, _, _ := newTestApp(t)

	// écart nul : 200 ms de silence suffisent à couper
	res, err := a.Subtitles(context.Background(), SubtitlesRequest{VideoID: testVideoID, MaxGapMs: ptr(int64(0)), IncludeMapping: true})
	require.NoError(t, err)
	assert.Equal(t, 3, *res.Count)
	assert.Equal(t, []int{0, 1, 2}, res.Mapping)

	res, err = a.Subtitles(context.Background(), SubtitlesRequest{VideoID: testVideoID, MaxGapMs: ptr(int64(500)), IncludeMapping: true})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1}, res.Mapping)
}

func TestSubtitles_AcceptsURL(t *testing.T) {
	a, _, _ := newTestApp(t)
	res, err := a.Subtitles(context.Background(), SubtitlesRequest{VideoID: "https://youtu.be/" + testVideoID})
	require.NoError(t, err)
	assert.Equal(t, testVideoID, res.VideoID)
	assert.Nil(t, res.Mapping)
}

func TestSubtitles_PrefixRewriteReported(t *testing.T) {
	a, _, _ := newTestApp(t)

	res, err := a.Subtitles(context.Background(), SubtitlesRequest{VideoID: testVideoID, Lang: "en"})
	require.NoError(t, err)
	assert.Equal(t, "en-US", res.Language)
	assert.Equal(t, "en", res.RequestedLanguage)
}

func TestSubtitles_RawFormat(t *testing.T) {
	a, _, tr := newTestApp(t)

	res, err := a.Subtitles(context.Background(), SubtitlesRequest{VideoID: testVideoID, Lang: "fr"})
	require.NoError(t, err)
	assert.Equal(t, "vtt", res.Format)
	require.NotNil(t, res.RawContent)
	assert.Equal(t, enVTT, *res.RawContent)
	assert.Nil(t, res.Count)
	assert.Nil(t, res.Subtitles)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.NotContains(t, m, "subtitles")
	assert.NotContains(t, m, "count")
	assert.Contains(t, m, "raw_content")

	_, err = a.Subtitles(context.Background(), SubtitlesRequest{VideoID: testVideoID, Lang: "fr", TranslateTo: "vi"})
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
	assert.Zero(t, tr.calls)
}

func TestSubtitles_Errors(t *testing.T) {
	a, cats, _ := newTestApp(t)
	ctx := context.Background()

	_, err := a.Subtitles(ctx, SubtitlesRequest{VideoID: "not a video"})
	assert.Equal(t, model.KindInvalid, model.KindOf(err))
	assert.Zero(t, cats.calls)

	_, err = a.Subtitles(ctx, SubtitlesRequest{VideoID: testVideoID, Lang: "de"})
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
	assert.True(t, errors.Is(err, model.ErrNotFound))

	// piste présente mais contenu introuvable côté amont
	cats.cat.Manual = append(cats.cat.Manual, model.Track{Lang: "ja", Source: model.SubSourceManual,
		Formats: []model.TrackFormat{{Ext: model.FormatJSON3, URL: "https://yt.test/missing"}}})
	_, err = a.Subtitles(ctx, SubtitlesRequest{VideoID: testVideoID, Lang: "ja"})
	e, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindFetch, e.Kind)
	assert.Equal(t, 404, e.Status)

	cats.err = model.NewExtractionError(errors.New("Video unavailable"))
	_, err = a.Subtitles(ctx, SubtitlesRequest{VideoID: testVideoID})
	assert.Equal(t, model.KindExtraction, model.KindOf(err))
}

func TestSubtitles_ParseFailureFallsBackToRaw(t *testing.T) {
	a, cats, _ := newTestApp(t)
	cats.cat.Manual = []model.Track{{Lang: "ko", Source: model.SubSourceManual,
		Formats: []model.TrackFormat{{Ext: model.FormatJSON3, URL: "https://yt.test/broken"}}}}
	a.fetcher = fakeFetcher{"https://yt.test/broken": `{"events": [oops`}

	res, err := a.Subtitles(context.Background(), SubtitlesRequest{VideoID: testVideoID})
	require.NoError(t, err)
	require.NotNil(t, res.RawContent)
	assert.Equal(t, `{"events": [oops`, *res.RawContent)
}

func TestSubtitles_TranslateInOneCall(t *testing.T) {
	a, _, tr := newTestApp(t)

	res, err := a.Subtitles(context.Background(), SubtitlesRequest{VideoID: testVideoID, TranslateTo: "vi"})
	require.NoError(t, err)
	assert.Equal(t, 1, tr.calls)
	assert.Equal(t, "vi", res.ToLang)
	assert.Equal(t, []model.Segment{
		{Start: 0, Duration: 2000, Text: "[vi]안녕 하세요."},
		{Start: 5000, Duration: 1000, Text: "[vi]다음"},
	}, res.TranslatedSubtitles)

	tr.err = model.NewCountMismatch(1, 2)
	_, err = a.Subtitles(context.Background(), SubtitlesRequest{VideoID: testVideoID, TranslateTo: "vi"})
	assert.Equal(t, model.KindCountMismatch, model.KindOf(err))
}

func TestTranslateSegments(t *testing.T) {
	a, _, tr := newTestApp(t)
	ctx := context.Background()

	res, err := a.TranslateSegments(ctx, nil, "", "")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.Count)
	assert.NotNil(t, res.TranslatedSubtitles)
	assert.Zero(t, tr.calls)

	in := []model.Segment{{Start: 100, Duration: 900, Text: "hello"}}
	res, err = a.TranslateSegments(ctx, in, "", "en")
	require.NoError(t, err)
	assert.Equal(t, "vi", res.ToLang)
	assert.Equal(t, []model.Segment{{Start: 100, Duration: 900, Text: "[vi]hello"}}, res.TranslatedSubtitles)

	_, err = a.TranslateSegments(ctx, []model.Segment{{Start: -1, Text: "x"}}, "fr", "")
	assert.Equal(t, model.KindInvalid, model.KindOf(err))
}

func TestTranslateTexts(t *testing.T) {
	a, _, _ := newTestApp(t)

	res, err := a.TranslateTexts(context.Background(), []string{"a", "b"}, "fr", "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, []string{"[fr]a", "[fr]b"}, res.Translations)

	res, err = a.TranslateTexts(context.Background(), nil, "fr", "")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Equal(t, []string{}, res.Translations)
}

type fakeClipboard struct {
	content string
	written string
	readErr error
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.content, c.readErr }
func (c *fakeClipboard) WriteAll(text string) error {
	c.written = text
	return nil
}

func TestResolveVideoID(t *testing.T) {
	id, err := ResolveVideoID("https://www.youtube.com/watch?v="+testVideoID, nil, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, testVideoID, id)

	clip := &fakeClipboard{content: "https://youtu.be/" + testVideoID}
	id, err = ResolveVideoID("", clip, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, testVideoID, id)

	_, err = ResolveVideoID("", &fakeClipboard{content: "pas une url"}, logger.Nop())
	assert.Equal(t, model.KindInvalid, model.KindOf(err))

	_, err = ResolveVideoID("", &fakeClipboard{readErr: errors.New("no xclip")}, logger.Nop())
	assert.Equal(t, model.KindInvalid, model.KindOf(err))

	_, err = ResolveVideoID("https://vimeo.com/1", nil, logger.Nop())
	assert.Equal(t, model.KindInvalid, model.KindOf(err))
}

func TestRunCLI(t *testing.T) {
	a, _, _ := newTestApp(t)
	clip := &fakeClipboard{content: testVideoID}
	var out bytes.Buffer

	err := a.RunCLI(context.Background(), CLIFlags{To: "vi", Copy: true}, clip, &out)
	require.NoError(t, err)

	var res SubtitlesResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, testVideoID, res.VideoID)
	assert.Len(t, res.TranslatedSubtitles, 2)
	assert.Equal(t, strings.TrimSpace(out.String()), clip.written)
}

func TestNew_Defaults(t *testing.T) {
	a := New(&fakeCatalogs{}, fakeFetcher{}, nil, &tagTranslator{}, Options{}, nil)
	assert.Equal(t, "ko", a.opts.DefaultLang)
	assert.Equal(t, "vi", a.opts.DefaultTo)
	assert.Equal(t, subtitles.DefaultMergeOptions, a.opts.Merge)
	assert.False(t, a.opts.MergeEnabled)
}

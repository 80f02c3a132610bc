package yt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/subtrad/internal/logger"
	"github.com/patrickprogramme/subtrad/pkg/model"
)

const sampleOutput = `{"id":"abcdefghijk","title":"demo",
"subtitles":{"ko":[{"ext":"vtt","url":"https://x/ko.vtt"},{"ext":"json3","url":"https://x/ko.json3"}],"empty":[]},
"automatic_captions":{"zz":[{"ext":"json3","url":"https://x/zz"}],"en-US":[{"ext":"srv3","url":"https://x/enus"}],"en":[{"ext":"json3","url":"https://x/en"}],"ab":[{"ext":"vtt","url":"https://x/ab"}],"aa":[{"ext":"vtt","url":"https://x/aa"}]}}`

func TestParseCatalog_PreservesOrder(t *testing.T) {
	cat, err := ParseCatalog([]byte(sampleOutput))
	require.NoError(t, err)

	assert.Equal(t, "abcdefghijk", cat.VideoID)
	assert.Equal(t, []string{"ko"}, model.Languages(cat.Manual))
	assert.Equal(t, []string{"zz", "en-US", "en", "ab", "aa"}, model.Languages(cat.Automatic))

	ko := cat.Manual[0]
	assert.Equal(t, model.SubSourceManual, ko.Source)
	require.Len(t, ko.Formats, 2)
	assert.Equal(t, model.FormatVTT, ko.Formats[0].Ext)
	assert.Equal(t, model.FormatJSON3, ko.Formats[1].Ext)
}

func TestParseCatalog_NullMaps(t *testing.T) {
	cat, err := ParseCatalog([]byte(`{"id":"x","subtitles":null}`))
	require.NoError(t, err)
	assert.Empty(t, cat.Manual)
	assert.Empty(t, cat.Automatic)
}

func TestParseCatalog_Invalid(t *testing.T) {
	_, err := ParseCatalog([]byte(`{"subtitles":[1,2]}`))
	assert.Error(t, err)
}

func TestBuildArgs(t *testing.T) {
	cfg := NewYtDlpConfig(false)
	cfg.CookiesFile = "cookies.txt"
	args := cfg.BuildArgs("https://www.youtube.com/watch?v=abcdefghijk")

	assert.Equal(t, "--no-config", args[0])
	assert.Contains(t, args, "-j")
	assert.Contains(t, args, "--skip-download")
	assert.Contains(t, args, "--no-warnings")
	assert.Contains(t, args, "--no-check-formats")
	assert.Contains(t, args, "--allow-unplayable-formats")
	assert.Contains(t, args, "--ignore-no-formats-error")
	assert.Equal(t, []string{"--cookies", "cookies.txt", "--", "https://www.youtube.com/watch?v=abcdefghijk"}, args[len(args)-4:])

	noCookies := NewYtDlpConfig(true).BuildArgs("u")
	assert.NotContains(t, noCookies, "--cookies")
	assert.NotContains(t, noCookies, "--no-warnings")
}

func TestSplitOutput(t *testing.T) {
	r := splitOutput([]byte("WARNING: something\n\n{\"id\":\"x\"}\n"))
	assert.Equal(t, `{"id":"x"}`, string(r.JSON))
	assert.Equal(t, []string{"WARNING: something"}, r.Warnings)
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"abcdefghijk", "abcdefghijk", true},
		{"https://www.youtube.com/watch?v=abcdefghijk&t=3", "abcdefghijk", true},
		{"https://youtu.be/abcdefghijk", "abcdefghijk", true},
		{"https://www.youtube.com/shorts/abcdefghijk", "abcdefghijk", true},
		{"https://example.com/watch?v=abcdefghijk", "", false},
		{"-rf", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractVideoID(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

type fakeDL struct {
	out    string
	err    error
	gotURL string
}

func (f *fakeDL) CheckBinary() error { return nil }
func (f *fakeDL) GetVersion(ctx context.Context) (string, error) {
	return "test", nil
}

func (f *fakeDL) ExtractRaw(ctx context.Context, url string) (*ExtractedRaw, error) {
	f.gotURL = url
	if f.err != nil {
		return nil, f.err
	}
	return &ExtractedRaw{JSON: []byte(f.out)}, nil
}

func TestCatalogFrom(t *testing.T) {
	dl := &fakeDL{out: sampleOutput}
	cat, err := CatalogFrom(context.Background(), dl, "abcdefghijk", logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=abcdefghijk", dl.gotURL)
	assert.Len(t, cat.Automatic, 5)
}

func TestCatalogFrom_ContextDone(t *testing.T) {
	dl := &fakeDL{err: errors.New("signal: killed")}

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()
	_, err := CatalogFrom(ctx, dl, "abcdefghijk", logger.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotEqual(t, model.KindExtraction, model.KindOf(err))

	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	_, err = CatalogFrom(ctx, dl, "abcdefghijk", logger.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCatalogFrom_ExtractionError(t *testing.T) {
	dl := &fakeDL{err: errors.New("ERROR: Private video")}
	_, err := CatalogFrom(context.Background(), dl, "abcdefghijk", logger.Nop())
	require.Error(t, err)
	assert.Equal(t, model.KindExtraction, model.KindOf(err))
	assert.Contains(t, err.Error(), "Private video")
}

package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickprogramme/subtrad/internal/fetch"
)

// LatestReleaseURL pointe vers la dernière release publiée de yt-dlp.
const LatestReleaseURL = "https://api.github.com/repos/yt-dlp/yt-dlp/releases/latest"

type rawRelease struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	PublishedAt time.Time `json:"published_at"`
	HTMLURL     string    `json:"html_url"`
	Assets      []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
		ContentType        string `json:"content_type"`
	} `json:"assets"`
}

// GetLatestYtDlpRelease interroge l'API GitHub et retient les exécutables Windows et Linux.
func GetLatestYtDlpRelease(ctx context.Context, f *fetch.Fetcher, url string) (*YtDlpReleaseInfo, error) {
	raw, err := fetch.FetchJSON[rawRelease](ctx, f, url)
	if err != nil {
		return nil, fmt.Errorf("release GitHub: %w", err)
	}
	if raw.TagName == "" {
		return nil, fmt.Errorf("release GitHub sans tag_name")
	}

	info := &YtDlpReleaseInfo{
		TagName:     raw.TagName,
		Name:        raw.Name,
		PublishedAt: raw.PublishedAt,
		HTMLURL:     raw.HTMLURL,
	}

	for _, a := range raw.Assets {
		switch a.Name {
		case "yt-dlp.exe":
			info.WindowsRelease = YtDlpAsset{a.Name, a.BrowserDownloadURL, a.ContentType}
		case "yt-dlp":
			info.LinuxRelease = YtDlpAsset{a.Name, a.BrowserDownloadURL, a.ContentType}
		}
	}
	return info, nil
}

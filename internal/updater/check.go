package updater

import (
	"context"
	"fmt"
	"strings"

	"github.com/patrickprogramme/subtrad/internal/fetch"
)

// UpdateCheck contient le résultat de la comparaison
type UpdateCheck struct {
	CurrentVersion string            // version récupérée localement
	LatestRelease  *YtDlpReleaseInfo // info complète de la release distante
	IsUpToDate     bool              // true si CurrentVersion == LatestRelease.TagName
}

// CheckYtDlpUpdate compare la version locale et la version GitHub.
func CheckYtDlpUpdate(ctx context.Context, f *fetch.Fetcher, url, localVer string) (*UpdateCheck, error) {
	if url == "" {
		url = LatestReleaseURL
	}
	latest, err := GetLatestYtDlpRelease(ctx, f, url)
	if err != nil {
		return nil, fmt.Errorf("impossible de récupérer la release GitHub : %w", err)
	}

	return &UpdateCheck{
		CurrentVersion: localVer,
		LatestRelease:  latest,
		IsUpToDate:     strings.TrimSpace(localVer) == latest.TagName,
	}, nil
}

// GetUpdateLink retourne le lien de téléchargement pour l'OS, ou la page de la release.
func (u UpdateCheck) GetUpdateLink(system string) string {
	link := u.LatestRelease.LinuxRelease.BrowserDownloadURL
	if system == "windows" {
		link = u.LatestRelease.WindowsRelease.BrowserDownloadURL
	}
	if link == "" {
		return u.LatestRelease.HTMLURL
	}
	return link
}

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/patrickprogramme/subtrad/internal/clipboard"
	"github.com/patrickprogramme/subtrad/internal/fetch"
	"github.com/patrickprogramme/subtrad/internal/logger"
	"github.com/patrickprogramme/subtrad/internal/updater"
	"github.com/patrickprogramme/subtrad/internal/yt"
	"github.com/patrickprogramme/subtrad/pkg/model"
)

// CLIFlags contient les informations venant des flags de l'app
type CLIFlags struct {
	URL  string
	Lang string
	To   string
	From string
	Copy bool
}

// ResolveVideoID retourne l'identifiant de la vidéo : priorité flag > presse-papier.
func ResolveVideoID(flagURL string, clip clipboard.Interface, log logger.Logger) (string, error) {
	if flagURL != "" {
		id, ok := yt.ExtractVideoID(flagURL)
		if !ok {
			return "", model.Invalidf("invalid YouTube URL or video id %q", flagURL)
		}
		return id, nil
	}

	if clip != nil {
		text, err := clip.ReadAll()
		if err != nil {
			log.Warnf("lecture du presse-papier impossible : %v", err)
		} else if id, ok := yt.ExtractVideoID(text); ok {
			log.Infof("URL lue depuis le presse-papier : %s", text)
			return id, nil
		}
	}
	return "", model.Invalidf("no video given: use -url or copy a YouTube URL to the clipboard")
}

// RunCLI exécute le pipeline une fois et écrit le résultat JSON sur out.
func (a *App) RunCLI(ctx context.Context, flags CLIFlags, clip clipboard.Interface, out io.Writer) error {
	id, err := ResolveVideoID(flags.URL, clip, a.log)
	if err != nil {
		return err
	}

	res, err := a.Subtitles(ctx, SubtitlesRequest{
		VideoID:     id,
		Lang:        flags.Lang,
		TranslateTo: flags.To,
		From:        flags.From,
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if _, err := fmt.Fprintln(out, string(data)); err != nil {
		return err
	}

	if flags.Copy && clip != nil {
		if err := clip.WriteAll(string(data)); err != nil {
			return fmt.Errorf("copie dans le presse-papier: %w", err)
		}
		a.log.Infof("résultat copié dans le presse-papier")
	}
	return nil
}

// YtDlpUpdateCheck signale dans les logs si une version plus récente de yt-dlp existe.
func YtDlpUpdateCheck(ctx context.Context, f *fetch.Fetcher, version string, log logger.Logger) error {
	check, err := updater.CheckYtDlpUpdate(ctx, f, updater.LatestReleaseURL, version)
	if err != nil {
		return fmt.Errorf("vérification de mise à jour a échoué : %w", err)
	}

	if check.IsUpToDate {
		log.Infof("yt-dlp est à jour (%s)", check.CurrentVersion)
		return nil
	}

	log.Warnf("nouvelle version de yt-dlp disponible : installée %s, dernière %s (%s)",
		check.CurrentVersion, check.LatestRelease.TagName, check.GetUpdateLink(runtime.GOOS))
	return nil
}

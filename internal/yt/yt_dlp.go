package yt

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/patrickprogramme/subtrad/internal/logger"
	"github.com/patrickprogramme/subtrad/pkg/model"
)

// NewYtDlp construit une instance. resolvedPath doit être le chemin résolu vers l'exe.
func NewYtDlp(name string, resolvedPath string, cfg YtDlpConfig, log logger.Logger) *YtDlp {
	if log == nil {
		log = logger.Nop()
	}
	return &YtDlp{
		Name:   name,
		Path:   resolvedPath,
		Config: cfg,
		log:    log,
	}
}

// CheckBinary vérifie que le binaire existe et n'est pas un répertoire.
func (y *YtDlp) CheckBinary() error {
	if y == nil {
		return fmt.Errorf("yt-dlp non initialisé")
	}

	exe := y.exe()
	if y.Path == "" {
		// nom nu : on laisse le PATH décider
		if _, err := exec.LookPath(exe); err != nil {
			return fmt.Errorf("yt-dlp introuvable dans le PATH (%s): %w", exe, err)
		}
		return nil
	}

	info, err := os.Stat(exe)
	if err != nil {
		return fmt.Errorf("yt-dlp introuvable (%s) à l'emplacement spécifié : %w", exe, err)
	}
	if info.IsDir() {
		return fmt.Errorf("le chemin spécifié pour yt-dlp est un répertoire, pas un fichier exécutable")
	}
	return nil
}

// ExtractRaw exécute `yt-dlp -j <url>` et renvoie la ligne JSON de la sortie.
// Les autres lignes non vides sont rangées dans Warnings.
func (y *YtDlp) ExtractRaw(ctx context.Context, url string) (*ExtractedRaw, error) {
	start := time.Now()
	args := y.Config.BuildArgs(url)

	out, err := exec.CommandContext(ctx, y.exe(), args...).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp dump json failed: %w, output: %s", err, strings.TrimSpace(string(out)))
	}

	raw := splitOutput(out)
	if raw.JSON == nil {
		return nil, fmt.Errorf("aucun JSON détecté dans la sortie: %s", string(out))
	}
	raw.Elapsed = time.Since(start)
	y.log.Debugf("métadonnées extraites en %s", raw.Elapsed)
	return raw, nil
}

// splitOutput sépare la ligne JSON des avertissements.
func splitOutput(out []byte) *ExtractedRaw {
	r := &ExtractedRaw{}
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") {
			r.JSON = []byte(line)
		} else {
			r.Warnings = append(r.Warnings, line)
		}
	}
	return r
}

// Catalog extrait les métadonnées d'une vidéo et retourne son catalogue de pistes.
func (y *YtDlp) Catalog(ctx context.Context, videoID string) (*model.Catalog, error) {
	if y.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.ExtractTimeout)
		defer cancel()
	}
	return CatalogFrom(ctx, y, videoID, y.log)
}

// CatalogFrom exécute l'extraction via n'importe quelle Interface (réelle ou factice).
func CatalogFrom(ctx context.Context, dl Interface, videoID string, log logger.Logger) (*model.Catalog, error) {
	url := VideoURL(videoID)
	log.Infof("extraction des métadonnées : %s", url)

	raw, err := dl.ExtractRaw(ctx, url)
	if err != nil {
		// processus tué par l'annulation ou le délai : l'erreur du contexte prime
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("extraction %s interrompue: %w", videoID, ctxErr)
		}
		return nil, model.NewExtractionError(err)
	}
	raw.LogWarnings(log)

	cat, err := ParseCatalog(raw.JSON)
	if err != nil {
		return nil, model.NewExtractionError(err)
	}
	if cat.VideoID == "" {
		cat.VideoID = videoID
	}
	log.Debugf("%s", cat)
	return cat, nil
}

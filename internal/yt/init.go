package yt

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickprogramme/subtrad/internal/config"
	"github.com/patrickprogramme/subtrad/internal/fsutil"
	"github.com/patrickprogramme/subtrad/internal/logger"
)

const defaultVersionTimeout = 5 * time.Second

// InitYtDlp initialise le client YtDlp, vérifie le binaire et récupère la version.
func InitYtDlp(ctx context.Context, cfg *config.Config, log logger.Logger) (*YtDlp, string, error) {
	ytDlpcfg := NewYtDlpConfig(cfg.YtDlp.ShowWarnings)

	if c := cfg.YtDlp.CookiesFile; c != "" {
		if size := fsutil.FileSize(c); size >= 0 {
			log.Infof("cookies trouvés : %s (%d octets)", c, size)
			ytDlpcfg.CookiesFile = c
		} else {
			log.Warnf("fichier cookies absent : %s", c)
		}
	}

	dl := NewYtDlp(cfg.YtDlp.Name, cfg.YtDlp.ResolvedPath, *ytDlpcfg, log)
	dl.ExtractTimeout = cfg.YtDlp.ExtractTimeout
	log.Debugf("yt-dlp : %s", dl.exe())

	if err := dl.CheckBinary(); err != nil {
		return nil, "", fmt.Errorf("yt-dlp introuvable : %w", err)
	}

	vctx, cancel := context.WithTimeout(ctx, defaultVersionTimeout)
	defer cancel()
	version, err := dl.GetVersion(vctx)
	if err != nil {
		return dl, "", fmt.Errorf("échec récupération version yt-dlp : %w", err)
	}

	return dl, version, nil
}

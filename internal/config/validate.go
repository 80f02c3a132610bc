package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/patrickprogramme/subtrad/internal/fsutil"
)

// ValidateYtDlpPresence vérifie de manière statique que si un ResolvedPath est défini,
// le fichier existe et que le répertoire parent est accessible.
// Retourne warnings (non-fataux) et une erreur si c'est critique.
func (c *Config) ValidateYtDlpPresence() (warnings []string, err error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}

	c.ResolveYtDlpPath()

	p := strings.TrimSpace(c.YtDlp.ResolvedPath)
	if p == "" {
		warnings = append(warnings, "aucun chemin configuré pour yt-dlp; recherche dans le PATH")
		return warnings, nil
	}

	parent := filepath.Dir(p)
	if st, serr := os.Stat(parent); serr != nil {
		if os.IsNotExist(serr) {
			warnings = append(warnings, fmt.Sprintf("le dossier parent du chemin yt-dlp n'existe pas : %s", parent))
		} else {
			return warnings, fmt.Errorf("impossible d'accéder au dossier parent %s : %w", parent, serr)
		}
	} else if !st.IsDir() {
		return warnings, fmt.Errorf("le parent du chemin yt-dlp n'est pas un répertoire : %s", parent)
	}

	if info, serr := os.Stat(p); serr != nil {
		if os.IsNotExist(serr) {
			warnings = append(warnings, fmt.Sprintf("yt-dlp introuvable à l'emplacement configuré : %s", p))
			return warnings, nil
		}
		return warnings, fmt.Errorf("erreur lors du test du fichier %s : %w", p, serr)
	} else if info.IsDir() {
		return warnings, fmt.Errorf("le chemin configuré pour yt-dlp est un répertoire : %s", p)
	}

	return warnings, nil
}

// Validate contrôle la cohérence du reste de la configuration.
// Mêmes conventions : warnings non-fataux, erreur si la config est inutilisable.
func (c *Config) Validate() (warnings []string, err error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}

	switch c.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			return warnings, fmt.Errorf("cache.backend=redis mais cache.redis.addr est vide")
		}
	default:
		return warnings, fmt.Errorf("cache.backend inconnu : %q (none, memory, redis)", c.Cache.Backend)
	}

	for name, raw := range map[string]string{
		"translator.endpoint": c.Translator.Endpoint,
		"translator.auth_url": c.Translator.AuthURL,
	} {
		if _, perr := url.ParseRequestURI(raw); perr != nil {
			return warnings, fmt.Errorf("%s invalide %q : %w", name, raw, perr)
		}
	}

	if c.Translator.BatchSize > 100 {
		warnings = append(warnings, fmt.Sprintf("translator.batch_size=%d : le fournisseur peut refuser les gros lots", c.Translator.BatchSize))
	}
	if c.Merge.MaxDurationMs < c.Merge.MaxGapMs {
		warnings = append(warnings, "merge.max_duration_ms inférieur à merge.max_gap_ms")
	}

	if c.YtDlp.CookiesFile != "" {
		if !fsutil.FileExists(c.YtDlp.CookiesFile) {
			warnings = append(warnings, fmt.Sprintf("fichier cookies absent : %s", c.YtDlp.CookiesFile))
		}
	}

	return warnings, nil
}

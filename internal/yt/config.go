package yt

// YtDlpConfig représente les flags ajoutables quand on utilise yt-dlp
type YtDlpConfig struct {
	SkipDownload bool
	NoWarnings   bool // true => ajouter --no-warnings
	NoProgress   bool
	NoUpdate     bool
	NoConfig     bool // true => ajouter --no-config pour ignorer les configs utilisateur

	// métadonnées seules : ne pas vérifier ni exiger de format vidéo lisible
	NoCheckFormats         bool
	AllowUnplayableFormats bool
	IgnoreNoFormatsError   bool

	CookiesFile string // vide => pas de --cookies
}

// NewYtDlpConfig initalise une configuration standard de yt-dlp, showWarning vient du yaml de config
func NewYtDlpConfig(showWarning bool) *YtDlpConfig {
	return &YtDlpConfig{
		SkipDownload:           true,
		NoWarnings:             !showWarning,
		NoProgress:             true,
		NoUpdate:               true,
		NoConfig:               true,
		NoCheckFormats:         true,
		AllowUnplayableFormats: true,
		IgnoreNoFormatsError:   true,
	}
}

// BuildArgs construit une slice des arguments à passer à yt-dlp.
func (c *YtDlpConfig) BuildArgs(url string) []string {
	args := make([]string, 0, 14)
	// --no-config en tête pour éviter que des configs locales modifient le comportement
	if c.NoConfig {
		args = append(args, "--no-config")
	}
	args = append(args, "-j")
	if c.SkipDownload {
		args = append(args, "--skip-download")
	}
	if c.NoWarnings {
		args = append(args, "--no-warnings")
	}
	if c.NoProgress {
		args = append(args, "--no-progress")
	}
	if c.NoUpdate {
		args = append(args, "--no-update")
	}
	if c.NoCheckFormats {
		args = append(args, "--no-check-formats")
	}
	if c.AllowUnplayableFormats {
		args = append(args, "--allow-unplayable-formats")
	}
	if c.IgnoreNoFormatsError {
		args = append(args, "--ignore-no-formats-error")
	}
	if c.CookiesFile != "" {
		args = append(args, "--cookies", c.CookiesFile)
	}
	args = append(args, "--", url)
	return args
}

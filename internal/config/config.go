package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	CurrentConfigVersion = 2
	DefaultConfigFile    = "subtrad.yaml"
)

// Backends de cache supportés
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// struct pour les paramètres de configuration
type Config struct {
	// Langue demandée par défaut pour /subtitles
	DefaultLang string `yaml:"default_lang"`

	Server struct {
		Listen         string        `yaml:"listen"`
		CORSOrigins    []string      `yaml:"cors_origins"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"server"`

	// yt-dlp
	YtDlp struct {
		Name            string        `yaml:"name"`
		Path            string        `yaml:"path"`
		CookiesFile     string        `yaml:"cookies_file"`
		ShowWarnings    bool          `yaml:"show_warnings"`
		AutoUpdateCheck bool          `yaml:"auto_update_check"`
		ExtractTimeout  time.Duration `yaml:"extract_timeout"`

		// ResolvedPath contient le chemin effectif vers l'exécutable
		ResolvedPath string `yaml:"-"`
	} `yaml:"yt_dlp"`

	// téléchargement des pistes
	Fetch struct {
		Timeout   time.Duration `yaml:"timeout"`
		MaxBytes  int64         `yaml:"max_bytes"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"fetch"`

	Merge struct {
		Enabled       bool  `yaml:"enabled"`
		MaxGapMs      int64 `yaml:"max_gap_ms"`
		MaxDurationMs int64 `yaml:"max_duration_ms"`
	} `yaml:"merge"`

	Translator struct {
		Endpoint    string        `yaml:"endpoint"`
		AuthURL     string        `yaml:"auth_url"`
		BatchSize   int           `yaml:"batch_size"`
		Timeout     time.Duration `yaml:"timeout"`
		AuthTimeout time.Duration `yaml:"auth_timeout"`
		DefaultTo   string        `yaml:"default_to"`
		DefaultFrom string        `yaml:"default_from"`
	} `yaml:"translator"`

	Cache struct {
		Backend string        `yaml:"backend"`
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // text | json

	ConfigVersion int `yaml:"config_version"`

	configFilePath string
	notices        []string
}

// Configuration par défaut (fallback si le fichier est absent ou incomplet)
func defaultConfig() *Config {
	c := &Config{}

	c.DefaultLang = "ko"

	c.Server.Listen = ":8000"
	c.Server.CORSOrigins = []string{"*"}
	c.Server.RequestTimeout = 2 * time.Minute

	// yt-dlp
	c.YtDlp.Name = "yt-dlp"
	c.YtDlp.Path = ""
	c.YtDlp.CookiesFile = "cookies.txt"
	c.YtDlp.ShowWarnings = false
	c.YtDlp.AutoUpdateCheck = false
	c.YtDlp.ExtractTimeout = time.Minute

	c.Fetch.Timeout = 10 * time.Second
	c.Fetch.MaxBytes = 10_000_000

	c.Merge.Enabled = true
	c.Merge.MaxGapMs = 1000
	c.Merge.MaxDurationMs = 8000

	c.Translator.Endpoint = "https://api-edge.cognitive.microsofttranslator.com/translate"
	c.Translator.AuthURL = "https://edge.microsoft.com/translate/auth"
	c.Translator.BatchSize = 50
	c.Translator.Timeout = 30 * time.Second
	c.Translator.AuthTimeout = 10 * time.Second
	c.Translator.DefaultTo = "vi"

	c.Cache.Backend = CacheMemory
	c.Cache.TTL = 10 * time.Minute
	c.Cache.Redis.Addr = "localhost:6379"
	c.Cache.Redis.Prefix = "subtrad:catalog:"

	c.LogLevel = "info"
	c.LogFormat = "text"

	c.ConfigVersion = CurrentConfigVersion

	return c
}

// Default retourne la configuration par défaut normalisée.
func Default() *Config {
	c := defaultConfig()
	c.normalizeConfig()
	return c
}

// Load lit la config. Un fichier absent n'est pas une erreur : on garde les valeurs
// par défaut (le bootstrap s'occupe de créer le fichier d'exemple).
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	cfg := defaultConfig()
	cfg.configFilePath = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg.normalizeConfig()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier de configuration %s impossible : %w", path, err)
	}

	// corriger les chemins Windows avec des backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	// les champs absents conservent les valeurs par défaut
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("analyse du fichier de configuration %s impossible : %w", path, err)
	}

	cfg.normalizeConfig()

	if cfg.ConfigVersion < CurrentConfigVersion {
		if err := orchestrateConfigUpgrade(cfg, cfg.ConfigVersion); err != nil {
			return nil, fmt.Errorf("échec de mise à niveau de la configuration : %w", err)
		}
		cfg.normalizeConfig()
	}

	return cfg, nil
}

// Path retourne le chemin du fichier d'où la config a été lue.
func (c *Config) Path() string {
	return c.configFilePath
}

func (c *Config) normalizeConfig() {
	c.DefaultLang = strings.TrimSpace(c.DefaultLang)
	if c.DefaultLang == "" {
		c.DefaultLang = "ko"
	}

	c.Server.Listen = strings.TrimSpace(c.Server.Listen)
	if c.Server.Listen == "" {
		c.Server.Listen = ":8000"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = 2 * time.Minute
	}

	c.YtDlp.CookiesFile = strings.TrimSpace(c.YtDlp.CookiesFile)
	if c.YtDlp.ExtractTimeout <= 0 {
		c.YtDlp.ExtractTimeout = time.Minute
	}

	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = 10 * time.Second
	}
	if c.Fetch.MaxBytes <= 0 {
		c.Fetch.MaxBytes = 10_000_000
	}

	if c.Merge.MaxGapMs < 0 {
		c.Merge.MaxGapMs = 1000
	}
	if c.Merge.MaxDurationMs <= 0 {
		c.Merge.MaxDurationMs = 8000
	}

	if c.Translator.BatchSize <= 0 {
		c.Translator.BatchSize = 50
	}
	if c.Translator.Timeout <= 0 {
		c.Translator.Timeout = 30 * time.Second
	}
	if c.Translator.AuthTimeout <= 0 {
		c.Translator.AuthTimeout = 10 * time.Second
	}
	c.Translator.DefaultTo = strings.TrimSpace(c.Translator.DefaultTo)
	if c.Translator.DefaultTo == "" {
		c.Translator.DefaultTo = "vi"
	}
	c.Translator.DefaultFrom = strings.TrimSpace(c.Translator.DefaultFrom)

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheNone
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 10 * time.Minute
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "json" {
		c.LogFormat = "text"
	}

	// centraliser la résolution/normalisation de yt-dlp
	c.ResolveYtDlpPath()
}

// ResolveYtDlpPath normalise le nom et résout le chemin complet vers l'exécutable.
// Appeler après avoir modifié cfg.YtDlp.Name ou cfg.YtDlp.Path.
// Path vide => ResolvedPath vide : yt-dlp est cherché dans le PATH.
func (c *Config) ResolveYtDlpPath() {
	if c == nil {
		return
	}

	c.YtDlp.Name = strings.TrimSpace(c.YtDlp.Name)
	if c.YtDlp.Name == "" {
		c.YtDlp.Name = "yt-dlp"
	}

	// ajoute .exe si nécessaire
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(c.YtDlp.Name), ".exe") {
		c.YtDlp.Name = c.YtDlp.Name + ".exe"
	}

	exeName := c.YtDlp.Name
	cfgPath := strings.TrimSpace(c.YtDlp.Path)
	if cfgPath == "" {
		c.YtDlp.ResolvedPath = ""
		return
	}
	cleanPath := filepath.Clean(cfgPath)

	// si le chemin fourni finit déjà par l'exécutable -> on l'utilise
	if filepath.Base(cleanPath) == exeName {
		c.YtDlp.ResolvedPath = cleanPath
	} else {
		// sinon on considère cfgPath comme un répertoire et on y joint l'exe
		c.YtDlp.ResolvedPath = filepath.Join(cleanPath, exeName)
	}
}

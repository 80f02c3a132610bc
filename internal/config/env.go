package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Préfixe des variables d'environnement qui surchargent le fichier YAML.
const EnvPrefix = "SUBTRAD_"

// ApplyEnv applique les surcharges SUBTRAD_* lues via getenv (os.Getenv en prod,
// une map en test). Retourne une erreur si une valeur numérique est invalide.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(EnvPrefix + key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v := strings.TrimSpace(getenv(EnvPrefix + key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s invalide %q: %w", EnvPrefix, key, v, err)
		}
		*dst = n
		return nil
	}

	str("LISTEN", &c.Server.Listen)
	str("DEFAULT_LANG", &c.DefaultLang)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("YTDLP_PATH", &c.YtDlp.Path)
	str("COOKIES_FILE", &c.YtDlp.CookiesFile)
	str("TRANSLATOR_TO", &c.Translator.DefaultTo)
	str("CACHE_BACKEND", &c.Cache.Backend)
	str("REDIS_ADDR", &c.Cache.Redis.Addr)
	str("REDIS_PASSWORD", &c.Cache.Redis.Password)
	str("REDIS_PREFIX", &c.Cache.Redis.Prefix)

	if err := num("REDIS_DB", &c.Cache.Redis.DB); err != nil {
		return err
	}
	if err := num("BATCH_SIZE", &c.Translator.BatchSize); err != nil {
		return err
	}
	if origins := strings.TrimSpace(getenv(EnvPrefix + "CORS_ORIGINS")); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}

	c.normalizeConfig()
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/patrickprogramme/subtrad/internal/api"
	"github.com/patrickprogramme/subtrad/internal/app"
	"github.com/patrickprogramme/subtrad/internal/assets"
	"github.com/patrickprogramme/subtrad/internal/bootstrap"
	"github.com/patrickprogramme/subtrad/internal/cache"
	"github.com/patrickprogramme/subtrad/internal/clipboard"
	"github.com/patrickprogramme/subtrad/internal/config"
	"github.com/patrickprogramme/subtrad/internal/fetch"
	"github.com/patrickprogramme/subtrad/internal/logger"
	"github.com/patrickprogramme/subtrad/internal/subtitles"
	"github.com/patrickprogramme/subtrad/internal/translate"
	"github.com/patrickprogramme/subtrad/internal/yt"
)

const (
	defaultUpdateTimeout   = 15 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	redisConnectTimeout    = 5 * time.Second
)

type cliFlags struct {
	ConfigPath string
	YtDlpPath  string
	LogLevel   string
	Serve      bool
	Listen     string
	app.CLIFlags
}

func main() {
	flags := parseFlags()

	// .env avant les overrides SUBTRAD_*
	envErr := godotenv.Load()

	if flags.ConfigPath == "" {
		flags.ConfigPath = config.DefaultConfigFile
	}
	created, bootErr := bootstrap.EnsureConfigPresent(flags.ConfigPath, assets.Embedded, assets.DefaultConfigAsset)

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chargement de la configuration : %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "variables d'environnement invalides : %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, flags)

	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat == "json")

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warnf("lecture de .env impossible : %v", envErr)
	}
	if bootErr != nil {
		log.Warnf("création du fichier de configuration impossible : %v", bootErr)
	} else if created {
		log.Infof("fichier de configuration créé : %s", flags.ConfigPath)
	}
	for _, n := range cfg.Notices() {
		log.Infof("%s", n)
	}

	if err := validate(cfg, log); err != nil {
		log.Errorf("configuration invalide : %v", err)
		os.Exit(1)
	}

	// root context qui s'annule sur SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flags, log); err != nil {
		log.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}

func parseFlags() *cliFlags {
	f := &cliFlags{}
	flag.StringVar(&f.ConfigPath, "config", "", "path to config file (default "+config.DefaultConfigFile+")")
	flag.StringVar(&f.YtDlpPath, "yt-dlp-path", "", "chemin absolu vers l'exécutable yt-dlp")
	flag.StringVar(&f.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.BoolVar(&f.Serve, "serve", false, "run the HTTP API")
	flag.StringVar(&f.Listen, "listen", "", "HTTP listen address (default from config)")
	flag.StringVar(&f.URL, "url", "", "YouTube URL or video id (default: clipboard)")
	flag.StringVar(&f.Lang, "lang", "", "subtitle language (default from config)")
	flag.StringVar(&f.To, "to", "", "translate merged subtitles to this language")
	flag.StringVar(&f.From, "from", "", "source language for translation (empty: auto-detect)")
	flag.BoolVar(&f.Copy, "copy", false, "copy the JSON result to the clipboard")
	flag.Parse()
	return f
}

// applyFlags : les flags passent devant le fichier et l'environnement.
func applyFlags(cfg *config.Config, f *cliFlags) {
	if f.YtDlpPath != "" {
		cfg.YtDlp.Path = f.YtDlpPath
		cfg.ResolveYtDlpPath()
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.Listen != "" {
		cfg.Server.Listen = f.Listen
	}
}

func validate(cfg *config.Config, log logger.Logger) error {
	warnings, err := cfg.ValidateYtDlpPresence()
	if err != nil {
		return err
	}
	more, err := cfg.Validate()
	if err != nil {
		return err
	}
	for _, w := range append(warnings, more...) {
		log.Warnf("%s", w)
	}
	return nil
}

func run(ctx context.Context, cfg *config.Config, flags *cliFlags, log logger.Logger) error {
	dl, version, err := yt.InitYtDlp(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialisation de yt-dlp : %w", err)
	}
	log.Infof("yt-dlp %s", version)

	fetcher := fetch.New(fetch.NewPooledClient(cfg.Fetch.Timeout), fetch.Options{
		Timeout:   cfg.Fetch.Timeout,
		MaxBytes:  cfg.Fetch.MaxBytes,
		UserAgent: cfg.Fetch.UserAgent,
	})

	if cfg.YtDlp.AutoUpdateCheck {
		uctx, cancel := context.WithTimeout(ctx, defaultUpdateTimeout)
		if err := app.YtDlpUpdateCheck(uctx, fetcher, version, log); err != nil {
			log.Warnf("%v", err)
		}
		cancel()
	}

	catalogs := newCatalogCache(ctx, cfg, log)
	defer catalogs.Close()

	// un seul cache de jeton pour tout le processus
	tokens := translate.NewTokenCache()
	trClient := fetch.NewPooledClient(cfg.Translator.Timeout)
	auth := translate.NewEdgeAuth(trClient, cfg.Translator.AuthURL, cfg.Translator.AuthTimeout, log)
	provider := translate.NewMicrosoft(trClient, cfg.Translator.Endpoint, tokens, auth, log)
	batched := translate.NewBatched(provider, cfg.Translator.BatchSize, cfg.Translator.Timeout, log)
	batched.OnProgress = func(done, total int) {
		log.Debugf("traduction : %d/%d", done, total)
	}

	a := app.New(
		cache.NewCachedSource(dl, catalogs, log),
		fetcher,
		subtitles.NewRegistry(),
		batched,
		app.Options{
			DefaultLang:  cfg.DefaultLang,
			DefaultTo:    cfg.Translator.DefaultTo,
			DefaultFrom:  cfg.Translator.DefaultFrom,
			MergeEnabled: cfg.Merge.Enabled,
			Merge: subtitles.MergeOptions{
				MaxGapMs:      cfg.Merge.MaxGapMs,
				MaxDurationMs: cfg.Merge.MaxDurationMs,
			},
		},
		log,
	)

	if flags.Serve {
		return serve(ctx, cfg, a, log)
	}

	var clip clipboard.Interface = clipboard.System{}
	if clipboard.Unsupported() {
		log.Warnf("presse-papier indisponible sur ce système")
		clip = nil
	}
	if err := a.RunCLI(ctx, flags.CLIFlags, clip, os.Stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("opération annulée")
		}
		return err
	}
	return nil
}

func newCatalogCache(ctx context.Context, cfg *config.Config, log logger.Logger) cache.CatalogCache {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.Noop{}
	case config.CacheRedis:
		rctx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
		defer cancel()
		r, err := cache.ConnectRedis(rctx, cache.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
			TTL:      cfg.Cache.TTL,
		})
		if err == nil {
			log.Infof("cache des catalogues : redis %s", cfg.Cache.Redis.Addr)
			return r
		}
		log.Errorf("%v ; repli sur le cache mémoire", err)
	}

	m := cache.NewMemory(cfg.Cache.TTL, log)
	m.Start(cfg.Cache.TTL)
	return m
}

func serve(ctx context.Context, cfg *config.Config, a *app.App, log logger.Logger) error {
	server := &http.Server{
		Addr: cfg.Server.Listen,
		Handler: api.New(a, api.Options{
			CORSOrigins:    cfg.Server.CORSOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
		}, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("serveur démarré sur %s", cfg.Server.Listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("écoute sur %s impossible : %w", cfg.Server.Listen, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Infof("arrêt du serveur...")

	sctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(sctx); err != nil {
		return fmt.Errorf("arrêt du serveur en échec : %w", err)
	}
	log.Infof("serveur arrêté proprement")
	return nil
}

// Package cache garde les catalogues de pistes déjà extraits, pour éviter de
// relancer yt-dlp à chaque requête sur la même vidéo.
package cache

import (
	"context"

	"github.com/patrickprogramme/subtrad/internal/logger"
	"github.com/patrickprogramme/subtrad/pkg/model"
)

// CatalogCache stocke des catalogues par identifiant vidéo.
// Get retourne found=false pour une entrée absente ou expirée.
type CatalogCache interface {
	Get(ctx context.Context, videoID string) (cat *model.Catalog, found bool, err error)
	Set(ctx context.Context, videoID string, cat *model.Catalog) error
	Close() error
}

// Source fournit un catalogue (yt.CatalogSource).
type Source interface {
	Catalog(ctx context.Context, videoID string) (*model.Catalog, error)
}

// CachedSource interroge le cache avant la source. Une panne du cache est
// journalisée et n'empêche jamais l'extraction.
type CachedSource struct {
	src   Source
	cache CatalogCache
	log   logger.Logger
}

func NewCachedSource(src Source, c CatalogCache, log logger.Logger) *CachedSource {
	if c == nil {
		c = Noop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedSource{src: src, cache: c, log: log}
}

func (s *CachedSource) Catalog(ctx context.Context, videoID string) (*model.Catalog, error) {
	cat, found, err := s.cache.Get(ctx, videoID)
	switch {
	case err != nil:
		s.log.Warnf("cache catalogue indisponible (%s) : %v", videoID, err)
	case found:
		s.log.Debugf("catalogue %s servi depuis le cache", videoID)
		return cat, nil
	}

	cat, err = s.src.Catalog(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, videoID, cat); err != nil {
		s.log.Warnf("mise en cache du catalogue %s impossible : %v", videoID, err)
	}
	return cat, nil
}

// Noop ne garde rien.
type Noop struct{}

func (Noop) Get(context.Context, string) (*model.Catalog, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, string, *model.Catalog) error {
	return nil
}

func (Noop) Close() error {
	return nil
}

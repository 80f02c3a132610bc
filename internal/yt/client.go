package yt

import (
	"context"

	"github.com/patrickprogramme/subtrad/pkg/model"
)

// Interface est l'abstraction du binaire yt-dlp. Elle autorise une implémentation
// factice dans les tests.
type Interface interface {
	CheckBinary() error
	GetVersion(ctx context.Context) (string, error)
	ExtractRaw(ctx context.Context, url string) (*ExtractedRaw, error)
}

// CatalogSource fournit le catalogue de pistes d'une vidéo.
// Erreurs : *model.Error KindNotFound ou KindExtraction.
type CatalogSource interface {
	Catalog(ctx context.Context, videoID string) (*model.Catalog, error)
}

// Package api expose le pipeline en HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/patrickprogramme/subtrad/internal/app"
	"github.com/patrickprogramme/subtrad/internal/logger"
	"github.com/patrickprogramme/subtrad/pkg/model"
)

// Service est implémenté par *app.App.
type Service interface {
	Subtitles(ctx context.Context, req app.SubtitlesRequest) (*app.SubtitlesResult, error)
	TranslateSegments(ctx context.Context, segs []model.Segment, to, from string) (*app.TranslationResult, error)
	TranslateTexts(ctx context.Context, texts []string, to, from string) (*app.TextsResult, error)
}

type Options struct {
	CORSOrigins    []string // vide ou "*" : toutes les origines
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

const defaultMaxBodyBytes = 10 << 20

type API struct {
	svc  Service
	opts Options
	log  logger.Logger
}

func New(svc Service, opts Options, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	api := &API{svc: svc, opts: opts, log: log}

	r := mux.NewRouter()
	r.HandleFunc("/subtitles", api.handleSubtitles).Methods(http.MethodGet)
	r.HandleFunc("/translate-subtitles", api.handleTranslateSubtitles).Methods(http.MethodPost)
	r.HandleFunc("/translate", api.handleTranslate).Methods(http.MethodPost)
	r.HandleFunc("/health", api.handleHealth).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "invalid", "Method Not Allowed")
	})

	r.Use(api.requestID, api.accessLog, api.timeout)

	// CORS en dehors du routeur : les pré-requêtes OPTIONS ne correspondent à aucune route.
	return api.cors(r)
}

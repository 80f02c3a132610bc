// Package fetch télécharge des ressources HTTP (pistes de sous-titres, JSON de release)
// avec timeout, limite de taille et User-Agent navigateur.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickprogramme/subtrad/pkg/model"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMaxBytes  = 10_000_000
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// taille max du corps amont recopiée dans une FetchError
	ErrorBodyLimit = 200
)

var ErrTooLarge = errors.New("response body too large")

// Options règle un Fetcher. Les valeurs nulles prennent les défauts.
type Options struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

// Fetcher télécharge des URL avec un client HTTP partagé.
type Fetcher struct {
	client *http.Client
	opts   Options
}

// New crée un Fetcher. client nil => http.DefaultClient.
func New(client *http.Client, opts Options) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Fetcher{client: client, opts: opts}
}

// Bytes télécharge rawURL et retourne le corps.
// Un statut hors 2xx retourne une *model.Error KindFetch avec le statut et les
// ErrorBodyLimit premiers caractères du corps.
func (f *Fetcher) Bytes(ctx context.Context, rawURL string) ([]byte, error) {
	resp, cancel, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4*ErrorBodyLimit))
		return nil, model.NewFetchError(resp.StatusCode, Truncate(string(snippet), ErrorBodyLimit))
	}

	// si Content-Length connu et supérieur à maxBytes -> échouer vite
	if resp.ContentLength > 0 && resp.ContentLength > f.opts.MaxBytes {
		return nil, fmt.Errorf("fetch: content-length %d exceeds limit %d: %w", resp.ContentLength, f.opts.MaxBytes, ErrTooLarge)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBytes+1)) // +1 pour détecter dépassement
	if err != nil {
		return nil, &model.Error{Kind: model.KindFetch, Msg: "read body", Err: err}
	}
	if int64(len(data)) > f.opts.MaxBytes {
		return nil, fmt.Errorf("fetch: body too large (>%d bytes): %w", f.opts.MaxBytes, ErrTooLarge)
	}
	return data, nil
}

// get prépare et exécute la requête. L'appelant doit appeler cancel après lecture du corps.
func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, context.CancelFunc, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	// valider l'URL tôt
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, nil, fmt.Errorf("fetch: invalid url %q: %w", rawURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("fetch: new request: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		cancel()
		return nil, nil, &model.Error{Kind: model.KindFetch, Msg: "request failed", Err: err}
	}
	return resp, cancel, nil
}

// Truncate coupe s à n runes au plus.
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

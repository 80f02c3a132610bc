package translate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/patrickprogramme/subtrad/internal/fetch"
	"github.com/patrickprogramme/subtrad/internal/logger"
	"github.com/patrickprogramme/subtrad/pkg/model"
)

const (
	DefaultAuthURL     = "https://edge.microsoft.com/translate/auth"
	DefaultAuthTimeout = 10 * time.Second

	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36"
	youtubeOrigin    = "https://www.youtube.com"
)

// TokenCache garde le jeton du traducteur pour tout le processus.
// Remplacement atomique ; invalidé seulement après un refus du fournisseur.
type TokenCache struct {
	p atomic.Pointer[string]
}

func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

// Get retourne le jeton en cache, false si aucun.
func (c *TokenCache) Get() (string, bool) {
	if t := c.p.Load(); t != nil {
		return *t, true
	}
	return "", false
}

func (c *TokenCache) Set(token string) {
	c.p.Store(&token)
}

func (c *TokenCache) Invalidate() {
	c.p.Store(nil)
}

// TokenSource obtient un nouveau jeton auprès du fournisseur.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// EdgeAuth récupère le jeton gratuit du traducteur intégré à Edge.
type EdgeAuth struct {
	client  *http.Client
	url     string
	timeout time.Duration
	log     logger.Logger
}

func NewEdgeAuth(client *http.Client, authURL string, timeout time.Duration, log logger.Logger) *EdgeAuth {
	if client == nil {
		client = http.DefaultClient
	}
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	if timeout <= 0 {
		timeout = DefaultAuthTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &EdgeAuth{client: client, url: authURL, timeout: timeout, log: log}
}

// Token : GET sur l'URL d'auth, le corps (trimé) est le jeton.
// Tout échec devient une erreur KindAuth.
func (a *EdgeAuth) Token(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return "", fmt.Errorf("auth: new request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Origin", youtubeOrigin)
	req.Header.Set("Referer", youtubeOrigin+"/")

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Errorf("récupération du jeton impossible : %v", err)
		return "", &model.Error{Kind: model.KindAuth, Msg: "Failed to get translation token", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", &model.Error{Kind: model.KindAuth, Msg: "Failed to get translation token", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		a.log.Errorf("jeton refusé : statut %d", resp.StatusCode)
		return "", &model.Error{Kind: model.KindAuth, Msg: "Failed to get translation token", Status: resp.StatusCode,
			Body: fetch.Truncate(string(body), fetch.ErrorBodyLimit)}
	}

	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", model.NewAuthError("Failed to get translation token: empty token", resp.StatusCode)
	}
	a.log.Debugf("jeton obtenu : %s...", fetch.Truncate(token, 12))
	return token, nil
}

package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/patrickprogramme/subtrad/internal/fetch"
	"github.com/patrickprogramme/subtrad/internal/logger"
	"github.com/patrickprogramme/subtrad/pkg/model"
)

const (
	DefaultEndpoint = "https://api-edge.cognitive.microsofttranslator.com/translate"
	apiVersion      = "3.0"

	maxResponseBytes = 10 << 20
)

type msRequestItem struct {
	Text string `json:"Text"`
}

type msResponseItem struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

// Microsoft traduit un lot via l'API Microsoft Translator (jeton Edge).
// Un 401 invalide le jeton, en obtient un nouveau et rejoue le lot une seule fois.
type Microsoft struct {
	client   *http.Client
	endpoint string
	tokens   *TokenCache
	auth     TokenSource
	log      logger.Logger
}

func NewMicrosoft(client *http.Client, endpoint string, tokens *TokenCache, auth TokenSource, log logger.Logger) *Microsoft {
	if client == nil {
		client = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if tokens == nil {
		tokens = NewTokenCache()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Microsoft{client: client, endpoint: endpoint, tokens: tokens, auth: auth, log: log}
}

// TranslateBatch implémente BatchTranslator.
// Erreurs : KindAuth (jeton indisponible ou refusé deux fois), KindProvider (autre statut, réponse illisible).
func (m *Microsoft) TranslateBatch(ctx context.Context, texts []string, to, from string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	items := make([]msRequestItem, len(texts))
	for i, t := range texts {
		items[i] = msRequestItem{Text: t}
	}
	body, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	token, err := m.token(ctx)
	if err != nil {
		return nil, err
	}
	status, data, err := m.post(ctx, token, to, from, body)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		m.log.Warnf("jeton expiré, renouvellement")
		m.tokens.Invalidate()
		if token, err = m.token(ctx); err != nil {
			return nil, err
		}
		if status, data, err = m.post(ctx, token, to, from, body); err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			m.tokens.Invalidate()
			return nil, &model.Error{Kind: model.KindAuth, Msg: "Translation failed: token rejected", Status: status,
				Body: fetch.Truncate(string(data), fetch.ErrorBodyLimit)}
		}
	}

	if status != http.StatusOK {
		return nil, model.NewProviderError("Translation failed", status, fetch.Truncate(string(data), fetch.ErrorBodyLimit), nil)
	}

	var result []msResponseItem
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, model.NewProviderError("Translation failed: invalid response", status, "", err)
	}
	out := make([]string, 0, len(result))
	for i, item := range result {
		if len(item.Translations) == 0 {
			return nil, model.NewProviderError(fmt.Sprintf("Translation failed: no translation for item %d", i), status, "", nil)
		}
		out = append(out, item.Translations[0].Text)
	}
	return out, nil
}

// token retourne le jeton en cache ou en obtient un nouveau.
func (m *Microsoft) token(ctx context.Context) (string, error) {
	if t, ok := m.tokens.Get(); ok {
		return t, nil
	}
	if m.auth == nil {
		return "", model.NewAuthError("Failed to get translation token: no token source", 0)
	}
	t, err := m.auth.Token(ctx)
	if err != nil {
		return "", err
	}
	m.tokens.Set(t)
	return t, nil
}

func (m *Microsoft) post(ctx context.Context, token, to, from string, body []byte) (int, []byte, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	q.Set("api-version", apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("translate: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Referer", youtubeOrigin+"/")

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, nil, model.NewProviderError("Translation request failed", 0, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, model.NewProviderError("Translation response unreadable", resp.StatusCode, "", err)
	}
	return resp.StatusCode, data, nil
}

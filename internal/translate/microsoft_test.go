package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/subtrad/internal/logger"
	"github.com/patrickprogramme/subtrad/pkg/model"
)

// fakeProvider simule l'URL d'auth et l'API de traduction.
type fakeProvider struct {
	authCalls      atomic.Int32
	translateCalls atomic.Int32

	authStatus int
	// reject(appel n°, jeton) => true pour répondre 401
	reject func(call int32, token string) bool
	status int // statut forcé hors 401 (0 => 200)

	lastQuery   atomic.Value
	lastReferer atomic.Value
}

func (f *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		n := f.authCalls.Add(1)
		if f.authStatus != 0 {
			w.WriteHeader(f.authStatus)
			return
		}
		fmt.Fprintf(w, " tok%d\n", n)
	})
	mux.HandleFunc("/translate", func(w http.ResponseWriter, r *http.Request) {
		n := f.translateCalls.Add(1)
		f.lastQuery.Store(r.URL.Query())
		f.lastReferer.Store(r.Header.Get("Referer"))
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if f.reject != nil && f.reject(n, token) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"code":401000}}`))
			return
		}
		if f.status != 0 {
			w.WriteHeader(f.status)
			w.Write([]byte(`{"error":{"code":400036,"message":"The target language is not valid."}}`))
			return
		}
		var items []msRequestItem
		if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		to := r.URL.Query().Get("to")
		resp := make([]map[string]any, len(items))
		for i, it := range items {
			resp[i] = map[string]any{"translations": []map[string]string{{"text": "[" + to + "]" + it.Text, "to": to}}}
		}
		json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeProvider) (*Microsoft, *TokenCache) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	cache := NewTokenCache()
	auth := NewEdgeAuth(srv.Client(), srv.URL+"/auth", time.Second, logger.Nop())
	return NewMicrosoft(srv.Client(), srv.URL+"/translate", cache, auth, logger.Nop()), cache
}

func TestMicrosoft_TranslateBatch(t *testing.T) {
	f := &fakeProvider{}
	m, cache := newTestClient(t, f)

	got, err := m.TranslateBatch(context.Background(), []string{"안녕", "세계"}, "vi", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"[vi]안녕", "[vi]세계"}, got)

	q := f.lastQuery.Load().(url.Values)
	assert.Equal(t, []string{"vi"}, q["to"])
	assert.Equal(t, []string{""}, q["from"])
	assert.Equal(t, []string{"3.0"}, q["api-version"])
	assert.Equal(t, "https://www.youtube.com/", f.lastReferer.Load())

	tok, ok := cache.Get()
	assert.True(t, ok)
	assert.Equal(t, "tok1", tok)

	// le jeton est réutilisé
	_, err = m.TranslateBatch(context.Background(), []string{"x"}, "vi", "ko")
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.authCalls.Load())
}

func TestMicrosoft_EmptyBatchNoNetwork(t *testing.T) {
	f := &fakeProvider{}
	m, _ := newTestClient(t, f)
	got, err := m.TranslateBatch(context.Background(), nil, "vi", "")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(0), f.authCalls.Load())
	assert.Equal(t, int32(0), f.translateCalls.Load())
}

func TestMicrosoft_RetryOnceOn401(t *testing.T) {
	f := &fakeProvider{reject: func(call int32, token string) bool { return token == "tok1" }}
	m, cache := newTestClient(t, f)

	got, err := m.TranslateBatch(context.Background(), []string{"a"}, "en", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"[en]a"}, got)
	assert.Equal(t, int32(2), f.authCalls.Load())
	assert.Equal(t, int32(2), f.translateCalls.Load())

	tok, _ := cache.Get()
	assert.Equal(t, "tok2", tok)
}

func TestMicrosoft_SecondRejectionIsAuthError(t *testing.T) {
	f := &fakeProvider{reject: func(int32, string) bool { return true }}
	m, cache := newTestClient(t, f)

	_, err := m.TranslateBatch(context.Background(), []string{"a"}, "en", "")
	require.Error(t, err)
	assert.Equal(t, model.KindAuth, model.KindOf(err))
	// une seule nouvelle tentative
	assert.Equal(t, int32(2), f.translateCalls.Load())
	assert.Equal(t, int32(2), f.authCalls.Load())
	_, ok := cache.Get()
	assert.False(t, ok)
}

func TestMicrosoft_NoToken(t *testing.T) {
	f := &fakeProvider{authStatus: http.StatusTooManyRequests}
	m, _ := newTestClient(t, f)

	_, err := m.TranslateBatch(context.Background(), []string{"a"}, "en", "")
	require.Error(t, err)
	assert.Equal(t, model.KindAuth, model.KindOf(err))
	assert.Equal(t, int32(0), f.translateCalls.Load())
}

func TestMicrosoft_ProviderError(t *testing.T) {
	f := &fakeProvider{status: http.StatusBadRequest}
	m, _ := newTestClient(t, f)

	_, err := m.TranslateBatch(context.Background(), []string{"a"}, "xx", "")
	require.Error(t, err)
	e, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindProvider, e.Kind)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Contains(t, e.Body, "target language")
}

// lots de 1 : le 2e lot est refusé une fois puis accepté après renouvellement du jeton
func TestBatchedMicrosoft_AuthRetryMidway(t *testing.T) {
	f := &fakeProvider{reject: func(call int32, token string) bool { return call == 2 }}
	m, _ := newTestClient(t, f)
	b := NewBatched(m, 1, time.Second, logger.Nop())

	got, err := b.TranslateTexts(context.Background(), []string{"a", "b", "c"}, "vi", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"[vi]a", "[vi]b", "[vi]c"}, got)
	assert.Equal(t, int32(4), f.translateCalls.Load())
	assert.Equal(t, int32(2), f.authCalls.Load())
}

// le 2e lot est refusé deux fois : échec global, aucun résultat partiel
func TestBatchedMicrosoft_AuthRetryFails(t *testing.T) {
	f := &fakeProvider{reject: func(call int32, token string) bool { return call == 2 || call == 3 }}
	m, _ := newTestClient(t, f)
	b := NewBatched(m, 1, time.Second, logger.Nop())

	got, err := b.TranslateTexts(context.Background(), []string{"a", "b", "c"}, "vi", "")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, model.KindAuth, model.KindOf(err))
	// le 3e lot n'est pas envoyé
	assert.Equal(t, int32(3), f.translateCalls.Load())
}

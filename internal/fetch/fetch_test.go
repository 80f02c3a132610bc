package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/subtrad/pkg/model"
)

func TestBytes_OK(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{"events":[]}`))
	}))
	defer srv.Close()

	f := New(srv.Client(), Options{})
	data, err := f.Bytes(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, `{"events":[]}`, string(data))
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestBytes_StatusError(t *testing.T) {
	long := strings.Repeat("x", 500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(long))
	}))
	defer srv.Close()

	_, err := New(srv.Client(), Options{}).Bytes(context.Background(), srv.URL)
	require.Error(t, err)

	e, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindFetch, e.Kind)
	assert.Equal(t, http.StatusForbidden, e.Status)
	assert.Len(t, e.Body, ErrorBodyLimit)
}

func TestBytes_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 64)))
	}))
	defer srv.Close()

	_, err := New(srv.Client(), Options{MaxBytes: 10}).Bytes(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestBytes_InvalidURL(t *testing.T) {
	_, err := New(nil, Options{}).Bytes(context.Background(), "::not a url")
	assert.Error(t, err)
}

func TestFetchJSON(t *testing.T) {
	type release struct {
		TagName string `json:"tag_name"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name":"2025.10.22"}`))
	}))
	defer srv.Close()

	rel, err := FetchJSON[release](context.Background(), New(srv.Client(), Options{}), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "2025.10.22", rel.TagName)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "한국", Truncate("한국어", 2))
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/patrickprogramme/subtrad/internal/app"
	"github.com/patrickprogramme/subtrad/pkg/model"
)

type translateSubtitlesRequest struct {
	Subtitles []model.Segment `json:"subtitles"`
	ToLang    string          `json:"to_lang"`
	FromLang  string          `json:"from_lang"`
}

type translateRequest struct {
	Texts    []string `json:"texts"`
	ToLang   string   `json:"to_lang"`
	FromLang string   `json:"from_lang"`
}

// GET /subtitles?video_id=...&lang=ko[&merge=false&max_gap_ms=&max_duration_ms=&include_mapping=true&translate_to=vi&from_lang=]
func (a *API) handleSubtitles(w http.ResponseWriter, r *http.Request) {
	req, err := subtitlesRequestFromQuery(r.URL.Query())
	if err != nil {
		a.fail(w, r, err)
		return
	}

	res, err := a.svc.Subtitles(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func subtitlesRequestFromQuery(q url.Values) (app.SubtitlesRequest, error) {
	req := app.SubtitlesRequest{
		VideoID:     q.Get("video_id"),
		Lang:        q.Get("lang"),
		TranslateTo: q.Get("translate_to"),
		From:        q.Get("from_lang"),
	}
	if req.VideoID == "" {
		return req, model.Invalidf("video_id is required")
	}

	if v := q.Get("merge"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, model.Invalidf("merge: invalid boolean %q", v)
		}
		req.Merge = &b
	}
	if v := q.Get("include_mapping"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, model.Invalidf("include_mapping: invalid boolean %q", v)
		}
		req.IncludeMapping = b
	}

	var err error
	if req.MaxGapMs, err = nonNegativeInt(q, "max_gap_ms"); err != nil {
		return req, err
	}
	if req.MaxDurationMs, err = nonNegativeInt(q, "max_duration_ms"); err != nil {
		return req, err
	}
	return req, nil
}

// nonNegativeInt lit un entier >= 0 ; absent => nil (valeur par défaut du service).
func nonNegativeInt(q url.Values, key string) (*int64, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return nil, model.Invalidf("%s: expected a non-negative integer, got %q", key, v)
	}
	return &n, nil
}

// POST /translate-subtitles {"subtitles":[...], "to_lang":"vi", "from_lang":""}
func (a *API) handleTranslateSubtitles(w http.ResponseWriter, r *http.Request) {
	var body translateSubtitlesRequest
	if err := a.decodeBody(w, r, &body); err != nil {
		a.fail(w, r, err)
		return
	}

	res, err := a.svc.TranslateSegments(r.Context(), body.Subtitles, body.ToLang, body.FromLang)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /translate {"texts":[...], "to_lang":"vi", "from_lang":""}
func (a *API) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var body translateRequest
	if err := a.decodeBody(w, r, &body); err != nil {
		a.fail(w, r, err)
		return
	}

	res, err := a.svc.TranslateTexts(r.Context(), body.Texts, body.ToLang, body.FromLang)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, a.opts.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.Invalidf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return &model.Error{Kind: model.KindInvalid, Msg: "invalid JSON body", Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

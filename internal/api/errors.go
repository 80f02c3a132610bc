package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/patrickprogramme/subtrad/pkg/model"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

// StatusFor traduit une erreur du pipeline en statut HTTP.
func StatusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	e, ok := model.AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case model.KindInvalid:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindFetch, model.KindProvider:
		if e.Status >= 400 && e.Status <= 599 {
			return e.Status
		}
		return http.StatusBadGateway
	case model.KindAuth:
		// jeton refusé par le fournisseur : on ne renvoie pas 401 au client
		if e.Status == http.StatusUnauthorized {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, detail string) {
	writeJSON(w, status, errorResponse{Success: false, Error: kind, Detail: detail})
}

// fail journalise et renvoie l'erreur du pipeline.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	kind := model.KindOf(err).String()
	log := a.logFor(r)
	if status >= 500 {
		log.Errorf("%s %s : %v", r.Method, r.URL.Path, err)
	} else {
		log.Debugf("%s %s : %v", r.Method, r.URL.Path, err)
	}
	writeError(w, status, kind, detail(err))
}

// detail ajoute le corps amont tronqué au message, s'il existe.
func detail(err error) string {
	msg := err.Error()
	if e, ok := model.AsError(err); ok && e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

package model

import (
	"errors"
	"fmt"
)

// Kind classe les erreurs du pipeline. La façade HTTP choisit le statut à partir du Kind.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalid
	KindNotFound
	KindExtraction
	KindFetch
	KindParse
	KindAuth
	KindProvider
	KindCountMismatch
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindExtraction:
		return "extraction_error"
	case KindFetch:
		return "fetch_error"
	case KindParse:
		return "parse_error"
	case KindAuth:
		return "auth_error"
	case KindProvider:
		return "provider_error"
	case KindCountMismatch:
		return "count_mismatch"
	default:
		return "unknown"
	}
}

// ErrNotFound est la cause commune des erreurs KindNotFound (errors.Is).
var ErrNotFound = errors.New("not found")

// Error porte le Kind, un message lisible et, pour les erreurs HTTP amont,
// le statut et un extrait du corps de la réponse.
type Error struct {
	Kind   Kind
	Msg    string
	Status int    // statut HTTP amont, 0 si non applicable
	Body   string // corps amont tronqué
	Err    error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil && e.Err != ErrNotFound {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf retourne le Kind de la première *Error trouvée dans la chaîne, KindUnknown sinon.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// AsError retourne la première *Error de la chaîne.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...), Err: ErrNotFound}
}

func Invalidf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Msg: fmt.Sprintf(format, args...)}
}

func NewExtractionError(err error) *Error {
	return &Error{Kind: KindExtraction, Msg: "YouTube extraction error", Err: err}
}

func NewFetchError(status int, body string) *Error {
	return &Error{Kind: KindFetch, Msg: "failed to fetch subtitle content", Status: status, Body: body}
}

func NewParseError(err error) *Error {
	return &Error{Kind: KindParse, Msg: "cannot parse structured captions", Err: err}
}

func NewAuthError(msg string, status int) *Error {
	return &Error{Kind: KindAuth, Msg: msg, Status: status}
}

func NewProviderError(msg string, status int, body string, err error) *Error {
	return &Error{Kind: KindProvider, Msg: msg, Status: status, Body: body, Err: err}
}

func NewCountMismatch(got, want int) *Error {
	return &Error{Kind: KindCountMismatch, Msg: fmt.Sprintf("translation count mismatch: %d != %d", got, want)}
}

package yt

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	ytRegex = regexp.MustCompile(`(?i)https?://(www\.|m\.)?(youtube\.com/(watch\?|shorts/|embed/)|youtu\.be/)`)
	idRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

func IsYouTubeURL(s string) bool {
	return ytRegex.MatchString(s)
}

// IsVideoID vérifie la forme d'un identifiant vidéo (11 caractères [A-Za-z0-9_-]).
func IsVideoID(s string) bool {
	return idRegex.MatchString(s)
}

// VideoURL construit l'URL watch d'un identifiant.
func VideoURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// ExtractVideoID accepte un identifiant nu ou une URL YouTube et retourne l'identifiant.
func ExtractVideoID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if IsVideoID(s) {
		return s, true
	}
	if !IsYouTubeURL(s) {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}

	var id string
	switch {
	case strings.EqualFold(u.Host, "youtu.be"):
		id = strings.Trim(u.Path, "/")
	case strings.HasPrefix(u.Path, "/shorts/"), strings.HasPrefix(u.Path, "/embed/"):
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) >= 2 {
			id = parts[1]
		}
	default:
		id = u.Query().Get("v")
	}
	if !IsVideoID(id) {
		return "", false
	}
	return id, true
}

package fetch

import (
	"net/http"
	"time"
)

// NewPooledClient crée un client HTTP avec pool de connexions, à partager entre
// les requêtes vers un même hôte (pistes YouTube, traducteur).
// Le timeout par requête est géré par contexte ; Timeout ici est un garde-fou global.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

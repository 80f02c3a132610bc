package clipboard

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

// Interface permet de substituer le presse-papier système dans les tests.
type Interface interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// System utilise le presse-papier de l'OS.
type System struct{}

// ReadAll lit le contenu texte du presse-papier, sans les espaces en bordure.
func (System) ReadAll() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// WriteAll écrit une chaîne de caractères dans le presse-papier.
// Retourne une erreur si l'opération échoue.
func (System) WriteAll(text string) error {
	if text == "" {
		return errors.New("le texte à copier ne peut pas être vide")
	}
	return clipboard.WriteAll(text)
}

// Unsupported indique si aucun utilitaire de presse-papier n'est disponible
// (xclip/xsel absents sous Linux par exemple).
func Unsupported() bool {
	return clipboard.Unsupported
}

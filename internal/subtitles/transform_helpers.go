package subtitles

import (
	"unicode"
	"unicode/utf8"
)

// ponctuation de fin de phrase, formes ASCII, pleine chasse et points de suspension
func isSentenceTerminatorRune(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？', '…':
		return true
	}
	return false
}

// lastNonSpaceRune retourne la dernière rune qui n'est pas un espace, et true si trouvée.
func lastNonSpaceRune(s string) (rune, bool) {
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[:len(s)-1] // octet invalide, drop + continue
			continue
		}
		if !unicode.IsSpace(r) {
			return r, true
		}
		s = s[:len(s)-size]
	}
	return 0, false
}

// endsSentence indique si s, trimé, se termine par une ponctuation de fin de phrase.
func endsSentence(s string) bool {
	r, ok := lastNonSpaceRune(s)
	return ok && isSentenceTerminatorRune(r)
}

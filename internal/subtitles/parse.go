package subtitles

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseJSON3Bytes parse un blob json3 déjà en mémoire.
// Les champs non mappés sont ignorés (pas de DisallowUnknownFields).
func ParseJSON3Bytes(b []byte) (rawJSON3, error) {
	var raw rawJSON3
	if len(bytes.TrimSpace(b)) == 0 {
		return raw, fmt.Errorf("ParseJSON3Bytes: empty input")
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&raw); err != nil {
		return raw, fmt.Errorf("ParseJSON3Bytes: decode error: %w", err)
	}
	return raw, nil
}

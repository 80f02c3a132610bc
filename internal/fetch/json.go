package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// countingReader compte le nombre d'octets lus via Read.
type countingReader struct {
	R io.Reader
	N int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.R.Read(p)
	if n > 0 {
		c.N += int64(n)
	}
	return n, err
}

// JSONInto télécharge rawURL et décode le JSON directement dans dst (pointeur).
// Le décodage se fait en streaming sur un reader limité; un dépassement de MaxBytes
// est détecté via le compteur.
func (f *Fetcher) JSONInto(ctx context.Context, rawURL string, dst any) error {
	resp, cancel, err := f.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetch json: unexpected http status %s", resp.Status)
	}
	if resp.ContentLength > 0 && resp.ContentLength > f.opts.MaxBytes {
		return fmt.Errorf("fetch json: content-length %d exceeds limit %d: %w", resp.ContentLength, f.opts.MaxBytes, ErrTooLarge)
	}

	cr := &countingReader{R: io.LimitReader(resp.Body, f.opts.MaxBytes+1)}
	if err := json.NewDecoder(cr).Decode(dst); err != nil {
		return fmt.Errorf("fetch json: decode: %w", err)
	}
	if cr.N > f.opts.MaxBytes {
		return ErrTooLarge
	}
	return nil
}

// FetchJSON générique : fetch + unmarshal dans une valeur typée.
func FetchJSON[T any](ctx context.Context, f *Fetcher, rawURL string) (T, error) {
	var v T
	if err := f.JSONInto(ctx, rawURL, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

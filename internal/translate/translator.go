// Package translate traduit des listes de textes par lots, en conservant l'ordre
// et le minutage des segments.
package translate

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickprogramme/subtrad/internal/logger"
	"github.com/patrickprogramme/subtrad/pkg/model"
)

const (
	DefaultBatchSize    = 50
	DefaultBatchTimeout = 30 * time.Second
)

// BatchTranslator traduit un lot de textes en une requête.
// La sortie suit l'ordre de l'entrée. from vide => détection automatique.
type BatchTranslator interface {
	TranslateBatch(ctx context.Context, texts []string, to, from string) ([]string, error)
}

// Batched découpe une liste en lots et les traduit séquentiellement.
// Le premier lot en échec interrompt tout : aucun résultat partiel n'est retourné.
type Batched struct {
	provider BatchTranslator
	size     int
	timeout  time.Duration
	log      logger.Logger

	// OnProgress, si défini, est appelé après chaque lot réussi.
	OnProgress func(done, total int)
}

// NewBatched construit un Batched. size<=0 et timeout<=0 prennent les défauts.
func NewBatched(p BatchTranslator, size int, timeout time.Duration, log logger.Logger) *Batched {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if timeout <= 0 {
		timeout = DefaultBatchTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Batched{provider: p, size: size, timeout: timeout, log: log}
}

// TranslateTexts traduit texts et garantit len(sortie) == len(texts),
// sinon erreur KindCountMismatch.
func (b *Batched) TranslateTexts(ctx context.Context, texts []string, to, from string) ([]string, error) {
	total := len(texts)
	out := make([]string, 0, total)
	if total == 0 {
		return out, nil
	}

	for i := 0; i < total; i += b.size {
		end := min(i+b.size, total)

		got, err := b.translateOne(ctx, texts[i:end], to, from)
		if err != nil {
			b.log.Errorf("lot %d-%d/%d en échec : %v", i, end, total, err)
			return nil, fmt.Errorf("translate batch [%d:%d]: %w", i, end, err)
		}
		out = append(out, got...)
		b.log.Debugf("lot %d-%d/%d traduit (%d textes reçus)", i, end, total, len(got))

		if b.OnProgress != nil {
			b.OnProgress(end, total)
		}
	}

	if len(out) != total {
		b.log.Warnf("nombre de traductions incohérent : %d reçues pour %d textes", len(out), total)
		return nil, model.NewCountMismatch(len(out), total)
	}
	return out, nil
}

func (b *Batched) translateOne(ctx context.Context, batch []string, to, from string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.provider.TranslateBatch(ctx, batch, to, from)
}

// TranslateSegments traduit le texte des segments ; Start et Duration sont conservés.
// Les segments d'entrée ne sont pas modifiés.
func (b *Batched) TranslateSegments(ctx context.Context, segs []model.Segment, to, from string) ([]model.Segment, error) {
	translated, err := b.TranslateTexts(ctx, model.Texts(segs), to, from)
	if err != nil {
		return nil, err
	}
	out := make([]model.Segment, len(segs))
	for i, s := range segs {
		out[i] = model.Segment{Start: s.Start, Duration: s.Duration, Text: translated[i]}
	}
	return out, nil
}

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/patrickprogramme/subtrad/internal/logger"
	"github.com/patrickprogramme/subtrad/pkg/model"
)

const defaultEvictionInterval = time.Minute

type memEntry struct {
	cat     *model.Catalog
	expires time.Time
}

// Memory est un cache en mémoire avec expiration et un worker d'éviction.
type Memory struct {
	mutex   sync.RWMutex
	entries map[string]memEntry
	ttl     time.Duration
	log     logger.Logger
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewMemory crée le cache. Appeler Start pour lancer l'éviction périodique.
func NewMemory(ttl time.Duration, log logger.Logger) *Memory {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Memory{
		entries: make(map[string]memEntry),
		ttl:     ttl,
		log:     log,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start lance le worker d'éviction.
func (m *Memory) Start(interval time.Duration) {
	if interval <= 0 {
		interval = defaultEvictionInterval
	}
	go m.evictionWorker(interval)
}

// Close arrête le worker d'éviction (s'il tourne).
func (m *Memory) Close() error {
	m.cancel()
	return nil
}

func (m *Memory) Get(_ context.Context, videoID string) (*model.Catalog, bool, error) {
	m.mutex.RLock()
	e, ok := m.entries[videoID]
	m.mutex.RUnlock()
	if !ok || !m.now().Before(e.expires) {
		return nil, false, nil
	}
	return e.cat, true, nil
}

func (m *Memory) Set(_ context.Context, videoID string, cat *model.Catalog) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.entries[videoID] = memEntry{cat: cat, expires: m.now().Add(m.ttl)}
	return nil
}

// Len retourne le nombre d'entrées, expirées comprises.
func (m *Memory) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.entries)
}

func (m *Memory) evictionWorker(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.ctx.Done():
			m.log.Debugf("worker d'éviction du cache arrêté")
			return
		case <-ticker.C:
			m.evictExpired()
		}
	}
}

// evictExpired retire les entrées expirées et retourne leur nombre.
func (m *Memory) evictExpired() int {
	now := m.now()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	evicted := 0
	for k, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, k)
			evicted++
		}
	}
	if evicted > 0 {
		m.log.Debugf("%d catalogues expirés retirés, %d restants", evicted, len(m.entries))
	}
	return evicted
}

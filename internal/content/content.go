// Package content serves the storefront home page sections.
package content

import (
	"context"
	"fmt"
	"sync"
	"time"

	"furnistore/internal/model"
	"furnistore/internal/objectstore"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Provider returns the storefront content document.
type Provider interface {
	// Content returns the whole document.
	Content(ctx context.Context) (*model.Content, error)

	// Section returns a single named section.
	Section(ctx context.Context, name string) (any, error)
}

// cachedProvider loads the document from an object store and keeps it in
// memory, reloading once it is older than the refresh interval. A zero
// interval loads the document once and never refreshes it. Concurrent
// refreshes collapse into a single object store read.
type cachedProvider struct {
	opener   objectstore.Opener
	key      string
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger
	group    singleflight.Group

	mu       sync.RWMutex
	doc      *model.Content
	loadedAt time.Time
}

// NewProvider creates a provider for the document stored under key.
func NewProvider(opener objectstore.Opener, key string, interval time.Duration, logger zerolog.Logger) Provider {
	return newCachedProvider(opener, key, interval, time.Now, logger)
}

func newCachedProvider(opener objectstore.Opener, key string, interval time.Duration, now func() time.Time, logger zerolog.Logger) *cachedProvider {
	return &cachedProvider{
		opener:   opener,
		key:      key,
		interval: interval,
		now:      now,
		logger:   logger.With().Str("component", "content").Logger(),
	}
}

// Content returns the cached document, refreshing it when stale. A failed
// refresh keeps serving the previous document.
func (p *cachedProvider) Content(ctx context.Context) (*model.Content, error) {
	doc, fresh := p.cached()
	if fresh {
		return doc, nil
	}

	v, err, _ := p.group.Do(p.key, func() (any, error) {
		if doc, fresh := p.cached(); fresh {
			return doc, nil
		}
		return p.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		if doc != nil {
			p.logger.Warn().Err(err).Str("key", p.key).Msg("content refresh failed, serving stale document")
			return doc, nil
		}
		return nil, err
	}
	return v.(*model.Content), nil
}

// cached returns the current document and whether it is still fresh.
func (p *cachedProvider) cached() (*model.Content, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.doc == nil {
		return nil, false
	}
	if p.interval <= 0 {
		return p.doc, true
	}
	return p.doc, p.now().Sub(p.loadedAt) < p.interval
}

// Section returns the named section of the document.
func (p *cachedProvider) Section(ctx context.Context, name string) (any, error) {
	doc, err := p.Content(ctx)
	if err != nil {
		return nil, err
	}

	section, ok := doc.Section(name)
	if !ok {
		return nil, model.ErrUnknownSection
	}
	return section, nil
}

func (p *cachedProvider) refresh(ctx context.Context) (*model.Content, error) {
	var doc model.Content
	if err := objectstore.DecodeJSON(ctx, p.opener, p.key, &doc); err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	p.mu.Lock()
	p.doc = &doc
	p.loadedAt = p.now()
	p.mu.Unlock()

	p.logger.Info().
		Str("key", p.key).
		Int("hero", len(doc.Hero)).
		Int("ads", len(doc.Ads)).
		Int("blog", len(doc.Blog)).
		Int("categories", len(doc.Categories)).
		Msg("content loaded")

	return &doc, nil
}

package oracle

import (
	"context"
	"encoding/json"

	"github.com/pvoronin/quotecheck/internal/cache"
	"github.com/pvoronin/quotecheck/internal/model"
)

// CachedProvider wraps a Provider with a response cache keyed on the exact
// annotated chunk text. Cache hits never touch the oracle; errors are never
// cached.
type CachedProvider struct {
	inner Provider
	store cache.Cache
	model string
}

// NewCachedProvider creates a caching decorator around inner
func NewCachedProvider(inner Provider, store cache.Cache, model string) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		store: store,
		model: model,
	}
}

// Name returns the wrapped provider's name
func (p *CachedProvider) Name() string {
	return p.inner.Name()
}

// IsAvailable defers to the wrapped provider
func (p *CachedProvider) IsAvailable(ctx context.Context) bool {
	return p.inner.IsAvailable(ctx)
}

// Verify returns the cached item list for this chunk when present,
// otherwise calls the oracle and caches its validated output
func (p *CachedProvider) Verify(ctx context.Context, chunkText string) ([]model.VerificationItem, error) {
	key := cache.Key(p.inner.Name(), p.model, chunkText)

	if data, found := p.store.Get(key); found {
		var items []model.VerificationItem
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
		p.store.Delete(key)
	}

	items, err := p.inner.Verify(ctx, chunkText)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		p.store.Set(key, data)
	}

	return items, nil
}

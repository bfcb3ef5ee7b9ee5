package feedback

import (
	"context"
	"errors"
	"sync"

	"github.com/campuspulse/campuspulse/internal/logger"
	"github.com/campuspulse/campuspulse/internal/models"
)

// TemplateFetcher retrieves one template from the remote service.
type TemplateFetcher func(ctx context.Context, templateID int) (models.Template, error)

// TemplateCache memoizes fetched question templates by template id.
// Templates are immutable remote data, so the first successful fetch for an
// id wins and later duplicate completions are no-ops.
type TemplateCache struct {
	mu        sync.Mutex
	templates map[int]models.Template
	fetch     TemplateFetcher
}

func NewTemplateCache(fetch TemplateFetcher) *TemplateCache {
	return &TemplateCache{
		templates: make(map[int]models.Template),
		fetch:     fetch,
	}
}

// Lookup returns the cached template without fetching.
func (c *TemplateCache) Lookup(templateID int) (models.Template, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tmpl, ok := c.templates[templateID]
	return tmpl, ok
}

// QuestionCount returns the completeness denominator for the template, or
// false while the template has not been fetched yet.
func (c *TemplateCache) QuestionCount(templateID int) (int, bool) {
	tmpl, ok := c.Lookup(templateID)
	if !ok {
		return 0, false
	}
	return tmpl.QuestionCount(), true
}

// Get returns the cached template, fetching it first if absent. Concurrent
// calls for the same id may fetch twice; the first write wins.
func (c *TemplateCache) Get(ctx context.Context, templateID int) (models.Template, error) {
	if tmpl, ok := c.Lookup(templateID); ok {
		return tmpl, nil
	}

	tmpl, err := c.fetch(ctx, templateID)
	if err != nil {
		return models.Template{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.templates[templateID]; ok {
		return existing, nil
	}
	c.templates[templateID] = tmpl
	return tmpl, nil
}

// Prefetch fetches every given template id concurrently and blocks until all
// fetches settle. A failure for one template leaves it missing from the
// cache without aborting the others; completeness checks against it keep
// reporting incomplete until a later fetch succeeds.
func (c *TemplateCache) Prefetch(ctx context.Context, templateIDs []int) {
	seen := make(map[int]bool)
	var wg sync.WaitGroup

	for _, id := range templateIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := c.Lookup(id); ok {
			continue
		}

		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := c.Get(ctx, id); err != nil {
				// Cancellation is not an error worth surfacing.
				if errors.Is(err, context.Canceled) {
					return
				}
				logger.Warn("template prefetch failed", "template", id, "err", err)
			}
		}(id)
	}

	wg.Wait()
}

package sites

import (
	"net/url"
	"sync"
)

// Registry maps URLs to site recipes. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	recipes []*Recipe
}

// NewRegistry creates a registry holding recipes, checked in order.
func NewRegistry(recipes ...*Recipe) *Registry {
	return &Registry{recipes: recipes}
}

// DefaultRegistry creates a registry with the built-in recipes.
func DefaultRegistry() *Registry {
	return NewRegistry(BuiltinRecipes()...)
}

// Register adds a recipe ahead of existing ones.
func (r *Registry) Register(recipe *Recipe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes = append([]*Recipe{recipe}, r.recipes...)
}

// Lookup returns the first recipe matching rawURL.
func (r *Registry) Lookup(rawURL string) (*Recipe, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, recipe := range r.recipes {
		if recipe.Matches(u) {
			return recipe, true
		}
	}
	return nil, false
}

// Names lists registered recipe names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.recipes))
	for i, recipe := range r.recipes {
		names[i] = recipe.Name
	}
	return names
}

package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/brettbedarf/treefs"
	"github.com/puzpuzpuz/xsync/v4"
)

// Registry maps source "type" keys to the [treefs.ContentProvider] able to load them
type Registry struct {
	providers *xsync.Map[string, treefs.ContentProvider]
}

func NewRegistry() *Registry {
	return &Registry{providers: xsync.NewMap[string, treefs.ContentProvider]()}
}

// Register ties a provider to a source type. The first registration for a
// type wins; it reports whether provider was stored.
func (r *Registry) Register(sourceType string, provider treefs.ContentProvider) bool {
	_, loaded := r.providers.LoadOrStore(sourceType, provider)
	return !loaded
}

// GetProvider returns the provider registered for sourceType
func (r *Registry) GetProvider(sourceType string) (treefs.ContentProvider, error) {
	provider, ok := r.providers.Load(sourceType)
	if !ok {
		return nil, fmt.Errorf("no provider for source type %q", sourceType)
	}
	return provider, nil
}

// SourceType extracts the "type" field of a raw source config
func SourceType(raw []byte) (string, error) {
	var meta struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return "", err
	}
	if meta.Type == "" {
		return "", fmt.Errorf("source config missing \"type\" field")
	}
	return meta.Type, nil
}

// Source resolves the provider for a raw source config into a [treefs.FileSource]
func (r *Registry) Source(raw []byte) (*treefs.FileSource, error) {
	sourceType, err := SourceType(raw)
	if err != nil {
		return nil, err
	}
	provider, err := r.GetProvider(sourceType)
	if err != nil {
		return nil, err
	}
	return &treefs.FileSource{Provider: provider, Type: sourceType, Config: raw}, nil
}

// Load picks the provider by the config's "type" field and loads its content.
// All expected source types should be registered before calling this.
func (r *Registry) Load(ctx context.Context, raw []byte) (string, error) {
	src, err := r.Source(raw)
	if err != nil {
		return "", err
	}
	return src.Provider.Load(ctx, src.Config)
}

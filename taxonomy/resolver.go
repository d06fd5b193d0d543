package taxonomy

import (
	"context"
	"fmt"

	"georeport/open311"
)

// CategoryStore is the taxonomy slice of the record backend.
type CategoryStore interface {
	// ByCode returns all categories carrying the given service code,
	// in stable iteration order.
	ByCode(ctx context.Context, serviceCode string) ([]Category, error)
	// ByID returns the category for id, reporting existence separately.
	ByID(ctx context.Context, id string) (Category, bool, error)
	// Tree walks the hierarchy below root (empty root means the whole
	// vocabulary) down to maxDepth levels; maxDepth 0 means unbounded.
	Tree(ctx context.Context, root string, maxDepth int) ([]Category, error)
	// StatusByID and StatusByName look up status vocabulary terms.
	StatusByID(ctx context.Context, id string) (StatusTerm, bool, error)
	StatusByName(ctx context.Context, name string) (StatusTerm, bool, error)
}

// Resolver performs the bidirectional mapping between service codes and
// category ids and derives the service catalog.
type Resolver struct {
	store CategoryStore
}

func NewResolver(store CategoryStore) *Resolver {
	return &Resolver{store: store}
}

// ResolveCode maps a service_code to a category id. Zero matches is a
// NotFound; several matches silently yield the first one.
func (r *Resolver) ResolveCode(ctx context.Context, serviceCode string) (string, error) {
	terms, err := r.store.ByCode(ctx, serviceCode)
	if err != nil {
		return "", fmt.Errorf("taxonomy: lookup service code %q: %w", serviceCode, err)
	}
	if len(terms) == 0 {
		return "", open311.NotFound("Servicecode not found")
	}
	return terms[0].ID, nil
}

// Category looks up a category by id. An empty id or an unknown id
// yields the zero value, never an error: read-side requests tolerate
// records whose category has been deleted.
func (r *Resolver) Category(ctx context.Context, id string) (Category, error) {
	if id == "" {
		return Category{}, nil
	}
	cat, ok, err := r.store.ByID(ctx, id)
	if err != nil {
		return Category{}, fmt.Errorf("taxonomy: load category %q: %w", id, err)
	}
	if !ok {
		return Category{}, nil
	}
	return cat, nil
}

// Status looks up a status term by id with the same tolerance as
// Category.
func (r *Resolver) Status(ctx context.Context, id string) (StatusTerm, error) {
	if id == "" {
		return StatusTerm{}, nil
	}
	term, ok, err := r.store.StatusByID(ctx, id)
	if err != nil {
		return StatusTerm{}, fmt.Errorf("taxonomy: load status %q: %w", id, err)
	}
	if !ok {
		return StatusTerm{}, nil
	}
	return term, nil
}

// ResolveStatusName maps a status term name to its id, for callers that
// submit human-readable status values. Unknown names are a NotFound.
func (r *Resolver) ResolveStatusName(ctx context.Context, name string) (string, error) {
	term, ok, err := r.store.StatusByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("taxonomy: lookup status %q: %w", name, err)
	}
	if !ok {
		return "", open311.NotFound("Status not found")
	}
	return term.ID, nil
}

// Catalog maps the category hierarchy below root onto the service
// discovery catalog. An empty hierarchy produces an empty catalog, not
// an error. The catalog is recomputed on every call; there is no cache.
func (r *Resolver) Catalog(ctx context.Context, root string, maxDepth int) ([]open311.Service, error) {
	tree, err := r.store.Tree(ctx, root, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: load category tree: %w", err)
	}

	services := make([]open311.Service, 0, len(tree))
	for _, cat := range tree {
		services = append(services, open311.Service{
			ServiceCode: cat.ServiceCode,
			ServiceName: cat.Name,
			Description: cat.Description,
			Metadata:    false,
			Type:        open311.ServiceType,
			Keywords:    cat.Keywords,
		})
	}
	return services, nil
}

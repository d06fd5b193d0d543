package taxonomy

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"georeport/open311"
)

type fakeCategoryStore struct {
	categories []Category
	statuses   []StatusTerm
}

func (f *fakeCategoryStore) ByCode(_ context.Context, code string) ([]Category, error) {
	var out []Category
	for _, c := range f.categories {
		if c.ServiceCode == code {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) ByID(_ context.Context, id string) (Category, bool, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, true, nil
		}
	}
	return Category{}, false, nil
}

func (f *fakeCategoryStore) Tree(_ context.Context, root string, maxDepth int) ([]Category, error) {
	var walk func(parent string, depth int) []Category
	walk = func(parent string, depth int) []Category {
		if maxDepth > 0 && depth > maxDepth {
			return nil
		}
		var out []Category
		for _, c := range f.categories {
			if c.ParentID == parent {
				out = append(out, c)
				out = append(out, walk(c.ID, depth+1)...)
			}
		}
		return out
	}
	return walk(root, 1), nil
}

func (f *fakeCategoryStore) StatusByID(_ context.Context, id string) (StatusTerm, bool, error) {
	for _, s := range f.statuses {
		if s.ID == id {
			return s, true, nil
		}
	}
	return StatusTerm{}, false, nil
}

func (f *fakeCategoryStore) StatusByName(_ context.Context, name string) (StatusTerm, bool, error) {
	for _, s := range f.statuses {
		if s.Name == name {
			return s, true, nil
		}
	}
	return StatusTerm{}, false, nil
}

func testStore() *fakeCategoryStore {
	return &fakeCategoryStore{
		categories: []Category{
			{ID: "1", Name: "Potholes", ServiceCode: "Code0001", Description: "Road damage", Keywords: "road,hole"},
			{ID: "2", Name: "Streetlights", ServiceCode: "Code0002"},
			{ID: "3", Name: "Broken lamp", ServiceCode: "Code0003", ParentID: "2"},
		},
		statuses: []StatusTerm{
			{ID: "10", Name: "received", Hex: "#ff0000", Icon: "inbox"},
			{ID: "12", Name: "resolved", Hex: "#00ff00", Icon: "check"},
		},
	}
}

func TestResolveCodeRoundTrip(t *testing.T) {
	r := NewResolver(testStore())
	ctx := context.Background()

	for _, c := range testStore().categories {
		id, err := r.ResolveCode(ctx, c.ServiceCode)
		if err != nil {
			t.Fatalf("ResolveCode(%q): %v", c.ServiceCode, err)
		}
		if id != c.ID {
			t.Errorf("ResolveCode(%q) = %q, want %q", c.ServiceCode, id, c.ID)
		}
	}
}

func TestResolveCodeNotFound(t *testing.T) {
	r := NewResolver(testStore())

	_, err := r.ResolveCode(context.Background(), "Code9999")
	var oe *open311.Error
	if !errors.As(err, &oe) || oe.Status != http.StatusNotFound {
		t.Fatalf("expected 404 open311 error, got %v", err)
	}
	if oe.Message != "Servicecode not found" {
		t.Errorf("message = %q", oe.Message)
	}
}

func TestResolveCodeDuplicateFirstWins(t *testing.T) {
	store := testStore()
	store.categories = append(store.categories, Category{ID: "9", Name: "Shadow", ServiceCode: "Code0001"})
	r := NewResolver(store)

	id, err := r.ResolveCode(context.Background(), "Code0001")
	if err != nil {
		t.Fatalf("ResolveCode: %v", err)
	}
	if id != "1" {
		t.Errorf("duplicate code resolved to %q, want first match 1", id)
	}
}

func TestCategoryMissingIDTolerated(t *testing.T) {
	r := NewResolver(testStore())

	for _, id := range []string{"", "404"} {
		cat, err := r.Category(context.Background(), id)
		if err != nil {
			t.Fatalf("Category(%q): %v", id, err)
		}
		if cat != (Category{}) {
			t.Errorf("Category(%q) = %+v, want zero value", id, cat)
		}
	}
}

func TestResolveStatusName(t *testing.T) {
	r := NewResolver(testStore())

	id, err := r.ResolveStatusName(context.Background(), "received")
	if err != nil {
		t.Fatalf("ResolveStatusName: %v", err)
	}
	if id != "10" {
		t.Errorf("id = %q, want 10", id)
	}

	_, err = r.ResolveStatusName(context.Background(), "imaginary")
	if open311.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestCatalog(t *testing.T) {
	r := NewResolver(testStore())

	services, err := r.Catalog(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(services) != 3 {
		t.Fatalf("len = %d, want 3", len(services))
	}
	first := services[0]
	if first.ServiceCode != "Code0001" || first.ServiceName != "Potholes" {
		t.Errorf("unexpected first service %+v", first)
	}
	if first.Metadata {
		t.Error("metadata must always be false")
	}
	if first.Type != "realtime" {
		t.Errorf("type = %q, want realtime", first.Type)
	}
	if services[1].Keywords != "" {
		t.Errorf("missing keywords should map to empty string, got %q", services[1].Keywords)
	}
}

func TestCatalogDepthLimit(t *testing.T) {
	r := NewResolver(testStore())

	services, err := r.Catalog(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("depth 1 should exclude child terms, got %d services", len(services))
	}
}

func TestCatalogEmptyTree(t *testing.T) {
	r := NewResolver(&fakeCategoryStore{})

	services, err := r.Catalog(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(services) != 0 {
		t.Fatalf("empty hierarchy must yield empty catalog, got %d", len(services))
	}
}

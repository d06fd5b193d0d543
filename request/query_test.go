package request

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"georeport/auth"
	"georeport/config"
	"georeport/open311"
	"georeport/taxonomy"
)

func testSettings() config.Settings {
	s := config.Defaults()
	s.StatusOpen = []string{"10", "11"}
	s.StatusOpenStart = []string{"10"}
	return s
}

func testKeyCheck(t *testing.T) auth.KeyCheck {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("cron-key"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return auth.NewKeyCheck(string(hash))
}

func newTestBuilder(t *testing.T) *QueryBuilder {
	t.Helper()
	resolver := taxonomy.NewResolver(newFakeCategories())
	return NewQueryBuilder(testSettings(), resolver, testKeyCheck(t))
}

func TestBuildBaseSpec(t *testing.T) {
	b := newTestBuilder(t)

	spec, err := b.Build(context.Background(), QueryParams{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if spec.Bundle != "service_request" {
		t.Errorf("bundle = %q", spec.Bundle)
	}
	if !spec.PublishedOnly {
		t.Error("base spec must restrict to published records")
	}
	if spec.ChangedBefore.IsZero() {
		t.Error("base spec must carry the not-in-the-future guard")
	}
	if spec.SortField != "changed" || !spec.SortDesc {
		t.Errorf("sort = %s desc=%v, want changed desc", spec.SortField, spec.SortDesc)
	}
	if spec.Limit != 25 {
		t.Errorf("default limit = %d, want 25", spec.Limit)
	}
}

func TestBuildServiceCodeFilter(t *testing.T) {
	b := newTestBuilder(t)

	spec, err := b.Build(context.Background(), QueryParams{ServiceCode: "Code0001"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if spec.CategoryID != "1" {
		t.Errorf("category filter = %q, want 1", spec.CategoryID)
	}
}

func TestBuildUnknownServiceCode(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.Build(context.Background(), QueryParams{ServiceCode: "Code9999"})
	if open311.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestBuildIDStripsFormatSuffix(t *testing.T) {
	b := newTestBuilder(t)

	for _, id := range []string{"abc-123.json", "abc-123.xml", "abc-123"} {
		spec, err := b.Build(context.Background(), QueryParams{ID: id})
		if err != nil {
			t.Fatalf("Build(%q): %v", id, err)
		}
		if spec.UUID != "abc-123" {
			t.Errorf("Build(%q): uuid = %q, want abc-123", id, spec.UUID)
		}
	}
}

func TestBuildNIDsOverridesLimit(t *testing.T) {
	b := newTestBuilder(t)

	spec, err := b.Build(context.Background(), QueryParams{NIDs: "1, 2,3", Limit: "2"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(spec.NIDs) != 3 || spec.NIDs[2] != 3 {
		t.Errorf("nids = %v", spec.NIDs)
	}
	if spec.Limit != testSettings().NIDLimit {
		t.Errorf("limit = %d, want nid override %d", spec.Limit, testSettings().NIDLimit)
	}
}

func TestBuildMalformedNIDs(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.Build(context.Background(), QueryParams{NIDs: "1,x"})
	if open311.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestBuildLimitClamp(t *testing.T) {
	b := newTestBuilder(t)
	ctx := context.Background()

	cases := []struct {
		limit string
		key   string
		want  int
	}{
		{"", "", 25},            // default
		{"10", "", 10},          // within max
		{"500", "", 50},         // clamped to limit_max
		{"500", "cron-key", 500}, // privileged, no clamp
		{"", "cron-key", 0},     // privileged, unlimited
		{"500", "wrong", 50},    // bad key clamps
		{"abc", "", 25},         // unparseable falls back to default
	}

	for _, tc := range cases {
		spec, err := b.Build(ctx, QueryParams{Limit: tc.limit, Key: tc.key})
		if err != nil {
			t.Fatalf("Build(limit=%q key=%q): %v", tc.limit, tc.key, err)
		}
		if spec.Limit != tc.want {
			t.Errorf("Build(limit=%q key=%q): limit = %d, want %d", tc.limit, tc.key, spec.Limit, tc.want)
		}
	}
}

func TestBuildSearch(t *testing.T) {
	b := newTestBuilder(t)

	spec, err := b.Build(context.Background(), QueryParams{Search: "flood"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if spec.Search != "flood" {
		t.Errorf("search = %q", spec.Search)
	}
}

func TestParamsFromValues(t *testing.T) {
	values, err := url.ParseQuery("service_code=Code0001&limit=5&extensions&q=flood&key=k&nids=1,2&id=x.json")
	if err != nil {
		t.Fatal(err)
	}

	p := ParamsFromValues(values)
	if p.ServiceCode != "Code0001" || p.Limit != "5" || !p.Extensions || p.Search != "flood" || p.Key != "k" || p.NIDs != "1,2" || p.ID != "x.json" {
		t.Errorf("unexpected params %+v", p)
	}
}

package request

import (
	"context"
	"errors"
	"time"

	"georeport/taxonomy"
)

// fakeCategories implements taxonomy.CategoryStore over fixed terms.
type fakeCategories struct {
	categories []taxonomy.Category
	statuses   []taxonomy.StatusTerm
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{
		categories: []taxonomy.Category{
			{ID: "1", Name: "Potholes", ServiceCode: "Code0001", Hex: "#aa0000", Icon: "road"},
			{ID: "2", Name: "Graffiti", ServiceCode: "Code0002"},
		},
		statuses: []taxonomy.StatusTerm{
			{ID: "10", Name: "received", Hex: "#ff0000", Icon: "inbox"},
			{ID: "12", Name: "resolved", Hex: "#00ff00", Icon: "check"},
		},
	}
}

func (f *fakeCategories) ByCode(_ context.Context, code string) ([]taxonomy.Category, error) {
	var out []taxonomy.Category
	for _, c := range f.categories {
		if c.ServiceCode == code {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) ByID(_ context.Context, id string) (taxonomy.Category, bool, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, true, nil
		}
	}
	return taxonomy.Category{}, false, nil
}

func (f *fakeCategories) Tree(_ context.Context, _ string, _ int) ([]taxonomy.Category, error) {
	return f.categories, nil
}

func (f *fakeCategories) StatusByID(_ context.Context, id string) (taxonomy.StatusTerm, bool, error) {
	for _, s := range f.statuses {
		if s.ID == id {
			return s, true, nil
		}
	}
	return taxonomy.StatusTerm{}, false, nil
}

func (f *fakeCategories) StatusByName(_ context.Context, name string) (taxonomy.StatusTerm, bool, error) {
	for _, s := range f.statuses {
		if s.Name == name {
			return s, true, nil
		}
	}
	return taxonomy.StatusTerm{}, false, nil
}

// fakeRecordStore records the last executed spec and serves canned
// records.
type fakeRecordStore struct {
	records   []Record
	lastSpec  Spec
	created   []Values
	createErr error
	nextNID   int64
	stable    bool
}

func newFakeRecordStore(stable bool) *fakeRecordStore {
	return &fakeRecordStore{nextNID: 1, stable: stable}
}

func (f *fakeRecordStore) SupportsStableIDs() bool { return f.stable }

func (f *fakeRecordStore) Execute(_ context.Context, spec Spec) ([]Record, error) {
	f.lastSpec = spec

	var out []Record
	for _, rec := range f.records {
		if spec.Bundle != "" && rec.Bundle != spec.Bundle {
			continue
		}
		if spec.PublishedOnly && !rec.Published {
			continue
		}
		if spec.UUID != "" && rec.UUID != spec.UUID {
			continue
		}
		if spec.CategoryID != "" && rec.CategoryID != spec.CategoryID {
			continue
		}
		if len(spec.NIDs) > 0 && !containsNID(spec.NIDs, rec.NID) {
			continue
		}
		out = append(out, rec)
		if spec.Limit > 0 && len(out) == spec.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRecordStore) Create(_ context.Context, values Values) (Record, error) {
	if f.createErr != nil {
		return Record{}, f.createErr
	}
	f.created = append(f.created, values)

	rec := Record{
		NID:        f.nextNID,
		UUID:       "00000000-0000-0000-0000-00000000000" + string(rune('0'+f.nextNID)),
		Bundle:     values.Bundle,
		Title:      values.Title,
		Body:       values.Body,
		Lat:        values.Lat,
		Lng:        values.Lng,
		StatusID:   values.StatusID,
		CategoryID: values.CategoryID,
		Email:      values.Email,
		Address:    values.Address,
		MediaURL:   values.MediaURL,
		Published:  values.Published,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	f.nextNID++
	f.records = append(f.records, rec)
	return rec, nil
}

func containsNID(nids []int64, nid int64) bool {
	for _, n := range nids {
		if n == nid {
			return true
		}
	}
	return false
}

// fakeFetcher resolves every http url to a canned stored location.
type fakeFetcher struct {
	stored string
	err    error
	calls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, remoteURL string) (string, error) {
	f.calls = append(f.calls, remoteURL)
	if f.err != nil {
		return "", f.err
	}
	return f.stored, nil
}

var errFetchDown = errors.New("fetch: connection refused")

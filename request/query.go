package request

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"georeport/auth"
	"georeport/config"
	"georeport/open311"
	"georeport/taxonomy"
)

// QueryParams carries the recognized query parameters of a requests
// lookup.
type QueryParams struct {
	ID          string
	ServiceCode string
	NIDs        string
	Search      string
	Limit       string
	Key         string
	Extensions  bool
}

// ParamsFromValues extracts the recognized parameters from a raw query
// string; unknown parameters are ignored.
func ParamsFromValues(values url.Values) QueryParams {
	return QueryParams{
		ID:          values.Get("id"),
		ServiceCode: values.Get("service_code"),
		NIDs:        values.Get("nids"),
		Search:      values.Get("q"),
		Limit:       values.Get("limit"),
		Key:         values.Get("key"),
		Extensions:  values.Has("extensions"),
	}
}

// QueryBuilder interprets request parameters into a Spec against the
// configured bundle. It never executes the spec.
type QueryBuilder struct {
	settings config.Settings
	resolver *taxonomy.Resolver
	keys     auth.KeyCheck
	now      func() time.Time
}

func NewQueryBuilder(settings config.Settings, resolver *taxonomy.Resolver, keys auth.KeyCheck) *QueryBuilder {
	return &QueryBuilder{
		settings: settings,
		resolver: resolver,
		keys:     keys,
		now:      time.Now,
	}
}

// Build assembles the filter spec. Failures are limited to parameter
// interpretation (unknown service_code, malformed nids); the base
// filter itself cannot fail.
func (b *QueryBuilder) Build(ctx context.Context, p QueryParams) (Spec, error) {
	spec := Spec{
		Bundle:        b.settings.Bundle,
		PublishedOnly: true,
		ChangedBefore: b.now(),
		SortField:     "changed",
		SortDesc:      true,
	}

	if p.ID != "" {
		spec.UUID = StripFormatSuffix(p.ID)
	}

	if p.ServiceCode != "" {
		categoryID, err := b.resolver.ResolveCode(ctx, p.ServiceCode)
		if err != nil {
			return Spec{}, err
		}
		spec.CategoryID = categoryID
	}

	if p.NIDs != "" {
		nids, err := parseNIDs(p.NIDs)
		if err != nil {
			return Spec{}, err
		}
		spec.NIDs = nids
		// A nids lookup replaces the normal default/limit logic with
		// the server-side cap.
		spec.Limit = b.settings.NIDLimit
		return spec, nil
	}

	if p.Search != "" {
		spec.Search = p.Search
	}

	spec.Limit = b.effectiveLimit(p)
	return spec, nil
}

// effectiveLimit clamps the requested limit to the configured maximum.
// A matching privileged key removes both the clamp and the default.
func (b *QueryBuilder) effectiveLimit(p QueryParams) int {
	privileged := b.keys.Matches(p.Key)

	if p.Limit == "" {
		if privileged {
			return 0
		}
		return b.settings.LimitDefault
	}

	requested, err := strconv.Atoi(p.Limit)
	if err != nil || requested <= 0 {
		if privileged {
			return 0
		}
		return b.settings.LimitDefault
	}
	if privileged {
		return requested
	}
	if requested > b.settings.LimitMax {
		return b.settings.LimitMax
	}
	return requested
}

// StripFormatSuffix removes a trailing .json/.xml from a path id so a
// literal "requests/{uuid}.json" still filters on the bare uuid.
func StripFormatSuffix(id string) string {
	for _, suffix := range []string{".json", ".xml"} {
		if strings.HasSuffix(id, suffix) {
			return strings.TrimSuffix(id, suffix)
		}
	}
	return id
}

func parseNIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	nids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		nid, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, open311.Invalid(fmt.Sprintf("malformed nid %q", part))
		}
		nids = append(nids, nid)
	}
	return nids, nil
}

package request

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"georeport/auth"
	"georeport/media"
	"georeport/open311"
	"georeport/taxonomy"
)

// Mapper converts backend records to wire service requests and
// submitted payloads to record values.
type Mapper struct {
	classifier taxonomy.Classifier
	resolver   *taxonomy.Resolver
	fetcher    media.Fetcher
	bundle     string
	// stableIDs mirrors the store's capability; when set, responses
	// carry the record uuid instead of the internal nid.
	stableIDs bool
}

func NewMapper(classifier taxonomy.Classifier, resolver *taxonomy.Resolver, fetcher media.Fetcher, bundle string, stableIDs bool) *Mapper {
	return &Mapper{
		classifier: classifier,
		resolver:   resolver,
		fetcher:    fetcher,
		bundle:     bundle,
		stableIDs:  stableIDs,
	}
}

// ToServiceRequest maps one record onto the wire schema. A record with
// a dangling or absent category still maps; its service_code comes back
// null. Malformed coordinates degrade to 0.0.
func (m *Mapper) ToServiceRequest(ctx context.Context, rec Record, tier auth.ExtensionTier) (open311.ServiceRequest, error) {
	category, err := m.resolver.Category(ctx, rec.CategoryID)
	if err != nil {
		return open311.ServiceRequest{}, fmt.Errorf("request: map record %d: %w", rec.NID, err)
	}

	sr := open311.ServiceRequest{
		ID:                m.publicID(rec),
		Title:             rec.Title,
		Description:       rec.Body,
		Lat:               parseCoordinate(rec.Lat),
		Long:              parseCoordinate(rec.Lng),
		Status:            m.classifier.Classify(rec.StatusID),
		ServiceName:       category.Name,
		RequestedDatetime: rec.CreatedAt.Format(time.RFC3339),
		UpdatedDatetime:   rec.UpdatedAt.Format(time.RFC3339),
		Address:           rec.Address,
		MediaURL:          rec.MediaURL,
	}
	if category.ServiceCode != "" {
		code := category.ServiceCode
		sr.ServiceCode = &code
	}

	if tier >= auth.TierAnonymous {
		status, err := m.resolver.Status(ctx, rec.StatusID)
		if err != nil {
			return open311.ServiceRequest{}, fmt.Errorf("request: map record %d: %w", rec.NID, err)
		}
		ext := &open311.ExtendedAttributes{
			NID:          rec.NID,
			CategoryHex:  category.Hex,
			CategoryIcon: category.Icon,
			StatusHex:    status.Hex,
			StatusIcon:   status.Icon,
		}
		if tier >= auth.TierRole {
			ext.Author = rec.Email
		}
		sr.ExtendedAttributes = ext
	}

	return sr, nil
}

// ToValues validates and maps a submitted payload to record values.
// Email syntax is checked before anything else touches the store;
// service_code resolution failures propagate unchanged.
func (m *Mapper) ToValues(ctx context.Context, payload open311.CreateRequest) (Values, error) {
	if _, err := mail.ParseAddress(payload.Email); err != nil {
		return Values{}, open311.Invalid("E-mail not valid")
	}

	categoryID, err := m.resolver.ResolveCode(ctx, payload.ServiceCode)
	if err != nil {
		return Values{}, err
	}

	statusID, err := m.classifier.OpenStart()
	if err != nil {
		return Values{}, err
	}

	values := Values{
		Bundle:     m.bundle,
		Title:      payload.ServiceCode,
		Body:       payload.Description,
		Email:      payload.Email,
		Lat:        payload.Lat,
		Lng:        payload.Long,
		Address:    payload.AddressString,
		CategoryID: categoryID,
		StatusID:   statusID,
		Published:  true,
	}

	if strings.Contains(payload.MediaURL, "http") {
		stored, err := m.fetcher.Fetch(ctx, payload.MediaURL)
		if err != nil {
			// Media is best effort; the request is created without it.
			log.Printf("request: media fetch failed for %s: %v", payload.MediaURL, err)
		} else {
			values.MediaURL = stored
		}
	}

	return values, nil
}

func (m *Mapper) publicID(rec Record) string {
	if m.stableIDs && rec.UUID != "" {
		return rec.UUID
	}
	return strconv.FormatInt(rec.NID, 10)
}

func parseCoordinate(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

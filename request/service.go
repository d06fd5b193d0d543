package request

import (
	"context"
	"fmt"
	"log"

	"georeport/auth"
	"georeport/open311"
)

// Service orchestrates the three request flows: list, get-by-id (a list
// with the id forced into the filter), and create. It holds no
// per-request state.
type Service struct {
	store  RecordStore
	mapper *Mapper
	query  *QueryBuilder
}

func NewService(store RecordStore, mapper *Mapper, query *QueryBuilder) *Service {
	return &Service{store: store, mapper: mapper, query: query}
}

// List builds and executes the query spec and maps every hit. An empty
// result set is a 404 by protocol, not an empty 200 list.
func (s *Service) List(ctx context.Context, params QueryParams, tier auth.ExtensionTier) ([]open311.ServiceRequest, error) {
	spec, err := s.query.Build(ctx, params)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Execute(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("request: execute query: %w", err)
	}

	requests := make([]open311.ServiceRequest, 0, len(records))
	for _, rec := range records {
		sr, err := s.mapper.ToServiceRequest(ctx, rec, tier)
		if err != nil {
			return nil, err
		}
		requests = append(requests, sr)
	}

	if len(requests) == 0 {
		return nil, open311.NotFound("No Service requests found")
	}
	return requests, nil
}

// Create validates, maps, and persists one submitted request, returning
// the public identifier of the new record. Store failures surface as an
// internal error; the original cause is logged, not leaked.
func (s *Service) Create(ctx context.Context, payload open311.CreateRequest) (string, error) {
	values, err := s.mapper.ToValues(ctx, payload)
	if err != nil {
		return "", err
	}

	rec, err := s.store.Create(ctx, values)
	if err != nil {
		log.Printf("request: create record: %v", err)
		return "", open311.Internal("Internal Server Error")
	}

	log.Printf("request: created record %d (%s)", rec.NID, rec.UUID)
	return s.mapper.publicID(rec), nil
}

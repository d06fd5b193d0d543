// Package taxonomy resolves the backend's category and status
// vocabularies into the protocol's services and binary request status.
package taxonomy

import (
	"georeport/open311"
)

// Classifier maps backend status ids onto the protocol's open/closed
// pair. Classification is total: a status id is open iff it belongs to
// the configured open set, everything else is closed. The closed set is
// configuration reference only and is deliberately never consulted.
type Classifier struct {
	open      map[string]struct{}
	openStart []string
}

// NewClassifier builds a classifier from the configured open set and
// the open-start list applied to new requests.
func NewClassifier(statusOpen, statusOpenStart []string) Classifier {
	open := make(map[string]struct{}, len(statusOpen))
	for _, id := range statusOpen {
		open[id] = struct{}{}
	}
	return Classifier{open: open, openStart: statusOpenStart}
}

// Classify returns the protocol status for a backend status id. An
// empty open set classifies every id as closed.
func (c Classifier) Classify(statusID string) open311.Status {
	if _, ok := c.open[statusID]; ok {
		return open311.StatusOpen
	}
	return open311.StatusClosed
}

// OpenStart returns the status id assigned to newly created requests.
// When several are configured the first wins, deterministically.
func (c Classifier) OpenStart() (string, error) {
	if len(c.openStart) == 0 {
		return "", open311.Internal("no start status configured")
	}
	return c.openStart[0], nil
}

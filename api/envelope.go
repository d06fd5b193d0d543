// Package api exposes the GeoReport v2 HTTP surface: routing, payload
// envelopes, and the single error translation boundary.
package api

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"

	"georeport/open311"
)

// Format names the two wire serializations.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
)

// Payload is a response body that knows its own envelope. The root
// element differs per payload kind, so selection happens on the
// concrete type rather than by inspecting the data.
type Payload interface {
	jsonBody() any
	xmlBody() any
}

// RequestListPayload wraps service requests. JSON emits the bare list;
// XML wraps it in a service_requests root with request elements.
type RequestListPayload struct {
	Requests []open311.ServiceRequest
}

func (p RequestListPayload) jsonBody() any { return p.Requests }

func (p RequestListPayload) xmlBody() any {
	return struct {
		XMLName  xml.Name                 `xml:"service_requests"`
		Requests []open311.ServiceRequest `xml:"request"`
	}{Requests: p.Requests}
}

// ServiceListPayload wraps the discovery catalog under a services root.
type ServiceListPayload struct {
	Services []open311.Service
}

func (p ServiceListPayload) jsonBody() any { return p.Services }

func (p ServiceListPayload) xmlBody() any {
	return struct {
		XMLName  xml.Name          `xml:"services"`
		Services []open311.Service `xml:"service"`
	}{Services: p.Services}
}

// AckPayload acknowledges a created request with just its public id,
// nested as service_requests.request.service_request_id.
type AckPayload struct {
	ID string
}

type ackRequest struct {
	ServiceRequestID string `json:"service_request_id" xml:"service_request_id"`
}

func (p AckPayload) jsonBody() any {
	return map[string]any{
		"service_requests": map[string]any{
			"request": ackRequest{ServiceRequestID: p.ID},
		},
	}
}

func (p AckPayload) xmlBody() any {
	return struct {
		XMLName xml.Name   `xml:"service_requests"`
		Request ackRequest `xml:"request"`
	}{Request: ackRequest{ServiceRequestID: p.ID}}
}

// ErrorPayload wraps a failure body under an errors root (XML) or an
// error key (JSON).
type ErrorPayload struct {
	Code    int
	Message string
}

type errorBody struct {
	Code    int    `json:"code" xml:"code"`
	Message string `json:"message" xml:"message"`
}

func (p ErrorPayload) jsonBody() any {
	return struct {
		Error errorBody `json:"error"`
	}{Error: errorBody{Code: p.Code, Message: p.Message}}
}

func (p ErrorPayload) xmlBody() any {
	return struct {
		XMLName xml.Name  `xml:"errors"`
		Error   errorBody `xml:"error"`
	}{Error: errorBody{Code: p.Code, Message: p.Message}}
}

// writePayload serializes p in the requested format. An unrecognized
// format falls back to JSON; format validation for error paths lives in
// writeFailure instead.
func writePayload(w http.ResponseWriter, format string, status int, p Payload) {
	switch format {
	case FormatXML:
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprint(w, xml.Header)
		_ = xml.NewEncoder(w).Encode(p.xmlBody())
	default:
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(p.jsonBody())
	}
}

// Package open311 holds the GeoReport v2 wire schema shared by the
// taxonomy, request, and api packages, plus the error taxonomy surfaced
// to clients.
package open311

// Status is the protocol's binary request state.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// ServiceRequest is one reported issue as it appears on the wire.
// MediaURL and ExtendedAttributes are omitted entirely when absent, per
// the protocol; they are never serialized as null.
type ServiceRequest struct {
	ID                 string              `json:"service_request_id" xml:"service_request_id"`
	Title              string              `json:"title" xml:"title"`
	Description        string              `json:"description" xml:"description"`
	Lat                float64             `json:"lat" xml:"lat"`
	Long               float64             `json:"long" xml:"long"`
	Status             Status              `json:"status" xml:"status"`
	ServiceCode        *string             `json:"service_code" xml:"service_code"`
	ServiceName        string              `json:"service_name" xml:"service_name"`
	RequestedDatetime  string              `json:"requested_datetime" xml:"requested_datetime"`
	UpdatedDatetime    string              `json:"updated_datetime" xml:"updated_datetime"`
	Address            string              `json:"address,omitempty" xml:"address,omitempty"`
	MediaURL           string              `json:"media_url,omitempty" xml:"media_url,omitempty"`
	ExtendedAttributes *ExtendedAttributes `json:"extended_attributes,omitempty" xml:"extended_attributes,omitempty"`
}

// ExtendedAttributes carries the non-standard fields gated by requester
// capability. The author tier is only present for role-capable callers.
type ExtendedAttributes struct {
	NID          int64  `json:"nid" xml:"nid"`
	CategoryHex  string `json:"category_hex,omitempty" xml:"category_hex,omitempty"`
	CategoryIcon string `json:"category_icon,omitempty" xml:"category_icon,omitempty"`
	StatusHex    string `json:"status_hex,omitempty" xml:"status_hex,omitempty"`
	StatusIcon   string `json:"status_icon,omitempty" xml:"status_icon,omitempty"`
	Author       string `json:"author,omitempty" xml:"author,omitempty"`
}

// Service is one reportable category from the service discovery catalog.
type Service struct {
	ServiceCode string `json:"service_code" xml:"service_code"`
	ServiceName string `json:"service_name" xml:"service_name"`
	Description string `json:"description" xml:"description"`
	Metadata    bool   `json:"metadata" xml:"metadata"`
	Type        string `json:"type" xml:"type"`
	Keywords    string `json:"keywords" xml:"keywords"`
}

// ServiceType is the only request type this server exposes.
const ServiceType = "realtime"

// CreateRequest is the submitted payload for a new service request.
type CreateRequest struct {
	ServiceCode   string `json:"service_code" xml:"service_code"`
	Description   string `json:"description" xml:"description"`
	Email         string `json:"email" xml:"email"`
	Lat           string `json:"lat" xml:"lat"`
	Long          string `json:"long" xml:"long"`
	AddressString string `json:"address_string" xml:"address_string"`
	MediaURL      string `json:"media_url" xml:"media_url"`
}

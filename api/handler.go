package api

import (
	"encoding/json"
	"encoding/xml"
	"net/http"
	"strings"

	"georeport/auth"
	"georeport/open311"
	"georeport/request"
	"georeport/taxonomy"

	"github.com/gorilla/mux"
)

// Handler binds the GeoReport v2 routes to the request and taxonomy
// services. It carries no per-request state.
type Handler struct {
	requests *request.Service
	catalog  *taxonomy.Resolver
	verifier *auth.Verifier
	metrics  *Metrics
}

func NewHandler(requests *request.Service, catalog *taxonomy.Resolver, verifier *auth.Verifier, metrics *Metrics) *Handler {
	return &Handler{requests: requests, catalog: catalog, verifier: verifier, metrics: metrics}
}

// Routes assembles the router. The format suffix is part of the path,
// so requests.json and requests.xml share one handler that branches on
// the captured format variable.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware())
	if h.metrics != nil {
		r.Use(h.metrics.Middleware())
		r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)
	}

	v2 := r.PathPrefix("/georeport/v2").Subrouter()
	v2.HandleFunc("/requests.{format}", h.listRequests).Methods(http.MethodGet)
	v2.HandleFunc("/requests.{format}", h.createRequest).Methods(http.MethodPost)
	v2.HandleFunc("/requests/{id}", h.getRequest).Methods(http.MethodGet)
	v2.HandleFunc("/services.{format}", h.listServices).Methods(http.MethodGet)
	return r
}

func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]
	params := request.ParamsFromValues(r.URL.Query())

	tier := auth.TierFor(params.Extensions, h.verifier.Capabilities(bearerToken(r)))
	requests, err := h.requests.List(r.Context(), params, tier)
	if err != nil {
		writeFailure(w, format, err)
		return
	}
	writePayload(w, format, http.StatusOK, RequestListPayload{Requests: requests})
}

// getRequest serves a single-id lookup. The id segment may carry a
// format suffix which selects the serialization and is stripped before
// filtering; without one the response defaults to JSON.
func (h *Handler) getRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	format := FormatJSON
	if strings.HasSuffix(id, ".xml") {
		format = FormatXML
	}

	params := request.ParamsFromValues(r.URL.Query())
	params.ID = request.StripFormatSuffix(id)

	tier := auth.TierFor(params.Extensions, h.verifier.Capabilities(bearerToken(r)))
	requests, err := h.requests.List(r.Context(), params, tier)
	if err != nil {
		writeFailure(w, format, err)
		return
	}
	writePayload(w, format, http.StatusOK, RequestListPayload{Requests: requests})
}

func (h *Handler) createRequest(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]

	payload, err := decodeCreate(r)
	if err != nil {
		writeFailure(w, format, err)
		return
	}

	id, err := h.requests.Create(r.Context(), payload)
	if err != nil {
		writeFailure(w, format, err)
		return
	}
	writePayload(w, format, http.StatusCreated, AckPayload{ID: id})
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]

	services, err := h.catalog.Catalog(r.Context(), "", 0)
	if err != nil {
		writeFailure(w, format, err)
		return
	}
	writePayload(w, format, http.StatusOK, ServiceListPayload{Services: services})
}

// decodeCreate accepts the submission as a JSON or XML body or as form
// fields, matching the content type.
func decodeCreate(r *http.Request) (open311.CreateRequest, error) {
	contentType := r.Header.Get("Content-Type")

	switch {
	case strings.HasPrefix(contentType, "application/json"):
		var payload open311.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return open311.CreateRequest{}, open311.Invalid("malformed request body")
		}
		return payload, nil

	case strings.HasPrefix(contentType, "application/xml"), strings.HasPrefix(contentType, "text/xml"):
		var payload open311.CreateRequest
		if err := xml.NewDecoder(r.Body).Decode(&payload); err != nil {
			return open311.CreateRequest{}, open311.Invalid("malformed request body")
		}
		return payload, nil

	default:
		if err := r.ParseForm(); err != nil {
			return open311.CreateRequest{}, open311.Invalid("malformed form body")
		}
		return open311.CreateRequest{
			ServiceCode:   r.PostFormValue("service_code"),
			Description:   r.PostFormValue("description"),
			Email:         r.PostFormValue("email"),
			Lat:           r.PostFormValue("lat"),
			Long:          r.PostFormValue("long"),
			AddressString: r.PostFormValue("address_string"),
			MediaURL:      r.PostFormValue("media_url"),
		}, nil
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

package api

import (
	"fmt"
	"log"
	"net/http"

	"georeport/open311"
)

// writeFailure is the only place error responses are produced. The
// status travels inside the error value; anything untyped becomes a
// 500. Known formats get the structured error envelope, anything else a
// plain-text message.
func writeFailure(w http.ResponseWriter, format string, err error) {
	status := open311.StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Printf("api: request failed: %v", err)
	}

	switch format {
	case FormatJSON, FormatXML:
		writePayload(w, format, status, ErrorPayload{Code: status, Message: err.Error()})
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintln(w, err.Error())
	}
}

package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxBodyBytes caps a request body. Analysis payloads with history are the
// largest legitimate bodies and stay well under this.
const maxBodyBytes = 10 << 20

// ParseJSON decodes the request body into dest. MaxBytesReader needs w so an
// oversized body still gets a 413. Unknown fields are not rejected here:
// analysis payloads carry free-form maps the services validate themselves.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

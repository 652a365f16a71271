package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hongminglow/blog-be/internal/apperr"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. An empty body leaves dst
// untouched. Anything after the first JSON value is rejected. With strict set,
// fields dst does not declare are rejected too.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.BadRequest(apperr.CodeInvalidParams).Wrap(err)
	}
	if dec.More() {
		return apperr.BadRequest(apperr.CodeInvalidParams).Wrap(errors.New("trailing data after JSON body"))
	}
	return nil
}

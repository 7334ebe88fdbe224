// Package bind decodes an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/estoque/config"
)

// maxBodyBytes returns the configured request body size limit (default 1 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || n <= 0 {
		return 1 << 20
	}
	return n
}

// ErrMalformed wraps every decode failure.
var ErrMalformed = errors.New("invalid JSON")

// JSON decodes r.Body into dest. An empty body leaves dest untouched so the
// caller's validation reports the missing fields. The body is capped at
// MAX_BODY_BYTES.
func JSON(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return nil
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body too large (max %d bytes)", ErrMalformed, maxErr.Limit)
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

package requests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Numeric keeps the client's raw text for a number so validation, not the
// JSON decoder, decides whether it is acceptable. It accepts a JSON number,
// a numeric string or null; any other token is kept verbatim and fails the
// numeric rule later.
type Numeric string

func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Numeric(strings.TrimSpace(s))
	default:
		*n = Numeric(b)
	}
	return nil
}

// Float parses n. NaN and infinities are errors.
func (n Numeric) Float() (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	if err != nil {
		return 0, fmt.Errorf("requests: %q is not a number", string(n))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("requests: %q is not finite", string(n))
	}
	return f, nil
}

// Int parses n as a whole number.
func (n Numeric) Int() (int, error) {
	f, err := n.Float()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("requests: %q is not an integer", string(n))
	}
	return int(f), nil
}

// NumericOf formats f the way a client would send it.
func NumericOf(f float64) Numeric {
	return Numeric(strconv.FormatFloat(f, 'f', -1, 64))
}

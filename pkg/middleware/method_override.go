package middleware

import (
	"net/http"
	"strings"
)

var overrideHeaders = []string{"X-HTTP-Method", "X-HTTP-Method-Override", "X-Method-Override"}

var overridable = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// MethodOverride lets clients that can only POST reach PUT/PATCH/DELETE
// routes, through one of the override headers or a _method query
// parameter. Only POST requests are rewritten.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if m := overrideMethod(r); m != "" {
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

func overrideMethod(r *http.Request) string {
	for _, h := range overrideHeaders {
		if m := strings.ToUpper(strings.TrimSpace(r.Header.Get(h))); overridable[m] {
			return m
		}
	}
	if m := strings.ToUpper(r.URL.Query().Get("_method")); overridable[m] {
		return m
	}
	return ""
}

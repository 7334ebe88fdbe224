package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

// Vars holds values captured from earlier responses.
type Vars map[string]string

func (v Vars) expand(s string) string {
	for name, value := range v {
		s = strings.ReplaceAll(s, "{{"+name+"}}", value)
	}
	return s
}

// Run executes one scenario file against handler.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}
	t.Run(s.Name, func(t *testing.T) {
		RunScenario(t, handler, s, Vars{})
	})
}

// RunDir executes every scenario in dir in file-name order. Captures flow
// from one scenario to the next.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Errorf("%v", err)
	}

	vars := Vars{}
	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			RunScenario(t, handler, s, vars)
		})
	}
}

// RunScenario fires s against handler, asserts the outcome and stores its
// captures in vars.
func RunScenario(t *testing.T, handler http.Handler, s *Scenario, vars Vars) {
	t.Helper()

	body, err := s.body()
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = strings.NewReader(vars.expand(string(body)))
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), vars.expand(s.RequestURL), reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, vars.expand(v))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)

	expected, err := s.expected()
	if err != nil {
		t.Errorf("[%s] read expected response: %v", s.Name, err)
	} else if expected != nil {
		AssertJSONBody(t, s, []byte(vars.expand(string(expected))), rec.Body.Bytes())
	}

	for name, path := range s.Capture {
		value, err := extract(rec.Body.Bytes(), path)
		if err != nil {
			t.Errorf("[%s] capture %s: %v", s.Name, name, err)
			continue
		}
		vars[name] = value
	}
}

// extract walks a dotted path ("produto.id", "0.nome") through a JSON body
// and returns the leaf as text.
func extract(body []byte, path string) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var cur interface{}
	if err := dec.Decode(&cur); err != nil {
		return "", err
	}

	for _, key := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			next, ok := node[key]
			if !ok {
				return "", fmt.Errorf("key %q not found", key)
			}
			cur = next
		case []interface{}:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return "", fmt.Errorf("index %q out of range", key)
			}
			cur = node[i]
		default:
			return "", fmt.Errorf("cannot descend into %T at %q", cur, key)
		}
	}

	switch leaf := cur.(type) {
	case string:
		return leaf, nil
	case json.Number:
		return leaf.String(), nil
	default:
		out, err := json.Marshal(leaf)
		return string(out), err
	}
}

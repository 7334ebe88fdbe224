// Package testkit drives HTTP API tests from JSON scenario files.
//
// Each scenario describes one request and what must come back:
//
//	{
//	  "name": "01 cria produto",
//	  "requestMethod": "POST",
//	  "requestUrl": "/api/produtos",
//	  "request": {"nome": "Caneta", "preco": 2.5},
//	  "expectedCode": 201,
//	  "response": {"message": "Produto criado com sucesso", "produto": {"id": 1, ...}},
//	  "ignoreFields": ["createdAt", "updatedAt"],
//	  "capture": {"produto_id": "produto.id"}
//	}
//
// RunDir runs every scenario of a directory in file-name order against one
// handler, so later files can use {{produto_id}} in their URL and bodies.
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Scenario describes a single API test case.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	Request         json.RawMessage   `json:"request"`
	RequestFileName string            `json:"requestFileName"` // relative to the scenario file
	RawRequest      *string           `json:"rawRequest"`      // sent verbatim, for malformed bodies
	Headers         map[string]string `json:"headers"`

	ExpectedCode     int             `json:"expectedCode"`
	Response         json.RawMessage `json:"response"`
	ResponseFileName string          `json:"responseFileName"`
	// IgnoreFields are object keys dropped at any depth before comparing.
	IgnoreFields []string `json:"ignoreFields"`

	// Capture maps a variable name to a dotted path into the response body.
	Capture map[string]string `json:"capture"`

	dir string
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	return nil
}

// body returns the request body, or nil when the scenario sends none.
func (s *Scenario) body() ([]byte, error) {
	switch {
	case s.RawRequest != nil:
		return []byte(*s.RawRequest), nil
	case len(s.Request) > 0:
		return s.Request, nil
	case s.RequestFileName != "":
		return os.ReadFile(s.resolve(s.RequestFileName))
	}
	return nil, nil
}

// expected returns the expected response body, or nil when unchecked.
func (s *Scenario) expected() ([]byte, error) {
	switch {
	case len(s.Response) > 0:
		return s.Response, nil
	case s.ResponseFileName != "":
		return os.ReadFile(s.resolve(s.ResponseFileName))
	}
	return nil, nil
}

func (s *Scenario) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// LoadAllFromDir loads every *.json file directly in dir, sorted by name.
// Files whose name ends in _req.json or _res.json are body files, not
// scenarios.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}
	sort.Strings(paths)

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range paths {
		if isBodyFile(path) {
			continue
		}
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}

func isBodyFile(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range []string{"_req.json", "_res.json"} {
		if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}

// Package validate provides struct-tag validation.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must not be zero/empty (whitespace-only strings are empty)
//	nullable            if empty, skip all remaining rules for this field
//	email               local@domain.tld with no whitespace
//	alpha_dash          letters, digits, hyphens, underscores
//	numeric             finite number (NaN and ±Inf are rejected)
//	integer             whole number
//	min=N               string: min trimmed length | number: min value
//	max=N               string: max length | number: max value
//	gt=N                number > N
//	gte=N               number >= N
//	lt=N                number < N
//	lte=N               number <= N
//	between=min,max     number or string length between min and max (inclusive)
//	in=a,b,c            value must be one of the listed items
//	regex=pattern       value must match the regex (avoid commas in pattern)
//	confirmed[=field]   value must equal the sibling whose json name is field,
//	                    or <name>_confirmation when no field is given
//
// String-kinded fields are parsed as numbers by the numeric rules, so a
// request type can keep the raw client text and still be range-checked.
//
// Example:
//
//	type Input struct {
//	    Nome  string `json:"nome"  validate:"required"`
//	    Preco string `json:"preco" validate:"required,numeric,gt=0"`
//	}
//
// A struct can override the default message of any rule by implementing
// Messager. Keys are "<field>.<rule>", e.g. "preco.gt".
package validate

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Violation is one failed rule.
type Violation struct {
	Field   string // json name of the field
	Rule    string // "<field>.<rule>"
	Message string
}

func (v *Violation) Error() string { return v.Message }

// Messager supplies custom messages keyed by Violation.Rule.
type Messager interface {
	Messages() map[string]string
}

// ─── Public API ───────────────────────────────────────────────────────────────

// First walks the fields of v in declaration order and returns the first
// violated rule, or nil when v passes.
func First(v interface{}) *Violation {
	var first *Violation
	walk(v, func(viol *Violation) bool {
		first = viol
		return false
	})
	return first
}

// Struct validates every tagged field of v and returns fieldName → message.
// An empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	walk(v, func(viol *Violation) bool {
		errs[viol.Field] = viol.Message
		return true
	})
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// walk reports at most one violation per field; it stops when report
// returns false.
func walk(v interface{}, report func(*Violation) bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}

	var custom map[string]string
	if m, ok := v.(Messager); ok {
		custom = m.Messages()
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		value := rv.Field(i)
		name := jsonFieldName(field)
		rules := splitRules(tag)

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			msg := applyRule(rule, name, value, rv)
			if msg == "" {
				continue
			}

			key, _, _ := strings.Cut(rule, "=")
			viol := &Violation{Field: name, Rule: name + "." + key, Message: msg}
			if m, ok := custom[viol.Rule]; ok {
				viol.Message = m
			}
			if !report(viol) {
				return
			}
			break
		}
	}
}

// ─── Core dispatcher ──────────────────────────────────────────────────────────

// applyRule returns the default message when v breaks rule, "" otherwise.
func applyRule(rule, field string, v reflect.Value, parent reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	// ── Presence ──────────────────────────────────────────────────────
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("O campo %s é obrigatório.", field)
		}

	// ── Format ────────────────────────────────────────────────────────
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("O campo %s deve ser um e-mail válido.", field)
		}
	case "alpha_dash":
		for _, c := range raw {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
				return fmt.Sprintf("O campo %s deve conter apenas letras, números, hífens e sublinhados.", field)
			}
		}
	case "numeric":
		if _, ok := number(v); !ok {
			return fmt.Sprintf("O campo %s deve ser um número.", field)
		}
	case "integer":
		f, ok := number(v)
		if !ok || f != math.Trunc(f) {
			return fmt.Sprintf("O campo %s deve ser um número inteiro.", field)
		}

	// ── Size / range ──────────────────────────────────────────────────
	case "min":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) < n {
				return fmt.Sprintf("O campo %s deve ser no mínimo %s.", field, param)
			}
		} else if float64(runeLen(strings.TrimSpace(raw))) < n {
			return fmt.Sprintf("O campo %s deve ter pelo menos %s caracteres.", field, param)
		}
	case "max":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) > n {
				return fmt.Sprintf("O campo %s deve ser no máximo %s.", field, param)
			}
		} else if float64(runeLen(raw)) > n {
			return fmt.Sprintf("O campo %s deve ter no máximo %s caracteres.", field, param)
		}
	case "gt":
		if !(toFloat(v) > mustParseFloat(param)) {
			return fmt.Sprintf("O campo %s deve ser maior que %s.", field, param)
		}
	case "gte":
		if !(toFloat(v) >= mustParseFloat(param)) {
			return fmt.Sprintf("O campo %s deve ser maior ou igual a %s.", field, param)
		}
	case "lt":
		if !(toFloat(v) < mustParseFloat(param)) {
			return fmt.Sprintf("O campo %s deve ser menor que %s.", field, param)
		}
	case "lte":
		if !(toFloat(v) <= mustParseFloat(param)) {
			return fmt.Sprintf("O campo %s deve ser menor ou igual a %s.", field, param)
		}
	case "between":
		parts := strings.SplitN(param, ",", 2)
		if len(parts) == 2 {
			lo, hi := mustParseFloat(parts[0]), mustParseFloat(parts[1])
			if isNumericKind(v) {
				f := toFloat(v)
				if f < lo || f > hi {
					return fmt.Sprintf("O campo %s deve estar entre %s e %s.", field, parts[0], parts[1])
				}
			} else {
				l := float64(runeLen(raw))
				if l < lo || l > hi {
					return fmt.Sprintf("O campo %s deve ter entre %s e %s caracteres.", field, parts[0], parts[1])
				}
			}
		}

	// ── Inclusion ─────────────────────────────────────────────────────
	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("O valor selecionado para %s é inválido.", field)

	// ── Pattern ───────────────────────────────────────────────────────
	case "regex":
		re, err := regexp.Compile(param)
		if err != nil {
			return fmt.Sprintf("O campo %s tem um padrão de validação inválido.", field)
		}
		if !re.MatchString(raw) {
			return fmt.Sprintf("O formato do campo %s é inválido.", field)
		}

	// ── Cross-field ───────────────────────────────────────────────────
	case "confirmed":
		other := param
		if other == "" {
			other = field + "_confirmation"
		}
		sibling, ok := findSibling(parent, other)
		if !ok || fmt.Sprintf("%v", sibling.Interface()) != raw {
			return fmt.Sprintf("A confirmação de %s não confere.", strings.TrimSuffix(other, "_confirmation"))
		}
	}

	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false // false is a value
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// number reads v as a finite float. Strings are trimmed and parsed.
func number(v reflect.Value) (float64, bool) {
	var f float64
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f = float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		f = v.Float()
	case reflect.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toFloat is number without the ok flag; unparseable input reads as NaN so
// every comparison against it fails.
func toFloat(v reflect.Value) float64 {
	if f, ok := number(v); ok {
		return f
	}
	return math.NaN()
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func runeLen(s string) int { return len([]rune(s)) }

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

// splitRules splits the validate tag by comma while keeping multi-value
// rule parameters (in=, between=) intact.
// e.g. "required,in=admin,user,mod,max=100" → ["required","in=admin,user,mod","max=100"]
func splitRules(tag string) []string {
	var rules []string
	var current strings.Builder
	inParam := false

	multiValuePrefixes := []string{"in=", "between="}

	for i := 0; i < len(tag); i++ {
		ch := tag[i]
		if ch != ',' {
			current.WriteByte(ch)
			if !inParam {
				for _, pfx := range multiValuePrefixes {
					if current.String() == pfx {
						inParam = true
						break
					}
				}
			}
			continue
		}

		if inParam && !looksLikeNewRule(tag[i+1:]) {
			current.WriteByte(ch)
			continue
		}
		rules = append(rules, current.String())
		current.Reset()
		inParam = false
	}
	if current.Len() > 0 {
		rules = append(rules, current.String())
	}
	return rules
}

// looksLikeNewRule reports whether s starts with a rule keyword, meaning the
// preceding comma ends a multi-value parameter.
func looksLikeNewRule(s string) bool {
	known := []string{
		"required", "nullable", "email", "alpha_dash", "numeric", "integer",
		"confirmed", "regex=", "min=", "max=", "gt=", "gte=", "lt=", "lte=",
		"in=", "between=",
	}
	for _, k := range known {
		if strings.HasPrefix(s, k) {
			return true
		}
	}
	return false
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}

func findSibling(parent reflect.Value, jsonName string) (reflect.Value, bool) {
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if jsonFieldName(rt.Field(i)) == jsonName {
			return parent.Field(i), true
		}
	}
	return reflect.Value{}, false
}

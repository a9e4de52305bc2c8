package template

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Variables maps template identifiers to values. Supported values are
// strings, booleans, integers, floats and nil; anything else is formatted
// with fmt.
type Variables map[string]any

var (
	exprPattern    = regexp.MustCompile(`(?s)\{\{(.*?)\}\}`)
	identPattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
	ternaryPattern = regexp.MustCompile(`(?s)^(!?)\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\?\s*('(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"|[A-Za-z_][A-Za-z0-9_.]*)\s*:\s*('(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"|[A-Za-z_][A-Za-z0-9_.]*)$`)
)

// UnresolvedError lists the identifiers RenderStrict could not resolve, in
// order of first appearance.
type UnresolvedError struct {
	Names []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved template variables: %s", strings.Join(e.Names, ", "))
}

// Render expands every {{...}} expression in tmpl against vars. Missing
// variables and expressions it cannot parse render as "".
func Render(tmpl string, vars Variables) string {
	out, _ := render(tmpl, vars)
	return out
}

// RenderStrict renders like Render but returns an *UnresolvedError when any
// identifier, including a ternary condition, is missing from vars or an
// expression cannot be parsed. The partially rendered text is returned with
// the error.
func RenderStrict(tmpl string, vars Variables) (string, error) {
	out, missing := render(tmpl, vars)
	if len(missing) > 0 {
		return out, &UnresolvedError{Names: missing}
	}
	return out, nil
}

func render(tmpl string, vars Variables) (string, []string) {
	var missing []string
	seen := map[string]bool{}
	miss := func(name string) {
		if !seen[name] {
			seen[name] = true
			missing = append(missing, name)
		}
	}

	out := exprPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])
		return evaluate(expr, vars, miss)
	})
	return out, missing
}

func evaluate(expr string, vars Variables, miss func(string)) string {
	if identPattern.MatchString(expr) {
		v, ok := vars[expr]
		if !ok {
			miss(expr)
			return ""
		}
		return Stringify(v)
	}

	m := ternaryPattern.FindStringSubmatch(expr)
	if m == nil {
		miss(expr)
		return ""
	}

	cond, ok := vars[m[2]]
	if !ok {
		miss(m[2])
	}
	truth := truthy(cond)
	if m[1] == "!" {
		truth = !truth
	}
	if truth {
		return branch(m[3], vars, miss)
	}
	return branch(m[4], vars, miss)
}

// branch returns a quoted literal with its escapes removed, or the value of
// a variable reference.
func branch(b string, vars Variables, miss func(string)) string {
	if q := b[0]; q == '\'' || q == '"' {
		return unescape(b[1 : len(b)-1])
	}
	v, ok := vars[b]
	if !ok {
		miss(b)
		return ""
	}
	return Stringify(v)
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Stringify returns the text a value renders as: strings verbatim, nil as
// "", numbers in their shortest form and booleans as "true"/"false".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// truthy treats false, zero numbers, "", nil and missing values as false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case int32:
		return x != 0
	case uint:
		return x != 0
	case uint64:
		return x != 0
	case float64:
		return x != 0
	case float32:
		return x != 0
	case *string:
		return x != nil && *x != ""
	default:
		return true
	}
}

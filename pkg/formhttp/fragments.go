package formhttp

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// Field describes how a form input is rendered on the page.
type Field struct {
	Key   string
	Label string
	Type  string
}

// FieldsFromKeys derives input descriptions from rule keys. Keys mentioning
// "password" become password inputs and keys mentioning "email" become email
// inputs.
func FieldsFromKeys(keys []string) []Field {
	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		typ := "text"
		switch lower := strings.ToLower(k); {
		case strings.Contains(lower, "password"):
			typ = "password"
		case strings.Contains(lower, "email"):
			typ = "email"
		}
		fields = append(fields, Field{Key: k, Label: k, Type: typ})
	}
	return fields
}

// ErrorsID returns the DOM id of the error list for key.
func ErrorsID(key string) string {
	var b strings.Builder
	b.WriteString("errors-")
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// StatusID is the DOM id of the submit status element.
const StatusID = "form-status"

// pageSignals seeds the client with the field values and the validation
// signals under signalNamespace.
func pageSignals(st State, fields []Field) (string, error) {
	signals := make(map[string]any, len(fields)+1)
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		signals[f.Key] = st.Values.Text(f.Key)
		keys = append(keys, f.Key)
	}
	signals[signalNamespace] = formSignals(st.Errors, st.Valid, keys)
	return templ.JSONString(signals)
}

// action builds a datastar action expression such as @put("/x"). The path is
// written as a JSON string literal, so quotes in a field key stay inside it.
func action(method, path string) string {
	lit, _ := json.Marshal(path)
	return "@" + method + "(" + string(lit) + ")"
}

func fieldPath(base, key string) string {
	return base + "/fields/" + url.PathEscape(key)
}

package rulefile

import (
	"fmt"
	"strconv"
)

// Params holds the free-form parameters of a rule entry.
type Params map[string]any

// Int returns the integer parameter name.
func (p Params) Int(name string) (int, error) {
	raw, ok := p[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingParam, name)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidParam, name, raw)
}

// IntOr returns the integer parameter name, or def when it is absent.
func (p Params) IntOr(name string, def int) (int, error) {
	if _, ok := p[name]; !ok {
		return def, nil
	}
	return p.Int(name)
}

// Text returns the string parameter name.
func (p Params) Text(name string) (string, error) {
	raw, ok := p[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, name)
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s must be a non-empty string", ErrInvalidParam, name)
	}
	return s, nil
}

// Strings returns the parameter name as a list of strings. A scalar string is
// accepted as a single element list.
func (p Params) Strings(name string) ([]string, error) {
	raw, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingParam, name)
	}
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s must contain only strings", ErrInvalidParam, name)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s must be a list of strings", ErrInvalidParam, name)
}

// Bool returns the boolean parameter name, or def when it is absent.
func (p Params) Bool(name string, def bool) (bool, error) {
	raw, ok := p[name]
	if !ok {
		return def, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a boolean", ErrInvalidParam, name)
	}
	return b, nil
}

package buffer

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Set is the content of all three buffers. It is a plain value: copies
// never alias each other.
type Set struct {
	Markup string
	Style  string
	Script string
}

// Get returns the content for n ("" for an unknown name).
func (s Set) Get(n Name) string {
	switch n {
	case Markup:
		return s.Markup
	case Style:
		return s.Style
	case Script:
		return s.Script
	default:
		return ""
	}
}

// With returns a copy of s with n replaced by content.
func (s Set) With(n Name, content string) Set {
	switch n {
	case Markup:
		s.Markup = content
	case Style:
		s.Style = content
	case Script:
		s.Script = content
	}
	return s
}

// IsEmpty reports whether every buffer is the empty string.
func (s Set) IsEmpty() bool { return s == Set{} }

// MarshalJSON writes the snapshot form: one string per buffer key, all
// three keys always present.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		Markup.Key(): s.Markup,
		Style.Key():  s.Style,
		Script.Key(): s.Script,
	})
}

var errMalformed = errors.New("malformed snapshot")

// UnmarshalJSON reads the snapshot form. Missing keys read as "", unknown
// keys are ignored, and a present key holding anything but a string makes
// the whole snapshot invalid.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: not an object", errMalformed)
	}
	var out Set
	for _, n := range Names {
		v, ok := raw[n.Key()]
		if !ok {
			continue
		}
		var str string
		if err := json.Unmarshal(v, &str); err != nil {
			return fmt.Errorf("%w: key %s: %v", errMalformed, n.Key(), err)
		}
		out = out.With(n, str)
	}
	*s = out
	return nil
}

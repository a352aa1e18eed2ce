package buffer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBuffer is returned for a name outside Markup/Style/Script.
var ErrUnknownBuffer = errors.New("unknown buffer")

// Name identifies one of the three editable buffers.
type Name int

const (
	Markup Name = iota
	Style
	Script
)

// Names lists every buffer in tab order.
var Names = []Name{Markup, Style, Script}

// Valid reports whether n is one of the three fixed buffers.
func (n Name) Valid() bool { return n >= Markup && n <= Script }

// Key is the JSON key used in the persisted snapshot.
func (n Name) Key() string {
	switch n {
	case Markup:
		return "HTML"
	case Style:
		return "CSS"
	case Script:
		return "Javascript"
	default:
		return ""
	}
}

// FileName is the label shown on the buffer's tab.
func (n Name) FileName() string {
	switch n {
	case Markup:
		return "index.html"
	case Style:
		return "style.css"
	case Script:
		return "script.js"
	default:
		return ""
	}
}

// Language is the editor mode for the buffer.
func (n Name) Language() string {
	switch n {
	case Markup:
		return "html"
	case Style:
		return "css"
	case Script:
		return "javascript"
	default:
		return ""
	}
}

func (n Name) String() string {
	switch n {
	case Markup:
		return "markup"
	case Style:
		return "style"
	case Script:
		return "script"
	default:
		return fmt.Sprintf("buffer(%d)", int(n))
	}
}

// Next returns the buffer after n, wrapping around.
func (n Name) Next() Name { return Names[(int(n)+1)%len(Names)] }

// Prev returns the buffer before n, wrapping around.
func (n Name) Prev() Name { return Names[(int(n)+len(Names)-1)%len(Names)] }

// ParseName accepts the CLI spellings of a buffer: its name, its snapshot
// key, its file label or its language (case-insensitive).
func ParseName(s string) (Name, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, n := range Names {
		switch v {
		case n.String(), strings.ToLower(n.Key()), n.FileName(), n.Language():
			return n, nil
		}
	}
	switch v {
	case "js":
		return Script, nil
	case "htm":
		return Markup, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBuffer, s)
}
